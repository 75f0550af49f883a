package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveWeightingRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetric(reg)

	m.ObserveWeightingRecord("traffic", "applied")
	m.ObserveWeightingRecord("traffic", "applied")
	m.ObserveWeightingRecord("incident", "geocode_miss")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.weightingRecords.WithLabelValues("traffic", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.weightingRecords.WithLabelValues("incident", "geocode_miss")))

	var nilMetric *Metric
	assert.NotPanics(t, func() { nilMetric.ObserveWeightingRecord("traffic", "applied") })
	assert.NotPanics(t, func() { nilMetric.ObserveRouteQuery("ok") })
}

func TestPromeHttpMiddlewareRecordsStatus(t *testing.T) {
	m := NewMetric(prometheus.NewRegistry())
	h := m.PromeHttpMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.responseStatusCode.WithLabelValues("418", "GET", "/healthz")))
}
