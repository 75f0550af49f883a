package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "navigatorx_traffic"

// Metric prometheus collectors of the engine.
type Metric struct {
	weightingRecords   *prometheus.CounterVec
	routeQueries       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	responseStatusCode *prometheus.CounterVec
}

func NewMetric(reg prometheus.Registerer) *Metric {
	m := &Metric{
		weightingRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weighting_records_total",
			Help:      "The total number of traffic and incident records processed by the weighting pass",
		}, []string{"pass", "outcome"}),
		routeQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_queries_total",
			Help:      "The total number of route queries",
		}, []string{"result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The duration of request",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "path"}),
		responseStatusCode: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_status_code",
			Help:      "The status code of http response",
		}, []string{"status", "method", "path"}),
	}
	reg.MustRegister(m.weightingRecords, m.routeQueries, m.httpDuration, m.responseStatusCode)
	return m
}

// ObserveWeightingRecord counts one processed record. Nil receiver is a no-op.
func (m *Metric) ObserveWeightingRecord(pass, outcome string) {
	if m == nil {
		return
	}
	m.weightingRecords.With(prometheus.Labels{"pass": pass, "outcome": outcome}).Inc()
}

func (m *Metric) ObserveRouteQuery(result string) {
	if m == nil {
		return
	}
	m.routeQueries.With(prometheus.Labels{"result": result}).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (m *Metric) PromeHttpMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		rw := newResponseWriter(w)
		start := time.Now()

		next.ServeHTTP(rw, r)

		m.httpDuration.With(prometheus.Labels{"method": r.Method, "path": path}).Observe(time.Since(start).Seconds())
		m.responseStatusCode.With(prometheus.Labels{
			"status": strconv.Itoa(rw.statusCode), "method": r.Method, "path": path,
		}).Inc()
	})
}
