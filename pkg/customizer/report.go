package customizer

import (
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
)

type Outcome uint8

const (
	APPLIED Outcome = iota
	GEOCODE_MISS
	GEOCODE_ERROR
	NO_EDGE
	INVALID
)

func (o Outcome) String() string {
	switch o {
	case APPLIED:
		return "applied"
	case GEOCODE_MISS:
		return "geocode_miss"
	case GEOCODE_ERROR:
		return "geocode_error"
	case NO_EDGE:
		return "no_edge"
	case INVALID:
		return "invalid"
	default:
		return "unknown"
	}
}

type Pass uint8

const (
	TRAFFIC_PASS Pass = iota
	INCIDENT_PASS
)

func (p Pass) String() string {
	if p == TRAFFIC_PASS {
		return "traffic"
	}
	return "incident"
}

// RecordResult what happened to one traffic or incident record. Edges lists the edges whose
// custom_weight was updated, empty unless Outcome is APPLIED.
type RecordResult struct {
	Pass    Pass
	Index   int
	Outcome Outcome
	Edges   []da.EdgeKey
	Err     error
}

// AdjustmentReport partial-application report of one weighting pass. When Aborted is set, records after
// the failing fetch were not processed but every edge listed in Results keeps its new weight.
type AdjustmentReport struct {
	Results  []RecordResult
	Aborted  bool
	AbortErr error
}

func (r *AdjustmentReport) add(res RecordResult) {
	r.Results = append(r.Results, res)
}

func (r *AdjustmentReport) abort(err error) {
	r.Aborted = true
	r.AbortErr = err
}

// ResultsOf returns the results of one pass in record order.
func (r *AdjustmentReport) ResultsOf(p Pass) []RecordResult {
	out := make([]RecordResult, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Pass == p {
			out = append(out, res)
		}
	}
	return out
}

func (r *AdjustmentReport) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// UpdatedEdges every edge key updated by the pass, in update order. An edge appears once per update.
func (r *AdjustmentReport) UpdatedEdges() []da.EdgeKey {
	edges := make([]da.EdgeKey, 0)
	for _, res := range r.Results {
		edges = append(edges, res.Edges...)
	}
	return edges
}
