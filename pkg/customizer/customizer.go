package customizer

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/concurrent"
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"go.uber.org/zap"
)

var ErrRecordSource = errors.New("traffic/incident record source failure")

// WeightAdjuster translates traffic records and incident records into custom_weight penalties on the
// road graph.
type WeightAdjuster struct {
	logger         *zap.Logger
	geocoder       Geocoder
	source         RecordSource
	metric         Metric
	trafficPenalty float64
	policy         PenaltyPolicy
	geocodeTimeout time.Duration
	geocodeWorkers int
}

type Option func(*WeightAdjuster)

func WithTrafficPenalty(penalty float64) Option {
	return func(wa *WeightAdjuster) {
		wa.trafficPenalty = penalty
	}
}

func WithPolicy(policy PenaltyPolicy) Option {
	return func(wa *WeightAdjuster) {
		wa.policy = policy
	}
}

func WithGeocodeTimeout(timeout time.Duration) Option {
	return func(wa *WeightAdjuster) {
		wa.geocodeTimeout = timeout
	}
}

// WithGeocodeWorkers prefetches the geocodes of a pass with n goroutines.
func WithGeocodeWorkers(n int) Option {
	return func(wa *WeightAdjuster) {
		wa.geocodeWorkers = n
	}
}

func WithMetric(m Metric) Option {
	return func(wa *WeightAdjuster) {
		wa.metric = m
	}
}

func NewWeightAdjuster(geocoder Geocoder, source RecordSource, logger *zap.Logger, opts ...Option) *WeightAdjuster {
	wa := &WeightAdjuster{
		logger:         logger,
		geocoder:       geocoder,
		source:         source,
		trafficPenalty: pkg.TRAFFIC_PENALTY_METER,
		policy:         ADDITIVE_POLICY,
		geocodeTimeout: 10 * time.Second,
		geocodeWorkers: 1,
	}
	for _, opt := range opts {
		opt(wa)
	}
	return wa
}

type geocodeResult struct {
	coord geo.Coordinate
	found bool
	err   error
}

// AdjustWeights runs the traffic pass then the incident pass over g. It never fails: record level
// problems are reported per record and a record source failure stops the remaining work with Aborted
// set, keeping every update already applied.
func (wa *WeightAdjuster) AdjustWeights(ctx context.Context, g *da.Graph, resolver NodeResolver) *AdjustmentReport {
	report := &AdjustmentReport{}

	trafficRecords, err := wa.source.TrafficRecords(ctx)
	if err != nil {
		wa.abort(report, TRAFFIC_PASS, err)
		return report
	}
	wa.trafficPass(ctx, g, resolver, trafficRecords, report)

	incidentRecords, err := wa.source.IncidentRecords(ctx)
	if err != nil {
		wa.abort(report, INCIDENT_PASS, err)
		return report
	}
	wa.incidentPass(ctx, g, resolver, incidentRecords, report)

	wa.logger.Info("weight adjustment done",
		zap.Int("traffic_records", len(trafficRecords)),
		zap.Int("incident_records", len(incidentRecords)),
		zap.Int("applied", report.Count(APPLIED)),
		zap.Int("updated_edges", len(report.UpdatedEdges())),
		zap.String("policy", wa.policy.String()),
	)
	return report
}

func (wa *WeightAdjuster) abort(report *AdjustmentReport, pass Pass, err error) {
	report.abort(errors.Join(ErrRecordSource, err))
	wa.logger.Error("weight adjustment aborted",
		zap.String("pass", pass.String()),
		zap.Int("processed_records", len(report.Results)),
		zap.Error(err),
	)
}

func (wa *WeightAdjuster) trafficPass(ctx context.Context, g *da.Graph, resolver NodeResolver,
	records []da.TrafficRecord, report *AdjustmentReport) {
	addresses := make([]string, 0, 2*len(records))
	for _, r := range records {
		addresses = append(addresses, r.StartAddress, r.EndAddress)
	}
	geocoded := wa.geocodeAll(ctx, addresses)

	for i := range records {
		res := RecordResult{Pass: TRAFFIC_PASS, Index: i}
		start, end := geocoded[2*i], geocoded[2*i+1]

		switch {
		case start.err != nil || end.err != nil:
			res.Outcome = GEOCODE_ERROR
			res.Err = errors.Join(start.err, end.err)
		case !start.found || !end.found:
			res.Outcome = GEOCODE_MISS
		default:
			wa.applyTraffic(g, resolver, start.coord, end.coord, &res)
		}
		wa.record(report, res)
	}
}

func (wa *WeightAdjuster) applyTraffic(g *da.Graph, resolver NodeResolver, start, end geo.Coordinate,
	res *RecordResult) {
	s, err := resolver.NearestNode(start.GetLat(), start.GetLon())
	if err != nil {
		res.Outcome, res.Err = NO_EDGE, err
		return
	}
	e, err := resolver.NearestNode(end.GetLat(), end.GetLon())
	if err != nil {
		res.Outcome, res.Err = NO_EDGE, err
		return
	}

	key := da.NewEdgeKey(s, e, 0)
	if err := wa.penalize(g, key, wa.trafficPenalty); err != nil {
		res.Outcome, res.Err = NO_EDGE, err
		return
	}
	res.Outcome = APPLIED
	res.Edges = []da.EdgeKey{key}
}

func (wa *WeightAdjuster) incidentPass(ctx context.Context, g *da.Graph, resolver NodeResolver,
	records []da.IncidentRecord, report *AdjustmentReport) {
	addresses := make([]string, len(records))
	for i, r := range records {
		// invalid records are not geocoded.
		if r.HasValidSeverity() {
			addresses[i] = r.Address()
		}
	}
	geocoded := wa.geocodeAll(ctx, addresses)

	for i, r := range records {
		res := RecordResult{Pass: INCIDENT_PASS, Index: i}
		loc := geocoded[i]

		switch {
		case !r.HasValidSeverity():
			res.Outcome = INVALID
		case loc.err != nil:
			res.Outcome, res.Err = GEOCODE_ERROR, loc.err
		case !loc.found:
			res.Outcome = GEOCODE_MISS
		default:
			wa.applyIncident(g, resolver, loc.coord, r.Severity, &res)
		}
		wa.record(report, res)
	}
}

func (wa *WeightAdjuster) applyIncident(g *da.Graph, resolver NodeResolver, loc geo.Coordinate,
	severity float64, res *RecordResult) {
	n, err := resolver.NearestNode(loc.GetLat(), loc.GetLon())
	if err != nil {
		res.Outcome, res.Err = NO_EDGE, err
		return
	}

	for _, m := range g.Neighbors(n) {
		key := da.NewEdgeKey(n, m, 0)
		if err := wa.penalize(g, key, severity); err != nil {
			continue
		}
		res.Edges = append(res.Edges, key)
	}
	if len(res.Edges) == 0 {
		res.Outcome = NO_EDGE
		return
	}
	res.Outcome = APPLIED
}

func (wa *WeightAdjuster) penalize(g *da.Graph, key da.EdgeKey, penalty float64) error {
	e, ok := g.GetEdge(key)
	if !ok {
		return da.ErrEdgeNotFound
	}
	return g.SetCustomWeight(key, wa.policy.newWeight(e, penalty))
}

func (wa *WeightAdjuster) record(report *AdjustmentReport, res RecordResult) {
	report.add(res)
	if wa.metric != nil {
		wa.metric.ObserveWeightingRecord(res.Pass.String(), res.Outcome.String())
	}
	if res.Outcome != APPLIED {
		wa.logger.Debug("record skipped",
			zap.String("pass", res.Pass.String()),
			zap.Int("index", res.Index),
			zap.String("outcome", res.Outcome.String()),
			zap.Error(res.Err),
		)
	}
}

// geocodeAll geocodes addresses with the worker pool, keeping input order. Empty addresses are not
// looked up.
func (wa *WeightAdjuster) geocodeAll(ctx context.Context, addresses []string) []geocodeResult {
	return concurrent.Map(ctx, addresses, wa.geocodeWorkers, func(ctx context.Context, address string) geocodeResult {
		if address == "" {
			return geocodeResult{}
		}
		gctx, cancel := context.WithTimeout(ctx, wa.geocodeTimeout)
		defer cancel()

		coord, found, err := wa.geocoder.Geocode(gctx, address)
		return geocodeResult{coord: coord, found: found, err: err}
	})
}
