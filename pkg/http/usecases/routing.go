package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/customizer"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/render"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/smoothing"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrAddressNotFound = errors.New("address could not be resolved")

const (
	QUERY_FOUND             = "found"
	QUERY_NO_ROUTE          = "no_route"
	QUERY_ADDRESS_NOT_FOUND = "address_not_found"
	QUERY_ERROR             = "error"
)

type RoutingConfig struct {
	DefaultPlace   string
	NetworkType    string
	SearchRadius   float64
	MaxRadius      float64
	MaxCandidates  int
	GeocodeTimeout time.Duration
	TrafficPenalty float64
	Policy         customizer.PenaltyPolicy
	GeocodeWorkers int
}

func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		DefaultPlace:   pkg.DEFAULT_PLACE,
		NetworkType:    pkg.DEFAULT_NETWORK_TYPE,
		SearchRadius:   spatialindex.DEFAULT_SEARCH_RADIUS_KM,
		MaxRadius:      spatialindex.DEFAULT_MAX_RADIUS_KM,
		MaxCandidates:  pkg.DEFAULT_MAX_ALTERNATIVE_CANDIDATES,
		GeocodeTimeout: 10 * time.Second,
		TrafficPenalty: pkg.TRAFFIC_PENALTY_METER,
		Policy:         customizer.ADDITIVE_POLICY,
		GeocodeWorkers: 1,
	}
}

// RoutingService runs one route query end to end: geocoding, graph loading, weight adjustment, routing and
// smoothing. Every query works on its own freshly loaded graph.
type RoutingService struct {
	log      *zap.Logger
	geocoder Geocoder
	provider GraphProvider
	store    RecordStore
	smoother *smoothing.Smoother
	metric   Metric
	config   RoutingConfig
}

func NewRoutingService(log *zap.Logger, geocoder Geocoder, provider GraphProvider, store RecordStore,
	smoother *smoothing.Smoother, metric Metric, config RoutingConfig) *RoutingService {
	if metric == nil {
		metric = noopMetric{}
	}
	if smoother == nil {
		smoother = smoothing.NewDefaultSmoother()
	}
	return &RoutingService{
		log:      log,
		geocoder: geocoder,
		provider: provider,
		store:    store,
		smoother: smoother,
		metric:   metric,
		config:   config,
	}
}

// ComputeRoutes returns the optimal, shortest and (if any) alternative route between two addresses of place,
// smoothed for display, together with the weighting report of the query. An empty place means the default place.
func (rs *RoutingService) ComputeRoutes(ctx context.Context, startAddress, endAddress, place string) (render.MapDocument,
	*customizer.AdjustmentReport, error) {
	if place == "" {
		place = rs.config.DefaultPlace
	}

	doc, report, err := rs.computeRoutes(ctx, startAddress, endAddress, place)
	switch {
	case err == nil:
		rs.metric.ObserveRouteQuery(QUERY_FOUND)
	case errors.Is(err, ErrAddressNotFound):
		rs.metric.ObserveRouteQuery(QUERY_ADDRESS_NOT_FOUND)
	case errors.Is(err, routing.ErrNoPath), errors.Is(err, spatialindex.ErrNoNearbyNode):
		rs.metric.ObserveRouteQuery(QUERY_NO_ROUTE)
	default:
		rs.metric.ObserveRouteQuery(QUERY_ERROR)
	}
	return doc, report, err
}

func (rs *RoutingService) computeRoutes(ctx context.Context, startAddress, endAddress, place string) (render.MapDocument,
	*customizer.AdjustmentReport, error) {
	start, end, err := rs.geocodeEndpoints(ctx, startAddress, endAddress)
	if err != nil {
		return render.MapDocument{}, nil, err
	}

	graph, err := rs.provider.GraphForPlace(ctx, place, rs.config.NetworkType)
	if err != nil {
		if errors.Is(err, osmparser.ErrPlaceNotFound) || errors.Is(err, osmparser.ErrUnsupportedNetworkType) {
			return render.MapDocument{}, nil, util.WrapErrorf(err, util.ErrBadParamInput, "unknown place %q", place)
		}
		return render.MapDocument{}, nil, util.WrapErrorf(err, util.ErrInternalServerError, pkg.STATUS_ROUTE_ERROR)
	}

	rtree := spatialindex.NewRtree(rs.config.SearchRadius, rs.config.MaxRadius)
	rtree.Build(graph, rs.log)

	adjuster := customizer.NewWeightAdjuster(rs.geocoder, rs.store, rs.log,
		customizer.WithTrafficPenalty(rs.config.TrafficPenalty),
		customizer.WithPolicy(rs.config.Policy),
		customizer.WithGeocodeTimeout(rs.config.GeocodeTimeout),
		customizer.WithGeocodeWorkers(rs.config.GeocodeWorkers),
		customizer.WithMetric(rs.metric),
	)
	report := adjuster.AdjustWeights(ctx, graph, rtree)
	if report.Aborted {
		rs.log.Warn("weight adjustment stopped early", zap.Error(report.AbortErr),
			zap.Int("applied", report.Count(customizer.APPLIED)))
	}

	startNode, err := rtree.NearestNode(start.GetLat(), start.GetLon())
	if err != nil {
		return render.MapDocument{}, report, util.WrapErrorf(err, util.ErrNotFound, pkg.STATUS_NO_ROUTE)
	}
	endNode, err := rtree.NearestNode(end.GetLat(), end.GetLon())
	if err != nil {
		return render.MapDocument{}, report, util.WrapErrorf(err, util.ErrNotFound, pkg.STATUS_NO_ROUTE)
	}

	engine := routing.NewRoutingEngine(graph, rs.log, rs.config.MaxCandidates)
	routeSet, err := engine.ComputeRoutes(startNode, endNode)
	if err != nil {
		if errors.Is(err, routing.ErrNoPath) {
			return render.MapDocument{}, report, util.WrapErrorf(err, util.ErrNotFound, pkg.STATUS_NO_ROUTE)
		}
		return render.MapDocument{}, report, util.WrapErrorf(err, util.ErrInternalServerError, pkg.STATUS_ROUTE_ERROR)
	}

	layers := make([]render.RouteLayer, 0, 3)
	for _, route := range routeSet.Routes() {
		curve, err := rs.smoothRoute(route.Coordinates(graph))
		if err != nil {
			return render.MapDocument{}, report, util.WrapErrorf(err, util.ErrInternalServerError, pkg.STATUS_ROUTE_ERROR)
		}
		layers = append(layers, render.NewRouteLayer(route.GetKind(), curve, route.GetCost(), route.GetLength()))
	}

	rs.log.Info("route query answered",
		zap.String("place", place),
		zap.Int("routes", len(layers)),
		zap.Int("updated_edges", len(report.UpdatedEdges())),
	)

	return render.MapDocument{
		Start:  start,
		End:    end,
		Routes: layers,
		Status: pkg.STATUS_ROUTE_FOUND,
	}, report, nil
}

// smoothRoute a route of a single node has nothing to smooth and is returned as is.
func (rs *RoutingService) smoothRoute(coords []geo.Coordinate) ([]geo.Coordinate, error) {
	if len(coords) == 1 {
		return coords, nil
	}
	return rs.smoother.Smooth(coords)
}

// geocodeEndpoints resolves both addresses of the query concurrently. Unlike the weighting pass, any failure
// here stops the query.
func (rs *RoutingService) geocodeEndpoints(ctx context.Context, startAddress, endAddress string) (geo.Coordinate,
	geo.Coordinate, error) {
	var start, end geo.Coordinate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		start, err = rs.geocode(gctx, startAddress)
		return err
	})
	g.Go(func() error {
		var err error
		end, err = rs.geocode(gctx, endAddress)
		return err
	})
	if err := g.Wait(); err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	return start, end, nil
}

func (rs *RoutingService) geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	if rs.config.GeocodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rs.config.GeocodeTimeout)
		defer cancel()
	}

	coord, found, err := rs.geocoder.Geocode(ctx, address)
	if err != nil {
		return geo.Coordinate{}, util.WrapErrorf(err, util.ErrInternalServerError, pkg.STATUS_ROUTE_ERROR)
	}
	if !found {
		rs.log.Info("address not found", zap.String("address", address))
		return geo.Coordinate{}, util.WrapErrorf(ErrAddressNotFound, util.ErrBadParamInput, pkg.STATUS_ADDRESS_NOT_FOUND)
	}
	return coord, nil
}

type noopMetric struct{}

func (noopMetric) ObserveWeightingRecord(pass, outcome string) {}

func (noopMetric) ObserveRouteQuery(result string) {}
