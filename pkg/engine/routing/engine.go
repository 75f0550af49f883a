package routing

import (
	"fmt"
	"sync"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"go.uber.org/zap"
)

type RoutingEngine struct {
	graph         *da.Graph
	logger        *zap.Logger
	adjustedCost  CostFunction
	lengthCost    CostFunction
	maxCandidates int

	adjustedPool sync.Pool
	lengthPool   sync.Pool
}

func NewRoutingEngine(graph *da.Graph, logger *zap.Logger, maxCandidates int) *RoutingEngine {
	if maxCandidates <= 0 {
		maxCandidates = pkg.DEFAULT_MAX_ALTERNATIVE_CANDIDATES
	}
	e := &RoutingEngine{
		graph:         graph,
		logger:        logger,
		adjustedCost:  costfunction.NewAdjustedCost(),
		lengthCost:    costfunction.NewLengthCost(),
		maxCandidates: maxCandidates,
	}
	e.BuildSearchPool()
	return e
}

func (re *RoutingEngine) BuildSearchPool() {
	re.adjustedPool = sync.Pool{
		New: func() any {
			return NewDijkstra(re.graph, re.adjustedCost)
		},
	}
	re.lengthPool = sync.Pool{
		New: func() any {
			return NewDijkstra(re.graph, re.lengthCost)
		},
	}
}

func (re *RoutingEngine) GetGraph() *da.Graph {
	return re.graph
}

// ComputeRoutes answers a route query between two graph vertices: the optimal route under
// custom_weight, the shortest route under length and, when one exists, an alternative route that is the
// second best loopless path under custom_weight. Callers must not mutate edge weights while a query runs.
func (re *RoutingEngine) ComputeRoutes(start, end da.Index) (*RouteSet, error) {
	if !re.graph.HasVertex(start) {
		return nil, fmt.Errorf("%w: start %d", ErrVertexNotFound, start)
	}
	if !re.graph.HasVertex(end) {
		return nil, fmt.Errorf("%w: end %d", ErrVertexNotFound, end)
	}

	adjusted := re.adjustedPool.Get().(*Dijkstra)
	defer re.adjustedPool.Put(adjusted)

	optimalPath, optimalCost, found := adjusted.ShortestPath(start, end)
	settledNodes := adjusted.GetNumSettledNodes()
	if !found {
		return nil, fmt.Errorf("%w: %d -> %d", ErrNoPath, start, end)
	}
	optimal, err := re.newRoute(pkg.OPTIMAL_ROUTE, optimalPath)
	if err != nil {
		return nil, err
	}

	shortest, err := re.ShortestRoute(start, end)
	if err != nil {
		return nil, err
	}

	var alternative *Route
	if start != end {
		paths := kShortestSimplePaths(adjusted, optimalPath, optimalCost, 2, re.maxCandidates)
		if len(paths) > 1 {
			alternative, err = re.newRoute(pkg.ALTERNATIVE_ROUTE, paths[1].nodes)
			if err != nil {
				return nil, err
			}
		}
	}

	re.logger.Debug("routes computed",
		zap.Uint32("start", uint32(start)),
		zap.Uint32("end", uint32(end)),
		zap.Float64("optimal_cost", optimal.GetCost()),
		zap.Float64("shortest_length", shortest.GetLength()),
		zap.Bool("has_alternative", alternative != nil),
		zap.Int("settled_nodes", settledNodes),
	)

	return &RouteSet{
		Optimal:     optimal,
		Shortest:    shortest,
		Alternative: alternative,
	}, nil
}

// OptimalRoute minimum custom_weight route.
func (re *RoutingEngine) OptimalRoute(start, end da.Index) (*Route, error) {
	return re.singleRoute(&re.adjustedPool, pkg.OPTIMAL_ROUTE, start, end)
}

// ShortestRoute minimum length route, penalties are ignored.
func (re *RoutingEngine) ShortestRoute(start, end da.Index) (*Route, error) {
	return re.singleRoute(&re.lengthPool, pkg.SHORTEST_ROUTE, start, end)
}

func (re *RoutingEngine) singleRoute(pool *sync.Pool, kind pkg.RouteKind, start, end da.Index) (*Route, error) {
	if !re.graph.HasVertex(start) || !re.graph.HasVertex(end) {
		return nil, fmt.Errorf("%w: %d -> %d", ErrVertexNotFound, start, end)
	}
	d := pool.Get().(*Dijkstra)
	defer pool.Put(d)

	path, _, found := d.ShortestPath(start, end)
	if !found {
		return nil, fmt.Errorf("%w: %d -> %d", ErrNoPath, start, end)
	}
	return re.newRoute(kind, path)
}

func (re *RoutingEngine) newRoute(kind pkg.RouteKind, nodes []da.Index) (*Route, error) {
	cost, err := PathCost(re.graph, re.adjustedCost, nodes)
	if err != nil {
		return nil, err
	}
	length, err := PathCost(re.graph, re.lengthCost, nodes)
	if err != nil {
		return nil, err
	}
	return NewRoute(kind, nodes, cost, length), nil
}
