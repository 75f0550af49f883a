package routing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
)

var (
	ErrNoPath         = errors.New("no path between start and end vertex")
	ErrVertexNotFound = errors.New("vertex not found in graph")
)

type Route struct {
	kind  pkg.RouteKind
	nodes []da.Index
	// cost under custom_weight, length under base length. Each hop uses the cheapest parallel edge of
	// the respective cost function.
	cost   float64
	length float64
}

func NewRoute(kind pkg.RouteKind, nodes []da.Index, cost, length float64) *Route {
	return &Route{
		kind:   kind,
		nodes:  nodes,
		cost:   cost,
		length: length,
	}
}

func (r *Route) GetKind() pkg.RouteKind {
	return r.kind
}

func (r *Route) GetNodes() []da.Index {
	return r.nodes
}

func (r *Route) GetCost() float64 {
	return r.cost
}

func (r *Route) GetLength() float64 {
	return r.length
}

func (r *Route) GetStart() da.Index {
	return r.nodes[0]
}

func (r *Route) GetEnd() da.Index {
	return r.nodes[len(r.nodes)-1]
}

// SameNodes reports whether both routes visit the same node sequence.
func (r *Route) SameNodes(other *Route) bool {
	if other == nil || len(r.nodes) != len(other.nodes) {
		return false
	}
	for i := range r.nodes {
		if r.nodes[i] != other.nodes[i] {
			return false
		}
	}
	return true
}

// Coordinates returns (lat, lon) of every route node.
func (r *Route) Coordinates(g *da.Graph) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(r.nodes))
	for _, u := range r.nodes {
		lat, lon := g.GetVertexCoordinates(u)
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}
	return coords
}

func (r *Route) String() string {
	return fmt.Sprintf("%s route %s cost=%.3f length=%.3f", r.kind, pathKey(r.nodes), r.cost, r.length)
}

// RouteSet is the answer of a route query. Alternative is nil when the graph has a single simple path
// between start and end.
type RouteSet struct {
	Optimal     *Route
	Shortest    *Route
	Alternative *Route
}

// Routes returns the non-nil routes in optimal, shortest, alternative order.
func (rs *RouteSet) Routes() []*Route {
	routes := make([]*Route, 0, 3)
	for _, r := range []*Route{rs.Optimal, rs.Shortest, rs.Alternative} {
		if r != nil {
			routes = append(routes, r)
		}
	}
	return routes
}

// PathCost sums, hop by hop, the cheapest parallel edge under cf.
func PathCost(g *da.Graph, cf CostFunction, nodes []da.Index) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(nodes); i++ {
		edges := g.GetParallelEdges(nodes[i], nodes[i+1])
		if len(edges) == 0 {
			return 0, fmt.Errorf("%w: no edge (%d,%d)", da.ErrEdgeNotFound, nodes[i], nodes[i+1])
		}
		best := pkg.INF_WEIGHT
		for _, e := range edges {
			best = min(best, cf.GetWeight(e))
		}
		total += best
	}
	return total, nil
}

func pathKey(nodes []da.Index) string {
	var sb strings.Builder
	for i, u := range nodes {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.FormatUint(uint64(u), 10))
	}
	return sb.String()
}
