package routing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEdge struct {
	from, to da.Index
	length   float64
}

func buildGraph(t *testing.T, n int, edges []testEdge) *da.Graph {
	t.Helper()
	g := da.NewGraph()
	for i := 0; i < n; i++ {
		g.AddVertex(45.0+float64(i)*0.001, 39.0)
	}
	for _, e := range edges {
		_, err := g.AddEdge(e.from, e.to, e.length)
		require.NoError(t, err)
	}
	return g
}

func bidirectional(edges ...testEdge) []testEdge {
	out := make([]testEdge, 0, 2*len(edges))
	for _, e := range edges {
		out = append(out, e, testEdge{e.to, e.from, e.length})
	}
	return out
}

const (
	A da.Index = iota
	B
	C
	D
	E
)

func TestComputeRoutesLineWithPenalty(t *testing.T) {
	g := buildGraph(t, 4, bidirectional(
		testEdge{A, B, 1}, testEdge{B, C, 1}, testEdge{C, D, 1},
	))
	require.NoError(t, g.SetCustomWeight(da.NewEdgeKey(A, B, 0), 11))

	re := NewRoutingEngine(g, zap.NewNop(), 0)
	rs, err := re.ComputeRoutes(A, D)
	require.NoError(t, err)

	assert.Equal(t, []da.Index{A, B, C, D}, rs.Optimal.GetNodes())
	assert.InDelta(t, 13.0, rs.Optimal.GetCost(), 1e-9)
	assert.Equal(t, []da.Index{A, B, C, D}, rs.Shortest.GetNodes())
	assert.InDelta(t, 3.0, rs.Shortest.GetLength(), 1e-9)
	assert.Nil(t, rs.Alternative)
	assert.Len(t, rs.Routes(), 2)
}

func TestComputeRoutesReroutesAroundPenalty(t *testing.T) {
	// A-B-C-D line plus a detour A-E-B.
	g := buildGraph(t, 5, bidirectional(
		testEdge{A, B, 1}, testEdge{B, C, 1}, testEdge{C, D, 1},
		testEdge{A, E, 1.5}, testEdge{E, B, 1.5},
	))
	require.NoError(t, g.SetCustomWeight(da.NewEdgeKey(A, B, 0), 11))

	re := NewRoutingEngine(g, zap.NewNop(), 0)
	rs, err := re.ComputeRoutes(A, D)
	require.NoError(t, err)

	assert.Equal(t, []da.Index{A, E, B, C, D}, rs.Optimal.GetNodes())
	assert.InDelta(t, 5.0, rs.Optimal.GetCost(), 1e-9)
	assert.Equal(t, []da.Index{A, B, C, D}, rs.Shortest.GetNodes())
	assert.InDelta(t, 3.0, rs.Shortest.GetLength(), 1e-9)

	require.NotNil(t, rs.Alternative)
	assert.Equal(t, []da.Index{A, B, C, D}, rs.Alternative.GetNodes())
	assert.InDelta(t, 13.0, rs.Alternative.GetCost(), 1e-9)
	assert.False(t, rs.Alternative.SameNodes(rs.Optimal))
}

func TestComputeRoutesUsesCheapestParallelEdge(t *testing.T) {
	g := buildGraph(t, 2, []testEdge{{A, B, 5}, {A, B, 2}})

	re := NewRoutingEngine(g, zap.NewNop(), 0)
	rs, err := re.ComputeRoutes(A, B)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, rs.Optimal.GetCost(), 1e-9)
	assert.InDelta(t, 2.0, rs.Shortest.GetLength(), 1e-9)
	// parallel edges share the node sequence, so there is no second simple path.
	assert.Nil(t, rs.Alternative)
}

func TestComputeRoutesSameStartAndEnd(t *testing.T) {
	g := buildGraph(t, 3, bidirectional(testEdge{A, B, 1}, testEdge{B, C, 1}))

	re := NewRoutingEngine(g, zap.NewNop(), 0)
	rs, err := re.ComputeRoutes(B, B)
	require.NoError(t, err)

	assert.Equal(t, []da.Index{B}, rs.Optimal.GetNodes())
	assert.Equal(t, []da.Index{B}, rs.Shortest.GetNodes())
	assert.Equal(t, 0.0, rs.Optimal.GetCost())
	assert.Equal(t, 0.0, rs.Shortest.GetLength())
	assert.Nil(t, rs.Alternative)
}

func TestComputeRoutesDisconnected(t *testing.T) {
	g := buildGraph(t, 4, bidirectional(testEdge{A, B, 1}, testEdge{C, D, 1}))

	re := NewRoutingEngine(g, zap.NewNop(), 0)
	_, err := re.ComputeRoutes(A, D)
	assert.ErrorIs(t, err, ErrNoPath)

	_, err = re.ShortestRoute(A, D)
	assert.ErrorIs(t, err, ErrNoPath)

	_, err = re.ComputeRoutes(A, 42)
	assert.ErrorIs(t, err, ErrVertexNotFound)
}

func TestComputeRoutesRespectsDirection(t *testing.T) {
	// one way A->B->C, return only through the long way C->A.
	g := buildGraph(t, 3, []testEdge{{A, B, 1}, {B, C, 1}, {C, A, 10}})

	re := NewRoutingEngine(g, zap.NewNop(), 0)
	rs, err := re.ComputeRoutes(C, B)
	require.NoError(t, err)
	assert.Equal(t, []da.Index{C, A, B}, rs.Optimal.GetNodes())
	assert.InDelta(t, 11.0, rs.Optimal.GetCost(), 1e-9)
}

func TestAlternativeTieBreakIsDeterministic(t *testing.T) {
	// diamond with two equal cost branches A-B-D and A-C-D.
	g := buildGraph(t, 4, []testEdge{{A, B, 1}, {A, C, 1}, {B, D, 1}, {C, D, 1}})

	re := NewRoutingEngine(g, zap.NewNop(), 0)
	for i := 0; i < 5; i++ {
		rs, err := re.ComputeRoutes(A, D)
		require.NoError(t, err)
		assert.Equal(t, []da.Index{A, B, D}, rs.Optimal.GetNodes())
		require.NotNil(t, rs.Alternative)
		assert.Equal(t, []da.Index{A, C, D}, rs.Alternative.GetNodes())
	}
}

// bruteForce enumerates every simple path and returns the two smallest costs.
func bruteForce(g *da.Graph, cf CostFunction, s, t da.Index) []float64 {
	costs := []float64{}
	visited := make([]bool, g.NumberOfVertices())
	path := []da.Index{s}
	var dfs func(u da.Index)
	dfs = func(u da.Index) {
		if u == t {
			c, _ := PathCost(g, cf, path)
			costs = append(costs, c)
			return
		}
		visited[u] = true
		for _, v := range g.Neighbors(u) {
			if visited[v] {
				continue
			}
			path = append(path, v)
			dfs(v)
			path = path[:len(path)-1]
		}
		visited[u] = false
	}
	dfs(s)

	best := []float64{math.Inf(1), math.Inf(1)}
	for _, c := range costs {
		if c < best[0] {
			best[0], best[1] = c, best[0]
		} else if c < best[1] {
			best[1] = c
		}
	}
	return best
}

func TestComputeRoutesMatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 30; trial++ {
		n := 7
		edges := []testEdge{}
		for u := 0; u < n; u++ {
			for v := 0; v < n; v++ {
				if u != v && rnd.Float64() < 0.35 {
					edges = append(edges, testEdge{da.Index(u), da.Index(v), 1 + float64(rnd.Intn(20))})
				}
			}
		}
		g := buildGraph(t, n, edges)
		g.ForEdges(func(e da.Edge) {
			if rnd.Float64() < 0.3 {
				require.NoError(t, g.SetCustomWeight(e.GetKey(), e.GetLength()+float64(rnd.Intn(15))))
			}
		})

		re := NewRoutingEngine(g, zap.NewNop(), 1000)
		s, dst := da.Index(0), da.Index(n-1)
		want := bruteForce(g, costfunction.NewAdjustedCost(), s, dst)
		wantLength := bruteForce(g, costfunction.NewLengthCost(), s, dst)

		rs, err := re.ComputeRoutes(s, dst)
		if math.IsInf(want[0], 1) {
			assert.ErrorIs(t, err, ErrNoPath)
			continue
		}
		require.NoError(t, err)
		assert.InDelta(t, want[0], rs.Optimal.GetCost(), 1e-9, "trial %d", trial)
		assert.InDelta(t, wantLength[0], rs.Shortest.GetLength(), 1e-9, "trial %d", trial)

		if math.IsInf(want[1], 1) {
			assert.Nil(t, rs.Alternative, "trial %d", trial)
		} else {
			require.NotNil(t, rs.Alternative, "trial %d", trial)
			assert.InDelta(t, want[1], rs.Alternative.GetCost(), 1e-9, "trial %d", trial)
			assert.False(t, rs.Alternative.SameNodes(rs.Optimal))
		}
	}
}

func TestRouteKinds(t *testing.T) {
	g := buildGraph(t, 3, []testEdge{{A, B, 1}, {B, C, 1}, {A, C, 3}})
	re := NewRoutingEngine(g, zap.NewNop(), 0)
	rs, err := re.ComputeRoutes(A, C)
	require.NoError(t, err)

	assert.Equal(t, pkg.OPTIMAL_ROUTE, rs.Optimal.GetKind())
	assert.Equal(t, pkg.SHORTEST_ROUTE, rs.Shortest.GetKind())
	require.NotNil(t, rs.Alternative)
	assert.Equal(t, pkg.ALTERNATIVE_ROUTE, rs.Alternative.GetKind())
	assert.Len(t, rs.Optimal.Coordinates(g), 3)
}

func TestComputeRoutesLogsOptimalSearchEffort(t *testing.T) {
	g := buildGraph(t, 5, bidirectional(
		testEdge{A, B, 1}, testEdge{B, C, 1}, testEdge{C, D, 1},
		testEdge{A, E, 1.5}, testEdge{E, D, 1.5},
	))

	d := NewDijkstra(g, costfunction.NewAdjustedCost())
	_, _, found := d.ShortestPath(A, D)
	require.True(t, found)
	want := d.GetNumSettledNodes()

	core, logs := observer.New(zapcore.DebugLevel)
	re := NewRoutingEngine(g, zap.New(core), 0)
	rs, err := re.ComputeRoutes(A, D)
	require.NoError(t, err)
	// the alternative search runs spur searches after the optimal one.
	require.NotNil(t, rs.Alternative)

	entries := logs.FilterMessage("routes computed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(want), entries[0].ContextMap()["settled_nodes"])
}
