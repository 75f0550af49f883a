package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 0 <-> 1 <-> 2 -> 3 <-> 4, 5 isolated
func componentGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	for i := 0; i < 6; i++ {
		g.AddVertex(45.0, 39.0+0.001*float64(i))
	}
	edges := [][2]Index{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 3}, {3, 4}, {4, 3}}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1], 10)
		require.NoError(t, err)
	}
	return g
}

func TestStronglyConnectedComponents(t *testing.T) {
	g := componentGraph(t)

	components := g.StronglyConnectedComponents()
	assert.ElementsMatch(t, [][]Index{{0, 1, 2}, {3, 4}, {5}}, components)
	assert.Equal(t, []Index{0, 1, 2}, LargestComponent(components))
}

func TestWeaklyConnectedComponents(t *testing.T) {
	g := componentGraph(t)

	components := g.WeaklyConnectedComponents()
	assert.Equal(t, [][]Index{{0, 1, 2, 3, 4}, {5}}, components)
}

func TestLargestComponentTie(t *testing.T) {
	assert.Equal(t, []Index{1, 4}, LargestComponent([][]Index{{2, 3}, {1, 4}, {7}}))
	assert.Nil(t, LargestComponent(nil))
}

func TestInducedSubgraph(t *testing.T) {
	g := componentGraph(t)
	require.NoError(t, g.SetCustomWeight(NewEdgeKey(3, 4, 0), 25))

	sub := g.InducedSubgraph([]Index{4, 3, 3, 2})
	require.Equal(t, 3, sub.NumberOfVertices())
	// 2 -> 0, 3 -> 1, 4 -> 2
	assert.Equal(t, 3, sub.NumberOfEdges())
	assert.True(t, sub.HasEdge(0, 1))
	assert.False(t, sub.HasEdge(1, 0))
	assert.True(t, sub.HasEdge(1, 2))
	assert.True(t, sub.HasEdge(2, 1))

	e, ok := sub.GetEdge(NewEdgeKey(1, 2, 0))
	require.True(t, ok)
	w, set := e.GetCustomWeight()
	assert.True(t, set)
	assert.Equal(t, 25.0, w)

	lat, lon := sub.GetVertexCoordinates(0)
	assert.Equal(t, 45.0, lat)
	assert.InDelta(t, 39.002, lon, 1e-12)
}
