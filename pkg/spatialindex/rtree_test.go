package spatialindex

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func krasnodarGrid() *datastructure.Graph {
	g := datastructure.NewGraph()
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			g.AddVertex(45.03+0.001*float64(i), 38.97+0.001*float64(j))
		}
	}
	return g
}

func bruteForceNearest(g *datastructure.Graph, lat, lon float64) datastructure.Index {
	best, bestDist := datastructure.INVALID_VERTEX_ID, 0.0
	g.ForVertices(func(v *datastructure.Vertex) {
		d := geo.CalculateHaversineDistance(lat, lon, v.GetLat(), v.GetLon())
		if best == datastructure.INVALID_VERTEX_ID || d < bestDist {
			best, bestDist = v.GetID(), d
		}
	})
	return best
}

func TestNearestNodeMatchesBruteForce(t *testing.T) {
	g := krasnodarGrid()
	rt := NewRtree(0.01, 5)
	rt.Build(g, zap.NewNop())

	queries := [][2]float64{
		{45.0301, 38.9702},
		{45.0355, 38.9749},
		{45.0421, 38.9811},
		{45.0289, 38.9650}, // outside the grid
		{45.0390, 38.9750},
	}
	for _, q := range queries {
		got, err := rt.NearestNode(q[0], q[1])
		require.NoError(t, err)
		assert.Equal(t, bruteForceNearest(g, q[0], q[1]), got, "query %v", q)
	}
}

func TestNearestNodeTieGoesToLowerIndex(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddVertex(45.0, 39.001)
	g.AddVertex(45.0, 39.0)
	g.AddVertex(45.0, 39.0)

	rt := NewRtree(0, 0)
	rt.Build(g, zap.NewNop())

	got, err := rt.NearestNode(45.0, 39.0)
	require.NoError(t, err)
	assert.Equal(t, datastructure.Index(1), got)
}

func TestNearestNodeTooFar(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddVertex(45.0, 39.0)

	rt := NewRtree(0.05, 1)
	rt.Build(g, zap.NewNop())

	_, err := rt.NearestNode(46.0, 39.0)
	assert.ErrorIs(t, err, ErrNoNearbyNode)

	empty := NewRtree(0.05, 1)
	empty.Build(datastructure.NewGraph(), zap.NewNop())
	_, err = empty.NearestNode(45.0, 39.0)
	assert.ErrorIs(t, err, ErrNoNearbyNode)
}
