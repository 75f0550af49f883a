package spatialindex

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

var ErrNoNearbyNode = errors.New("no graph vertex near query point")

const (
	DEFAULT_SEARCH_RADIUS_KM = 0.05
	DEFAULT_MAX_RADIUS_KM    = 5.0
)

// Rtree nearest vertex index over the road graph vertices.
type Rtree struct {
	tr           *rtree.RTreeG[datastructure.Index]
	graph        *datastructure.Graph
	searchRadius float64
	maxRadius    float64
}

func NewRtree(searchRadius, maxRadius float64) *Rtree {
	if searchRadius <= 0 {
		searchRadius = DEFAULT_SEARCH_RADIUS_KM
	}
	if maxRadius < searchRadius {
		maxRadius = max(searchRadius, DEFAULT_MAX_RADIUS_KM)
	}
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr:           &tr,
		searchRadius: searchRadius,
		maxRadius:    maxRadius,
	}
}

// Build. insert every graph vertex as a point entry
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("vertices", graph.NumberOfVertices()))
	rt.graph = graph
	graph.ForVertices(func(v *datastructure.Vertex) {
		p := [2]float64{v.GetLon(), v.GetLat()}
		rt.tr.Insert(p, p, v.GetID())
	})
	log.Info("R-tree spatial index built.")
}

// SearchWithinRadius search for all vertices inside the bounding box of the circle of radius (in km) around
// the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	minLat, _ := geo.GetDestinationPoint(qLat, qLon, 180, radius)
	maxLat, _ := geo.GetDestinationPoint(qLat, qLon, 0, radius)
	_, minLon := geo.GetDestinationPoint(qLat, qLon, 270, radius)
	_, maxLon := geo.GetDestinationPoint(qLat, qLon, 90, radius)

	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

// NearestNode returns the vertex closest to (lat, lon) by great circle distance, ties go to the lower
// vertex index. The search radius doubles until a vertex is found within it or maxRadius is reached.
func (rt *Rtree) NearestNode(lat, lon float64) (datastructure.Index, error) {
	if rt.graph == nil || rt.graph.NumberOfVertices() == 0 {
		return datastructure.INVALID_VERTEX_ID, ErrNoNearbyNode
	}

	for radius := rt.searchRadius; ; radius *= 2 {
		radius = min(radius, rt.maxRadius)

		best, bestDist := datastructure.INVALID_VERTEX_ID, 0.0
		for _, id := range rt.SearchWithinRadius(lat, lon, radius) {
			vLat, vLon := rt.graph.GetVertexCoordinates(id)
			d := geo.CalculateHaversineDistance(lat, lon, vLat, vLon)
			if best == datastructure.INVALID_VERTEX_ID || d < bestDist || (d == bestDist && id < best) {
				best, bestDist = id, d
			}
		}

		if best != datastructure.INVALID_VERTEX_ID && (bestDist <= radius || radius >= rt.maxRadius) {
			return best, nil
		}
		if radius >= rt.maxRadius {
			return datastructure.INVALID_VERTEX_ID,
				fmt.Errorf("%w: (%f, %f) within %.2f km", ErrNoNearbyNode, lat, lon, rt.maxRadius)
		}
	}
}
