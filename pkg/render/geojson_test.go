package render

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() MapDocument {
	curve := []geo.Coordinate{geo.NewCoordinate(45.03, 38.97), geo.NewCoordinate(45.04, 38.98)}
	return MapDocument{
		Start: curve[0],
		End:   curve[1],
		Routes: []RouteLayer{
			NewRouteLayer(pkg.OPTIMAL_ROUTE, curve, 1500, 1400),
			NewRouteLayer(pkg.SHORTEST_ROUTE, curve, 1510, 1400),
			NewRouteLayer(pkg.ALTERNATIVE_ROUTE, []geo.Coordinate{curve[0]}, 0, 0),
		},
		Status: pkg.STATUS_ROUTE_FOUND,
	}
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection(sampleDocument())
	require.Len(t, fc.Features, 5)

	optimal := fc.Features[0]
	ls, ok := optimal.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{38.97, 45.03}, ls[0])
	assert.Equal(t, "blue", optimal.Properties["stroke"])
	assert.Equal(t, 5, optimal.Properties["stroke-width"])
	assert.Equal(t, 0.8, optimal.Properties["stroke-opacity"])
	assert.Equal(t, "optimal", optimal.Properties["route"])

	assert.Equal(t, "green", fc.Features[1].Properties["stroke"])
	assert.Equal(t, "orange", fc.Features[2].Properties["stroke"])
	_, isPoint := fc.Features[2].Geometry.(orb.Point)
	assert.True(t, isPoint)
}

func TestWriteGeoJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, sampleDocument()))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, fc.Features, 5)
	assert.Equal(t, pkg.STATUS_ROUTE_FOUND, fc.ExtraMembers["status"])

	path := filepath.Join(t.TempDir(), "route_map.geojson")
	require.NoError(t, WriteGeoJSONFile(path, sampleDocument()))
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, Style{Color: "blue", Weight: 5, Opacity: 0.8, Tooltip: "Optimal route"}, StyleFor(pkg.OPTIMAL_ROUTE))
	assert.Equal(t, Style{Color: "green", Weight: 3, Opacity: 0.6, Tooltip: "Shortest route"}, StyleFor(pkg.SHORTEST_ROUTE))
	assert.Equal(t, Style{Color: "orange", Weight: 4, Opacity: 0.7, Tooltip: "Alternative route"}, StyleFor(pkg.ALTERNATIVE_ROUTE))
}
