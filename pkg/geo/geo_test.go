package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentLengthMatchesHaversine(t *testing.T) {
	testCases := []struct {
		name                           string
		fromLat, fromLon, toLat, toLon float64
	}{
		{name: "krasnodar short segment", fromLat: 45.0355, fromLon: 38.9753, toLat: 45.0401, toLon: 38.9801},
		{name: "one degree of latitude", fromLat: 0, fromLon: 0, toLat: 1, toLon: 0},
		{name: "same point", fromLat: 10, fromLon: 10, toLat: 10, toLon: 10},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			s2Len := SegmentLengthMeter(tt.fromLat, tt.fromLon, tt.toLat, tt.toLon)
			hav := CalculateHaversineDistance(tt.fromLat, tt.fromLon, tt.toLat, tt.toLon) * 1000
			assert.InDelta(t, hav, s2Len, 1e-3)
		})
	}
}

func TestGetDestinationPointRoundTrip(t *testing.T) {
	lat, lon := GetDestinationPoint(45.0, 39.0, 90, 2.0)
	assert.InDelta(t, 2.0, CalculateHaversineDistance(45.0, 39.0, lat, lon), 1e-6)
	assert.Greater(t, lon, 39.0)
}

func TestPolylineRoundTrip(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(45.03551, 38.97531),
		NewCoordinate(45.04012, 38.98013),
		NewCoordinate(45.04500, 38.99000),
	}

	encoded := PolylineFromCoords(coords)
	require.NotEmpty(t, encoded)

	decoded, err := CoordsFromPolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(coords))
	for i := range coords {
		assert.InDelta(t, coords[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, coords[i].Lon, decoded[i].Lon, 1e-5)
	}
}

func TestPathLengthMeter(t *testing.T) {
	coords := []Coordinate{NewCoordinate(0, 0), NewCoordinate(0, 1), NewCoordinate(0, 2)}
	want := 2 * SegmentLengthMeter(0, 0, 0, 1)
	assert.InDelta(t, want, PathLengthMeter(coords), 1e-6)
	assert.Equal(t, 0.0, PathLengthMeter(coords[:1]))
}
