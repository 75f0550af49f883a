package geo

import (
	"github.com/golang/geo/s2"
)

// SegmentLengthMeter. great-circle length of a road segment in meter, computed on the s2 sphere.
func SegmentLengthMeter(fromLat, fromLon, toLat, toLon float64) float64 {
	from := s2.LatLngFromDegrees(fromLat, fromLon)
	to := s2.LatLngFromDegrees(toLat, toLon)
	return from.Distance(to).Radians() * earthRadiusKM * 1000
}

// PathLengthMeter. sum of segment lengths along coords.
func PathLengthMeter(coords []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(coords); i++ {
		total += SegmentLengthMeter(coords[i-1].Lat, coords[i-1].Lon, coords[i].Lat, coords[i].Lon)
	}
	return total
}
