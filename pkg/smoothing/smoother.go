package smoothing

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
)

var (
	ErrInsufficientPoints     = errors.New("smoothing needs at least 2 points")
	ErrInvalidSmoothingFactor = errors.New("smoothing factor must be non-negative")
)

const duplicateEps = 1e-12

// Smoother fits a penalized B-spline through route coordinates and resamples it at multiplier times the
// input density.
type Smoother struct {
	factor     float64
	multiplier int
}

func NewSmoother(factor float64, multiplier int) (*Smoother, error) {
	if factor < 0 || math.IsNaN(factor) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSmoothingFactor, factor)
	}
	if multiplier <= 0 {
		multiplier = pkg.DEFAULT_SMOOTHING_MULTIPLIER
	}
	return &Smoother{factor: factor, multiplier: multiplier}, nil
}

func NewDefaultSmoother() *Smoother {
	return &Smoother{factor: pkg.DEFAULT_SMOOTHING_FACTOR, multiplier: pkg.DEFAULT_SMOOTHING_MULTIPLIER}
}

func (s *Smoother) GetFactor() float64 {
	return s.factor
}

func (s *Smoother) GetMultiplier() int {
	return s.multiplier
}

// Smooth returns multiplier*len(points) coordinates sampled at uniformly spaced curve parameters in
// [0, 1], both ends included.
func (s *Smoother) Smooth(points []geo.Coordinate) ([]geo.Coordinate, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientPoints, len(points))
	}
	numSamples := s.multiplier * len(points)

	distinct := dedupConsecutive(points)
	if len(distinct) == 1 {
		out := make([]geo.Coordinate, numSamples)
		for i := range out {
			out[i] = geo.NewCoordinate(distinct[0][0], distinct[0][1])
		}
		return out, nil
	}

	spline, err := fitBSpline(distinct, chordLengthParams(distinct), s.factor)
	if err != nil {
		return nil, err
	}

	out := make([]geo.Coordinate, numSamples)
	for j := 0; j < numSamples; j++ {
		p := spline.eval(float64(j) / float64(numSamples-1))
		out[j] = geo.NewCoordinate(p[0], p[1])
	}
	return out, nil
}

func dedupConsecutive(points []geo.Coordinate) [][2]float64 {
	out := make([][2]float64, 0, len(points))
	for _, p := range points {
		cur := [2]float64{p.GetLat(), p.GetLon()}
		if n := len(out); n > 0 &&
			math.Abs(out[n-1][0]-cur[0]) <= duplicateEps && math.Abs(out[n-1][1]-cur[1]) <= duplicateEps {
			continue
		}
		out = append(out, cur)
	}
	return out
}
