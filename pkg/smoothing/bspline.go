package smoothing

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// chordLengthParams parameterizes points by cumulative chord length, normalized to [0, 1].
// points must hold at least two distinct consecutive points.
func chordLengthParams(points [][2]float64) []float64 {
	u := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		u[i] = u[i-1] + math.Hypot(points[i][0]-points[i-1][0], points[i][1]-points[i-1][1])
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}
	u[len(u)-1] = 1
	return u
}

// clampedKnots returns the clamped knot vector of a degree k spline with len(u) control points. Interior
// knots average k consecutive parameters.
func clampedKnots(u []float64, k int) []float64 {
	m := len(u)
	t := make([]float64, m+k+1)
	for i := m; i < len(t); i++ {
		t[i] = 1
	}
	for j := 1; j <= m-k-1; j++ {
		sum := 0.0
		for i := j; i < j+k; i++ {
			sum += u[i]
		}
		t[j+k] = sum / float64(k)
	}
	return t
}

// findSpan returns the knot span s with t[s] <= x < t[s+1] of a degree k spline with m control points.
// x at the right end belongs to the last non-empty span.
func findSpan(t []float64, k, m int, x float64) int {
	if x >= t[m] {
		return m - 1
	}
	if x <= t[k] {
		return k
	}
	low, high := k, m
	mid := (low + high) / 2
	for x < t[mid] || x >= t[mid+1] {
		if x < t[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisFuns returns the k+1 basis functions that are non-zero on span, belonging to control points
// span-k..span.
func basisFuns(t []float64, k, span int, x float64) []float64 {
	n := make([]float64, k+1)
	left := make([]float64, k+1)
	right := make([]float64, k+1)
	n[0] = 1
	for j := 1; j <= k; j++ {
		left[j] = x - t[span+1-j]
		right[j] = t[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := 0.0
			if d := right[r+1] + left[j-r]; d > 0 {
				temp = n[r] / d
			}
			n[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		n[j] = saved
	}
	return n
}

type bspline struct {
	k       int
	knots   []float64
	control [][2]float64
}

// fitBSpline solves min |B c - y|^2 + lambda |D2 c|^2 for both axes, B the collocation matrix at the
// parameters u and D2 the second difference operator on the control points. The normal equations
// (B'B + lambda D2'D2) c = B'y have bandwidth k and are factored once for both axes.
func fitBSpline(points [][2]float64, u []float64, lambda float64) (*bspline, error) {
	m := len(points)
	k := min(3, m-1)
	knots := clampedKnots(u, k)

	// normal[i][d] holds entry (i, i+d).
	normal := make([][]float64, m)
	for i := range normal {
		normal[i] = make([]float64, k+1)
	}
	rhs := mat.NewDense(m, 2, nil)
	for i := 0; i < m; i++ {
		span := findSpan(knots, k, m, u[i])
		n := basisFuns(knots, k, span, u[i])
		first := span - k
		for r := 0; r <= k; r++ {
			row := first + r
			rhs.Set(row, 0, rhs.At(row, 0)+n[r]*points[i][0])
			rhs.Set(row, 1, rhs.At(row, 1)+n[r]*points[i][1])
			for c := r; c <= k; c++ {
				normal[row][c-r] += n[r] * n[c]
			}
		}
	}
	// m >= 3 implies k >= 2, the penalty fits in the band.
	if lambda > 0 && m >= 3 {
		d2 := [3]float64{1, -2, 1}
		for r := 0; r+2 < m; r++ {
			for a := 0; a < 3; a++ {
				for b := a; b < 3; b++ {
					normal[r+a][b-a] += lambda * d2[a] * d2[b]
				}
			}
		}
	}

	band := mat.NewSymBandDense(m, k, nil)
	for i := 0; i < m; i++ {
		for d := 0; d <= k && i+d < m; d++ {
			band.SetSymBand(i, i+d, normal[i][d])
		}
	}

	var c mat.Dense
	var chol mat.BandCholesky
	if chol.Factorize(band) {
		if err := chol.SolveTo(&c, rhs); err != nil && !isCondition(err) {
			return nil, err
		}
	} else if err := leastSquares(&c, points, u, knots, k, lambda); err != nil {
		return nil, err
	}

	control := make([][2]float64, m)
	for i := 0; i < m; i++ {
		control[i] = [2]float64{c.At(i, 0), c.At(i, 1)}
	}
	return &bspline{k: k, knots: knots, control: control}, nil
}

// leastSquares solves the stacked system [B; sqrt(lambda) D2] c = [y; 0] with QR. Used when the normal
// equations are not numerically positive definite.
func leastSquares(dst *mat.Dense, points [][2]float64, u, knots []float64, k int, lambda float64) error {
	m := len(points)
	penaltyRows := 0
	if lambda > 0 && m >= 3 {
		penaltyRows = m - 2
	}

	a := mat.NewDense(m+penaltyRows, m, nil)
	b := mat.NewDense(m+penaltyRows, 2, nil)
	for i := 0; i < m; i++ {
		span := findSpan(knots, k, m, u[i])
		for r, v := range basisFuns(knots, k, span, u[i]) {
			a.Set(i, span-k+r, v)
		}
		b.Set(i, 0, points[i][0])
		b.Set(i, 1, points[i][1])
	}
	w := math.Sqrt(lambda)
	for r := 0; r < penaltyRows; r++ {
		a.Set(m+r, r, w)
		a.Set(m+r, r+1, -2*w)
		a.Set(m+r, r+2, w)
	}

	if err := dst.Solve(a, b); err != nil && !isCondition(err) {
		return err
	}
	return nil
}

func isCondition(err error) bool {
	var cond mat.Condition
	return errors.As(err, &cond)
}

func (s *bspline) eval(x float64) [2]float64 {
	span := findSpan(s.knots, s.k, len(s.control), x)
	n := basisFuns(s.knots, s.k, span, x)
	var p [2]float64
	for r, b := range n {
		p[0] += b * s.control[span-s.k+r][0]
		p[1] += b * s.control[span-s.k+r][1]
	}
	return p
}
