// Package mathutil holds small scalar and vector helpers shared by the
// spatialmath, jacobian, jitter, and trajectory packages.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AlmostEqual reports whether a and b differ by no more than tol.
func AlmostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// EuclideanDistance returns the unweighted L2 distance between a and b.
// a and b must have equal length.
func EuclideanDistance(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Norm(diff, 2)
}

// WeightedEuclideanDistance returns the L2 distance between a and b after
// scaling each dimension's difference by the corresponding weight.
// a, b, and weights must have equal length.
func WeightedEuclideanDistance(a, b, weights []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	floats.Mul(diff, weights)
	return floats.Norm(diff, 2)
}
