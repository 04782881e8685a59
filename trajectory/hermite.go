package trajectory

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// hermiteConstraint pins the value of the derivOrder-th derivative of a
// per-segment polynomial at local time at (0 or the segment duration).
type hermiteConstraint struct {
	derivOrder int
	at         float64
	value      float64
}

// solveHermiteCoefficients solves for the coefficients c_0..c_n of
// p(s) = sum_i c_i * s^i, of degree len(constraints)-1, satisfying every
// given constraint. Returns ErrCommandNotSupported if the constraint
// matrix is singular, matching the fail-loudly convention used by the
// jacobian package's SVD decomposition.
func solveHermiteCoefficients(constraints []hermiteConstraint) ([]float64, error) {
	n := len(constraints)
	if n == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "hermite: need at least one constraint")
	}

	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	for r, c := range constraints {
		for i := 0; i < n; i++ {
			a.Set(r, i, derivativeCoefficient(i, c.derivOrder, c.at))
		}
		b.SetVec(r, c.value)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(ErrCommandNotSupported, "hermite: singular constraint system")
	}

	coeffs := make([]float64, n)
	for i := 0; i < n; i++ {
		coeffs[i] = x.AtVec(i)
	}
	return coeffs, nil
}

// derivativeCoefficient returns the coefficient of s^(i-d) in the d-th
// derivative of s^i, evaluated at s = at: (i!/(i-d)!) * at^(i-d), or 0
// when d > i.
func derivativeCoefficient(i, d int, at float64) float64 {
	if d > i {
		return 0
	}
	coeff := 1.0
	for k := 0; k < d; k++ {
		coeff *= float64(i - k)
	}
	power := i - d
	return coeff * intPow(at, power)
}

func intPow(base float64, exp int) float64 {
	if exp == 0 {
		return 1
	}
	result := 1.0
	for k := 0; k < exp; k++ {
		result *= base
	}
	return result
}

// solveCubicIntegralCoefficients solves for the coefficients c0..c3 of
// p(s) = c0 + c1*s + c2*s^2 + c3*s^3 over a segment of duration segDur,
// given the group's own value at both endpoints (g0, g1) plus the
// segment's definite integral (the delta of the linked one-level-up
// integral group) and double integral (the delta of the linked
// two-level-up integral group, from which the caller subtracts segDur
// times the one-level-up integral group's value at the segment start,
// the first integration's constant of integration).
// This is the fallback used by the cubic interpolator when no
// derivative group is linked but a full integral+integral^2 chain is.
func solveCubicIntegralCoefficients(g0, g1, segDur, integral, doubleIntegral float64) ([]float64, error) {
	a := mat.NewDense(3, 3, []float64{
		segDur, segDur * segDur, segDur * segDur * segDur,
		segDur * segDur / 2, segDur * segDur * segDur / 3, segDur * segDur * segDur * segDur / 4,
		segDur * segDur * segDur / 6, segDur * segDur * segDur * segDur / 12, segDur * segDur * segDur * segDur * segDur / 20,
	})
	b := mat.NewVecDense(3, []float64{
		g1 - g0,
		integral - g0*segDur,
		doubleIntegral - g0*segDur*segDur/2,
	})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(ErrCommandNotSupported, "hermite: singular integral constraint system")
	}
	return []float64{g0, x.AtVec(0), x.AtVec(1), x.AtVec(2)}, nil
}

// evalPoly evaluates sum_i coeffs[i] * s^i.
func evalPoly(coeffs []float64, s float64) float64 {
	result := 0.0
	power := 1.0
	for _, c := range coeffs {
		result += c * power
		power *= s
	}
	return result
}
