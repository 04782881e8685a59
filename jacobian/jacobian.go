// Package jacobian decomposes a manipulator Jacobian into a workspace-bias
// joint velocity and a basis for its null space, for use by the jitter
// package's directional sampling bias.
package jacobian

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// singularValueFloor is the threshold below which a singular value is
// treated as zero when building the pseudo-inverse, matching the tolerance
// used by the teacher's own SVD-based geometry code.
const singularValueFloor = 1e-7

// ErrCommandNotSupported is returned when the Jacobian cannot be decomposed,
// e.g. because the SVD fails to converge. Callers treat this the same way
// the teacher's linear-algebra backends report an unsupported operation:
// fail loudly at set time rather than silently skipping the bias term.
var ErrCommandNotSupported = errors.New("command not supported: jacobian decomposition unavailable")

// Result holds the outcome of decomposing a Jacobian for a desired
// Cartesian bias direction.
type Result struct {
	// Bias is the joint-space velocity (q_b) whose Cartesian effect best
	// matches the requested bias direction, in a least-squares sense.
	Bias []float64
	// NullBasis holds one row per null-space basis vector; motion along
	// any linear combination of these rows produces no Cartesian motion
	// at the manipulator.
	NullBasis [][]float64
	// Rank is the numerical rank of j, i.e. the number of singular values
	// above singularValueFloor.
	Rank int
}

// Decompose factorizes j (a 3xN or 6xN manipulator Jacobian) via SVD and
// returns the joint-space velocity that best realizes bias in Cartesian
// space together with a basis for j's null space.
func Decompose(j *mat.Dense, bias r3.Vector) (Result, error) {
	rows, cols := j.Dims()
	if rows == 0 || cols == 0 {
		return Result{}, errors.New("jacobian: empty matrix")
	}

	var svd mat.SVD
	ok := svd.Factorize(j, mat.SVDFull)
	if !ok {
		return Result{}, ErrCommandNotSupported
	}

	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	rank := 0
	for _, s := range values {
		if s > singularValueFloor {
			rank++
		}
	}

	b := biasVector(rows, bias)

	// q_b = V * Sigma+ * U^T * b
	utb := make([]float64, len(values))
	for i := range values {
		sum := 0.0
		for r := 0; r < rows; r++ {
			sum += u.At(r, i) * b[r]
		}
		if values[i] > singularValueFloor {
			utb[i] = sum / values[i]
		} else {
			utb[i] = 0
		}
	}

	qb := make([]float64, cols)
	for c := 0; c < cols; c++ {
		sum := 0.0
		for i := range values {
			sum += v.At(c, i) * utb[i]
		}
		qb[c] = sum
	}

	nullBasis := make([][]float64, 0, cols-rank)
	for i := rank; i < cols; i++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			row[c] = v.At(c, i)
		}
		nullBasis = append(nullBasis, row)
	}

	return Result{Bias: qb, NullBasis: nullBasis, Rank: rank}, nil
}

func biasVector(rows int, bias r3.Vector) []float64 {
	b := make([]float64, rows)
	if rows >= 1 {
		b[0] = bias.X
	}
	if rows >= 2 {
		b[1] = bias.Y
	}
	if rows >= 3 {
		b[2] = bias.Z
	}
	return b
}
