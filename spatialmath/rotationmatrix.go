package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 rotation matrix stored row-major, grounded on the
// row-access pattern used by the teacher's oriented-bounding-box separating
// axis test.
type RotationMatrix struct {
	rows [3]r3.Vector
}

// Row returns row i (0-indexed) of the matrix.
func (m *RotationMatrix) Row(i int) r3.Vector {
	return m.rows[i]
}

// Transform applies the rotation matrix to v.
func (m *RotationMatrix) Transform(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.rows[0].Dot(v),
		Y: m.rows[1].Dot(v),
		Z: m.rows[2].Dot(v),
	}
}

// Transpose returns the transpose (== inverse, for a valid rotation matrix).
func (m *RotationMatrix) Transpose() *RotationMatrix {
	return &RotationMatrix{rows: [3]r3.Vector{
		{X: m.rows[0].X, Y: m.rows[1].X, Z: m.rows[2].X},
		{X: m.rows[0].Y, Y: m.rows[1].Y, Z: m.rows[2].Y},
		{X: m.rows[0].Z, Y: m.rows[1].Z, Z: m.rows[2].Z},
	}}
}

func rotationMatrixFromQuat(q quat.Number) *RotationMatrix {
	n := quat.Abs(q)
	if n == 0 {
		q = quat.Number{Real: 1}
	} else {
		q = quat.Scale(1/n, q)
	}
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{rows: [3]r3.Vector{
		{X: 1 - 2*(y*y+z*z), Y: 2 * (x*y - z*w), Z: 2 * (x*z + y*w)},
		{X: 2 * (x*y + z*w), Y: 1 - 2*(x*x+z*z), Z: 2 * (y*z - x*w)},
		{X: 2 * (x*z - y*w), Y: 2 * (y*z + x*w), Z: 1 - 2*(x*x+y*y)},
	}}
}
