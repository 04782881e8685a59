// Package spatialmath provides the pose, orientation, and bounding-box
// primitives used to describe robot links, tool frames, and workspace
// directions.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Orientation represents a rotation in 3D space.
type Orientation interface {
	Quaternion() quat.Number
	RotationMatrix() *RotationMatrix
}

// quatOrientation is the default Orientation implementation, backed by a
// unit quaternion.
type quatOrientation struct {
	q quat.Number
}

// NewOrientation builds an Orientation from a quaternion, normalizing it.
func NewOrientation(q quat.Number) Orientation {
	return &quatOrientation{q: normalize(q)}
}

// NewZeroOrientation returns the identity rotation.
func NewZeroOrientation() Orientation {
	return &quatOrientation{q: quat.Number{Real: 1}}
}

func (o *quatOrientation) Quaternion() quat.Number { return o.q }

func (o *quatOrientation) RotationMatrix() *RotationMatrix {
	return rotationMatrixFromQuat(o.q)
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// OrientationBetween returns the orientation that rotates from a to b, i.e.
// b = OrientationBetween(a, b) * a.
func OrientationBetween(a, b Orientation) Orientation {
	qa := a.Quaternion()
	qb := b.Quaternion()
	qaInv := quat.Conj(qa)
	qaInv = quat.Scale(1/quat.Abs(qa)/quat.Abs(qa), qaInv)
	return NewOrientation(quat.Mul(qb, qaInv))
}

// OrientationAlmostEqual reports whether a and b represent the same
// rotation within tol radians of arc distance.
func OrientationAlmostEqual(a, b Orientation, tol float64) bool {
	delta := OrientationBetween(a, b)
	theta := 2 * math.Acos(clamp1(delta.Quaternion().Real))
	return math.Abs(theta) <= tol
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// RotateVector applies o's rotation to v.
func RotateVector(o Orientation, v r3.Vector) r3.Vector {
	qv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	q := o.Quaternion()
	qInv := quat.Conj(q)
	res := quat.Mul(quat.Mul(q, qv), qInv)
	return r3.Vector{X: res.Imag, Y: res.Jmag, Z: res.Kmag}
}
