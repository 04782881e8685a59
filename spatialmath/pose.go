package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a rigid transform: a point plus an orientation.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type basicPose struct {
	point       r3.Vector
	orientation Orientation
}

// NewPose builds a Pose from a point and an orientation.
func NewPose(point r3.Vector, o Orientation) Pose {
	if o == nil {
		o = NewZeroOrientation()
	}
	return &basicPose{point: point, orientation: o}
}

// NewPoseFromPoint builds a Pose with zero rotation at point.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &basicPose{point: point, orientation: NewZeroOrientation()}
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return &basicPose{orientation: NewZeroOrientation()}
}

func (p *basicPose) Point() r3.Vector         { return p.point }
func (p *basicPose) Orientation() Orientation { return p.orientation }

// Compose returns the pose that results from applying b in a's frame,
// i.e. the pose of b as seen from the frame that a is expressed in.
func Compose(a, b Pose) Pose {
	rotatedPoint := RotateVector(a.Orientation(), b.Point())
	point := a.Point().Add(rotatedPoint)
	q := quat.Mul(a.Orientation().Quaternion(), b.Orientation().Quaternion())
	return NewPose(point, NewOrientation(q))
}

// Invert returns the pose whose composition with p yields the identity.
func Invert(p Pose) Pose {
	qInv := quat.Conj(p.Orientation().Quaternion())
	n := quat.Abs(p.Orientation().Quaternion())
	if n != 0 {
		qInv = quat.Scale(1/(n*n), qInv)
	}
	invOrient := NewOrientation(qInv)
	invPoint := RotateVector(invOrient, p.Point()).Mul(-1)
	return NewPose(invPoint, invOrient)
}

// PoseDelta returns the pose that transforms a into b, i.e.
// Compose(a, PoseDelta(a, b)) == b.
func PoseDelta(a, b Pose) Pose {
	return Compose(Invert(a), b)
}
