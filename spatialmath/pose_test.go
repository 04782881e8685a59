package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestComposeInvertIdentity(t *testing.T) {
	p := NewPose(r3.Vector{X: 1, Y: 2, Z: 3}, NewOrientation(quat.Number{Real: 1}))
	inv := Invert(p)
	id := Compose(p, inv)
	test.That(t, id.Point().X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, id.Point().Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, id.Point().Z, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestPoseDeltaRoundTrip(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 1, Y: 0, Z: 0})
	b := NewPoseFromPoint(r3.Vector{X: 4, Y: 5, Z: 6})
	delta := PoseDelta(a, b)
	back := Compose(a, delta)
	test.That(t, back.Point().X, test.ShouldAlmostEqual, b.Point().X, 1e-9)
	test.That(t, back.Point().Y, test.ShouldAlmostEqual, b.Point().Y, 1e-9)
	test.That(t, back.Point().Z, test.ShouldAlmostEqual, b.Point().Z, 1e-9)
}

func TestRotateVectorQuarterTurnAboutZ(t *testing.T) {
	// 90 degree rotation about Z: (1,0,0) -> (0,1,0)
	half := math.Pi / 4
	q := quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}
	o := NewOrientation(q)
	out := RotateVector(o, r3.Vector{X: 1})
	test.That(t, out.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, out.Y, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, out.Z, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestOrientationAlmostEqual(t *testing.T) {
	a := NewZeroOrientation()
	b := NewOrientation(quat.Number{Real: math.Cos(1e-7)})
	test.That(t, OrientationAlmostEqual(a, b, 1e-4), test.ShouldBeTrue)
}

func TestOBBContains(t *testing.T) {
	box := NewOBB(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}, nil)
	test.That(t, box.Contains(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}), test.ShouldBeTrue)
	test.That(t, box.Contains(r3.Vector{X: 2, Y: 0, Z: 0}), test.ShouldBeFalse)
}

func TestOBBToAABB(t *testing.T) {
	box := NewOBB(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 1, Y: 1, Z: 1}, nil)
	aabb := box.ToAABB()
	test.That(t, aabb.Center.X, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, aabb.Extents.X, test.ShouldAlmostEqual, 1, 1e-9)
}
