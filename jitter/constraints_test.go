package jitter

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/nimbus-robotics/jitterkit/spatialmath"
)

func TestToolDirectionConstraintRejectsZeroDirection(t *testing.T) {
	_, err := NewToolDirectionConstraint(r3.Vector{}, 0.9)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestToolDirectionConstraintRejectsOutOfRangeCosine(t *testing.T) {
	_, err := NewToolDirectionConstraint(r3.Vector{Z: 1}, 1.5)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestToolDirectionConstraintIsSatisfied(t *testing.T) {
	c, err := NewToolDirectionConstraint(r3.Vector{Z: 1}, 0.99)
	test.That(t, err, test.ShouldBeNil)

	straight := spatialmath.NewZeroPose()
	test.That(t, c.IsSatisfied(straight), test.ShouldBeTrue)
}

func TestToolPositionConstraintIsSatisfied(t *testing.T) {
	box := spatialmath.NewOBB(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}, nil)
	c, err := NewToolPositionConstraint(box)
	test.That(t, err, test.ShouldBeNil)

	inside := spatialmath.NewPoseFromPoint(r3.Vector{X: 0.5})
	outside := spatialmath.NewPoseFromPoint(r3.Vector{X: 5})
	test.That(t, c.IsSatisfied(inside), test.ShouldBeTrue)
	test.That(t, c.IsSatisfied(outside), test.ShouldBeFalse)
}

func TestToolPositionConstraintRejectsNegativeExtents(t *testing.T) {
	box := spatialmath.NewOBB(r3.Vector{}, r3.Vector{X: -1}, nil)
	_, err := NewToolPositionConstraint(box)
	test.That(t, err, test.ShouldNotBeNil)
}
