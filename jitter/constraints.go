package jitter

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/nimbus-robotics/jitterkit/spatialmath"
)

// ToolDirectionConstraint rejects configurations whose tool frame points
// too far from a reference direction, measured by the cosine of the angle
// between the tool's local Z axis (rotated into world space) and the
// reference direction.
type ToolDirectionConstraint struct {
	direction  r3.Vector
	minCosine  float64
}

// NewToolDirectionConstraint builds a constraint requiring the tool's
// pointing direction to stay within arccos(minCosine) radians of
// direction. direction must be nonzero; minCosine must lie in [-1, 1].
func NewToolDirectionConstraint(direction r3.Vector, minCosine float64) (*ToolDirectionConstraint, error) {
	if direction.Norm() == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "tool direction constraint: direction must be nonzero")
	}
	if minCosine < -1 || minCosine > 1 {
		return nil, errors.Wrap(ErrInvalidArgument, "tool direction constraint: minCosine must be in [-1, 1]")
	}
	return &ToolDirectionConstraint{direction: direction.Normalize(), minCosine: minCosine}, nil
}

// CosAngle returns the cosine of the angle between the manipulator's
// pointing direction and the constraint's reference direction.
func (c *ToolDirectionConstraint) CosAngle(manipulator spatialmath.Pose) float64 {
	toolZ := spatialmath.RotateVector(manipulator.Orientation(), r3.Vector{Z: 1})
	if toolZ.Norm() == 0 {
		return 0
	}
	return toolZ.Normalize().Dot(c.direction)
}

// IsSatisfied reports whether manipulator's pointing direction stays
// within the configured cone.
func (c *ToolDirectionConstraint) IsSatisfied(manipulator spatialmath.Pose) bool {
	return c.CosAngle(manipulator) >= c.minCosine
}

// ToolPositionConstraint rejects configurations whose tool-frame origin
// leaves a bounding region.
type ToolPositionConstraint struct {
	region spatialmath.OBB
}

// NewToolPositionConstraint builds a constraint requiring the tool origin
// to remain within region.
func NewToolPositionConstraint(region spatialmath.OBB) (*ToolPositionConstraint, error) {
	if region.Extents.X < 0 || region.Extents.Y < 0 || region.Extents.Z < 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "tool position constraint: extents must be non-negative")
	}
	return &ToolPositionConstraint{region: region}, nil
}

// IsSatisfied reports whether manipulator's origin lies within the
// constraint's region.
func (c *ToolPositionConstraint) IsSatisfied(manipulator spatialmath.Pose) bool {
	return c.region.Contains(manipulator.Point())
}
