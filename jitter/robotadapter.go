package jitter

import (
	"gonum.org/v1/gonum/mat"

	"github.com/nimbus-robotics/jitterkit/spatialmath"
)

// Link is one rigid body of the robot, used for bounding-box based
// workspace checks. Collision testing against links is a RobotAdapter
// responsibility; the Jitterer only reads their bounds and poses.
type Link interface {
	Name() string
	LocalAABB() spatialmath.AABB
	Transform() spatialmath.Pose
}

// Manipulator is the end-effector frame the Jitterer may bias samples
// towards, along with the Jacobian relating joint velocities to its
// Cartesian velocity.
type Manipulator interface {
	Transform() spatialmath.Pose
	LocalToolTransform() spatialmath.Pose
	Jacobian() (*mat.Dense, error)
}

// NeighStateFn projects an arbitrary configuration onto whatever
// constraint manifold the robot adapter enforces (e.g. a closed
// kinematic loop), returning the nearest feasible configuration. A nil
// NeighStateFn means the robot has no manifold to project onto.
type NeighStateFn func(q []float64) ([]float64, error)

// RobotAdapter is the sole interface the jitter package needs from a
// concrete robot model. Its kinematic model, collision world, and
// forward-kinematics/Jacobian computation are supplied by the caller; this
// module never implements them.
type RobotAdapter interface {
	// DOF returns the number of degrees of freedom in the configuration
	// vector.
	DOF() int
	// CurrentConfig returns the robot's current configuration.
	CurrentConfig() []float64
	// SetConfig sets the robot's configuration without validating it.
	SetConfig(q []float64) error
	// Limits returns, for each DOF, the [min, max] bound.
	Limits() (min, max []float64)
	// Resolutions returns, for each DOF, the smallest meaningful
	// perturbation (e.g. encoder tick size). A zero entry means no
	// resolution limit is known for that DOF.
	Resolutions() []float64
	// Links enumerates the robot's rigid bodies.
	Links() []Link
	// Manipulator returns the end-effector frame used for directional
	// bias sampling, or nil if the adapter has none.
	Manipulator() Manipulator
	// CheckSelfCollision reports whether the current configuration
	// collides with itself.
	CheckSelfCollision() (bool, error)
	// CheckEnvCollision reports whether the current configuration
	// collides with the environment.
	CheckEnvCollision() (bool, error)
	// NeighStateFn returns the adapter's manifold-projection function, or
	// nil.
	NeighStateFn() NeighStateFn
}
