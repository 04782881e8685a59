package trajectory

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestCubicInterpolationMatchesEndpointVelocities(t *testing.T) {
	spec, err := NewConfigSpec([]Group{
		{Name: "deltatime", DOF: 1, Interpolation: InterpNone},
		{Name: "joint_values arm1", DOF: 1, Interpolation: InterpCubic},
		{Name: "joint_velocities arm1", DOF: 1, Interpolation: InterpLinear},
	})
	test.That(t, err, test.ShouldBeNil)

	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	// A pure quadratic profile x(s) = s^2 over [0, 2] has velocity 2s,
	// so endpoints (value, velocity) = (0, 0) and (4, 4).
	test.That(t, traj.Insert(0, []float64{0, 0, 0}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{2, 4, 4}), test.ShouldBeNil)

	mid, err := traj.Sample(1)
	test.That(t, err, test.ShouldBeNil)
	// x(1) for x(s)=s^2 is 1; the semantic sort places joint_values at
	// column 2, after deltatime and joint_velocities.
	test.That(t, mid[2], test.ShouldAlmostEqual, 1, 1e-9)
}

func TestQuadraticInterpolatorUsesLinkedVelocityGroup(t *testing.T) {
	spec, err := NewConfigSpec([]Group{
		{Name: "deltatime", DOF: 1, Interpolation: InterpNone},
		{Name: "joint_values arm1", DOF: 1, Interpolation: InterpQuadratic},
		{Name: "joint_velocities arm1", DOF: 1, Interpolation: InterpLinear},
	})
	test.That(t, err, test.ShouldBeNil)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	// x(s) = s^2 over [0, 2]: velocity 2s, so (value, velocity) endpoints
	// are (0, 0) and (4, 4).
	test.That(t, traj.Insert(0, []float64{0, 0, 0}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{2, 4, 4}), test.ShouldBeNil)

	mid, err := traj.Sample(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mid[2], test.ShouldAlmostEqual, 1, 1e-9)
}

func TestQuadraticInterpolatorRejectsGroupWithNoDerivativeOrIntegralChain(t *testing.T) {
	spec, err := NewConfigSpec([]Group{
		{Name: "deltatime", DOF: 1, Interpolation: InterpNone},
		{Name: "joint_values arm1", DOF: 1, Interpolation: InterpQuadratic},
	})
	test.That(t, err, test.ShouldBeNil)
	_, err = Init(spec, 0, false)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestIkparamRotation3DSlerps(t *testing.T) {
	spec, err := NewConfigSpec([]Group{
		{Name: "deltatime", DOF: 1, Interpolation: InterpNone},
		{Name: "ikparam_values rotation3d", DOF: 4, Interpolation: InterpLinear},
	})
	test.That(t, err, test.ShouldBeNil)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)

	identity := quat.Number{Real: 1}
	half := math.Pi / 4
	quarterTurn := quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}

	test.That(t, traj.Insert(0, []float64{0, identity.Real, identity.Imag, identity.Jmag, identity.Kmag}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{2, quarterTurn.Real, quarterTurn.Imag, quarterTurn.Jmag, quarterTurn.Kmag}), test.ShouldBeNil)

	mid, err := traj.Sample(1)
	test.That(t, err, test.ShouldBeNil)
	// Halfway through a 90 degree rotation about Z should be a 45 degree
	// rotation: cos(22.5deg) real part.
	test.That(t, mid[1], test.ShouldAlmostEqual, math.Cos(math.Pi/8), 1e-6)
}
