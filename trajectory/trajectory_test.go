package trajectory

import (
	"testing"

	"go.viam.com/test"
)

func simpleLinearSpec(t *testing.T) *ConfigSpec {
	spec, err := NewConfigSpec([]Group{
		{Name: "deltatime", DOF: 1, Interpolation: InterpNone},
		{Name: "joint_values arm1", DOF: 2, Interpolation: InterpLinear},
	})
	test.That(t, err, test.ShouldBeNil)
	return spec
}

func TestInsertOverwriteRemove(t *testing.T) {
	spec := simpleLinearSpec(t)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, traj.Insert(0, []float64{0, 0, 0}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{1, 1, 1}), test.ShouldBeNil)
	test.That(t, traj.Len(), test.ShouldEqual, 2)

	test.That(t, traj.Overwrite(1, []float64{1, 2, 2}), test.ShouldBeNil)
	wp, err := traj.GetWaypoint(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, wp, test.ShouldResemble, []float64{1, 2, 2})

	test.That(t, traj.Remove(0), test.ShouldBeNil)
	test.That(t, traj.Len(), test.ShouldEqual, 1)
}

func TestInsertRejectsWrongWidth(t *testing.T) {
	spec := simpleLinearSpec(t)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	err = traj.Insert(0, []float64{1, 2})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSampleAtZeroAndDurationMatchWaypoints(t *testing.T) {
	spec := simpleLinearSpec(t)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, traj.Insert(0, []float64{0, 0, 0}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{1, 10, 20}), test.ShouldBeNil)
	test.That(t, traj.Insert(2, []float64{1, 20, 40}), test.ShouldBeNil)

	first, err := traj.Sample(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first, test.ShouldResemble, []float64{0, 0, 0})

	duration, err := traj.Duration()
	test.That(t, err, test.ShouldBeNil)
	last, err := traj.Sample(duration)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, last[1], test.ShouldAlmostEqual, 20, 1e-9)
	test.That(t, last[2], test.ShouldAlmostEqual, 40, 1e-9)
}

func TestSampleLinearMidpoint(t *testing.T) {
	spec := simpleLinearSpec(t)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, traj.Insert(0, []float64{0, 0, 0}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{2, 10, 20}), test.ShouldBeNil)

	mid, err := traj.Sample(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mid[1], test.ShouldAlmostEqual, 5, 1e-9)
	test.That(t, mid[2], test.ShouldAlmostEqual, 10, 1e-9)
}

func TestSamplePointsSameDeltaTimeCount(t *testing.T) {
	spec := simpleLinearSpec(t)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Insert(0, []float64{0, 0, 0}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{4, 8, 8}), test.ShouldBeNil)

	pts, err := traj.SamplePointsSameDeltaTime(1, true, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(pts), test.ShouldEqual, 5)
	test.That(t, pts[0], test.ShouldResemble, []float64{0, 0, 0})
	test.That(t, pts[4][1], test.ShouldAlmostEqual, 8, 1e-9)
}

func TestSampleEmptyTrajectoryErrors(t *testing.T) {
	spec := simpleLinearSpec(t)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	_, err = traj.Sample(0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSampleSingleWaypointReturnsItEverywhere(t *testing.T) {
	spec := simpleLinearSpec(t)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Insert(0, []float64{0, 7, 9}), test.ShouldBeNil)

	row, err := traj.Sample(5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, row, test.ShouldResemble, []float64{0, 7, 9})
}
