package trajectory

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nimbus-robotics/jitterkit/mathutil"
)

// deltaTimeGroupName is the reserved group name holding each waypoint's
// time offset from the previous one.
const deltaTimeGroupName = "deltatime"

// Trajectory is a time-parameterized sequence of waypoints, stored as a
// flat row-major buffer over a ConfigSpec's column layout.
type Trajectory struct {
	spec *ConfigSpec
	rows int
	data []float64 // rows * spec.DOF(), row-major

	deltaTimeOffset int
	hasDeltaTime    bool

	interpolators []interpolator // one per group, aligned with spec.Groups

	accumTime    []float64 // cumulative time at each row
	deltaInvTime []float64 // 1/deltaTime for each row > 0

	internalDirty bool
	verifiedDirty bool
}

// Init constructs an empty Trajectory over spec. reserveRows and
// reserveTimeCaches preallocate backing storage without affecting
// semantics.
func Init(spec *ConfigSpec, reserveRows int, reserveTimeCaches bool) (*Trajectory, error) {
	if spec == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "trajectory: spec must not be nil")
	}
	t := &Trajectory{
		spec:          spec,
		internalDirty: true,
		verifiedDirty: true,
	}
	if reserveRows > 0 {
		t.data = make([]float64, 0, reserveRows*spec.DOF())
		if reserveTimeCaches {
			t.accumTime = make([]float64, 0, reserveRows)
			t.deltaInvTime = make([]float64, 0, reserveRows)
		}
	}
	if g, ok := spec.FindGroup(deltaTimeGroupName); ok {
		t.hasDeltaTime = true
		t.deltaTimeOffset = g.Offset
	}
	if err := t.buildInterpolators(); err != nil {
		return nil, err
	}
	return t, nil
}

// Spec returns the trajectory's configuration layout.
func (t *Trajectory) Spec() *ConfigSpec { return t.spec }

// Len returns the number of waypoints currently stored.
func (t *Trajectory) Len() int { return t.rows }

// Insert adds row at position ipoint (0 <= ipoint <= Len()), shifting
// later waypoints back. row must have exactly spec.DOF() entries.
func (t *Trajectory) Insert(ipoint int, row []float64) error {
	if ipoint < 0 || ipoint > t.rows {
		return errors.Wrapf(ErrInvalidArgument, "trajectory: insert index %d out of range [0, %d]", ipoint, t.rows)
	}
	if len(row) != t.spec.DOF() {
		return errors.Wrapf(ErrInvalidArgument, "trajectory: row has %d columns, spec expects %d", len(row), t.spec.DOF())
	}

	dof := t.spec.DOF()
	newData := make([]float64, len(t.data)+dof)
	copy(newData, t.data[:ipoint*dof])
	copy(newData[ipoint*dof:], row)
	copy(newData[(ipoint+1)*dof:], t.data[ipoint*dof:])
	t.data = newData
	t.rows++
	t.markDirty()
	return nil
}

// Overwrite replaces the waypoint at ipoint in place.
func (t *Trajectory) Overwrite(ipoint int, row []float64) error {
	if ipoint < 0 || ipoint >= t.rows {
		return errors.Wrapf(ErrInvalidArgument, "trajectory: overwrite index %d out of range [0, %d)", ipoint, t.rows)
	}
	if len(row) != t.spec.DOF() {
		return errors.Wrapf(ErrInvalidArgument, "trajectory: row has %d columns, spec expects %d", len(row), t.spec.DOF())
	}
	dof := t.spec.DOF()
	copy(t.data[ipoint*dof:(ipoint+1)*dof], row)
	t.markDirty()
	return nil
}

// Remove deletes the waypoint at ipoint.
func (t *Trajectory) Remove(ipoint int) error {
	if ipoint < 0 || ipoint >= t.rows {
		return errors.Wrapf(ErrInvalidArgument, "trajectory: remove index %d out of range [0, %d)", ipoint, t.rows)
	}
	dof := t.spec.DOF()
	newData := make([]float64, len(t.data)-dof)
	copy(newData, t.data[:ipoint*dof])
	copy(newData[ipoint*dof:], t.data[(ipoint+1)*dof:])
	t.data = newData
	t.rows--
	t.markDirty()
	return nil
}

// GetWaypoint returns a copy of the row stored at ipoint.
func (t *Trajectory) GetWaypoint(ipoint int) ([]float64, error) {
	if ipoint < 0 || ipoint >= t.rows {
		return nil, errors.Wrapf(ErrInvalidArgument, "trajectory: index %d out of range [0, %d)", ipoint, t.rows)
	}
	dof := t.spec.DOF()
	out := make([]float64, dof)
	copy(out, t.data[ipoint*dof:(ipoint+1)*dof])
	return out, nil
}

// GetWaypoints returns a copy of every stored row.
func (t *Trajectory) GetWaypoints() [][]float64 {
	out := make([][]float64, t.rows)
	dof := t.spec.DOF()
	for i := 0; i < t.rows; i++ {
		row := make([]float64, dof)
		copy(row, t.data[i*dof:(i+1)*dof])
		out[i] = row
	}
	return out
}

func (t *Trajectory) markDirty() {
	t.internalDirty = true
	t.verifiedDirty = true
}

// ensureInternal lazily recomputes accumTime and deltaInvTime after any
// mutation, rather than on every insert/remove. accumTime[i] is seeded
// from row i's own deltatime (not just the delta from row i-1), so
// accumTime[0] equals the first waypoint's recorded deltatime rather
// than 0. A negative deltatime at any row fails with ErrInvalidState.
func (t *Trajectory) ensureInternal() error {
	if !t.internalDirty {
		return nil
	}
	accumTime := make([]float64, t.rows)
	deltaInvTime := make([]float64, t.rows)
	if t.hasDeltaTime {
		dof := t.spec.DOF()
		accum := 0.0
		for i := 0; i < t.rows; i++ {
			dt := t.data[i*dof+t.deltaTimeOffset]
			if dt < 0 {
				return errors.Wrapf(ErrInvalidState, "trajectory: waypoint %d has negative deltatime %v", i, dt)
			}
			accum += dt
			accumTime[i] = accum
			if dt > 0 {
				deltaInvTime[i] = 1 / dt
			}
		}
	}
	t.accumTime = accumTime
	t.deltaInvTime = deltaInvTime
	t.internalDirty = false
	return nil
}

// ensureVerified lazily rebuilds every group's interpolator after any
// mutation, failing when a group's interpolation lacks the linked
// derivative or integral groups it needs.
func (t *Trajectory) ensureVerified() error {
	if !t.verifiedDirty {
		return nil
	}
	if err := t.buildInterpolators(); err != nil {
		return err
	}
	t.verifiedDirty = false
	return nil
}

// Duration returns the total accumulated time across all waypoints, or 0
// if the spec has no deltatime group.
func (t *Trajectory) Duration() (float64, error) {
	if err := t.ensureInternal(); err != nil {
		return 0, err
	}
	if t.rows == 0 {
		return 0, nil
	}
	return t.accumTime[t.rows-1], nil
}

// locateSegment returns the waypoint index i such that accumTime[i] <= at
// <= accumTime[i+1], along with the fraction of the way through that
// segment and the segment's duration.
func (t *Trajectory) locateSegment(at float64) (idx int, frac, segDur float64, err error) {
	if err = t.ensureInternal(); err != nil {
		return 0, 0, 0, err
	}
	n := t.rows
	if n == 0 {
		return 0, 0, 0, nil
	}
	if n == 1 || at <= t.accumTime[0] {
		return 0, 0, 0, nil
	}
	if at >= t.accumTime[n-1] {
		return n - 2, 1, t.accumTime[n-1] - t.accumTime[n-2], nil
	}
	i := sort.Search(n, func(i int) bool { return t.accumTime[i] >= at }) - 1
	i = mathutil.MaxInt(0, mathutil.MinInt(i, n-2))
	segDur = t.accumTime[i+1] - t.accumTime[i]
	if segDur <= 0 {
		return i, 0, 0, nil
	}
	// Clamp for floating-point safety: at should lie within
	// [accumTime[i], accumTime[i+1]] but rounding in accumulation can
	// push it fractionally outside.
	frac = mathutil.Clamp((at-t.accumTime[i])/segDur, 0, 1)
	return i, frac, segDur, nil
}
