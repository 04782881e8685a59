package trajectory

import (
	"math"

	"github.com/pkg/errors"
)

// sameDeltaTimeEpsilon is the tolerance used when deciding whether the
// last regularly spaced sample already covers the trajectory's duration
// (or a range's end), below the upstream generic trajectory's matching
// constant for the same decision.
const sameDeltaTimeEpsilon = 1e-9

// Sample returns the configuration vector at time at, interpolating each
// group independently according to its configured Interpolation.
// A time at or before the first waypoint returns a copy of the first
// waypoint, and a time at or after Duration() returns a copy of the last.
func (t *Trajectory) Sample(at float64) ([]float64, error) {
	if t.rows == 0 {
		return nil, errors.Wrap(ErrInvalidState, "trajectory: cannot sample an empty trajectory")
	}
	if err := t.ensureVerified(); err != nil {
		return nil, err
	}
	if t.rows == 1 {
		return t.GetWaypoint(0)
	}
	duration, err := t.Duration()
	if err != nil {
		return nil, err
	}
	if at >= duration {
		return t.GetWaypoint(t.rows - 1)
	}
	if at <= t.accumTime[0] {
		return t.GetWaypoint(0)
	}

	segIdx, frac, segDur, err := t.locateSegment(at)
	if err != nil {
		return nil, err
	}

	out := make([]float64, t.spec.DOF())
	for gi, g := range t.spec.Groups {
		dst := out[g.Offset : g.Offset+g.DOF]
		if err := t.interpolators[gi].sample(t, &t.spec.Groups[gi], segIdx, frac, segDur, dst); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SamplePointsSameDeltaTime returns ceil(Duration()/deltaTime) samples
// taken at i*deltaTime for i = 0, 1, .... If ensureLast is true and the
// last regularly spaced sample still falls strictly short of Duration(),
// one further row is appended holding the trajectory's final waypoint
// verbatim (not a re-sample at Duration(), which floating point could
// otherwise perturb away from the stored values). If dstSpec is
// non-nil and differs from the trajectory's own spec, every row is run
// through ConvertData into dstSpec's layout before being returned.
func (t *Trajectory) SamplePointsSameDeltaTime(deltaTime float64, ensureLast bool, dstSpec *ConfigSpec) ([][]float64, error) {
	if deltaTime <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "trajectory: deltaTime must be positive")
	}
	duration, err := t.Duration()
	if err != nil {
		return nil, err
	}
	var lastWaypoint []float64
	if t.rows > 0 {
		lastWaypoint, err = t.GetWaypoint(t.rows - 1)
		if err != nil {
			return nil, err
		}
	}
	return t.sampleFixedDeltaTime(0, duration, deltaTime, ensureLast, lastWaypoint, dstSpec)
}

// SampleRangeSameDeltaTime returns ceil((tStop-tStart)/deltaTime) samples
// taken at tStart+i*deltaTime for i = 0, 1, .... ensureLast and dstSpec
// behave as in SamplePointsSameDeltaTime, with the trailing row (when
// added) holding the trajectory's state at tStop rather than an
// arbitrary waypoint.
func (t *Trajectory) SampleRangeSameDeltaTime(tStart, tStop, deltaTime float64, ensureLast bool, dstSpec *ConfigSpec) ([][]float64, error) {
	if deltaTime <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "trajectory: deltaTime must be positive")
	}
	if tStop < tStart {
		return nil, errors.Wrap(ErrInvalidArgument, "trajectory: tStop must not precede tStart")
	}
	return t.sampleFixedDeltaTime(tStart, tStop, deltaTime, ensureLast, nil, dstSpec)
}

// sampleFixedDeltaTime samples at start+i*deltaTime for i=0,1,.... When
// ensureLast is true and the last regularly spaced sample falls strictly
// short of stop, one further row is appended: finalOverride verbatim if
// given (used by SamplePointsSameDeltaTime to supply the trajectory's
// last waypoint exactly), else an interpolated sample at stop.
func (t *Trajectory) sampleFixedDeltaTime(start, stop, deltaTime float64, ensureLast bool, finalOverride []float64, dstSpec *ConfigSpec) ([][]float64, error) {
	span := stop - start
	numPoints := int(math.Ceil(span / deltaTime))
	if numPoints < 1 {
		numPoints = 1
	}
	lastRegular := start + float64(numPoints-1)*deltaTime
	appendFinal := ensureLast && lastRegular < stop-sameDeltaTimeEpsilon
	if appendFinal {
		numPoints++
	}

	out := make([][]float64, numPoints)
	for i := 0; i < numPoints; i++ {
		var row []float64
		var err error
		switch {
		case appendFinal && i == numPoints-1 && finalOverride != nil:
			row = append([]float64(nil), finalOverride...)
		case appendFinal && i == numPoints-1:
			row, err = t.Sample(stop)
		default:
			row, err = t.Sample(start + float64(i)*deltaTime)
		}
		if err != nil {
			return nil, err
		}
		if dstSpec != nil && dstSpec != t.spec {
			row, err = ConvertData(t.spec, row, dstSpec)
			if err != nil {
				return nil, err
			}
		}
		out[i] = row
	}
	return out, nil
}
