package jitter

import (
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nimbus-robotics/jitterkit/jacobian"
	"github.com/nimbus-robotics/jitterkit/logging"
	"github.com/nimbus-robotics/jitterkit/spatialmath"
)

// CallbackHandle deregisters, when closed, a callback added with
// Jitterer.RegisterChangeCallback. Those callbacks fire after the
// Jitterer's own setting commands; the Jitterer does not subscribe to
// change notifications from its robot.
type CallbackHandle struct {
	close func()
}

// Close deregisters the callback. Safe to call more than once.
func (h *CallbackHandle) Close() {
	if h != nil && h.close != nil {
		h.close()
		h.close = nil
	}
}

// Jitterer finds a nearby feasible configuration for an infeasible robot
// configuration via structured random perturbation, optionally biased
// toward a workspace direction through a Jacobian null-space decomposition.
type Jitterer struct {
	mu       sync.Mutex
	robot    RobotAdapter
	cache    *DistanceCache
	opts     Options
	log      logging.Logger
	rng      *distuv.Uniform
	failures map[FailureCategory]int
	statusCB StatusCallback

	changeMu  sync.Mutex
	callbacks map[int]func()
	nextCBID  int

	everSampled bool
}

// New builds a Jitterer around robot using opts for its tuning. log may be
// nil, in which case no logging occurs.
func New(robot RobotAdapter, opts Options, log logging.Logger) (*Jitterer, error) {
	if robot == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "jitterer: robot must not be nil")
	}
	if log == nil {
		log = noopLogger{}
	}
	if err := validatePositive("MaxJitter", opts.MaxJitter); err != nil {
		return nil, err
	}
	if opts.MaxIterations <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "jitterer: MaxIterations must be positive")
	}

	j := &Jitterer{
		robot:     robot,
		cache:     NewDistanceCache(robot.Resolutions()),
		opts:      opts,
		log:       log.Named("jitterer"),
		rng:       &distuv.Uniform{Min: -1, Max: 1},
		failures:  make(map[FailureCategory]int),
		callbacks: make(map[int]func()),
	}
	return j, nil
}

// RegisterChangeCallback runs fn whenever the Jitterer's configured
// constraints change (via its Set* commands). The returned handle must be
// closed to deregister.
func (j *Jitterer) RegisterChangeCallback(fn func()) *CallbackHandle {
	j.changeMu.Lock()
	defer j.changeMu.Unlock()
	id := j.nextCBID
	j.nextCBID++
	j.callbacks[id] = fn
	return &CallbackHandle{close: func() {
		j.changeMu.Lock()
		defer j.changeMu.Unlock()
		delete(j.callbacks, id)
	}}
}

func (j *Jitterer) notifyChange() {
	j.changeMu.Lock()
	cbs := make([]func(), 0, len(j.callbacks))
	for _, fn := range j.callbacks {
		cbs = append(cbs, fn)
	}
	j.changeMu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}

// SetMaxJitter updates the per-DOF perturbation magnitude.
func (j *Jitterer) SetMaxJitter(v float64) error {
	if err := validatePositive("MaxJitter", v); err != nil {
		return err
	}
	j.mu.Lock()
	j.opts.MaxJitter = v
	j.mu.Unlock()
	j.notifyChange()
	return nil
}

// SetStatusCallback installs a function invoked every StatusEvery
// iterations during Sample. Pass nil to remove it.
func (j *Jitterer) SetStatusCallback(fn StatusCallback) {
	j.mu.Lock()
	j.statusCB = fn
	j.mu.Unlock()
}

// SetMaxIterations updates the iteration budget for Sample.
func (j *Jitterer) SetMaxIterations(n int) error {
	if n <= 0 {
		return errors.Wrap(ErrInvalidArgument, "jitterer: MaxIterations must be positive")
	}
	j.mu.Lock()
	j.opts.MaxIterations = n
	j.mu.Unlock()
	j.notifyChange()
	return nil
}

// SetNeighDistThresh updates the novelty radius used against the distance
// cache.
func (j *Jitterer) SetNeighDistThresh(v float64) error {
	if v < 0 {
		return errors.Wrap(ErrInvalidArgument, "jitterer: NeighDistThresh must be non-negative")
	}
	j.mu.Lock()
	j.opts.NeighDistThresh = v
	j.mu.Unlock()
	j.notifyChange()
	return nil
}

// SetPerturbation updates the +/- probe distance used to robustly accept a
// seed or candidate configuration.
func (j *Jitterer) SetPerturbation(v float64) error {
	if v < 0 {
		return errors.Wrap(ErrInvalidArgument, "jitterer: Perturbation must be non-negative")
	}
	j.mu.Lock()
	j.opts.Perturbation = v
	j.mu.Unlock()
	j.notifyChange()
	return nil
}

// SetMaxLinkDistThresh updates the maximum per-link Cartesian excursion
// allowed between the seed and an accepted candidate.
func (j *Jitterer) SetMaxLinkDistThresh(v float64) error {
	if err := validatePositive("MaxLinkDistThresh", v); err != nil {
		return err
	}
	j.mu.Lock()
	j.opts.MaxLinkDistThresh = v
	j.mu.Unlock()
	j.notifyChange()
	return nil
}

// SetResultOnRobot controls whether an accepted candidate is committed to
// the robot (true) or the seed configuration is restored regardless of
// outcome (false).
func (j *Jitterer) SetResultOnRobot(v bool) {
	j.mu.Lock()
	j.opts.SetResultOnRobot = v
	j.mu.Unlock()
	j.notifyChange()
}

// SetResetIterationsOnSample controls whether every Sample call re-runs
// the seed-feasibility probe, or only the first one.
func (j *Jitterer) SetResetIterationsOnSample(v bool) {
	j.mu.Lock()
	j.opts.ResetIterationsOnSample = v
	j.mu.Unlock()
	j.notifyChange()
}

// SetConstraintToolDirection installs (or, if direction is zero, clears)
// a tool-direction constraint.
func (j *Jitterer) SetConstraintToolDirection(direction r3.Vector, minCosine float64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if direction == (r3.Vector{}) {
		j.opts.toolDirection = nil
		j.notifyChangeLocked()
		return nil
	}
	c, err := NewToolDirectionConstraint(direction, minCosine)
	if err != nil {
		return err
	}
	j.opts.toolDirection = c
	j.notifyChangeLocked()
	return nil
}

// SetConstraintToolPosition installs a tool-position constraint.
func (j *Jitterer) SetConstraintToolPosition(region spatialmath.OBB) error {
	c, err := NewToolPositionConstraint(region)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.opts.toolPosition = c
	j.mu.Unlock()
	j.notifyChangeLocked()
	return nil
}

// SetManipulatorBias configures the workspace direction the sampler
// should favor, eagerly validating that the robot's current Jacobian can
// be decomposed. Per the fail-loudly-at-set-time convention, a
// non-decomposable Jacobian is rejected here rather than silently ignored
// during sampling. probs optionally overrides, in order, NullSampleProb,
// NullBiasSampleProb, and DeltaSampleProb; each is left unchanged if not
// supplied.
func (j *Jitterer) SetManipulatorBias(direction r3.Vector, probs ...float64) error {
	manip := j.robot.Manipulator()
	if manip == nil {
		return errors.Wrap(ErrNotImplemented, "jitterer: robot has no manipulator")
	}
	jac, err := manip.Jacobian()
	if err != nil {
		return err
	}
	if _, err := jacobian.Decompose(jac, direction); err != nil {
		return err
	}
	if len(probs) > 3 {
		return errors.Wrap(ErrInvalidArgument, "jitterer: at most 3 probabilities accepted (null, nullBias, delta)")
	}
	for _, p := range probs {
		if err := validateProbability("sample probability", p); err != nil {
			return err
		}
	}

	j.mu.Lock()
	d := direction
	j.opts.bias = &d
	if len(probs) > 0 {
		j.opts.NullSampleProb = probs[0]
	}
	if len(probs) > 1 {
		j.opts.NullBiasSampleProb = probs[1]
	}
	if len(probs) > 2 {
		j.opts.DeltaSampleProb = probs[2]
	}
	j.mu.Unlock()
	j.notifyChangeLocked()
	return nil
}

func (j *Jitterer) notifyChangeLocked() {
	go j.notifyChange()
}

// GetCurrentParameters returns the Jitterer's tuning as a JSON-ready map.
func (j *Jitterer) GetCurrentParameters() map[string]interface{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	return map[string]interface{}{
		"max_jitter":                  j.opts.MaxJitter,
		"max_iterations":              j.opts.MaxIterations,
		"perturbation":                j.opts.Perturbation,
		"max_link_dist_thresh":        j.opts.MaxLinkDistThresh,
		"seed_radius":                 j.opts.SeedRadius,
		"neigh_dist_thresh":           j.opts.NeighDistThresh,
		"null_sample_prob":            j.opts.NullSampleProb,
		"null_bias_sample_prob":       j.opts.NullBiasSampleProb,
		"delta_sample_prob":           j.opts.DeltaSampleProb,
		"set_result_on_robot":         j.opts.SetResultOnRobot,
		"reset_iterations_on_sample":  j.opts.ResetIterationsOnSample,
		"status_every":                j.opts.StatusEvery,
		"has_tool_direction":          j.opts.toolDirection != nil,
		"has_tool_position":           j.opts.toolPosition != nil,
		"has_manipulator_bias":        j.opts.bias != nil,
	}
}

// GetFailuresCount returns a JSON-ready snapshot of failure counts by
// category.
func (j *Jitterer) GetFailuresCount() map[string]interface{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]interface{}, len(j.failures))
	for cat, count := range j.failures {
		out[cat.String()] = count
	}
	return out
}

// FailureCounts returns the raw failure-category counters.
func (j *Jitterer) FailureCounts() map[FailureCategory]int {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[FailureCategory]int, len(j.failures))
	for k, v := range j.failures {
		out[k] = v
	}
	return out
}

func (j *Jitterer) recordFailure(cat FailureCategory) {
	j.mu.Lock()
	j.failures[cat]++
	j.mu.Unlock()
}
