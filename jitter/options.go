package jitter

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Options holds every tunable parameter of the Jitterer, each exposed
// through a validating Set* command on Jitterer itself.
type Options struct {
	// MaxJitter bounds the per-DOF perturbation magnitude applied each
	// iteration.
	MaxJitter float64
	// MaxIterations bounds how many perturb/check cycles Sample will run
	// before giving up.
	MaxIterations int
	// Perturbation is the +/- probe distance applied around a candidate
	// (and the seed) before it is accepted, guarding against small-angle
	// collision-detector inconsistencies.
	Perturbation float64
	// MaxLinkDistThresh is the maximum Cartesian excursion, in meters,
	// any link's local bounding box may sweep through between the seed
	// and an accepted candidate.
	MaxLinkDistThresh float64
	// SeedRadius is the distance (in the DistanceCache's weighted metric)
	// used by the seed-probe step: a feasible seed is not added to the
	// cache when a cached configuration already lies within this radius.
	SeedRadius float64
	// NeighDistThresh is the minimum weighted distance a candidate must
	// keep from every previously cached configuration to be considered
	// novel.
	NeighDistThresh float64
	// NullSampleProb is the probability, per iteration, of adding a
	// random null-space displacement to the candidate.
	NullSampleProb float64
	// NullBiasSampleProb is the probability, per iteration, of adding a
	// scaled bias-direction displacement to the candidate.
	NullBiasSampleProb float64
	// DeltaSampleProb is the probability, per iteration, of adding a
	// random per-DOF jitter delta even when null-space or bias motion
	// already fired.
	DeltaSampleProb float64
	// SetResultOnRobot commits an accepted candidate to the robot. When
	// false, Sample restores the seed configuration even on success.
	SetResultOnRobot bool
	// ResetIterationsOnSample re-runs the seed-feasibility probe on every
	// Sample call, rather than only the first. Each Sample call counts its
	// iterations from zero either way; no iteration counter is carried
	// across calls.
	ResetIterationsOnSample bool
	// StatusEvery configures how many iterations elapse between status
	// callback invocations; zero disables periodic callbacks.
	StatusEvery int

	toolDirection *ToolDirectionConstraint
	toolPosition  *ToolPositionConstraint
	bias          *r3.Vector
}

// DefaultOptions returns the Jitterer's out-of-the-box tuning, matching
// the upstream ConfigurationJitterer's constructor defaults.
func DefaultOptions() Options {
	return Options{
		MaxJitter:               0.02,
		MaxIterations:           5000,
		Perturbation:            1e-5,
		MaxLinkDistThresh:       0.02,
		SeedRadius:              1e-6,
		NeighDistThresh:         1.0,
		NullSampleProb:          0.60,
		NullBiasSampleProb:      0.50,
		DeltaSampleProb:         0.50,
		SetResultOnRobot:        true,
		ResetIterationsOnSample: true,
		StatusEvery:             10,
	}
}

// StatusCallback is invoked periodically during Sample with the iteration
// count and the number of failures recorded so far.
type StatusCallback func(iteration int, failures map[FailureCategory]int)

// FailureCategory classifies why a candidate configuration was rejected.
type FailureCategory int

const (
	// FailureSelfCollision means the candidate collided with the robot
	// itself.
	FailureSelfCollision FailureCategory = iota
	// FailureEnvCollision means the candidate collided with the
	// environment.
	FailureEnvCollision
	// FailureToolDirection means the candidate violated a configured
	// tool-direction constraint.
	FailureToolDirection
	// FailureToolPosition means the candidate violated a configured
	// tool-position constraint.
	FailureToolPosition
	// FailureNotNovel means the candidate was too close, under the
	// DistanceCache's metric, to a configuration already tried.
	FailureNotNovel
	// FailureManifoldProjection means the adapter's NeighStateFn could
	// not project the candidate onto its constraint manifold.
	FailureManifoldProjection
	// FailureLinkDistThresh means some link's local bounding box swept
	// through more Cartesian distance than MaxLinkDistThresh allows.
	FailureLinkDistThresh
	// FailureSameSamples means an iteration drew none of useNull,
	// useBias, or useDelta and so produced no candidate at all.
	FailureSameSamples
)

// String implements fmt.Stringer for log-friendly failure names.
func (f FailureCategory) String() string {
	switch f {
	case FailureSelfCollision:
		return "self_collision"
	case FailureEnvCollision:
		return "env_collision"
	case FailureToolDirection:
		return "tool_direction"
	case FailureToolPosition:
		return "tool_position"
	case FailureNotNovel:
		return "not_novel"
	case FailureManifoldProjection:
		return "manifold_projection"
	case FailureLinkDistThresh:
		return "link_dist_thresh"
	case FailureSameSamples:
		return "same_samples"
	default:
		return "unknown"
	}
}

func validatePositive(name string, v float64) error {
	if v <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "%s must be positive, got %v", name, v)
	}
	return nil
}

func validateProbability(name string, v float64) error {
	if v < 0 || v > 1 {
		return errors.Wrapf(ErrInvalidArgument, "%s must be in [0, 1], got %v", name, v)
	}
	return nil
}
