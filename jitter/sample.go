package jitter

import (
	"context"
	"math"

	"github.com/golang/geo/r3"

	"github.com/nimbus-robotics/jitterkit/jacobian"
	"github.com/nimbus-robotics/jitterkit/mathutil"
	"github.com/nimbus-robotics/jitterkit/spatialmath"
)

// biasRayIncrements are the pure-bias-ray probe fractions tried, in order,
// for the first few iterations of a Sample call when a manipulator bias is
// configured, before falling back to randomized candidate generation.
var biasRayIncrements = []float64{0.2, 0.5, 0.9}

// Sample attempts to find a nearby feasible configuration for the robot's
// current configuration. Each iteration generates a perturbed candidate,
// projects it onto the robot's constraint manifold (if any), rejects it if
// it is not novel against the distance cache, rejects it if any link swept
// through more Cartesian distance than MaxLinkDistThresh allows, and
// otherwise robustly accepts it by probing tool-direction, tool-position,
// environment-collision, and self-collision constraints at {+perturbation,
// -perturbation, 0} around it.
//
// Sample returns -1 if the starting configuration was already feasible
// (under the same perturbation-robust probe) and no change was made; 1 if
// a new feasible configuration was found and (per SetResultOnRobot)
// committed; and 0 if the iteration budget was exhausted, or the call was
// cancelled, without finding one, in which case the robot is restored to
// its starting configuration.
func (j *Jitterer) Sample(ctx context.Context) (int, error) {
	j.mu.Lock()
	opts := j.opts
	runSeedProbe := !j.everSampled || opts.ResetIterationsOnSample
	j.everSampled = true
	j.failures = make(map[FailureCategory]int)
	j.mu.Unlock()

	seed := append([]float64(nil), j.robot.CurrentConfig()...)
	min, max := j.robot.Limits()

	links := j.robot.Links()
	origTransforms := make([]spatialmath.Pose, len(links))
	for i, l := range links {
		origTransforms[i] = l.Transform()
	}

	var bias []float64
	var nullBasis [][]float64
	if opts.bias != nil {
		if manip := j.robot.Manipulator(); manip != nil {
			if jac, err := manip.Jacobian(); err == nil {
				if res, err := jacobian.Decompose(jac, *opts.bias); err == nil {
					bias = res.Bias
					nullBasis = res.NullBasis
				}
			}
		}
	}

	if runSeedProbe {
		if err := j.robot.SetConfig(seed); err != nil {
			return 0, err
		}
		ok, err := j.probeFeasible(opts, min, max, seed)
		if err != nil {
			return 0, err
		}
		if ok && opts.MaxJitter > 0 {
			if hit, _ := j.cache.FindNearest(seed, opts.SeedRadius); !hit {
				j.cache.Insert(seed, "")
			}
			_ = j.robot.SetConfig(seed)
			return -1, nil
		}
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			_ = j.robot.SetConfig(seed)
			return 0, ctx.Err()
		default:
		}

		if opts.StatusEvery > 0 && iter%opts.StatusEvery == 0 {
			j.logStatus(iter, opts)
		}

		candidate, ok := j.generate(seed, opts, bias, nullBasis, iter)
		if !ok {
			j.recordFailure(FailureSameSamples)
			continue
		}
		candidate = clampToLimits(candidate, min, max)

		projected, err := j.project(candidate)
		if err != nil {
			j.recordFailure(FailureManifoldProjection)
			continue
		}

		if hit, _ := j.cache.FindNearest(projected, opts.NeighDistThresh); hit {
			j.recordFailure(FailureNotNovel)
			continue
		}

		if err := j.robot.SetConfig(projected); err != nil {
			continue
		}

		if j.linkMotionRejects(origTransforms, links, opts) {
			j.recordFailure(FailureLinkDistThresh)
			continue
		}

		ok, err = j.probeFeasible(opts, min, max, projected)
		if err != nil {
			return 0, err
		}
		if ok {
			j.cache.Insert(projected, "")
			if !opts.SetResultOnRobot {
				_ = j.robot.SetConfig(seed)
			}
			return 1, nil
		}
	}

	_ = j.robot.SetConfig(seed)
	return 0, nil
}

// probeFeasible robustly checks q by evaluating its +perturbation and
// -perturbation neighbors and then q itself, in that order, against the
// tool-direction, tool-position, environment-collision, and
// self-collision constraints, stopping at the first failure. When the
// probe passes the robot is left set to q (evaluated last); when it fails
// the robot is left set to the probe that failed.
func (j *Jitterer) probeFeasible(opts Options, min, max, q []float64) (bool, error) {
	offsets := []float64{opts.Perturbation, -opts.Perturbation, 0}
	if opts.Perturbation == 0 {
		offsets = []float64{0}
	}
	for _, eps := range offsets {
		probe := make([]float64, len(q))
		for i, v := range q {
			probe[i] = v + eps
		}
		probe = clampToLimits(probe, min, max)
		if err := j.robot.SetConfig(probe); err != nil {
			return false, err
		}
		ok, err := j.checkFeasible(opts)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// checkFeasible evaluates the current robot state against the configured
// constraints in the order tool-direction, tool-position, environment
// collision, self-collision, recording a failure category and returning
// false on the first violation.
func (j *Jitterer) checkFeasible(opts Options) (bool, error) {
	if manip := j.robot.Manipulator(); manip != nil {
		toolPose := manip.Transform()
		if opts.toolDirection != nil && !opts.toolDirection.IsSatisfied(toolPose) {
			j.recordFailure(FailureToolDirection)
			return false, nil
		}
		if opts.toolPosition != nil && !opts.toolPosition.IsSatisfied(toolPose) {
			j.recordFailure(FailureToolPosition)
			return false, nil
		}
	}

	collided, err := j.robot.CheckEnvCollision()
	if err != nil {
		return false, err
	}
	if collided {
		j.recordFailure(FailureEnvCollision)
		return false, nil
	}

	collided, err = j.robot.CheckSelfCollision()
	if err != nil {
		return false, err
	}
	if collided {
		j.recordFailure(FailureSelfCollision)
		return false, nil
	}
	return true, nil
}

// generate produces one candidate configuration following the documented
// rule: for the first few iterations while a bias is active it produces a
// pure bias ray; otherwise it composes a ramped-jitter delta, a scaled
// bias-direction step, and a null-space step, each gated by its own
// Bernoulli draw (forcing the delta on when neither of the others fired).
// A bias or null-space draw only counts as fired when its data is
// available, so the delta is forced on whenever neither other term can be
// applied; ok is false only if no term was applied.
func (j *Jitterer) generate(seed []float64, opts Options, bias []float64, nullBasis [][]float64, iter int) (out []float64, ok bool) {
	j.mu.Lock()
	rng := j.rng
	j.mu.Unlock()

	out = append([]float64(nil), seed...)

	if bias != nil && iter < len(biasRayIncrements) {
		rayInc := biasRayIncrements[iter]
		for i := range out {
			if i < len(bias) {
				out[i] += rayInc * bias[i]
			}
		}
		return out, true
	}

	jitterMag := opts.MaxJitter * math.Min(1, 2*float64(iter+1)/float64(opts.MaxIterations))

	useBiasDrawn := uniform01(rng) < opts.NullBiasSampleProb && bias != nil
	useNullDrawn := uniform01(rng) < opts.NullSampleProb && len(nullBasis) > 0
	useDelta := uniform01(rng) < opts.DeltaSampleProb
	if !useNullDrawn && !useBiasDrawn {
		useDelta = true
	}

	changed := false

	if useBiasDrawn && bias != nil {
		u := (rng.Rand() + 1) / 2
		for i := range out {
			if i < len(bias) {
				out[i] += u * bias[i]
			}
		}
		changed = true
	}

	if useNullDrawn && len(nullBasis) > 0 {
		biasNorm := 0.0
		if opts.bias != nil {
			biasNorm = opts.bias.Norm()
		}
		mu := math.Max(2*opts.MaxLinkDistThresh, biasNorm)
		for _, basis := range nullBasis {
			x := rng.Rand() * mu
			for i := range out {
				if i < len(basis) {
					out[i] += x * basis[i]
				}
			}
		}
		changed = true
	}

	if useDelta {
		for i := range out {
			f := rng.Rand()
			var d float64
			switch {
			case math.Abs(f) < 0.2:
				d = 0
			case math.Abs(f) > 0.8:
				d = math.Copysign(jitterMag, f)
			default:
				d = jitterMag * f
			}
			out[i] += d
		}
		changed = true
	}

	if !changed {
		return nil, false
	}
	return out, true
}

// uniform01 maps a Uniform(-1,1) draw into Uniform(0,1).
func uniform01(rng interface{ Rand() float64 }) float64 {
	return (rng.Rand() + 1) / 2
}

func (j *Jitterer) project(q []float64) ([]float64, error) {
	fn := j.robot.NeighStateFn()
	if fn == nil {
		return q, nil
	}
	return fn(q)
}

func clampToLimits(q, min, max []float64) []float64 {
	out := make([]float64, len(q))
	for i, v := range q {
		lo, hi := v, v
		if i < len(min) {
			lo = min[i]
		}
		if i < len(max) {
			hi = max[i]
		}
		out[i] = mathutil.Clamp(v, lo, hi)
	}
	return out
}

func (j *Jitterer) logStatus(iter int, opts Options) {
	counts := j.FailureCounts()
	j.log.Debugw("jitter sample in progress", "iteration", iter, "failures", j.GetFailuresCount())

	j.mu.Lock()
	cb := j.statusCB
	j.mu.Unlock()
	if cb != nil {
		cb(iter, counts)
	}
}

// linkMotionRejects reports whether any link's local AABB, swept through
// the change-of-frame between its transform in origTransforms and its
// current (post-candidate) transform, exceeds the ellipsoidal Cartesian
// excursion bound aligned with the workspace bias direction (or, absent a
// bias, a sphere of radius MaxLinkDistThresh).
func (j *Jitterer) linkMotionRejects(origTransforms []spatialmath.Pose, links []Link, opts Options) bool {
	l := opts.MaxLinkDistThresh
	if l <= 0 {
		return false
	}

	var worldBias r3.Vector
	hasBias := opts.bias != nil
	if hasBias {
		worldBias = *opts.bias
	}

	for i, link := range links {
		if i >= len(origTransforms) || origTransforms[i] == nil {
			continue
		}
		orig := origTransforms[i]
		cur := link.Transform()
		delta := spatialmath.Compose(spatialmath.Invert(orig), cur)

		var b r3.Vector
		if hasBias {
			invOrig := spatialmath.Invert(orig)
			b = spatialmath.RotateVector(invOrig.Orientation(), worldBias)
		} else {
			b = r3.Vector{Z: l}
		}
		bNormSq := b.Dot(b)
		rhs := l * l * bNormSq * bNormSq

		for _, corner := range aabbCorners(link.LocalAABB()) {
			rotated := spatialmath.RotateVector(delta.Orientation(), corner)
			v := rotated.Add(delta.Point()).Sub(corner)
			bv := b.Dot(v)
			vNormSq := v.Dot(v)
			flen2 := (l*l-bNormSq)*bv*bv + vNormSq*bNormSq*bNormSq
			if flen2 > rhs {
				return true
			}
		}
	}
	return false
}

// aabbCorners returns the 8 corners of box, in its own local frame.
func aabbCorners(box spatialmath.AABB) [8]r3.Vector {
	signs := [8][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
	}
	var out [8]r3.Vector
	for i, s := range signs {
		out[i] = box.Center.Add(r3.Vector{
			X: s[0] * box.Extents.X,
			Y: s[1] * box.Extents.Y,
			Z: s[2] * box.Extents.Z,
		})
	}
	return out
}
