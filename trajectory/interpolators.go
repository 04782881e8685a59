package trajectory

import (
	"math"

	"github.com/pkg/errors"
)

// interpolator fills out (one entry per DOF of its group) with the
// group's value at the given fractional position within a segment.
type interpolator interface {
	sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error
}

// column returns the DOF columns of group g at waypoint row.
func (t *Trajectory) column(g *Group, row int) []float64 {
	dof := t.spec.DOF()
	start := row*dof + g.Offset
	return t.data[start : start+g.DOF]
}

type previousInterpolator struct{}

func (previousInterpolator) sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error {
	copy(out, t.column(g, segIdx))
	return nil
}

type nextInterpolator struct{}

func (nextInterpolator) sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error {
	copy(out, t.column(g, segIdx+1))
	return nil
}

// linearInterpolator interpolates linearly between a segment's two
// endpoints, or, when a time-derivative group is linked, extrapolates
// forward from the left endpoint using the derivative recorded at the
// segment's right endpoint (matching the upstream generic trajectory's
// "_InterpolateLinear", which reads the derivative from the waypoint
// being approached rather than the one being left).
type linearInterpolator struct {
	derivGroup *Group
}

func (li linearInterpolator) sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error {
	left, right := t.column(g, segIdx), t.column(g, segIdx+1)
	if li.derivGroup != nil {
		s := frac * segDur
		deriv := t.column(li.derivGroup, segIdx+1)
		for i := range out {
			out[i] = left[i] + s*deriv[i]
		}
		return nil
	}
	for i := range out {
		out[i] = left[i] + frac*(right[i]-left[i])
	}
	return nil
}

// quadraticInterpolator fits a degree-2 polynomial using either a linked
// time-derivative group (primary) or a linked time-integral group
// (fallback), matching the upstream generic trajectory's
// "_InterpolateQuadratic": pos0 + deltatime*(deriv0 + deltatime*coeff).
type quadraticInterpolator struct {
	derivGroup    *Group
	integralGroup *Group
}

func (q quadraticInterpolator) sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error {
	s := frac * segDur
	invDt := 0.0
	if segIdx+1 < len(t.deltaInvTime) {
		invDt = t.deltaInvTime[segIdx+1]
	}

	switch {
	case q.derivGroup != nil:
		p0 := t.column(g, segIdx)
		d0, d1 := t.column(q.derivGroup, segIdx), t.column(q.derivGroup, segIdx+1)
		for i := range out {
			coeff := 0.5 * invDt * (d1[i] - d0[i])
			out[i] = p0[i] + s*(d0[i]+s*coeff)
		}
		return nil
	case q.integralGroup != nil:
		// g is itself a time-derivative group (e.g. velocity): recover
		// its quadratic fit from the linked integral group's (e.g.
		// position) endpoint values via the fundamental-theorem
		// relation integral1 - integral0 = segDur*g0 + segDur^2*coeff/2.
		g0 := t.column(g, segIdx)
		int0, int1 := t.column(q.integralGroup, segIdx), t.column(q.integralGroup, segIdx+1)
		for i := range out {
			coeff := 2 * invDt * invDt * (int1[i] - int0[i] - segDur*g0[i])
			out[i] = g0[i] + s*coeff
		}
		return nil
	default:
		return linearInterpolator{}.sample(t, g, segIdx, frac, segDur, out)
	}
}

// hermiteInterpolator fits a Hermite polynomial per DOF using
// value constraints at both segment endpoints plus, when a linked
// derivative group is available, matching derivative constraints up to
// maxDerivOrder at both endpoints (and, when extraStartOnly is set, one
// further derivative order at the segment's start only — used to step
// from an even number of available derivative chains to the requested
// polynomial degree, e.g. quartic and sextic). When no derivative group
// is linked at all (the plain cubic case), it falls back to a boundary
// solve against the linked first and second time-integral groups.
type hermiteInterpolator struct {
	derivGroups    []*Group // index 0 = velocity, 1 = acceleration, 2 = jerk; nil entries mean unavailable
	integralGroups []*Group // index 0 = 1st integral, 1 = 2nd integral; only populated for the plain cubic case
	maxDerivOrder  int      // how many entries of derivGroups to use symmetrically at both ends
	extraStartOnly bool     // use one further derivative order, but only at the segment start
}

func (h hermiteInterpolator) sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error {
	s := frac * segDur

	useIntegralFallback := h.maxDerivOrder == 1 && !h.extraStartOnly &&
		h.derivGroups[0] == nil && len(h.integralGroups) == 2 &&
		h.integralGroups[0] != nil && h.integralGroups[1] != nil

	if useIntegralFallback {
		g0row := t.column(g, segIdx)
		g1row := t.column(g, segIdx+1)
		int1a, int1b := t.column(h.integralGroups[0], segIdx), t.column(h.integralGroups[0], segIdx+1)
		int2a, int2b := t.column(h.integralGroups[1], segIdx), t.column(h.integralGroups[1], segIdx+1)
		for i := range out {
			coeffs, err := solveCubicIntegralCoefficients(
				g0row[i], g1row[i], segDur,
				int1b[i]-int1a[i],
				int2b[i]-int2a[i]-segDur*int1a[i],
			)
			if err != nil {
				return err
			}
			out[i] = evalPoly(coeffs, s)
		}
		return nil
	}

	for i := 0; i < g.DOF; i++ {
		constraints := []hermiteConstraint{
			{derivOrder: 0, at: 0, value: t.column(g, segIdx)[i]},
			{derivOrder: 0, at: segDur, value: t.column(g, segIdx+1)[i]},
		}
		for order := 1; order <= h.maxDerivOrder; order++ {
			dg := h.derivGroups[order-1]
			if dg == nil {
				break
			}
			constraints = append(constraints,
				hermiteConstraint{derivOrder: order, at: 0, value: t.column(dg, segIdx)[i]},
				hermiteConstraint{derivOrder: order, at: segDur, value: t.column(dg, segIdx+1)[i]},
			)
		}
		if h.extraStartOnly && h.maxDerivOrder < len(h.derivGroups) {
			dg := h.derivGroups[h.maxDerivOrder]
			if dg != nil {
				constraints = append(constraints, hermiteConstraint{
					derivOrder: h.maxDerivOrder + 1, at: 0, value: t.column(dg, segIdx)[i],
				})
			}
		}

		coeffs, err := solveHermiteCoefficients(constraints)
		if err != nil {
			return err
		}
		out[i] = evalPoly(coeffs, s)
	}
	return nil
}

// maxInterpolator takes the elementwise maximum of a segment's two
// endpoints, per spec's "max" interpolation family.
type maxInterpolator struct{}

func (maxInterpolator) sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error {
	left, right := t.column(g, segIdx), t.column(g, segIdx+1)
	for i := range out {
		out[i] = math.Max(left[i], right[i])
	}
	return nil
}

// buildInterpolators resolves one interpolator per group in t.spec.Groups,
// following each group's configured Interpolation and the availability of
// linked time-derivative/integral groups.
func (t *Trajectory) buildInterpolators() error {
	t.interpolators = make([]interpolator, len(t.spec.Groups))
	for idx := range t.spec.Groups {
		g := t.spec.Groups[idx]
		interp, err := t.resolveInterpolator(g)
		if err != nil {
			return err
		}
		t.interpolators[idx] = interp
	}
	return nil
}

func (t *Trajectory) linkedDerivChain(g Group) []*Group {
	chain := make([]*Group, 3)
	cur := g
	for i := 0; i < 3; i++ {
		dg, ok := t.spec.FindTimeDerivativeGroup(cur)
		if !ok {
			break
		}
		chain[i] = dg
		cur = *dg
	}
	return chain
}

// linkedIntegralChain returns, up to two levels deep, the groups one and
// two time-derivative orders below g (e.g. for an acceleration group,
// velocity then position).
func (t *Trajectory) linkedIntegralChain(g Group) []*Group {
	chain := make([]*Group, 2)
	cur := g
	for i := 0; i < 2; i++ {
		ig, ok := t.spec.FindTimeIntegralGroup(cur)
		if !ok {
			break
		}
		chain[i] = ig
		cur = *ig
	}
	return chain
}

func (t *Trajectory) resolveInterpolator(g Group) (interpolator, error) {
	if kind, ok := ikParamTypeOf(g); ok && g.Interpolation != InterpPrevious && g.Interpolation != InterpNext {
		return ikparamInterpolator{kind: kind}, nil
	}

	switch g.Interpolation {
	case InterpNone:
		return previousInterpolator{}, nil
	case InterpPrevious:
		return previousInterpolator{}, nil
	case InterpNext:
		return nextInterpolator{}, nil
	case InterpLinear:
		chain := t.linkedDerivChain(g)
		return linearInterpolator{derivGroup: chain[0]}, nil
	case InterpQuadratic:
		chain := t.linkedDerivChain(g)
		integralChain := t.linkedIntegralChain(g)
		if chain[0] == nil && integralChain[0] == nil {
			return nil, errors.Wrapf(ErrInvalidArgument,
				"trajectory: group %q needs a derivative or integral group for quadratic sampling", g.Name)
		}
		return quadraticInterpolator{derivGroup: chain[0], integralGroup: integralChain[0]}, nil
	case InterpCubic:
		chain := t.linkedDerivChain(g)
		integralChain := t.linkedIntegralChain(g)
		if chain[0] == nil && (integralChain[0] == nil || integralChain[1] == nil) {
			return nil, errors.Wrapf(ErrInvalidArgument,
				"trajectory: group %q needs a derivative group, or a full integral+integral^2 chain, for cubic sampling", g.Name)
		}
		return hermiteInterpolator{derivGroups: chain, integralGroups: integralChain, maxDerivOrder: 1}, nil
	case InterpQuartic:
		chain := t.linkedDerivChain(g)
		if chain[0] == nil {
			return nil, errors.Wrapf(ErrNotImplemented,
				"trajectory: group %q needs at least a derivative group for quartic sampling", g.Name)
		}
		return hermiteInterpolator{derivGroups: chain, maxDerivOrder: 1, extraStartOnly: true}, nil
	case InterpQuintic:
		chain := t.linkedDerivChain(g)
		if chain[0] == nil || chain[1] == nil {
			return nil, errors.Wrapf(ErrNotImplemented,
				"trajectory: group %q needs a full derivative+2nd-derivative chain for quintic sampling", g.Name)
		}
		return hermiteInterpolator{derivGroups: chain, maxDerivOrder: 2}, nil
	case InterpSextic:
		chain := t.linkedDerivChain(g)
		if chain[0] == nil || chain[1] == nil || chain[2] == nil {
			return nil, errors.Wrapf(ErrNotImplemented,
				"trajectory: group %q needs a full derivative+2nd+3rd-derivative chain for sextic sampling", g.Name)
		}
		return hermiteInterpolator{derivGroups: chain, maxDerivOrder: 2, extraStartOnly: true}, nil
	case InterpMax:
		return maxInterpolator{}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "trajectory: unknown interpolation %v for group %q", g.Interpolation, g.Name)
	}
}
