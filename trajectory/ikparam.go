package trajectory

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// ikParamType names the layout of an "ikparam_values" group's columns.
type ikParamType string

const (
	// ikParamTransform6D lays out 3 translation columns followed by a
	// 4-column quaternion (w, x, y, z).
	ikParamTransform6D ikParamType = "transform6d"
	// ikParamRotation3D lays out a single 4-column quaternion.
	ikParamRotation3D ikParamType = "rotation3d"
	// ikParamTranslationDirection5D lays out 3 translation columns
	// followed by a 2-column azimuth/elevation direction.
	ikParamTranslationDirection5D ikParamType = "translationdirection5d"
)

func ikParamTypeOf(g Group) (ikParamType, bool) {
	toks := g.tokens()
	if len(toks) < 2 || toks[0] != "ikparam_values" {
		return "", false
	}
	switch ikParamType(toks[1]) {
	case ikParamTransform6D, ikParamRotation3D, ikParamTranslationDirection5D:
		return ikParamType(toks[1]), true
	default:
		return "", false
	}
}

// ikparamInterpolator linearly interpolates translation/direction
// components and spherically interpolates quaternion components, rather
// than treating every column as an independent scalar the way
// linearInterpolator does.
type ikparamInterpolator struct {
	kind ikParamType
}

func (ik ikparamInterpolator) sample(t *Trajectory, g *Group, segIdx int, frac, segDur float64, out []float64) error {
	left, right := t.column(g, segIdx), t.column(g, segIdx+1)

	switch ik.kind {
	case ikParamRotation3D:
		return interpolateQuatInto(left, right, frac, out)
	case ikParamTransform6D:
		for i := 0; i < 3; i++ {
			out[i] = left[i] + frac*(right[i]-left[i])
		}
		return interpolateQuatInto(left[3:7], right[3:7], frac, out[3:7])
	case ikParamTranslationDirection5D:
		for i := 0; i < 5; i++ {
			out[i] = left[i] + frac*(right[i]-left[i])
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidArgument, "trajectory: unknown ik parameterization %q", ik.kind)
	}
}

func interpolateQuatInto(left, right []float64, frac float64, out []float64) error {
	if len(left) != 4 || len(right) != 4 || len(out) != 4 {
		return errors.Wrap(ErrInvalidArgument, "trajectory: rotation3d group requires 4 columns")
	}
	q0 := quat.Number{Real: left[0], Imag: left[1], Jmag: left[2], Kmag: left[3]}
	q1 := quat.Number{Real: right[0], Imag: right[1], Jmag: right[2], Kmag: right[3]}
	dot := q0.Real*q1.Real + q0.Imag*q1.Imag + q0.Jmag*q1.Jmag + q0.Kmag*q1.Kmag
	if dot < 0 {
		q1, dot = quat.Scale(-1, q1), -dot
	}
	w0, w1 := 1-frac, frac
	if dot < 1-1e-9 {
		theta := math.Acos(dot)
		w0 = math.Sin((1-frac)*theta) / math.Sin(theta)
		w1 = math.Sin(frac*theta) / math.Sin(theta)
	}
	q := quat.Add(quat.Scale(w0, q0), quat.Scale(w1, q1))
	out[0], out[1], out[2], out[3] = q.Real, q.Imag, q.Jmag, q.Kmag
	return nil
}
