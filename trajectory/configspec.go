// Package trajectory implements a generic, time-parameterized waypoint
// container over a user-defined configuration layout: joint values,
// velocities, accelerations, jerks, snaps, affine transforms, and IK
// parameterizations, all addressed by name rather than by a fixed schema.
package trajectory

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Interpolation names the polynomial order (or special rule) used to
// sample between consecutive waypoints of a Group.
type Interpolation int

const (
	// InterpNone marks a group with no interpolation of its own (e.g.
	// deltatime itself); it is sampled like InterpPrevious, holding the
	// left waypoint's value.
	InterpNone Interpolation = iota
	// InterpPrevious holds the left waypoint's value for the whole
	// segment.
	InterpPrevious
	// InterpNext holds the right waypoint's value for the whole segment.
	InterpNext
	// InterpLinear linearly interpolates between the two waypoints.
	InterpLinear
	// InterpQuadratic fits a degree-2 polynomial using a linked
	// derivative group (or, failing that, a linked integral group).
	InterpQuadratic
	// InterpCubic fits a degree-3 Hermite polynomial using endpoint
	// derivatives from a linked derivative group; without one it falls
	// back to a linked integral and double-integral chain, and Init fails
	// if neither is linked. Derivatives are never estimated by finite
	// differences.
	InterpCubic
	// InterpQuartic fits a degree-4 polynomial using value, velocity,
	// and acceleration constraints where available.
	InterpQuartic
	// InterpQuintic fits a degree-5 polynomial using value, velocity,
	// and acceleration constraints at both endpoints.
	InterpQuintic
	// InterpSextic fits a degree-6 polynomial, adding jerk constraints
	// where available.
	InterpSextic
	// InterpMax takes, per column, the larger of the segment's two
	// endpoint values.
	InterpMax
)

// String implements fmt.Stringer.
func (i Interpolation) String() string {
	switch i {
	case InterpNone:
		return "none"
	case InterpPrevious:
		return "previous"
	case InterpNext:
		return "next"
	case InterpLinear:
		return "linear"
	case InterpQuadratic:
		return "quadratic"
	case InterpCubic:
		return "cubic"
	case InterpQuartic:
		return "quartic"
	case InterpQuintic:
		return "quintic"
	case InterpSextic:
		return "sextic"
	case InterpMax:
		return "max"
	default:
		return "unknown"
	}
}

// Group describes one named block of columns within a trajectory's flat
// configuration vector.
type Group struct {
	// Name is the group's full identifier, e.g. "joint_values arm1" or
	// "affine_transform gantry1 0b0111". The first whitespace-separated
	// token is the group's semantic class; remaining tokens are
	// class-specific (a component name, a DOF mask, an IK parameter
	// type, ...).
	Name string
	// Offset is the starting column of this group within a trajectory
	// row.
	Offset int
	// DOF is the number of columns this group occupies.
	DOF int
	// Interpolation is the polynomial order used to sample within this
	// group.
	Interpolation Interpolation
}

func (g Group) tokens() []string {
	return strings.Fields(g.Name)
}

func (g Group) class() string {
	toks := g.tokens()
	if len(toks) == 0 {
		return ""
	}
	return toks[0]
}

// component returns the class-specific component token (e.g. a link or
// actuator name), if one is present.
func (g Group) component() string {
	toks := g.tokens()
	if len(toks) < 2 {
		return ""
	}
	return toks[1]
}

// semanticRank orders groups the way a complete implementation's wire
// format expects them serialized: deltatime first, then derivative chains
// from highest order down to position, then affine transforms, with
// unknown classes sorted lexicographically after every known class.
var semanticRanks = map[string]int{
	"deltatime":           0,
	"joint_snaps":         1,
	"joint_jerks":         2,
	"joint_accelerations": 3,
	"joint_velocities":    4,
	"joint_values":        5,
	"affine_transform":    6,
	"ikparam_values":      7,
	"joint_torques":       11,
}

func semanticRank(class string) int {
	if r, ok := semanticRanks[class]; ok {
		return r
	}
	return 1 << 30
}

// ConfigSpec is the ordered collection of Groups that defines a
// trajectory's row layout.
type ConfigSpec struct {
	Groups []Group
}

// NewConfigSpec builds a ConfigSpec from groups, assigning each an Offset
// in order and sorting them into canonical semantic order. Unknown
// classes are ordered lexicographically by class after every known one,
// and groups of the same class keep their relative input order, since
// the sort is stable.
func NewConfigSpec(groups []Group) (*ConfigSpec, error) {
	sorted := append([]Group(nil), groups...)
	const unknownRank = 1 << 30
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := semanticRank(sorted[i].class()), semanticRank(sorted[j].class())
		if ri != rj {
			return ri < rj
		}
		if ri == unknownRank {
			return sorted[i].class() < sorted[j].class()
		}
		return false
	})

	offset := 0
	for i := range sorted {
		if sorted[i].DOF < 0 {
			return nil, errors.Errorf("config spec: group %q has negative DOF", sorted[i].Name)
		}
		sorted[i].Offset = offset
		offset += sorted[i].DOF
	}
	return &ConfigSpec{Groups: sorted}, nil
}

// DOF returns the total number of columns across every group.
func (c *ConfigSpec) DOF() int {
	total := 0
	for _, g := range c.Groups {
		total += g.DOF
	}
	return total
}

// FindGroup returns the group with the given name.
func (c *ConfigSpec) FindGroup(name string) (*Group, bool) {
	for i := range c.Groups {
		if c.Groups[i].Name == name {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// FindCompatibleGroup returns a group sharing g's semantic class and
// component token but not necessarily its full name (e.g. matching
// "joint_values arm1" when g is "joint_velocities arm1").
func (c *ConfigSpec) FindCompatibleGroup(g Group) (*Group, bool) {
	for i := range c.Groups {
		if c.Groups[i].component() == g.component() && c.Groups[i].Name != g.Name {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// derivativeClass maps each class to the class one time-derivative order
// up (position -> velocity -> acceleration -> jerk -> snap).
var derivativeClass = map[string]string{
	"joint_values":        "joint_velocities",
	"joint_velocities":    "joint_accelerations",
	"joint_accelerations": "joint_jerks",
	"joint_jerks":         "joint_snaps",
}

var integralClass = reverseMap(derivativeClass)

func reverseMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// FindTimeDerivativeGroup returns the group one time-derivative order
// above g (e.g. the velocity group for a position group) with a matching
// component token, if one exists in the spec.
func (c *ConfigSpec) FindTimeDerivativeGroup(g Group) (*Group, bool) {
	target, ok := derivativeClass[g.class()]
	if !ok {
		return nil, false
	}
	return c.findByClassAndComponent(target, g.component())
}

// FindTimeIntegralGroup returns the group one time-derivative order below
// g (e.g. the position group for a velocity group) with a matching
// component token, if one exists in the spec.
func (c *ConfigSpec) FindTimeIntegralGroup(g Group) (*Group, bool) {
	target, ok := integralClass[g.class()]
	if !ok {
		return nil, false
	}
	return c.findByClassAndComponent(target, g.component())
}

func (c *ConfigSpec) findByClassAndComponent(class, component string) (*Group, bool) {
	for i := range c.Groups {
		if c.Groups[i].class() == class && c.Groups[i].component() == component {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// ConvertData re-expresses a waypoint row from one ConfigSpec's layout
// into another, copying each source group's data into the corresponding
// group of the destination spec by name. Groups present in src but
// absent from dst are dropped. Groups present in dst but absent from src
// default to zero, except affine_transform groups, which default to the
// identity pose (unit quaternion, zero translation) truncated to the
// group's DOF, and outputSignals groups, which default to -1.
func ConvertData(src *ConfigSpec, srcRow []float64, dst *ConfigSpec) ([]float64, error) {
	if len(srcRow) != src.DOF() {
		return nil, errors.Errorf("config spec: row has %d columns, spec expects %d", len(srcRow), src.DOF())
	}
	out := make([]float64, dst.DOF())
	for _, dg := range dst.Groups {
		defaultFillGroup(out, dg)
	}
	for _, dg := range dst.Groups {
		sg, ok := src.FindGroup(dg.Name)
		if !ok || sg.DOF != dg.DOF {
			continue
		}
		copy(out[dg.Offset:dg.Offset+dg.DOF], srcRow[sg.Offset:sg.Offset+sg.DOF])
	}
	return out, nil
}

// identityPoseVector is the 7-DOF identity pose: unit quaternion
// (w, x, y, z) followed by zero translation (x, y, z).
var identityPoseVector = [7]float64{1, 0, 0, 0, 0, 0, 0}

// defaultFillGroup seeds dg's columns in out with their class-specific
// default, for use before a source value (if any) overwrites them.
func defaultFillGroup(out []float64, dg Group) {
	switch dg.class() {
	case "affine_transform":
		n := dg.DOF
		if n > len(identityPoseVector) {
			n = len(identityPoseVector)
		}
		copy(out[dg.Offset:dg.Offset+n], identityPoseVector[:n])
	case "outputSignals":
		for i := 0; i < dg.DOF; i++ {
			out[dg.Offset+i] = -1
		}
	}
}
