package spatialmath

import "github.com/golang/geo/r3"

// AABB is an axis-aligned bounding box expressed in some local frame.
type AABB struct {
	Center  r3.Vector
	Extents r3.Vector // half-widths along x, y, z
}

// Contains reports whether p lies within the box.
func (b AABB) Contains(p r3.Vector) bool {
	d := p.Sub(b.Center)
	return absLE(d.X, b.Extents.X) && absLE(d.Y, b.Extents.Y) && absLE(d.Z, b.Extents.Z)
}

func absLE(v, bound float64) bool {
	if v < 0 {
		v = -v
	}
	return v <= bound
}

// OBB is an oriented bounding box: an AABB plus a rotation applied about
// its center. Grounded on the teacher's box{center Pose, halfSize} shape,
// trimmed to the containment/vertex needs of tool-position constraint
// checking and link-motion bounding (collision testing itself is an
// external RobotAdapter responsibility).
type OBB struct {
	Center   r3.Vector
	Extents  r3.Vector
	Rotation *RotationMatrix
}

// NewOBB builds an oriented bounding box.
func NewOBB(center r3.Vector, extents r3.Vector, rot *RotationMatrix) OBB {
	if rot == nil {
		rot = rotationMatrixFromQuat(NewZeroOrientation().Quaternion())
	}
	return OBB{Center: center, Extents: extents, Rotation: rot}
}

// Contains reports whether p lies within the oriented box.
func (b OBB) Contains(p r3.Vector) bool {
	local := b.Rotation.Transform(p.Sub(b.Center))
	return absLE(local.X, b.Extents.X) && absLE(local.Y, b.Extents.Y) && absLE(local.Z, b.Extents.Z)
}

// Vertices returns the 8 corners of the box in world coordinates.
func (b OBB) Vertices() [8]r3.Vector {
	signs := [8][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
	}
	rt := b.Rotation.Transpose()
	var out [8]r3.Vector
	for i, s := range signs {
		local := r3.Vector{X: s[0] * b.Extents.X, Y: s[1] * b.Extents.Y, Z: s[2] * b.Extents.Z}
		out[i] = b.Center.Add(rt.Transform(local))
	}
	return out
}

// ToAABB returns the axis-aligned bounding box enclosing b in world space.
func (b OBB) ToAABB() AABB {
	verts := b.Vertices()
	min, max := verts[0], verts[0]
	for _, v := range verts[1:] {
		min = r3.Vector{X: minF(min.X, v.X), Y: minF(min.Y, v.Y), Z: minF(min.Z, v.Z)}
		max = r3.Vector{X: maxF(max.X, v.X), Y: maxF(max.Y, v.Y), Z: maxF(max.Z, v.Z)}
	}
	return AABB{
		Center:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
