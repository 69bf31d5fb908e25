package geom

import "github.com/go-gl/mathgl/mgl64"

// Plane is an oriented 3D plane with the canonical equation
// Normal·x + D = 0. The normal is kept unit length by the constructor;
// the side the normal points toward is the plane's front.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlane builds a plane from a (possibly unnormalized) normal and offset.
// A zero normal produces a degenerate plane; callers must check Degenerate
// before splitting with it.
func NewPlane(normal mgl64.Vec3, d float64) Plane {
	l := normal.Len()
	if EqZero(l, 1) {
		return Plane{Normal: normal, D: d}
	}
	return Plane{Normal: normal.Mul(1 / l), D: d / l}
}

// PlaneThrough builds the plane with the given normal passing through pt.
func PlaneThrough(normal, pt mgl64.Vec3) Plane {
	p := NewPlane(normal, 0)
	p.D = -p.Normal.Dot(pt)
	return p
}

// Degenerate reports whether the plane's normal is zero within tolerance.
// Degenerate planes must never be used to split geometry.
func (p Plane) Degenerate() bool {
	return EqZero(p.Normal.Len(), 1)
}

// Offset returns the signed distance from pt to the plane, positive on the
// front side. The normal is unit length, so the value is a true distance.
func (p Plane) Offset(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) + p.D
}

// Flipped returns the same plane with the opposite orientation.
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Mul(-1), D: -p.D}
}

// Equal reports whether two planes coincide with the same orientation.
func (p Plane) Equal(q Plane) bool {
	return EqVec3(p.Normal, q.Normal) && Eq(p.D, q.D)
}

// Line2 is an oriented 2D line with the equation Normal·x + D = 0,
// the 2D analogue of Plane. It is the shape a splitting plane takes once
// projected into a polygon's local z=0 frame.
type Line2 struct {
	Normal mgl64.Vec2
	D      float64
}

// NewLine2 normalizes the line's normal.
func NewLine2(normal mgl64.Vec2, d float64) Line2 {
	l := normal.Len()
	if EqZero(l, 1) {
		return Line2{Normal: normal, D: d}
	}
	return Line2{Normal: normal.Mul(1 / l), D: d / l}
}

// Side returns the signed distance from v to the line, positive in front.
func (l Line2) Side(v mgl64.Vec2) float64 {
	return l.Normal.Dot(v) + l.D
}
