// Package bsp implements a constructive solid geometry kernel on a binary
// space partition tree. Solids are built from convex polygon soup and
// combined with boolean operations; numerical noise is absorbed by the
// tolerance predicates in pkg/geom rather than surfacing as errors.
//
// Known limitation: boolean operations never re-merge adjacent coplanar
// polygons, so repeated combination accumulates polygon count.
package bsp

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/geom"
)

// ErrInvalidVertices is returned when a polygon is constructed from fewer
// than three non-degenerate, non-collinear vertices.
var ErrInvalidVertices = errors.New("bsp: polygon requires at least 3 non-collinear vertices")

// Polygon is a convex polygon in a local frame: its vertices lie on the
// local z=0 plane, so they are stored as 2D points. The winding flag is
// cached from the signed area of the loop and kept in step with the vertex
// list by every mutator. Payload is opaque to the kernel and survives
// splitting.
type Polygon struct {
	verts   []mgl64.Vec2
	ccw     bool
	Payload any
}

// NewPolygon validates and builds a local convex polygon. Consecutive
// near-duplicate vertices are dropped; fewer than three surviving vertices,
// or a collinear loop, yields ErrInvalidVertices. Convexity is assumed,
// not checked.
func NewPolygon(verts []mgl64.Vec2, payload any) (*Polygon, error) {
	cleaned := dedupeVerts(verts)
	if len(cleaned) < 3 {
		return nil, ErrInvalidVertices
	}
	area := signedArea(cleaned)
	s := vertexScale(cleaned)
	if geom.EqZero(area, s*s) {
		return nil, ErrInvalidVertices
	}
	return &Polygon{verts: cleaned, ccw: area > 0, Payload: payload}, nil
}

// dedupeVerts removes consecutive vertices that coincide within tolerance,
// including the wrap-around pair.
func dedupeVerts(verts []mgl64.Vec2) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, len(verts))
	for _, v := range verts {
		if len(out) > 0 && geom.EqVec2(out[len(out)-1], v) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && geom.EqVec2(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// signedArea of the vertex loop; positive for CCW winding.
func signedArea(verts []mgl64.Vec2) float64 {
	var area float64
	n := len(verts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += verts[i].X()*verts[j].Y() - verts[j].X()*verts[i].Y()
	}
	return area / 2
}

// vertexScale is the largest coordinate magnitude, used to scale area and
// distance tolerances.
func vertexScale(verts []mgl64.Vec2) float64 {
	s := 1.0
	for _, v := range verts {
		for _, c := range [2]float64{v.X(), v.Y()} {
			if c < 0 {
				c = -c
			}
			if c > s {
				s = c
			}
		}
	}
	return s
}

// Vertices returns the vertex loop. The slice is owned by the polygon;
// callers that need to mutate must go through SetVertices.
func (p *Polygon) Vertices() []mgl64.Vec2 {
	return p.verts
}

// CCW reports the cached winding of the loop.
func (p *Polygon) CCW() bool {
	return p.ccw
}

// SignedArea of the current loop.
func (p *Polygon) SignedArea() float64 {
	return signedArea(p.verts)
}

// SetVertices replaces the loop and recomputes the winding flag. Bypassing
// this and writing the slice directly breaks the flag/loop invariant.
func (p *Polygon) SetVertices(verts []mgl64.Vec2) error {
	q, err := NewPolygon(verts, p.Payload)
	if err != nil {
		return err
	}
	p.verts = q.verts
	p.ccw = q.ccw
	return nil
}

// Reversed returns a copy with the opposite winding.
func (p *Polygon) Reversed() *Polygon {
	verts := make([]mgl64.Vec2, len(p.verts))
	for i, v := range p.verts {
		verts[len(verts)-1-i] = v
	}
	return &Polygon{verts: verts, ccw: !p.ccw, Payload: p.Payload}
}

// Clone returns an independent copy.
func (p *Polygon) Clone() *Polygon {
	verts := make([]mgl64.Vec2, len(p.verts))
	copy(verts, p.verts)
	return &Polygon{verts: verts, ccw: p.ccw, Payload: p.Payload}
}

// SplitByLine cuts the polygon by an oriented 2D line into up to two convex
// fragments. A fragment degenerate within tolerance is returned as nil.
// Fragments inherit the source winding and payload; a fragment coming out
// with flipped winding indicates an algorithm bug and panics.
func (p *Polygon) SplitByLine(l geom.Line2) (front, back *Polygon) {
	n := len(p.verts)
	scale := vertexScale(p.verts)
	sides := make([]float64, n)
	anyFront, anyBack := false, false
	for i, v := range p.verts {
		d := l.Side(v)
		if geom.EqZero(d, scale) {
			d = 0
		}
		sides[i] = d
		anyFront = anyFront || d > 0
		anyBack = anyBack || d < 0
	}

	// A loop entirely on one side (on-line vertices count as both) needs
	// no cutting. A loop entirely on the line degenerates to the front.
	if !anyBack {
		return p, nil
	}
	if !anyFront {
		return nil, p
	}

	var fv, bv []mgl64.Vec2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		v, w := p.verts[i], p.verts[j]
		dv, dw := sides[i], sides[j]

		switch {
		case dv > 0:
			fv = append(fv, v)
		case dv < 0:
			bv = append(bv, v)
		default:
			fv = append(fv, v)
			bv = append(bv, v)
		}

		if (dv > 0 && dw < 0) || (dv < 0 && dw > 0) {
			t := dv / (dv - dw)
			mid := v.Add(w.Sub(v).Mul(t))
			fv = append(fv, mid)
			bv = append(bv, mid)
		}
	}

	front = p.fragment(fv)
	back = p.fragment(bv)
	return front, back
}

// fragment builds a split result, filtering out degenerate slivers.
func (p *Polygon) fragment(verts []mgl64.Vec2) *Polygon {
	f, err := NewPolygon(verts, p.Payload)
	if err != nil {
		return nil
	}
	if f.ccw != p.ccw {
		panic(fmt.Sprintf("bsp: split fragment winding flipped (source ccw=%v)", p.ccw))
	}
	return f
}
