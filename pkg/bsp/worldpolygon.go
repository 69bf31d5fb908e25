package bsp

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/geom"
)

// WorldPolygon is a local polygon paired with the transform that places it
// in world space. Two world polygons are numerically equal when their
// transforms and local loops are equal. A world polygon is owned by at most
// one node's polygon list; nothing shares it across nodes.
type WorldPolygon struct {
	Local *Polygon
	Trans geom.Transform
}

// NewWorldPolygon builds a world polygon from a loop of world-space
// vertices. The plane is derived from the loop (Newell's method), so the
// implied outward normal follows the winding. Returns ErrInvalidVertices
// when fewer than three non-collinear vertices are supplied.
func NewWorldPolygon(verts []mgl64.Vec3, payload any) (*WorldPolygon, error) {
	if len(verts) < 3 {
		return nil, ErrInvalidVertices
	}
	normal := newellNormal(verts)
	if geom.EqZero(normal.Len(), 1) {
		return nil, ErrInvalidVertices
	}
	plane := geom.PlaneThrough(normal, verts[0])
	t := geom.TransformFromPlane(plane)

	local := make([]mgl64.Vec2, len(verts))
	for i, v := range verts {
		lv := t.PullBack(v)
		local[i] = mgl64.Vec2{lv.X(), lv.Y()}
	}
	p, err := NewPolygon(local, payload)
	if err != nil {
		return nil, err
	}
	return &WorldPolygon{Local: p, Trans: t}, nil
}

// newellNormal computes the area-weighted loop normal.
func newellNormal(verts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i, v := range verts {
		w := verts[(i+1)%len(verts)]
		n = n.Add(mgl64.Vec3{
			(v.Y() - w.Y()) * (v.Z() + w.Z()),
			(v.Z() - w.Z()) * (v.X() + w.X()),
			(v.X() - w.X()) * (v.Y() + w.Y()),
		})
	}
	return n
}

// Vertices returns the world-space vertex loop.
func (w *WorldPolygon) Vertices() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(w.Local.verts))
	for i, v := range w.Local.verts {
		out[i] = w.Trans.ApplyLocal(v)
	}
	return out
}

// Facing returns the implied outward world normal: the plane normal when
// the loop reads counterclockwise about it, its opposite otherwise. The
// transform's orientation sign is folded in so polygons carried by an
// inverted (z-flipped) transform still face the way their world loop winds.
func (w *WorldPolygon) Facing() mgl64.Vec3 {
	n := w.Trans.Plane.Normal
	sign := 1.0
	if !w.Local.ccw {
		sign = -sign
	}
	if w.Trans.Orientation() < 0 {
		sign = -sign
	}
	return n.Mul(sign)
}

// Flipped returns a copy facing the opposite way.
func (w *WorldPolygon) Flipped() *WorldPolygon {
	return &WorldPolygon{Local: w.Local.Reversed(), Trans: w.Trans}
}

// Clone returns an independent copy.
func (w *WorldPolygon) Clone() *WorldPolygon {
	return &WorldPolygon{Local: w.Local.Clone(), Trans: w.Trans}
}

// Equal reports numeric equality: equal transforms and equal local loops.
func (w *WorldPolygon) Equal(o *WorldPolygon) bool {
	if !w.Trans.Equal(o.Trans) {
		return false
	}
	if len(w.Local.verts) != len(o.Local.verts) {
		return false
	}
	for i := range w.Local.verts {
		if !geom.EqVec2(w.Local.verts[i], o.Local.verts[i]) {
			return false
		}
	}
	return true
}

// Triangles fans the polygon into world-space triangles from vertex 0.
func (w *WorldPolygon) Triangles() [][3]mgl64.Vec3 {
	verts := w.Vertices()
	if len(verts) < 3 {
		return nil
	}
	out := make([][3]mgl64.Vec3, 0, len(verts)-2)
	for i := 1; i < len(verts)-1; i++ {
		out = append(out, [3]mgl64.Vec3{verts[0], verts[i], verts[i+1]})
	}
	return out
}

// Split classifies the polygon against the z=0 plane of pivot, expressed in
// the polygon's own local frame.
//
// When the two planes intersect, the polygon is cut by the intersection
// line; either fragment may be nil if the line misses the loop. When they
// are parallel, the whole polygon goes to the front or back by signed
// offset. When they coincide within tolerance, both fragments are nil and
// coplanar is true: the caller must handle coplanar placement itself.
func (w *WorldPolygon) Split(pivot geom.Transform) (front, back *WorldPolygon, coplanar bool) {
	lp := w.Trans.InLocalFrame(pivot.Plane)
	n2 := mgl64.Vec2{lp.Normal.X(), lp.Normal.Y()}

	if geom.Nonzero(n2.Len(), 1) {
		// Planes intersect: cut by the local intersection line. On z=0 the
		// plane equation collapses to n2·(x,y) + D = 0.
		line := geom.NewLine2(n2, lp.D)
		f, b := w.Local.SplitByLine(line)
		if f != nil {
			front = &WorldPolygon{Local: f, Trans: w.Trans}
		}
		if b != nil {
			back = &WorldPolygon{Local: b, Trans: w.Trans}
		}
		return front, back, false
	}

	// Parallel planes: every loop point evaluates the pivot plane to lp.D.
	off := lp.D
	scale := vertexScale(w.Local.verts)
	switch {
	case geom.EqZero(off, scale):
		return nil, nil, true
	case off > 0:
		return w, nil, false
	default:
		return nil, w, false
	}
}
