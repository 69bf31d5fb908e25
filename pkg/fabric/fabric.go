// Package fabric builds BSP solids for the primitive shapes the rest of
// the system works with. Every constructor returns a closed, outward-facing
// tree ready for boolean combination.
package fabric

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/bsp"
	"github.com/whittle-cad/whittle/pkg/geom"
)

// Box returns an axis-aligned box centered on the origin with half-extents
// hx, hy, hz. Faces are inserted in a fixed order, producing an unbalanced
// chain of back children; every face plane of a convex solid sees all the
// other faces behind it, so the chain shape is inherent, not incidental.
func Box(hx, hy, hz float64, payload any) (*bsp.Node, error) {
	if hx <= 0 || hy <= 0 || hz <= 0 {
		return nil, fmt.Errorf("fabric: box half-extents must be positive, got (%g, %g, %g)", hx, hy, hz)
	}
	faces := [][]mgl64.Vec3{
		{{hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {hx, -hy, hz}},
		{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}},
		{{-hx, hy, -hz}, {-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}},
		{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}},
		{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}},
		{{-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}, {hx, -hy, -hz}},
	}
	return solidFromFaces(faces, payload)
}

// Cylinder returns a right prism approximating a cylinder of radius r and
// height h, centered on the origin with its axis along +z. segments is the
// number of flat side faces and must be at least 3.
func Cylinder(r, h float64, segments int, payload any) (*bsp.Node, error) {
	if r <= 0 || h <= 0 {
		return nil, fmt.Errorf("fabric: cylinder dimensions must be positive, got r=%g h=%g", r, h)
	}
	if segments < 3 {
		return nil, fmt.Errorf("fabric: cylinder needs at least 3 segments, got %d", segments)
	}
	top := h / 2
	bot := -h / 2
	rim := make([]mgl64.Vec2, segments)
	for i := range rim {
		a := 2 * math.Pi * float64(i) / float64(segments)
		rim[i] = mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)}
	}

	faces := make([][]mgl64.Vec3, 0, segments+2)
	// Top disc, counterclockwise seen from +z.
	disc := make([]mgl64.Vec3, segments)
	for i, v := range rim {
		disc[i] = mgl64.Vec3{v.X(), v.Y(), top}
	}
	faces = append(faces, disc)
	// Bottom disc, reversed so it faces -z.
	disc = make([]mgl64.Vec3, segments)
	for i, v := range rim {
		disc[segments-1-i] = mgl64.Vec3{v.X(), v.Y(), bot}
	}
	faces = append(faces, disc)
	for i, a := range rim {
		b := rim[(i+1)%segments]
		faces = append(faces, []mgl64.Vec3{
			{a.X(), a.Y(), bot},
			{b.X(), b.Y(), bot},
			{b.X(), b.Y(), top},
			{a.X(), a.Y(), top},
		})
	}
	return solidFromFaces(faces, payload)
}

// Quad returns a rectangle of half-extents hw, hh lying in t's plane,
// wound counterclockwise in the local frame so it faces the plane normal.
func Quad(t geom.Transform, hw, hh float64, payload any) (*bsp.WorldPolygon, error) {
	if hw <= 0 || hh <= 0 {
		return nil, fmt.Errorf("fabric: quad half-extents must be positive, got (%g, %g)", hw, hh)
	}
	verts := []mgl64.Vec3{
		t.ApplyLocal(mgl64.Vec2{-hw, -hh}),
		t.ApplyLocal(mgl64.Vec2{hw, -hh}),
		t.ApplyLocal(mgl64.Vec2{hw, hh}),
		t.ApplyLocal(mgl64.Vec2{-hw, hh}),
	}
	return bsp.NewWorldPolygon(verts, payload)
}

// HalfSpace returns an open node for the volume behind p, carrying a
// bounding quad of half-extent extent on the cut plane. The quad is what
// closes the cut face when the half-space is intersected with a solid, so
// extent must exceed the footprint of anything it will be combined with.
func HalfSpace(p geom.Plane, extent float64, payload any) (*bsp.Node, error) {
	if p.Degenerate() {
		return nil, fmt.Errorf("fabric: half-space plane is degenerate")
	}
	if extent <= 0 {
		return nil, fmt.Errorf("fabric: half-space extent must be positive, got %g", extent)
	}
	n := bsp.NewHalfSpace(p)
	q, err := Quad(n.Transform(), extent, extent, payload)
	if err != nil {
		return nil, err
	}
	n.Insert(q)
	return n, nil
}

func solidFromFaces(faces [][]mgl64.Vec3, payload any) (*bsp.Node, error) {
	var root *bsp.Node
	for _, f := range faces {
		w, err := bsp.NewWorldPolygon(f, payload)
		if err != nil {
			return nil, fmt.Errorf("fabric: degenerate face: %w", err)
		}
		if root == nil {
			root = bsp.NewNodeFromPolygon(w)
			continue
		}
		root.Insert(w)
	}
	return root, nil
}
