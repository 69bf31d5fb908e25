package bsp

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/geom"
)

// Clip destructively removes from the receiver's subtree all geometry that
// lies inside the other node's solid. Only polygon lists change; the
// receiver's partition structure is left intact, so the receiver stays a
// valid clipping operand for the remaining steps of a boolean sequence.
//
// Coplanar tie-break: a polygon lying exactly on a clipping plane survives
// iff its facing is not opposite that plane's normal. Opposite-facing
// coplanar polygons would be the cavity wall contributed by the other
// solid and are discarded.
func (n *Node) Clip(o *Node) {
	if n == nil || o == nil {
		return
	}
	n.plus = o.clipPolygons(n.trans, n.facingOf(true), n.plus)
	n.minus = o.clipPolygons(n.trans, n.facingOf(false), n.minus)
	n.front.Clip(o)
	n.back.Clip(o)
}

// clipPolygons filters one polygon list through the clipping subtree.
// Every polygon is split by the node's plane: front fragments descend into
// the front child, back fragments into the back child, coplanar polygons
// go whole to the side picked by the tie-break. An absent front child
// means the region beyond the plane is outside the solid, so fragments
// landing there survive; an absent back child means the region is solid
// interior, so fragments landing there are removed.
func (o *Node) clipPolygons(owner geom.Transform, facing mgl64.Vec3, list []*Polygon) []*Polygon {
	if o == nil || len(list) == 0 {
		return list
	}
	var frontList, backList []*Polygon
	for _, p := range list {
		w := &WorldPolygon{Local: p, Trans: owner}
		f, b, coplanar := w.Split(o.trans)
		if coplanar {
			if facing.Dot(o.trans.Plane.Normal) < 0 {
				backList = append(backList, p)
			} else {
				frontList = append(frontList, p)
			}
			continue
		}
		if f != nil {
			frontList = append(frontList, f.Local)
		}
		if b != nil {
			backList = append(backList, b.Local)
		}
	}
	if o.front != nil {
		frontList = o.front.clipPolygons(owner, facing, frontList)
	}
	if o.back != nil {
		backList = o.back.clipPolygons(owner, facing, backList)
	} else {
		backList = nil
	}
	return append(frontList, backList...)
}
