package bsp

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/geom"
)

// Node is one plane of a BSP tree. It owns the coplanar polygons lying
// exactly on its splitting plane, split into the plus list (facing the
// plane normal) and the minus list (facing away), an inverted flag meaning
// all owned polygons read as flipped without being mutated, and optional
// front/back children holding geometry strictly on either side.
//
// A half-space node (open == true) is the degenerate variant representing
// "this plane and everything behind it": same polygon lists, never any
// children. It is useful as an intersection operand covering a bounded
// region without constructing box planes.
//
// Invariants:
//   - every owned polygon lies on the node plane (local z=0 by storage);
//   - the plus list holds locally-CCW loops, the minus list CW;
//   - inverted is true exactly when the transform orientation is negative.
//
// Ownership is a strict tree: a node exclusively owns its children and
// polygon lists, with no aliasing across nodes.
type Node struct {
	trans    geom.Transform
	plus     []*Polygon
	minus    []*Polygon
	inverted bool
	open     bool
	front    *Node
	back     *Node
}

// NewNode creates an empty closed node splitting on the given plane.
// Panics on a degenerate plane: such planes must never split.
func NewNode(p geom.Plane) *Node {
	return &Node{trans: geom.TransformFromPlane(p)}
}

// NewHalfSpace creates a half-space node: the plane plus everything behind
// it. Half-space nodes never grow children.
func NewHalfSpace(p geom.Plane) *Node {
	return &Node{trans: geom.TransformFromPlane(p), open: true}
}

// NewNodeFromPolygon creates a node splitting on the polygon's own plane
// and owning the polygon. The node transform is normalized to positive
// orientation so the inverted-flag invariant holds.
func NewNodeFromPolygon(w *WorldPolygon) *Node {
	t := w.Trans
	if t.Orientation() < 0 {
		t = t.ZFlipped()
	}
	n := &Node{trans: t}
	n.placeCoplanar(w)
	return n
}

// Transform returns the node's composite transform.
func (n *Node) Transform() geom.Transform {
	return n.trans
}

// Plane returns the node's splitting plane.
func (n *Node) Plane() geom.Plane {
	return n.trans.Plane
}

// Inverted reports whether the node reads its polygons flipped.
func (n *Node) Inverted() bool {
	return n.inverted
}

// HalfSpace reports whether this is an open (half-space) node.
func (n *Node) HalfSpace() bool {
	return n.open
}

// Front returns the front child, nil if absent.
func (n *Node) Front() *Node {
	return n.front
}

// Back returns the back child, nil if absent.
func (n *Node) Back() *Node {
	return n.back
}

// Redundant reports whether the node carries no information: no owned
// polygons and (for closed nodes) no children.
func (n *Node) Redundant() bool {
	if len(n.plus)+len(n.minus) > 0 {
		return false
	}
	return n.front == nil && n.back == nil
}

// SetFront returns the front child, creating it with the given plane when
// absent. Pre-shaping a tree with known planes this way avoids runtime
// polygon-driven splitting.
func (n *Node) SetFront(p geom.Plane) *Node {
	if n.open {
		panic("bsp: half-space node cannot have children")
	}
	if n.front == nil {
		n.front = NewNode(p)
	}
	return n.front
}

// SetBack returns the back child, creating it with the given plane when
// absent.
func (n *Node) SetBack(p geom.Plane) *Node {
	if n.open {
		panic("bsp: half-space node cannot have children")
	}
	if n.back == nil {
		n.back = NewNode(p)
	}
	return n.back
}

// Insert places one world convex polygon into the subtree, splitting it
// against the node plane and routing fragments to children created lazily.
// Coplanar polygons are appended to the node's own lists.
func (n *Node) Insert(w *WorldPolygon) {
	if w == nil {
		return
	}
	front, back, coplanar := w.Split(n.trans)
	if coplanar {
		n.placeCoplanar(w)
		return
	}
	if front != nil {
		if n.open {
			panic("bsp: non-coplanar polygon inserted into half-space node")
		}
		if n.front == nil {
			n.front = NewNodeFromPolygon(front)
		} else {
			n.front.Insert(front)
		}
	}
	if back != nil {
		if n.open {
			panic("bsp: non-coplanar polygon inserted into half-space node")
		}
		if n.back == nil {
			n.back = NewNodeFromPolygon(back)
		} else {
			n.back.Insert(back)
		}
	}
}

// InsertAll inserts a batch of polygons.
func (n *Node) InsertAll(polys []*WorldPolygon) {
	for _, w := range polys {
		n.Insert(w)
	}
}

// placeCoplanar appends a polygon known to lie on the node plane. The
// stored local loop is chosen so that traversal (which reverses the loop
// when the node is inverted) reproduces the polygon's world loop, and the
// list is chosen by facing.
func (n *Node) placeCoplanar(w *WorldPolygon) {
	var local *Polygon
	if w.Trans.Equal(n.trans) {
		local = w.Local.Clone()
	} else {
		rel := n.trans.Inverse.Mul4(w.Trans.Direct)
		verts := make([]mgl64.Vec2, len(w.Local.verts))
		for i, v := range w.Local.verts {
			m := mgl64.TransformCoordinate(mgl64.Vec3{v.X(), v.Y(), 0}, rel)
			verts[i] = mgl64.Vec2{m.X(), m.Y()}
		}
		p, err := NewPolygon(verts, w.Local.Payload)
		if err != nil {
			// Sliver collapsed below tolerance during re-expression.
			return
		}
		local = p
	}
	if n.inverted {
		local = local.Reversed()
	}

	sameFacing := w.Facing().Dot(n.trans.Plane.Normal) > 0
	if sameFacing {
		if !local.ccw {
			panic("bsp: plus-list polygon with CW winding")
		}
		n.plus = append(n.plus, local)
	} else {
		if local.ccw {
			panic("bsp: minus-list polygon with CCW winding")
		}
		n.minus = append(n.minus, local)
	}
}

// Merge splices a whole subtree into the receiver, consuming the donor.
// When the transforms are numerically equal the polygon lists concatenate
// and children merge pairwise; otherwise the donor's polygons are traversed
// and re-inserted one at a time, which loses structural sharing but
// preserves correctness.
func (n *Node) Merge(o *Node) {
	if o == nil {
		return
	}
	if n.open == o.open && n.inverted == o.inverted && n.trans.Equal(o.trans) {
		n.plus = append(n.plus, o.plus...)
		n.minus = append(n.minus, o.minus...)
		if o.front != nil {
			if n.front == nil {
				n.front = o.front
			} else {
				n.front.Merge(o.front)
			}
		}
		if o.back != nil {
			if n.back == nil {
				n.back = o.back
			} else {
				n.back.Merge(o.back)
			}
		}
		return
	}
	o.Walk(func(w *WorldPolygon) {
		n.Insert(w)
	})
}

// facingOf returns the world facing of an owned polygon by list: the plus
// list faces the plane normal, the minus list faces away. This is the
// node-side counterpart of WorldPolygon.Facing for stored polygons, which
// must not be read through Facing directly because their stored loop is
// pre-reversed under inversion.
func (n *Node) facingOf(plusList bool) mgl64.Vec3 {
	if plusList {
		return n.trans.Plane.Normal
	}
	return n.trans.Plane.Normal.Mul(-1)
}

// String summarizes the subtree for debugging.
func (n *Node) String() string {
	kind := "node"
	if n.open {
		kind = "halfspace"
	}
	return fmt.Sprintf("%s(plane=%v d=%.4g plus=%d minus=%d inverted=%v front=%v back=%v)",
		kind, n.trans.Plane.Normal, n.trans.Plane.D,
		len(n.plus), len(n.minus), n.inverted, n.front != nil, n.back != nil)
}
