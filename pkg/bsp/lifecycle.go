package bsp

import "github.com/whittle-cad/whittle/pkg/geom"

// Invert turns the subtree inside out in place: the inverted flag toggles,
// a z-flip is composed into the transform (so the plane orientation
// reverses while owned polygons keep their world positions), and the
// front/back children swap and recurse. No polygon vertex data is touched;
// the whole operation is O(node count). Invert is an involution.
func (n *Node) Invert() {
	if n == nil {
		return
	}
	n.inverted = !n.inverted
	n.trans = n.trans.ZFlipped()
	n.front, n.back = n.back, n.front
	n.front.Invert()
	n.back.Invert()
}

// Clone deep-copies the subtree: polygon lists and children are duplicated
// so the clone shares no mutable state with the original. Required before
// any destructive combination when an operand must be reused.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		trans:    n.trans,
		inverted: n.inverted,
		open:     n.open,
		plus:     make([]*Polygon, len(n.plus)),
		minus:    make([]*Polygon, len(n.minus)),
		front:    n.front.Clone(),
		back:     n.back.Clone(),
	}
	for i, p := range n.plus {
		c.plus[i] = p.Clone()
	}
	for i, p := range n.minus {
		c.minus[i] = p.Clone()
	}
	return c
}

// Apply propagates an orientation-preserving affine transform to the whole
// subtree by composing it onto each node's transform. The composite keeps
// full matrix pairs, so uniform and non-uniform scale both fold into the
// transform without mutating local polygon vertices; only reflections are
// rejected, since they would break the inverted-flag bookkeeping.
func (n *Node) Apply(t geom.Transform) {
	if n == nil {
		return
	}
	if t.Orientation() < 0 {
		panic("bsp: Apply requires an orientation-preserving transform")
	}
	n.trans = t.Compose(n.trans)
	n.front.Apply(t)
	n.back.Apply(t)
}
