package bsp

// Walk visits every polygon of the subtree in depth-first pre-order: the
// node's own coplanar polygons first (plus list, then minus list, flipped
// on the fly when the node is inverted), then the front subtree, then the
// back subtree. Each call walks the tree fresh; the yielded polygons are
// independent copies and may be retained or re-inserted elsewhere.
func (n *Node) Walk(fn func(*WorldPolygon)) {
	if n == nil {
		return
	}
	for _, p := range n.plus {
		fn(n.worldPolygon(p))
	}
	for _, p := range n.minus {
		fn(n.worldPolygon(p))
	}
	n.front.Walk(fn)
	n.back.Walk(fn)
}

// worldPolygon materializes an owned polygon, applying the inverted flag
// by reversing the emitted loop.
func (n *Node) worldPolygon(p *Polygon) *WorldPolygon {
	local := p.Clone()
	if n.inverted {
		local = p.Reversed()
	}
	return &WorldPolygon{Local: local, Trans: n.trans}
}

// PolygonCount returns the number of polygons owned by the subtree.
func (n *Node) PolygonCount() int {
	if n == nil {
		return 0
	}
	return len(n.plus) + len(n.minus) + n.front.PolygonCount() + n.back.PolygonCount()
}

// Volume returns the signed volume enclosed by the traversed polygon set,
// computed with the divergence theorem over the fan triangulation. The
// value is only meaningful for closed solids with outward-facing polygons.
func (n *Node) Volume() float64 {
	var v float64
	n.Walk(func(w *WorldPolygon) {
		for _, t := range w.Triangles() {
			v += t[0].Dot(t[1].Cross(t[2])) / 6
		}
	})
	return v
}
