package bsp

// Op selects a boolean combination.
type Op int

const (
	OpUnion Op = iota
	OpDifference
	OpIntersection
)

func (op Op) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// The combination operations are destructive on both operands. Callers
// needing to preserve an operand must Clone it first, or use Combine,
// which makes the consumption explicit.

// Union merges the other solid into the receiver: A := A ∪ B.
//
// Each solid is first trimmed to its part outside the other; B is then
// probed from the outside (invert, clip, invert) to recover the coplanar
// boundary faces that face away from A, which a naive double clip would
// drop; finally the surviving B geometry is merged into A.
func (n *Node) Union(o *Node) {
	n.Clip(o)
	o.Clip(n)
	o.Invert()
	o.Clip(n)
	o.Invert()
	n.Merge(o)
}

// Subtract carves the other solid out of the receiver: A := A − B.
//
// Subtraction is "invert A, combine with B restricted to A's inverted
// volume, invert back": inverting A makes its outside become its inside,
// so clipping against B and re-inverting yields the carved result.
func (n *Node) Subtract(o *Node) {
	n.Invert()
	n.Clip(o)
	o.Clip(n)
	o.Invert()
	o.Clip(n)
	o.Invert()
	n.Merge(o)
	n.Invert()
}

// Intersect keeps only the shared volume: A := A ∩ B. Intersection is the
// complemented union of complements (De Morgan), expressed with the same
// invert/clip vocabulary.
func (n *Node) Intersect(o *Node) {
	n.Invert()
	o.Clip(n)
	o.Invert()
	n.Clip(o)
	o.Clip(n)
	n.Merge(o)
	n.Invert()
}

// IntersectHalfSpace intersects the receiver with a half-space node. The
// half-space's polygon lists must carry enough bounding geometry to close
// the holes left on the cut faces, or the result will have an open
// boundary. Inverting a half-space is a constant-time plane flip, so the
// sequence mirrors Intersect without the cost a closed operand would pay.
func (n *Node) IntersectHalfSpace(hs *Node) {
	n.Invert()
	hs.Clip(n)
	hs.Invert()
	n.Clip(hs)
	hs.Clip(n)
	n.Merge(hs)
	n.Invert()
}

// Combine applies op to two trees, taking ownership of both operands, and
// returns the result. Both inputs are consumed: the "rhs is destroyed"
// contract of the in-place operations becomes an explicit handoff here.
func Combine(op Op, a, b *Node) *Node {
	switch op {
	case OpUnion:
		a.Union(b)
	case OpDifference:
		a.Subtract(b)
	case OpIntersection:
		if b.HalfSpace() {
			a.IntersectHalfSpace(b)
		} else {
			a.Intersect(b)
		}
	default:
		panic("bsp: unknown combination op")
	}
	return a
}
