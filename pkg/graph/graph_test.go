package graph

import "testing"

func boxNode(name string, x, y, z float64) *Node {
	return &Node{
		ID:   NewNodeID(),
		Kind: NodePrimitive,
		Name: name,
		Data: BoxData{PrimKind: PrimBox, Dimensions: Vec3{X: x, Y: y, Z: z}},
	}
}

func TestNewNodeID(t *testing.T) {
	a := NewNodeID()
	b := NewNodeID()
	if a == b {
		t.Error("two fresh IDs should differ")
	}
	if a.IsZero() {
		t.Error("fresh ID reported zero")
	}
	if NodeID("").Short() != "" || !NodeID("").IsZero() {
		t.Error("empty ID should be zero with empty short form")
	}
	if got := len(a.Short()); got != 8 {
		t.Errorf("Short() length = %d, want 8", got)
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()
	n := boxNode("leg", 40, 40, 700)
	g.AddNode(n)

	if got := g.NodeCount(); got != 1 {
		t.Fatalf("NodeCount = %d, want 1", got)
	}
	if g.Lookup("leg") != n {
		t.Error("Lookup by name failed")
	}
	if g.Lookup("missing") != nil {
		t.Error("Lookup of unknown name should be nil")
	}
	if g.Get(n.ID) != n {
		t.Error("Get by ID failed")
	}
	if g.Get(NewNodeID()) != nil {
		t.Error("Get of unknown ID should be nil")
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown name")
		}
	}()
	New().MustLookup("nope")
}

func TestChildren(t *testing.T) {
	g := New()
	a := boxNode("a", 1, 1, 1)
	b := boxNode("b", 2, 2, 2)
	u := &Node{
		ID:       NewNodeID(),
		Kind:     NodeBoolean,
		Children: []NodeID{a.ID, b.ID},
		Data:     BooleanData{Op: BoolUnion},
	}
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(u)
	g.AddRoot(u.ID)

	kids := g.Children(u)
	if len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Errorf("Children = %v", kids)
	}
}

func TestKindFilters(t *testing.T) {
	g := New()
	g.AddNode(boxNode("a", 1, 1, 1))
	g.AddNode(boxNode("b", 1, 1, 1))
	g.AddNode(&Node{ID: NewNodeID(), Kind: NodeBoolean, Data: BooleanData{}})

	if got := len(g.Primitives()); got != 2 {
		t.Errorf("Primitives() count = %d, want 2", got)
	}
	if got := len(g.Booleans()); got != 1 {
		t.Errorf("Booleans() count = %d, want 1", got)
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{NodePrimitive, "primitive"},
		{NodeTransform, "transform"},
		{NodeBoolean, "boolean"},
		{NodeGroup, "group"},
		{NodeKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
