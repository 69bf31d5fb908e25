package bsp_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/bsp"
	"github.com/whittle-cad/whittle/pkg/fabric"
	"github.com/whittle-cad/whittle/pkg/geom"
)

func cube(t *testing.T, half float64) *bsp.Node {
	t.Helper()
	n, err := fabric.Box(half, half, half, nil)
	if err != nil {
		t.Fatalf("fabric.Box: %v", err)
	}
	return n
}

func translated(t *testing.T, n *bsp.Node, dx, dy, dz float64) *bsp.Node {
	t.Helper()
	n.Apply(geom.TransformFromMatrix(mgl64.Translate3D(dx, dy, dz)))
	return n
}

func wantVolume(t *testing.T, n *bsp.Node, want float64) {
	t.Helper()
	got := n.Volume()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("volume = %v, want %v", got, want)
	}
}

func TestBoxTree(t *testing.T) {
	c := cube(t, 0.5)
	if got := c.PolygonCount(); got != 6 {
		t.Errorf("polygon count = %d, want 6", got)
	}
	wantVolume(t, c, 1)

	// Every emitted face must face away from the box center.
	c.Walk(func(w *bsp.WorldPolygon) {
		centroid := mgl64.Vec3{}
		for _, v := range w.Vertices() {
			centroid = centroid.Add(v)
		}
		centroid = centroid.Mul(1 / float64(len(w.Vertices())))
		if w.Facing().Dot(centroid) <= 0 {
			t.Errorf("face at %v points inward (%v)", centroid, w.Facing())
		}
	})
}

func TestCylinderTree(t *testing.T) {
	const segments = 64
	c, err := fabric.Cylinder(1, 2, segments, nil)
	if err != nil {
		t.Fatalf("fabric.Cylinder: %v", err)
	}
	if got := c.PolygonCount(); got != segments+2 {
		t.Errorf("polygon count = %d, want %d", got, segments+2)
	}
	// The prism volume converges to pi*r^2*h from below.
	want := float64(segments) * math.Sin(2*math.Pi/segments) // r=1, h=2
	wantVolume(t, c, want)
}

func TestInvertIsInvolution(t *testing.T) {
	c := cube(t, 0.5)
	orig := c.Clone()

	c.Invert()
	wantVolume(t, c, -1)
	c.Walk(func(w *bsp.WorldPolygon) {
		centroid := mgl64.Vec3{}
		for _, v := range w.Vertices() {
			centroid = centroid.Add(v)
		}
		centroid = centroid.Mul(1 / float64(len(w.Vertices())))
		if w.Facing().Dot(centroid) >= 0 {
			t.Errorf("inverted face at %v still points outward", centroid)
		}
	})

	c.Invert()
	wantVolume(t, c, 1)
	var want []*bsp.WorldPolygon
	orig.Walk(func(w *bsp.WorldPolygon) { want = append(want, w) })
	i := 0
	c.Walk(func(w *bsp.WorldPolygon) {
		if i < len(want) && !w.Equal(want[i]) {
			t.Errorf("polygon %d changed across double inversion", i)
		}
		i++
	})
	if i != len(want) {
		t.Errorf("polygon count changed across double inversion: %d vs %d", i, len(want))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := cube(t, 0.5)
	snapshot := c.Clone()
	other := translated(t, cube(t, 0.5), 0.5, 0, 0)
	c.Subtract(other)

	wantVolume(t, snapshot, 1)
	if got := snapshot.PolygonCount(); got != 6 {
		t.Errorf("clone polygon count = %d, want 6", got)
	}
}

func TestApplyTranslation(t *testing.T) {
	c := translated(t, cube(t, 0.5), 10, -3, 2)
	wantVolume(t, c, 1)
	c.Walk(func(w *bsp.WorldPolygon) {
		for _, v := range w.Vertices() {
			if v.X() < 9.5-1e-9 || v.X() > 10.5+1e-9 {
				t.Errorf("vertex %v outside translated box", v)
			}
		}
	})
}

func TestApplyRotation(t *testing.T) {
	c := cube(t, 0.5)
	c.Apply(geom.TransformFromMatrix(mgl64.HomogRotate3DZ(math.Pi / 4)))
	wantVolume(t, c, 1)
}

func TestApplyRejectsReflection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for orientation-reversing transform")
		}
	}()
	c := cube(t, 0.5)
	c.Apply(geom.TransformFromMatrix(mgl64.Diag4(mgl64.Vec4{1, 1, -1, 1})))
}

func TestInsertCoplanarOppositeFacing(t *testing.T) {
	// Two coplanar quads facing opposite ways land in the two separate
	// lists of one node and walk back out with their facings intact.
	up := worldQuad(t,
		mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 1, 0})
	down := worldQuad(t,
		mgl64.Vec3{2, 0, 0}, mgl64.Vec3{2, 1, 0},
		mgl64.Vec3{3, 1, 0}, mgl64.Vec3{3, 0, 0})

	n := bsp.NewNodeFromPolygon(up)
	n.Insert(down)

	if n.Front() != nil || n.Back() != nil {
		t.Fatal("coplanar insert should not grow children")
	}
	var facings []mgl64.Vec3
	n.Walk(func(w *bsp.WorldPolygon) { facings = append(facings, w.Facing()) })
	if len(facings) != 2 {
		t.Fatalf("polygon count = %d, want 2", len(facings))
	}
	seen := map[float64]bool{}
	for _, f := range facings {
		seen[math.Round(f.Z())] = true
	}
	if !seen[1] || !seen[-1] {
		t.Errorf("facings = %v, want one +z and one -z", facings)
	}
}

func TestInsertSplitsStraddlingPolygon(t *testing.T) {
	base := worldQuad(t,
		mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, -1, 0},
		mgl64.Vec3{1, 1, 0}, mgl64.Vec3{-1, 1, 0})
	straddling := worldQuad(t,
		mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, -1},
		mgl64.Vec3{0, 1, 1}, mgl64.Vec3{0, 0, 1})

	n := bsp.NewNodeFromPolygon(base)
	n.Insert(straddling)

	if n.Front() == nil || n.Back() == nil {
		t.Fatal("straddling insert should populate both children")
	}
	if got := n.PolygonCount(); got != 3 {
		t.Errorf("polygon count = %d, want 3 (base plus two halves)", got)
	}
}

func TestHalfSpaceNode(t *testing.T) {
	plane := geom.PlaneThrough(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 2, 0})
	hs, err := fabric.HalfSpace(plane, 100, nil)
	if err != nil {
		t.Fatalf("fabric.HalfSpace: %v", err)
	}
	if !hs.HalfSpace() {
		t.Error("node should report itself open")
	}
	if hs.PolygonCount() != 1 {
		t.Errorf("polygon count = %d, want the single bounding quad", hs.PolygonCount())
	}
	if !hs.Plane().Equal(plane) {
		t.Errorf("plane = %+v, want %+v", hs.Plane(), plane)
	}
}
