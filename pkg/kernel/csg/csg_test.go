package csg

import (
	"math"
	"testing"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	// An exact box is 2 triangles per face, 6 faces.
	if mesh.TriangleCount() != 12 {
		t.Errorf("box triangle count = %d, expected 12", mesh.TriangleCount())
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 1e-9
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{100, 50, 25}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl := k.Cylinder(50, 10, 32)
	mesh, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// 32 side quads at 2 triangles each plus two 32-gon caps at 30 each.
	if got := mesh.TriangleCount(); got != 32*2+2*30 {
		t.Errorf("cylinder triangle count = %d, expected %d", got, 32*2+2*30)
	}
	min, max := cyl.BoundingBox()
	if math.Abs(min[2]+25) > 1e-9 || math.Abs(max[2]-25) > 1e-9 {
		t.Errorf("cylinder z bounds = [%f, %f], expected [-25, 25]", min[2], max[2])
	}
	if math.Abs(max[0]-10) > 1e-9 {
		t.Errorf("cylinder +x bound = %f, expected 10", max[0])
	}
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)
	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
	min, max := u.BoundingBox()
	if math.Abs(max[0]-80) > 1e-9 || math.Abs(min[0]) > 1e-9 {
		t.Errorf("union x bounds = [%f, %f], expected [0, 80]", min[0], max[0])
	}
}

func TestDifference(t *testing.T) {
	k := New()
	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	// Drill a square hole through the middle.
	hole := k.Translate(k.Box(20, 20, 120), 40, 40, -10)
	diff := k.Difference(box, hole)
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Errorf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
	min, max := inter.BoundingBox()
	if math.Abs(min[0]-50) > 1e-9 || math.Abs(max[0]-100) > 1e-9 {
		t.Errorf("intersection x bounds = [%f, %f], expected [50, 100]", min[0], max[0])
	}
}

func TestOperandsSurviveBooleans(t *testing.T) {
	k := New()
	a := k.Box(10, 10, 10)
	b := k.Translate(k.Box(10, 10, 10), 5, 0, 0)
	_ = k.Union(a, b)
	_ = k.Difference(a, b)

	// a must still be the original box after being used as an operand.
	min, max := a.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]) > 1e-9 || math.Abs(max[i]-10) > 1e-9 {
			t.Fatalf("operand mutated: bounds [%v, %v]", min, max)
		}
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z extends along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1e-6
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected 10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected 100", yExtent)
	}
}
