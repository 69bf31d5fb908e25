package bsp_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/bsp"
	"github.com/whittle-cad/whittle/pkg/fabric"
	"github.com/whittle-cad/whittle/pkg/geom"
)

func TestUnionVolumes(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		want float64
	}{
		{"disjoint", 3, 2},
		{"overlapping", 0.5, 1.5},
		{"touching", 1, 2},
		{"identical", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := cube(t, 0.5)
			b := translated(t, cube(t, 0.5), tt.dx, 0, 0)
			wantVolume(t, bsp.Combine(bsp.OpUnion, a, b), tt.want)
		})
	}
}

func TestUnionIdenticalKeepsOneBoundary(t *testing.T) {
	a := cube(t, 0.5)
	b := cube(t, 0.5)
	r := bsp.Combine(bsp.OpUnion, a, b)
	if got := r.PolygonCount(); got != 6 {
		t.Errorf("polygon count = %d, want one copy of each face", got)
	}
}

func TestUnionTouchingDropsSharedFace(t *testing.T) {
	a := cube(t, 0.5)
	b := translated(t, cube(t, 0.5), 1, 0, 0)
	r := bsp.Combine(bsp.OpUnion, a, b)
	r.Walk(func(w *bsp.WorldPolygon) {
		onSeam := true
		for _, v := range w.Vertices() {
			if math.Abs(v.X()-0.5) > 1e-9 {
				onSeam = false
				break
			}
		}
		if onSeam {
			t.Errorf("internal face left on the seam plane: %v", w.Vertices())
		}
	})
}

func TestSubtractVolumes(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		want float64
	}{
		{"disjoint", 3, 1},
		{"overlapping", 0.5, 0.5},
		{"identical", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := cube(t, 0.5)
			b := translated(t, cube(t, 0.5), tt.dx, 0, 0)
			wantVolume(t, bsp.Combine(bsp.OpDifference, a, b), tt.want)
		})
	}
}

func TestSubtractIdenticalLeavesNoFaces(t *testing.T) {
	a := cube(t, 0.5)
	b := cube(t, 0.5)
	r := bsp.Combine(bsp.OpDifference, a, b)
	if got := r.PolygonCount(); got != 0 {
		t.Errorf("polygon count = %d, want 0", got)
		r.Walk(func(w *bsp.WorldPolygon) {
			t.Logf("leftover polygon facing %v: %v", w.Facing(), w.Vertices())
		})
	}
	wantVolume(t, r, 0)
}

func TestUnionPolygonCounts(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		want int
	}{
		{"identical", 0, 6},
		{"touching", 1, 10},
		{"disjoint", 3, 12},
		// Partially overlapping boundaries are different: the coplanar
		// side faces get cut at the other solid's partition planes and the
		// fragments are never re-merged, so each side ends up covered by
		// three fragments and the total exceeds the 12 input faces.
		{"overlapping quarter", 0.25, 14},
		{"overlapping half", 0.5, 14},
		{"overlapping most", 0.75, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := cube(t, 0.5)
			b := translated(t, cube(t, 0.5), tt.dx, 0, 0)
			r := bsp.Combine(bsp.OpUnion, a, b)
			if got := r.PolygonCount(); got != tt.want {
				t.Errorf("polygon count = %d, want %d", got, tt.want)
			}
			wantVolume(t, r, 2-math.Max(0, 1-tt.dx))
		})
	}
}

func TestSubtractCavity(t *testing.T) {
	a := cube(t, 0.5)
	b := cube(t, 0.25)
	r := bsp.Combine(bsp.OpDifference, a, b)
	wantVolume(t, r, 1-0.125)
	// The cavity walls face into the void, toward the solid's outside.
	inner := 0
	r.Walk(func(w *bsp.WorldPolygon) {
		centroid := mgl64.Vec3{}
		for _, v := range w.Vertices() {
			centroid = centroid.Add(v)
		}
		centroid = centroid.Mul(1 / float64(len(w.Vertices())))
		if centroid.Len() < 0.3 {
			inner++
			if w.Facing().Dot(centroid) >= 0 {
				t.Errorf("cavity wall at %v faces away from the cavity", centroid)
			}
		}
	})
	if inner == 0 {
		t.Error("no cavity walls found")
	}
}

func TestIntersectVolumes(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		want float64
	}{
		{"disjoint", 3, 0},
		{"overlapping", 0.5, 0.5},
		{"identical", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := cube(t, 0.5)
			b := translated(t, cube(t, 0.5), tt.dx, 0, 0)
			wantVolume(t, bsp.Combine(bsp.OpIntersection, a, b), tt.want)
		})
	}
}

func TestBooleanAlgebra(t *testing.T) {
	t.Run("union commutes", func(t *testing.T) {
		ab := bsp.Combine(bsp.OpUnion, cube(t, 0.5), translated(t, cube(t, 0.5), 0.5, 0.25, 0))
		ba := bsp.Combine(bsp.OpUnion, translated(t, cube(t, 0.5), 0.5, 0.25, 0), cube(t, 0.5))
		if math.Abs(ab.Volume()-ba.Volume()) > 1e-6 {
			t.Errorf("volumes differ: %v vs %v", ab.Volume(), ba.Volume())
		}
	})
	t.Run("intersect commutes", func(t *testing.T) {
		ab := bsp.Combine(bsp.OpIntersection, cube(t, 0.5), translated(t, cube(t, 0.5), 0.5, 0.25, 0))
		ba := bsp.Combine(bsp.OpIntersection, translated(t, cube(t, 0.5), 0.5, 0.25, 0), cube(t, 0.5))
		if math.Abs(ab.Volume()-ba.Volume()) > 1e-6 {
			t.Errorf("volumes differ: %v vs %v", ab.Volume(), ba.Volume())
		}
	})
	t.Run("a minus b plus intersection is a", func(t *testing.T) {
		diff := bsp.Combine(bsp.OpDifference, cube(t, 0.5), translated(t, cube(t, 0.5), 0.5, 0, 0))
		inter := bsp.Combine(bsp.OpIntersection, cube(t, 0.5), translated(t, cube(t, 0.5), 0.5, 0, 0))
		if got := diff.Volume() + inter.Volume(); math.Abs(got-1) > 1e-6 {
			t.Errorf("(A-B) + (A∩B) volume = %v, want 1", got)
		}
	})
}

func TestIntersectHalfSpace(t *testing.T) {
	t.Run("through the solid", func(t *testing.T) {
		c := cube(t, 0.5)
		hs, err := fabric.HalfSpace(
			geom.PlaneThrough(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0.25, 0}), 10, nil)
		if err != nil {
			t.Fatalf("fabric.HalfSpace: %v", err)
		}
		r := bsp.Combine(bsp.OpIntersection, c, hs)
		wantVolume(t, r, 0.75)

		// The cut must be capped: a face on the cut plane facing +y.
		capped := false
		r.Walk(func(w *bsp.WorldPolygon) {
			on := true
			for _, v := range w.Vertices() {
				if math.Abs(v.Y()-0.25) > 1e-9 {
					on = false
					break
				}
			}
			if on && w.Facing().Y() > 0 {
				capped = true
			}
		})
		if !capped {
			t.Error("cut face is not capped")
		}
	})

	t.Run("coincident with a face keeps the solid", func(t *testing.T) {
		c := cube(t, 0.5)
		hs, err := fabric.HalfSpace(
			geom.PlaneThrough(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0.5, 0}), 10, nil)
		if err != nil {
			t.Fatalf("fabric.HalfSpace: %v", err)
		}
		wantVolume(t, bsp.Combine(bsp.OpIntersection, c, hs), 1)
	})

	t.Run("entirely behind removes the solid", func(t *testing.T) {
		c := cube(t, 0.5)
		hs, err := fabric.HalfSpace(
			geom.PlaneThrough(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -2, 0}), 10, nil)
		if err != nil {
			t.Fatalf("fabric.HalfSpace: %v", err)
		}
		wantVolume(t, bsp.Combine(bsp.OpIntersection, c, hs), 0)
	})
}

func TestCombineConsumesOperands(t *testing.T) {
	a := cube(t, 0.5)
	keep := a.Clone()
	b := translated(t, cube(t, 0.5), 0.5, 0, 0)
	bsp.Combine(bsp.OpUnion, a, b)
	wantVolume(t, keep, 1)
}

func TestSubtractThenUnionRestores(t *testing.T) {
	a := cube(t, 0.5)
	bit := translated(t, cube(t, 0.25), 0.5, 0, 0)
	carved := bsp.Combine(bsp.OpDifference, a, bit.Clone())
	restored := bsp.Combine(bsp.OpUnion, carved, bsp.Combine(bsp.OpIntersection, cube(t, 0.5), bit))
	wantVolume(t, restored, 1)
}
