// Package csg implements the kernel.Kernel interface on the BSP boolean
// engine in pkg/bsp. Unlike the sdfx backend it produces exact boundary
// meshes: faces stay planar polygons until tessellation, so no marching
// cubes resolution is involved.
package csg

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/whittle-cad/whittle/pkg/bsp"
	"github.com/whittle-cad/whittle/pkg/fabric"
	"github.com/whittle-cad/whittle/pkg/geom"
	"github.com/whittle-cad/whittle/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*CsgKernel)(nil)

// defaultSegments is the cylinder facet count used when the caller does
// not ask for a specific one.
const defaultSegments = 32

// csgSolid wraps a *bsp.Node to implement kernel.Solid. The node is never
// mutated after construction; kernel operations clone before combining.
type csgSolid struct {
	n *bsp.Node
}

// BoundingBox returns the axis-aligned bounding box of the boundary.
func (s *csgSolid) BoundingBox() (min, max [3]float64) {
	first := true
	s.n.Walk(func(w *bsp.WorldPolygon) {
		for _, v := range w.Vertices() {
			if first {
				min = [3]float64{v.X(), v.Y(), v.Z()}
				max = min
				first = false
				continue
			}
			for i := 0; i < 3; i++ {
				if v[i] < min[i] {
					min[i] = v[i]
				}
				if v[i] > max[i] {
					max[i] = v[i]
				}
			}
		}
	})
	return min, max
}

// CsgKernel implements kernel.Kernel using BSP tree booleans.
type CsgKernel struct{}

// New returns a new CsgKernel.
func New() *CsgKernel {
	return &CsgKernel{}
}

func unwrap(s kernel.Solid) *bsp.Node {
	return s.(*csgSolid).n
}

func wrap(n *bsp.Node) kernel.Solid {
	return &csgSolid{n: n}
}

// Box creates a box with the given dimensions and its minimum corner at
// the origin, matching the placement convention of the sdfx backend.
func (k *CsgKernel) Box(x, y, z float64) kernel.Solid {
	n, err := fabric.Box(x/2, y/2, z/2, nil)
	if err != nil {
		panic(fmt.Sprintf("csg.Box: %v", err))
	}
	n.Apply(geom.TransformFromMatrix(mgl64.Translate3D(x/2, y/2, z/2)))
	return wrap(n)
}

// Cylinder creates a cylinder of the given height and radius, centered on
// the origin with its axis along z. The curved side is approximated by
// segments flat faces.
func (k *CsgKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments < 3 {
		segments = defaultSegments
	}
	n, err := fabric.Cylinder(radius, height, segments, nil)
	if err != nil {
		panic(fmt.Sprintf("csg.Cylinder: %v", err))
	}
	return wrap(n)
}

// Union returns the union of two solids.
func (k *CsgKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(bsp.Combine(bsp.OpUnion, unwrap(a).Clone(), unwrap(b).Clone()))
}

// Difference returns the difference a - b.
func (k *CsgKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(bsp.Combine(bsp.OpDifference, unwrap(a).Clone(), unwrap(b).Clone()))
}

// Intersection returns the intersection of two solids.
func (k *CsgKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(bsp.Combine(bsp.OpIntersection, unwrap(a).Clone(), unwrap(b).Clone()))
}

// Translate moves a solid by (x, y, z).
func (k *CsgKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	n := unwrap(s).Clone()
	n.Apply(geom.TransformFromMatrix(mgl64.Translate3D(x, y, z)))
	return wrap(n)
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes,
// applied in X, Y, Z order like the sdfx backend.
func (k *CsgKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := mgl64.HomogRotate3DZ(zRad).
		Mul4(mgl64.HomogRotate3DY(yRad)).
		Mul4(mgl64.HomogRotate3DX(xRad))
	n := unwrap(s).Clone()
	n.Apply(geom.TransformFromMatrix(m))
	return wrap(n)
}

// ToMesh fan-triangulates the boundary polygons. Each polygon contributes
// its own vertices with a shared face normal; vertices are not welded
// across faces, so flat shading comes out crisp.
func (k *CsgKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	var vertices []float32
	var normals []float32
	var indices []uint32

	unwrap(s).Walk(func(w *bsp.WorldPolygon) {
		f := w.Facing()
		nx := float32(f.X())
		ny := float32(f.Y())
		nz := float32(f.Z())
		for _, tri := range w.Triangles() {
			for _, v := range tri {
				indices = append(indices, uint32(len(vertices)/3))
				vertices = append(vertices, float32(v.X()), float32(v.Y()), float32(v.Z()))
				normals = append(normals, nx, ny, nz)
			}
		}
	})

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
