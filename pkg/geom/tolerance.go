// Package geom provides the planes, composite transforms, and
// tolerance-aware comparison predicates the geometry kernels are built on.
package geom

import (
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Epsilon is the base relative tolerance. All predicates scale it by the
// magnitude of their operands so that comparisons stay meaningful from
// sub-millimeter detail up to room-sized assemblies.
const Epsilon = 1e-9

// eps returns the absolute tolerance for values of the given magnitude.
func eps[F constraints.Float](scale F) F {
	if scale < 0 {
		scale = -scale
	}
	if scale < 1 {
		scale = 1
	}
	return F(Epsilon) * scale
}

// EqZero reports whether x is zero within the tolerance for values of
// magnitude scale.
func EqZero[F constraints.Float](x, scale F) bool {
	return x >= -eps(scale) && x <= eps(scale)
}

// Nonzero reports whether x is distinguishable from zero at the given scale.
func Nonzero[F constraints.Float](x, scale F) bool {
	return !EqZero(x, scale)
}

// Eq reports whether a and b are equal within a tolerance derived from
// their magnitudes.
func Eq[F constraints.Float](a, b F) bool {
	scale := a
	if scale < 0 {
		scale = -scale
	}
	mb := b
	if mb < 0 {
		mb = -mb
	}
	if mb > scale {
		scale = mb
	}
	return EqZero(a-b, scale)
}

// EqVec2 reports componentwise equality of two 2D vectors within tolerance.
func EqVec2(a, b mgl64.Vec2) bool {
	return Eq(a.X(), b.X()) && Eq(a.Y(), b.Y())
}

// EqVec3 reports componentwise equality of two 3D vectors within tolerance.
func EqVec3(a, b mgl64.Vec3) bool {
	return Eq(a.X(), b.X()) && Eq(a.Y(), b.Y()) && Eq(a.Z(), b.Z())
}
