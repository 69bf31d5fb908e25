package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a composite of a direct matrix, its inverse, and the plane
// obtained by applying the direct matrix to the canonical z=0 plane. The
// triple is cached because all three are consulted on every node visit.
//
// Invariant: Plane always equals the image of the z=0 plane under Direct.
// Code that changes Direct must rebuild the whole triple; the fields are
// exported for reading, not for piecemeal mutation.
type Transform struct {
	Direct  mgl64.Mat4
	Inverse mgl64.Mat4
	Plane   Plane
}

// TransformFromMatrix builds the composite for an invertible affine matrix.
// It panics on a singular matrix: feeding one to the kernel is a programmer
// error, not a recoverable condition.
func TransformFromMatrix(direct mgl64.Mat4) Transform {
	det := direct.Det()
	if EqZero(det, 1) {
		panic(fmt.Sprintf("geom: singular transform matrix (det=%v)", det))
	}
	inv := direct.Inv()
	return Transform{
		Direct:  direct,
		Inverse: inv,
		Plane:   planeOf(direct, inv),
	}
}

// TransformFromPlane builds a transform whose local z=0 plane maps onto p.
// The rotation is the shortest arc taking +z to the plane normal, so the
// local x/y axes are arbitrary but consistent.
func TransformFromPlane(p Plane) Transform {
	if p.Degenerate() {
		panic("geom: transform from degenerate plane")
	}
	p = NewPlane(p.Normal, p.D)
	q := mgl64.QuatBetweenVectors(mgl64.Vec3{0, 0, 1}, p.Normal)
	origin := p.Normal.Mul(-p.D)
	direct := mgl64.Translate3D(origin.X(), origin.Y(), origin.Z()).Mul4(q.Mat4())
	return TransformFromMatrix(direct)
}

// TransformFromBasis builds a transform that maps the local axes onto the
// given (not necessarily orthonormal) world axes with the local origin at
// origin. The local z=0 plane maps to the plane spanned by x and y.
func TransformFromBasis(origin, x, y, z mgl64.Vec3) Transform {
	direct := mgl64.Mat4FromCols(
		x.Vec4(0),
		y.Vec4(0),
		z.Vec4(0),
		origin.Vec4(1),
	)
	return TransformFromMatrix(direct)
}

// Identity returns the identity transform (local frame == world frame).
func Identity() Transform {
	return TransformFromMatrix(mgl64.Ident4())
}

// planeOf computes the world image of the local z=0 plane. The normal is
// mapped through the inverse transpose so the result stays correct under
// non-uniform scale and shear, not just rigid motion.
func planeOf(direct, inverse mgl64.Mat4) Plane {
	n4 := inverse.Transpose().Mul4x1(mgl64.Vec4{0, 0, 1, 0})
	n := mgl64.Vec3{n4.X(), n4.Y(), n4.Z()}
	o4 := direct.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	origin := mgl64.Vec3{o4.X(), o4.Y(), o4.Z()}
	return PlaneThrough(n, origin)
}

// Compose returns the transform that applies u first, then t.
func (t Transform) Compose(u Transform) Transform {
	direct := t.Direct.Mul4(u.Direct)
	inverse := u.Inverse.Mul4(t.Inverse)
	return Transform{
		Direct:  direct,
		Inverse: inverse,
		Plane:   planeOf(direct, inverse),
	}
}

// zFlip negates the local z axis. It is its own inverse.
var zFlip = mgl64.Diag4(mgl64.Vec4{1, 1, -1, 1})

// ZFlipped composes a local z-flip onto the transform. World positions of
// local z=0 points are unchanged; the cached plane flips orientation and
// the orientation sign negates. Node inversion is built on this.
func (t Transform) ZFlipped() Transform {
	direct := t.Direct.Mul4(zFlip)
	inverse := zFlip.Mul4(t.Inverse)
	return Transform{
		Direct:  direct,
		Inverse: inverse,
		Plane:   t.Plane.Flipped(),
	}
}

// Apply maps a world point through the direct matrix.
func (t Transform) Apply(pt mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(pt, t.Direct)
}

// ApplyLocal maps a local z=0 point into world space.
func (t Transform) ApplyLocal(v mgl64.Vec2) mgl64.Vec3 {
	return mgl64.TransformCoordinate(mgl64.Vec3{v.X(), v.Y(), 0}, t.Direct)
}

// PullBack maps a world point into the local frame.
func (t Transform) PullBack(pt mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(pt, t.Inverse)
}

// InLocalFrame re-expresses a world plane in the transform's local
// coordinates, using the transpose rule for plane covectors. The returned
// plane has a unit normal.
func (t Transform) InLocalFrame(p Plane) Plane {
	v := t.Direct.Transpose().Mul4x1(p.Normal.Vec4(p.D))
	return NewPlane(mgl64.Vec3{v.X(), v.Y(), v.Z()}, v.W())
}

// Orientation returns the sign of the determinant of the linear part:
// +1 for orientation-preserving transforms, -1 after an odd number of
// reflections (z-flips).
func (t Transform) Orientation() float64 {
	if det3(t.Direct) < 0 {
		return -1
	}
	return 1
}

// det3 is the determinant of the upper-left 3x3 block.
func det3(m mgl64.Mat4) float64 {
	return m.At(0, 0)*(m.At(1, 1)*m.At(2, 2)-m.At(1, 2)*m.At(2, 1)) -
		m.At(0, 1)*(m.At(1, 0)*m.At(2, 2)-m.At(1, 2)*m.At(2, 0)) +
		m.At(0, 2)*(m.At(1, 0)*m.At(2, 1)-m.At(1, 1)*m.At(2, 0))
}

// Equal reports whether two transforms have numerically equal direct
// matrices.
func (t Transform) Equal(u Transform) bool {
	for i := 0; i < 16; i++ {
		if !Eq(t.Direct[i], u.Direct[i]) {
			return false
		}
	}
	return true
}
