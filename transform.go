package warp

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// SingularTolerance is the determinant magnitude below which a Transform is
// treated as non-invertible.
const SingularTolerance = 1e-10

// Transform is a 3x3 homogeneous 2D transformation in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//	| g  h  i |
//
// A point (x, y) is lifted to (x, y, 1) and mapped to:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
//	w' = g*x + h*y + i
//
// Affine transforms have the bottom row [0 0 1]; projective transforms may
// carry anything there. Transform is a value type and is never modified in
// place.
type Transform struct {
	A, B, C float64
	D, E, F float64
	G, H, I float64
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{
		A: 1, E: 1, I: 1,
	}
}

// NewTransform builds a Transform from its nine entries in row-major order.
func NewTransform(a, b, c, d, e, f, g, h, i float64) Transform {
	return Transform{
		A: a, B: b, C: c,
		D: d, E: e, F: f,
		G: g, H: h, I: i,
	}
}

// TransformFromSlice builds a Transform from nine row-major values.
func TransformFromSlice(v []float64) (Transform, error) {
	if len(v) != 9 {
		return Transform{}, fmt.Errorf("%w: matrix needs 9 values, got %d", ErrInvalidArgument, len(v))
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Transform{}, fmt.Errorf("%w: matrix entry %v is not finite", ErrInvalidArgument, x)
		}
	}
	return NewTransform(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8]), nil
}

// Translate creates a translation by (tx, ty).
func Translate(tx, ty float64) Transform {
	return Transform{
		A: 1, C: tx,
		E: 1, F: ty,
		I: 1,
	}
}

// Scale creates a scaling by (sx, sy) around the origin.
// Negative factors reflect; Scale(1, -1) mirrors across the x-axis.
func Scale(sx, sy float64) Transform {
	return Transform{
		A: sx,
		E: sy,
		I: 1,
	}
}

// Rotate creates a rotation by deg degrees around the origin.
// Positive angles turn the x-axis towards the y-axis.
func Rotate(deg float64) Transform {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Transform{
		A: cos, B: -sin,
		D: sin, E: cos,
		I: 1,
	}
}

// Shear creates a horizontal shear adding k*y to every x.
func Shear(k float64) Transform {
	return Transform{
		A: 1, B: k,
		E: 1,
		I: 1,
	}
}

// Multiply returns t * o: the result applies o first, then t.
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.B*o.D + t.C*o.G,
		B: t.A*o.B + t.B*o.E + t.C*o.H,
		C: t.A*o.C + t.B*o.F + t.C*o.I,
		D: t.D*o.A + t.E*o.D + t.F*o.G,
		E: t.D*o.B + t.E*o.E + t.F*o.H,
		F: t.D*o.C + t.E*o.F + t.F*o.I,
		G: t.G*o.A + t.H*o.D + t.I*o.G,
		H: t.G*o.B + t.H*o.E + t.I*o.H,
		I: t.G*o.C + t.H*o.F + t.I*o.I,
	}
}

// Determinant returns det(t).
func (t Transform) Determinant() float64 {
	return t.A*(t.E*t.I-t.F*t.H) -
		t.B*(t.D*t.I-t.F*t.G) +
		t.C*(t.D*t.H-t.E*t.G)
}

// adjugate returns the transpose of the cofactor matrix.
func (t Transform) adjugate() Transform {
	return Transform{
		A: t.E*t.I - t.F*t.H,
		B: t.C*t.H - t.B*t.I,
		C: t.B*t.F - t.C*t.E,
		D: t.F*t.G - t.D*t.I,
		E: t.A*t.I - t.C*t.G,
		F: t.C*t.D - t.A*t.F,
		G: t.D*t.H - t.E*t.G,
		H: t.B*t.G - t.A*t.H,
		I: t.A*t.E - t.B*t.D,
	}
}

// Invert returns the inverse transformation.
// Returns ErrSingularTransform if |det| < SingularTolerance.
func (t Transform) Invert() (Transform, error) {
	det := t.Determinant()
	if math.IsNaN(det) || math.Abs(det) < SingularTolerance {
		return Transform{}, fmt.Errorf("%w: determinant %g", ErrSingularTransform, det)
	}

	adj := t.adjugate()
	inv := 1 / det
	return Transform{
		A: adj.A * inv, B: adj.B * inv, C: adj.C * inv,
		D: adj.D * inv, E: adj.E * inv, F: adj.F * inv,
		G: adj.G * inv, H: adj.H * inv, I: adj.I * inv,
	}, nil
}

// Apply maps (x, y, 1) and returns the homogeneous result (x', y', w').
func (t Transform) Apply(x, y float64) (float64, float64, float64) {
	return t.A*x + t.B*y + t.C,
		t.D*x + t.E*y + t.F,
		t.G*x + t.H*y + t.I
}

// Project maps (x, y) and performs the perspective division.
// When w' is 0 the result is infinite or NaN.
func (t Transform) Project(x, y float64) (float64, float64) {
	px, py, w := t.Apply(x, y)
	return px / w, py / w
}

// ProjectPoints maps the points (xs[i], ys[i]) in place, dividing each by
// its homogeneous coordinate. xs and ys must have equal length.
func (t Transform) ProjectPoints(xs, ys []float64) {
	for i := range xs {
		x, y := xs[i], ys[i]
		w := t.G*x + t.H*y + t.I
		xs[i] = (t.A*x + t.B*y + t.C) / w
		ys[i] = (t.D*x + t.E*y + t.F) / w
	}
}

// IsAffine reports whether the bottom row is exactly [0 0 1].
func (t Transform) IsAffine() bool {
	return t.G == 0 && t.H == 0 && t.I == 1
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// ApproxEqual reports whether every entry of t is within eps of o.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	a, b := t.Array(), o.Array()
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Array returns the nine entries in row-major order.
func (t Transform) Array() [9]float64 {
	return [9]float64{t.A, t.B, t.C, t.D, t.E, t.F, t.G, t.H, t.I}
}

// Aff3 returns the top two rows as a golang.org/x/image affine matrix, the
// source-to-destination argument of draw.Transformer. x/image measures pixel
// corners from 0 rather than pixel centers from 1, so only transforms that
// are linear about the origin land on the same pixels as Warp. ok is false
// when t is not affine.
func (t Transform) Aff3() (m f64.Aff3, ok bool) {
	if !t.IsAffine() {
		return f64.Aff3{}, false
	}
	return f64.Aff3{t.A, t.B, t.C, t.D, t.E, t.F}, true
}

// String formats t as three bracketed rows.
func (t Transform) String() string {
	return fmt.Sprintf("[[%g %g %g] [%g %g %g] [%g %g %g]]",
		t.A, t.B, t.C, t.D, t.E, t.F, t.G, t.H, t.I)
}
