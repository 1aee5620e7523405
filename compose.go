package warp

// ComposeOption sets one primitive of a composed transform.
// Primitives without an option contribute the identity.
//
// Example:
//
//	// Translate by (300, 500), rotate by -20 degrees, halve the size.
//	m := warp.Compose(
//	    warp.WithTX(300), warp.WithTY(500),
//	    warp.WithAngle(-20),
//	    warp.WithSX(0.5), warp.WithSY(0.5),
//	)
type ComposeOption func(*composeParams)

// composeParams holds the primitive parameters collected by Compose.
type composeParams struct {
	tx, ty float64
	angle  float64
	sx, sy float64
	shear  float64
}

// defaultComposeParams returns parameters that compose to the identity.
func defaultComposeParams() composeParams {
	return composeParams{sx: 1, sy: 1}
}

// WithTX sets the x component of the translation.
func WithTX(tx float64) ComposeOption {
	return func(p *composeParams) {
		p.tx = tx
	}
}

// WithTY sets the y component of the translation.
func WithTY(ty float64) ComposeOption {
	return func(p *composeParams) {
		p.ty = ty
	}
}

// WithAngle sets the rotation angle in degrees.
func WithAngle(deg float64) ComposeOption {
	return func(p *composeParams) {
		p.angle = deg
	}
}

// WithSX sets the horizontal scale factor. Negative values reflect.
func WithSX(sx float64) ComposeOption {
	return func(p *composeParams) {
		p.sx = sx
	}
}

// WithSY sets the vertical scale factor. Negative values reflect.
func WithSY(sy float64) ComposeOption {
	return func(p *composeParams) {
		p.sy = sy
	}
}

// WithShear sets the horizontal shear factor: x gains shear*y.
func WithShear(k float64) ComposeOption {
	return func(p *composeParams) {
		p.shear = k
	}
}

// Compose builds T · R · S · Sh from the given primitives. Read right to
// left: points are sheared, then scaled, then rotated, then translated.
// Callers needing another order must multiply the primitives themselves.
// With no options Compose returns the identity.
func Compose(opts ...ComposeOption) Transform {
	p := defaultComposeParams()
	for _, opt := range opts {
		opt(&p)
	}

	return Translate(p.tx, p.ty).
		Multiply(Rotate(p.angle)).
		Multiply(Scale(p.sx, p.sy)).
		Multiply(Shear(p.shear))
}
