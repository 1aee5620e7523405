package image

import "math"

// InterpolationMode defines how a buffer is sampled at a real-valued position.
type InterpolationMode uint8

const (
	// InterpBilinear performs linear interpolation between the 4 neighboring
	// pixels. It is the zero value and the warp engine default.
	InterpBilinear InterpolationMode = iota

	// InterpNearest selects the closest pixel (no interpolation).
	InterpNearest
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpBilinear:
		return "Bilinear"
	case InterpNearest:
		return "Nearest"
	default:
		return "Unknown"
	}
}

// Sample writes the samples of img at pixel position (x, y) into dst, which
// must hold at least img.Channels() bytes. Positions are 0-based pixel
// centers. A position outside [0, w-1] x [0, h-1] (NaN included) writes
// border to every channel.
func Sample(img *ImageBuf, x, y float64, mode InterpolationMode, border uint8, dst []byte) {
	switch mode {
	case InterpNearest:
		SampleNearest(img, x, y, border, dst)
	default:
		SampleBilinear(img, x, y, border, dst)
	}
}

// inside reports whether (x, y) lies in the closed pixel-center rectangle.
// NaN compares false and is reported outside.
func inside(img *ImageBuf, x, y float64) bool {
	return x >= 0 && x <= float64(img.width-1) && y >= 0 && y <= float64(img.height-1)
}

func fillBorder(dst []byte, n int, border uint8) {
	for c := range n {
		dst[c] = border
	}
}

// SampleNearest performs nearest-neighbor sampling at pixel position (x, y).
func SampleNearest(img *ImageBuf, x, y float64, border uint8, dst []byte) {
	bpp := img.format.BytesPerPixel()
	if !inside(img, x, y) {
		fillBorder(dst, bpp, border)
		return
	}

	px := min(int(math.Floor(x+0.5)), img.width-1)
	py := min(int(math.Floor(y+0.5)), img.height-1)
	off := py*img.stride + px*bpp
	copy(dst[:bpp], img.data[off:off+bpp])
}

// SampleBilinear performs bilinear interpolation at pixel position (x, y)
// over the four nearest samples. On the last row or column the missing
// neighbors carry zero weight, so integer positions reproduce the source
// exactly.
func SampleBilinear(img *ImageBuf, x, y float64, border uint8, dst []byte) {
	bpp := img.format.BytesPerPixel()
	if !inside(img, x, y) {
		fillBorder(dst, bpp, border)
		return
	}

	// x and y are non-negative here, so truncation is floor.
	x0 := int(x)
	y0 := int(y)
	tx := x - float64(x0)
	ty := y - float64(y0)
	x1 := min(x0+1, img.width-1)
	y1 := min(y0+1, img.height-1)

	o00 := y0*img.stride + x0*bpp
	o10 := y0*img.stride + x1*bpp
	o01 := y1*img.stride + x0*bpp
	o11 := y1*img.stride + x1*bpp

	for c := range bpp {
		v := lerp2D(
			float64(img.data[o00+c]), float64(img.data[o10+c]),
			float64(img.data[o01+c]), float64(img.data[o11+c]),
			tx, ty,
		)
		dst[c] = uint8(math.Round(v))
	}
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	v0 := lerp(v00, v10, tx)
	v1 := lerp(v01, v11, tx)
	return lerp(v0, v1, ty)
}
