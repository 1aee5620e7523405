package warp

import (
	"fmt"
	"math"
)

// MaxCanvasPixels caps the number of output pixels Warp will allocate.
const MaxCanvasPixels = 1 << 28

// maxCanvasCoord bounds mapped corner coordinates before conversion to int.
const maxCanvasCoord = 1 << 30

// snapEpsilon absorbs rounding noise in mapped corners and grid points, so
// that a corner computed as 4.000000000000001 does not widen the canvas by a
// pixel and a grid point computed as 0.9999999999999998 still samples the
// source edge.
const snapEpsilon = 1e-9

// Bounds is an inclusive rectangle of 1-based integer pixel coordinates:
// the output canvas spans [MinX, MaxX] x [MinY, MaxY].
type Bounds struct {
	MinX, MinY int
	MaxX, MaxY int
}

// ContainSourceFrame is the starting canvas for a W x H source: the source
// frame itself, [1, w] x [1, h]. Mapped corners only ever extend it, so the
// canvas never shrinks below the original frame.
func ContainSourceFrame(w, h int) Bounds {
	return Bounds{MinX: 1, MinY: 1, MaxX: w, MaxY: h}
}

// Width returns the number of columns.
func (b Bounds) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the number of rows.
func (b Bounds) Height() int {
	return b.MaxY - b.MinY + 1
}

// Pixels returns Width * Height.
func (b Bounds) Pixels() int {
	return b.Width() * b.Height()
}

// Contains reports whether the integer point (x, y) lies inside b.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// String formats b as "[minX,maxX]x[minY,maxY]".
func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d]x[%d,%d]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// extend grows b to include (x, y). The minimum side is floored and the
// maximum side ceiled after snapping values within snapEpsilon of an
// integer.
func (b Bounds) extend(x, y float64) (Bounds, error) {
	for _, v := range [2]float64{x, y} {
		if math.IsNaN(v) || math.Abs(v) > maxCanvasCoord {
			return b, fmt.Errorf("%w: corner (%g, %g) is unbounded", ErrCanvasTooLarge, x, y)
		}
	}
	x, y = snap(x), snap(y)
	b.MinX = min(b.MinX, int(math.Floor(x)))
	b.MinY = min(b.MinY, int(math.Floor(y)))
	b.MaxX = max(b.MaxX, int(math.Ceil(x)))
	b.MaxY = max(b.MaxY, int(math.Ceil(y)))
	return b, nil
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		return r
	}
	return v
}

// Corners returns the four source corners (1,1), (W,1), (1,H), (W,H) in
// 1-based pixel coordinates.
func Corners(w, h int) [4][2]float64 {
	fw, fh := float64(w), float64(h)
	return [4][2]float64{{1, 1}, {fw, 1}, {1, fh}, {fw, fh}}
}

// MapCorners maps the source corners through a. With mode.PerspectiveForward
// the results are divided by w'; otherwise x' and y' are used as computed.
func MapCorners(w, h int, a Transform, mode Mode) [4][2]float64 {
	var mapped [4][2]float64
	for i, c := range Corners(w, h) {
		x, y, hw := a.Apply(c[0], c[1])
		if mode.PerspectiveForward() {
			x, y = x/hw, y/hw
		}
		mapped[i] = [2]float64{x, y}
	}
	return mapped
}

// CanvasBounds computes the output canvas of warping a w x h source by a:
// the smallest integer rectangle containing the source frame and every
// mapped corner. Unknown modes and non-positive sizes return
// ErrInvalidArgument; unbounded or oversized canvases return
// ErrCanvasTooLarge.
func CanvasBounds(w, h int, a Transform, mode Mode) (Bounds, error) {
	if !mode.IsValid() {
		return Bounds{}, fmt.Errorf("%w: unknown mode %d", ErrInvalidArgument, uint8(mode))
	}
	if w <= 0 || h <= 0 {
		return Bounds{}, fmt.Errorf("%w: source size %dx%d", ErrInvalidArgument, w, h)
	}

	b := ContainSourceFrame(w, h)
	for _, c := range MapCorners(w, h, a, mode) {
		var err error
		if b, err = b.extend(c[0], c[1]); err != nil {
			return Bounds{}, err
		}
	}
	if b.Pixels() > MaxCanvasPixels {
		return Bounds{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, b.Width(), b.Height(), MaxCanvasPixels)
	}
	return b, nil
}
