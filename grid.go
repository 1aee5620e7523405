package warp

// CoordinateGrid holds, for every output pixel of a canvas, the real-valued
// 1-based source coordinate it samples. Storage is row major with y
// varying slowest: output pixel (x', y') is at index
// (y'-MinY)*Width + (x'-MinX), the same order the output raster uses.
type CoordinateGrid struct {
	Bounds Bounds
	X, Y   []float64
}

// NewCoordinateGrid maps every integer point of b through inv, always
// dividing by the homogeneous coordinate. Results within snapEpsilon of an
// integer are snapped to it, so a point that lands on the source edge is
// sampled rather than treated as border. A point whose w' is 0 ends up
// infinite or NaN and samples as border.
func NewCoordinateGrid(b Bounds, inv Transform) *CoordinateGrid {
	g := newCoordinateGrid(b)
	g.mapRows(inv, 0, b.Height())
	return g
}

func newCoordinateGrid(b Bounds) *CoordinateGrid {
	n := b.Pixels()
	return &CoordinateGrid{
		Bounds: b,
		X:      make([]float64, n),
		Y:      make([]float64, n),
	}
}

// mapRows fills rows [r0, r1) of the grid. Disjoint row ranges may be filled
// concurrently.
func (g *CoordinateGrid) mapRows(inv Transform, r0, r1 int) {
	w := g.Bounds.Width()
	for r := r0; r < r1; r++ {
		xs := g.X[r*w : (r+1)*w]
		ys := g.Y[r*w : (r+1)*w]
		y := float64(g.Bounds.MinY + r)
		for c := range xs {
			xs[c] = float64(g.Bounds.MinX + c)
			ys[c] = y
		}
		inv.ProjectPoints(xs, ys)
		for c := range xs {
			xs[c], ys[c] = snap(xs[c]), snap(ys[c])
		}
	}
}

// At returns the source coordinate sampled by output pixel (col, row), with
// col and row counted from the canvas top-left.
func (g *CoordinateGrid) At(col, row int) (float64, float64) {
	i := row*g.Bounds.Width() + col
	return g.X[i], g.Y[i]
}
