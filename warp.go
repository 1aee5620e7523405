package warp

import (
	"context"
	"fmt"
	"log/slog"

	intImage "github.com/gogpu/warp/internal/image"
	"github.com/gogpu/warp/internal/parallel"
)

// WarpOption configures a Warp call.
type WarpOption func(*warpOptions)

type warpOptions struct {
	workers int
	border  uint8
	interp  intImage.InterpolationMode
}

func defaultWarpOptions() warpOptions {
	return warpOptions{
		workers: 1,
		border:  0,
		interp:  intImage.InterpBilinear,
	}
}

// WithWorkers resamples output rows on n goroutines. n <= 1 keeps the call
// on the calling goroutine. The result is identical for every n.
func WithWorkers(n int) WarpOption {
	return func(o *warpOptions) {
		o.workers = n
	}
}

// WithBorder sets the sample value written where the inverse mapping falls
// outside the source. The default is 0 (black).
func WithBorder(v uint8) WarpOption {
	return func(o *warpOptions) {
		o.border = v
	}
}

// WithNearest replaces the bilinear kernel with nearest-neighbor sampling.
func WithNearest() WarpOption {
	return func(o *warpOptions) {
		o.interp = intImage.InterpNearest
	}
}

// Warp resamples src into the canvas that holds both the source frame and
// src transformed by a.
//
// For every integer output pixel (x', y') of the canvas, the source
// coordinate is A⁻¹·(x', y', 1) divided by its third component, whatever
// the mode. Coordinates inside [1, W] x [1, H] are bilinearly interpolated;
// the rest take the border value. For ModeReflection the result is cropped
// to its top-left W x H region.
//
// Warp returns ErrInvalidArgument for an unknown mode or a nil source,
// ErrSingularTransform when a is not invertible and ErrCanvasTooLarge when
// the canvas is unbounded or exceeds MaxCanvasPixels. On error no raster is
// allocated.
func Warp(src *Raster, a Transform, mode Mode, opts ...WarpOption) (*Raster, error) {
	log := Logger()

	if !mode.IsValid() {
		log.Debug("warp: rejected", slog.String("reason", "unknown mode"), slog.Int("mode", int(mode)))
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidArgument, uint8(mode))
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil source raster", ErrInvalidArgument)
	}

	o := defaultWarpOptions()
	for _, opt := range opts {
		opt(&o)
	}

	inv, err := a.Invert()
	if err != nil {
		log.Debug("warp: rejected", slog.String("reason", "singular transform"), slog.String("transform", a.String()))
		return nil, err
	}

	w, h := src.Width(), src.Height()
	bounds, err := CanvasBounds(w, h, a, mode)
	if err != nil {
		log.Debug("warp: rejected", slog.String("reason", "canvas"), slog.String("error", err.Error()))
		return nil, err
	}

	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("warp: canvas",
			slog.String("mode", mode.String()),
			slog.Int("src_width", w),
			slog.Int("src_height", h),
			slog.Any("corners", MapCorners(w, h, a, mode)),
			slog.Int("min_x", bounds.MinX),
			slog.Int("min_y", bounds.MinY),
			slog.Int("max_x", bounds.MaxX),
			slog.Int("max_y", bounds.MaxY),
		)
	}

	out, err := intImage.NewImageBuf(bounds.Width(), bounds.Height(), src.buf.Format())
	if err != nil {
		return nil, fmt.Errorf("warp: allocate output: %w", err)
	}

	grid := newCoordinateGrid(bounds)
	parallel.ForEachBand(bounds.Height(), o.workers, func(b parallel.Band) {
		grid.mapRows(inv, b.Start, b.End)
		resampleRows(src.buf, out, grid, b.Start, b.End, o)
	})

	if mode.CropsToSource() {
		// The canvas contains the source frame, so it is at least w x h.
		out = out.Crop(0, 0, w, h)
	}

	log.Debug("warp: done",
		slog.String("mode", mode.String()),
		slog.Int("width", out.Width()),
		slog.Int("height", out.Height()),
	)
	return &Raster{buf: out}, nil
}

// resampleRows fills output rows [r0, r1) from the grid. Grid coordinates
// are 1-based, sampler positions 0-based.
func resampleRows(src, dst *intImage.ImageBuf, grid *CoordinateGrid, r0, r1 int, o warpOptions) {
	width := grid.Bounds.Width()
	bpp := dst.Format().BytesPerPixel()
	for r := r0; r < r1; r++ {
		row := dst.RowBytes(r)
		base := r * width
		for c := range width {
			x, y := grid.X[base+c], grid.Y[base+c]
			intImage.Sample(src, x-1, y-1, o.interp, o.border, row[c*bpp:])
		}
	}
}
