package warp

import "errors"

var (
	// ErrInvalidArgument is returned for an unknown mode, invalid raster
	// dimensions or a malformed matrix. It is reported before any work is
	// done.
	ErrInvalidArgument = errors.New("warp: invalid argument")

	// ErrSingularTransform is returned when the transform cannot be
	// inverted: |det| is below SingularTolerance.
	ErrSingularTransform = errors.New("warp: singular transform")

	// ErrCanvasTooLarge is returned when a mapped corner is not finite or the
	// output canvas would exceed MaxCanvasPixels.
	ErrCanvasTooLarge = errors.New("warp: canvas too large")
)
