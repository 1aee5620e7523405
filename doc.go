// Package warp warps 2D rasters by 3x3 homogeneous transforms.
//
// # Overview
//
// Warp maps the four source corners through a transform, sizes an output
// canvas that holds both the original frame and the mapped corners, and
// fills the canvas by inverse mapping: every output pixel asks A⁻¹ where it
// came from and bilinearly samples the source there.
//
// # Quick Start
//
//	src, err := warp.LoadRaster("input.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Rotate by 30 degrees.
//	out, err := warp.Warp(src, warp.Compose(warp.WithAngle(30)), warp.ModeRotation)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = out.Save("rotated.png", 0)
//
// # Composition
//
// Compose multiplies primitives in a fixed order, T · R · S · Sh: a point is
// sheared, scaled, rotated and then translated. Primitives without an
// option contribute the identity.
//
// # Coordinate System
//
// Canvas geometry is 1-based: the top-left source pixel center is (1, 1)
// and the bottom-right is (W, H). Raster accessors are 0-based.
//
//   - X increases right
//   - Y increases down
//   - Positive angles turn the x-axis towards the y-axis
//
// # Modes
//
// The Mode passed to Warp changes two things only. ModeHomography divides
// mapped corners by their homogeneous coordinate when sizing the canvas;
// every other mode uses x' and y' directly. ModeReflection crops the result
// back to the source size. The inverse mapping always divides.
package warp
