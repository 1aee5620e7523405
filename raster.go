package warp

import (
	"fmt"
	"image"

	intImage "github.com/gogpu/warp/internal/image"
)

// Raster is a W x H grid of 8-bit samples with 1 (gray), 3 (RGB) or 4
// (RGBA) interleaved channels.
//
// Accessors take 0-based pixel indices. The 1-based convention used by
// Bounds, Corners and CoordinateGrid maps source pixel (1, 1) to index
// (0, 0).
type Raster struct {
	buf *intImage.ImageBuf
}

// NewRaster creates a zeroed raster. channels must be 1, 3 or 4.
func NewRaster(width, height, channels int) (*Raster, error) {
	format, ok := intImage.FormatForChannels(channels)
	if !ok {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidArgument, channels)
	}
	buf, err := intImage.NewImageBuf(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return &Raster{buf: buf}, nil
}

// NewRasterFromSamples creates a raster over a copy of samples, which holds
// width*height*channels bytes in row-major interleaved order.
func NewRasterFromSamples(width, height, channels int, samples []byte) (*Raster, error) {
	r, err := NewRaster(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(samples) != len(r.buf.Data()) {
		return nil, fmt.Errorf("%w: %d samples for %dx%dx%d raster",
			ErrInvalidArgument, len(samples), width, height, channels)
	}
	copy(r.buf.Data(), samples)
	return r, nil
}

// RasterFromImage copies a standard library image. Gray images become
// 1-channel rasters, opaque images 3-channel and the rest 4-channel.
func RasterFromImage(img image.Image) *Raster {
	return &Raster{buf: intImage.FromStdImage(img)}
}

// LoadRaster decodes a PNG, JPEG, BMP, TIFF or WebP file.
func LoadRaster(path string) (*Raster, error) {
	buf, err := intImage.Load(path)
	if err != nil {
		return nil, err
	}
	return &Raster{buf: buf}, nil
}

// Save encodes the raster to path; the extension selects PNG, JPEG, BMP or
// TIFF. quality applies to JPEG only, 0 selects the default.
func (r *Raster) Save(path string, quality int) error {
	return r.buf.Save(path, quality)
}

// Width returns the number of columns.
func (r *Raster) Width() int {
	return r.buf.Width()
}

// Height returns the number of rows.
func (r *Raster) Height() int {
	return r.buf.Height()
}

// Channels returns the number of samples per pixel.
func (r *Raster) Channels() int {
	return r.buf.Channels()
}

// Samples returns the underlying row-major interleaved samples.
func (r *Raster) Samples() []byte {
	return r.buf.Data()
}

// At returns channel c of pixel (x, y). Out-of-range indices return 0.
func (r *Raster) At(x, y, c int) uint8 {
	px := r.buf.PixelBytes(x, y)
	if c < 0 || c >= len(px) {
		return 0
	}
	return px[c]
}

// Set stores v in channel c of pixel (x, y). Out-of-range indices are
// ignored.
func (r *Raster) Set(x, y, c int, v uint8) {
	px := r.buf.PixelBytes(x, y)
	if c < 0 || c >= len(px) {
		return
	}
	px[c] = v
}

// Fill sets every sample to v.
func (r *Raster) Fill(v uint8) {
	r.buf.Fill(v)
}

// Gray returns a 1-channel luminance copy of the raster.
func (r *Raster) Gray() *Raster {
	return &Raster{buf: r.buf.ToGray()}
}

// Resize returns a bilinearly rescaled copy with the same channel count.
func (r *Raster) Resize(width, height int) (*Raster, error) {
	buf, err := r.buf.Resize(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return &Raster{buf: buf}, nil
}

// Image returns a standard library copy of the raster.
func (r *Raster) Image() image.Image {
	return r.buf.ToStdImage()
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	return &Raster{buf: r.buf.Clone()}
}

// Equal reports whether both rasters have the same size, channel count and
// samples.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.buf.Equal(o.buf)
}
