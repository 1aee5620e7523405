package image

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize returns a copy of b scaled to width x height with a bilinear
// kernel. The pixel format is preserved.
func (b *ImageBuf) Resize(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if width == b.width && height == b.height {
		return b.Clone(), nil
	}

	src := b.ToStdImage()
	rect := image.Rect(0, 0, width, height)

	if b.format == FormatGray8 {
		dst := image.NewGray(rect)
		draw.BiLinear.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
		return FromStdImage(dst), nil
	}

	dst := image.NewNRGBA(rect)
	draw.BiLinear.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return fromNRGBA(dst, b.format), nil
}
