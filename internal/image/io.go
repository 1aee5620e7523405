package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register decoder
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the encoding is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Encoding names accepted by Encode.
const (
	EncodingPNG  = "png"
	EncodingJPEG = "jpeg"
	EncodingBMP  = "bmp"
	EncodingTIFF = "tiff"
)

// DefaultJPEGQuality is used when a quality outside 1..100 is requested.
const DefaultJPEGQuality = 90

// EncodingFromPath maps a file extension to an encoding name.
func EncodingFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return EncodingPNG, nil
	case ".jpg", ".jpeg":
		return EncodingJPEG, nil
	case ".bmp":
		return EncodingBMP, nil
	case ".tif", ".tiff":
		return EncodingTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads an image file, detecting the encoding from its content.
// PNG, JPEG, BMP, TIFF and WebP are understood.
func Load(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the format.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img), nil
}

// Save writes the buffer to path using the encoding implied by the
// extension. quality only affects JPEG.
func (b *ImageBuf) Save(path string, quality int) error {
	enc, err := EncodingFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.Encode(f, enc, quality); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Encode writes the buffer to w in the named encoding.
func (b *ImageBuf) Encode(w io.Writer, encoding string, quality int) error {
	img := b.ToStdImage()

	var err error
	switch encoding {
	case EncodingPNG:
		err = png.Encode(w, img)
	case EncodingJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case EncodingBMP:
		err = bmp.Encode(w, img)
	case EncodingTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, encoding)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", encoding, err)
	}
	return nil
}

// FromStdImage creates an ImageBuf from a standard library image.Image.
// Gray images become Gray8, opaque images RGB8 and everything else RGBA8.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if gray, ok := img.(*image.Gray); ok {
		buf, _ := NewImageBuf(width, height, FormatGray8)
		for y := range height {
			srcStart := (y+bounds.Min.Y-gray.Rect.Min.Y)*gray.Stride + bounds.Min.X - gray.Rect.Min.X
			copy(buf.RowBytes(y), gray.Pix[srcStart:srcStart+width])
		}
		return buf
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	format := FormatRGBA8
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		format = FormatRGB8
	}
	return fromNRGBA(nrgba, format)
}

// fromNRGBA copies a zero-origin NRGBA image into a buffer of the given
// RGB8 or RGBA8 format.
func fromNRGBA(nrgba *image.NRGBA, format Format) *ImageBuf {
	width, height := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	buf, _ := NewImageBuf(width, height, format)
	for y := range height {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		if format == FormatRGBA8 {
			copy(buf.RowBytes(y), src)
			continue
		}
		row := buf.RowBytes(y)
		for x := range width {
			copy(row[x*3:x*3+3], src[x*4:x*4+3])
		}
	}
	return buf
}

// ToStdImage converts the ImageBuf to a standard library image.Image:
// *image.Gray for Gray8 and *image.NRGBA otherwise.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	case FormatRGB8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dstStart := y * nrgba.Stride
			for x := range b.width {
				srcOff := x * 3
				dstOff := dstStart + x*4
				nrgba.Pix[dstOff] = row[srcOff]
				nrgba.Pix[dstOff+1] = row[srcOff+1]
				nrgba.Pix[dstOff+2] = row[srcOff+2]
				nrgba.Pix[dstOff+3] = 255
			}
		}
		return nrgba

	default:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
		}
		return nrgba
	}
}
