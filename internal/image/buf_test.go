package image

import (
	"errors"
	"testing"
)

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid Gray8", 50, 50, FormatGray8, nil},
		{"valid RGB8", 7, 3, FormatRGB8, nil},
		{"1x1 minimum", 1, 1, FormatRGBA8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"zero height", 100, 0, FormatRGBA8, ErrInvalidDimensions},
		{"negative width", -1, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewImageBuf() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if buf.Width() != tt.width {
				t.Errorf("Width() = %d, want %d", buf.Width(), tt.width)
			}
			if buf.Height() != tt.height {
				t.Errorf("Height() = %d, want %d", buf.Height(), tt.height)
			}
			if buf.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", buf.Format(), tt.format)
			}
			expectedStride := tt.format.RowBytes(tt.width)
			if buf.Stride() != expectedStride {
				t.Errorf("Stride() = %d, want %d", buf.Stride(), expectedStride)
			}
			if len(buf.Data()) != expectedStride*tt.height {
				t.Errorf("len(Data()) = %d, want %d", len(buf.Data()), expectedStride*tt.height)
			}
		})
	}
}

func TestImageBuf_Clone(t *testing.T) {
	buf, _ := NewImageBuf(3, 3, FormatRGB8)
	_ = buf.SetRGBA(1, 1, 10, 20, 30, 255)

	clone := buf.Clone()
	if !clone.Equal(buf) {
		t.Fatal("Clone() is not equal to the original")
	}

	_ = clone.SetRGBA(1, 1, 0, 0, 0, 255)
	if r, _, _, _ := buf.GetRGBA(1, 1); r != 10 {
		t.Error("modifying the clone changed the original")
	}
}

func TestImageBuf_PixelOffset(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGB8)

	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 0},
		{1, 0, 3},
		{0, 1, 30},
		{9, 9, 9*30 + 9*3},
		{-1, 0, -1},
		{10, 0, -1},
		{0, 10, -1},
	}
	for _, tt := range tests {
		if got := buf.PixelOffset(tt.x, tt.y); got != tt.want {
			t.Errorf("PixelOffset(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestImageBuf_GetSetRGBA(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   [4]uint8
	}{
		{"RGBA8", FormatRGBA8, [4]uint8{10, 20, 30, 40}},
		{"RGB8", FormatRGB8, [4]uint8{10, 20, 30, 255}},
		{"Gray8", FormatGray8, [4]uint8{18, 18, 18, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, _ := NewImageBuf(2, 2, tt.format)
			if err := buf.SetRGBA(1, 1, 10, 20, 30, 40); err != nil {
				t.Fatalf("SetRGBA failed: %v", err)
			}
			r, g, b, a := buf.GetRGBA(1, 1)
			if got := [4]uint8{r, g, b, a}; got != tt.want {
				t.Errorf("GetRGBA(1, 1) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImageBuf_SetOutOfBounds(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatGray8)
	if err := buf.SetRGBA(2, 0, 1, 1, 1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetRGBA out of bounds error = %v, want ErrOutOfBounds", err)
	}
	if err := buf.SetRGBA(0, -1, 1, 1, 1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetRGBA negative row error = %v, want ErrOutOfBounds", err)
	}
	if buf.PixelBytes(0, 2) != nil {
		t.Error("PixelBytes out of bounds should be nil")
	}
	if r, g, b, a := buf.GetRGBA(5, 5); r|g|b|a != 0 {
		t.Errorf("GetRGBA out of bounds = (%d,%d,%d,%d), want zeros", r, g, b, a)
	}
}

func TestImageBuf_FillAndClear(t *testing.T) {
	buf, _ := NewImageBuf(4, 3, FormatRGB8)
	buf.Fill(255)
	for i, v := range buf.Data() {
		if v != 255 {
			t.Fatalf("Data()[%d] = %d after Fill(255)", i, v)
		}
	}
	buf.Clear()
	for i, v := range buf.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %d after Clear()", i, v)
		}
	}
}

func TestImageBuf_ToGray(t *testing.T) {
	buf, _ := NewImageBuf(2, 1, FormatRGBA8)
	_ = buf.SetRGBA(0, 0, 255, 255, 255, 255)
	_ = buf.SetRGBA(1, 0, 255, 0, 0, 255)

	gray := buf.ToGray()
	if gray.Format() != FormatGray8 {
		t.Fatalf("ToGray().Format() = %v, want Gray8", gray.Format())
	}
	if got := gray.Data()[0]; got != 255 {
		t.Errorf("white luminance = %d, want 255", got)
	}
	if got := gray.Data()[1]; got != 76 {
		t.Errorf("red luminance = %d, want 76", got)
	}
}

func TestImageBuf_Crop(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)
	for y := range 10 {
		for x := range 10 {
			_ = buf.SetRGBA(x, y, uint8(x*25), uint8(y*25), 0, 255)
		}
	}

	crop := buf.Crop(2, 3, 5, 4)
	if crop == nil {
		t.Fatal("Crop returned nil")
	}
	if crop.Width() != 5 || crop.Height() != 4 {
		t.Errorf("Crop dimensions = (%d, %d), want (5, 4)", crop.Width(), crop.Height())
	}
	if crop.Stride() != FormatRGBA8.RowBytes(5) {
		t.Errorf("Crop stride = %d, want compact %d", crop.Stride(), FormatRGBA8.RowBytes(5))
	}
	r, g, _, _ := crop.GetRGBA(0, 0)
	if r != 50 || g != 75 {
		t.Errorf("Crop pixel (0,0) = (%d, %d), want (50, 75)", r, g)
	}

	_ = crop.SetRGBA(0, 0, 1, 1, 1, 1)
	if r, _, _, _ := buf.GetRGBA(2, 3); r != 50 {
		t.Error("Crop must not share data with the original")
	}
}

func TestImageBuf_Crop_Invalid(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)

	tests := []struct {
		name                string
		x, y, width, height int
	}{
		{"negative x", -1, 0, 5, 5},
		{"negative y", 0, -1, 5, 5},
		{"zero width", 0, 0, 0, 5},
		{"exceeds width", 6, 0, 5, 5},
		{"exceeds height", 0, 6, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buf.Crop(tt.x, tt.y, tt.width, tt.height); got != nil {
				t.Errorf("Crop(%d, %d, %d, %d) = non-nil, want nil", tt.x, tt.y, tt.width, tt.height)
			}
		})
	}
}

func TestImageBuf_Equal(t *testing.T) {
	a, _ := NewImageBuf(2, 2, FormatGray8)
	b, _ := NewImageBuf(2, 2, FormatGray8)
	c, _ := NewImageBuf(2, 2, FormatRGB8)

	if !a.Equal(b) {
		t.Error("identical buffers should be equal")
	}
	if a.Equal(c) {
		t.Error("buffers with different formats should not be equal")
	}
	b.Data()[3] = 1
	if a.Equal(b) {
		t.Error("buffers with different samples should not be equal")
	}
	if a.Equal(nil) {
		t.Error("buffer should not equal nil")
	}
}

func BenchmarkImageBuf_GetRGBA(b *testing.B) {
	buf, _ := NewImageBuf(100, 100, FormatRGBA8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = buf.GetRGBA(50, 50)
	}
}
