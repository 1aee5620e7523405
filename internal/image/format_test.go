package image

import "testing"

func TestFormat_Info(t *testing.T) {
	tests := []struct {
		format    Format
		bpp       int
		channels  int
		hasAlpha  bool
		grayscale bool
		name      string
	}{
		{FormatGray8, 1, 1, false, true, "Gray8"},
		{FormatRGB8, 3, 3, false, false, "RGB8"},
		{FormatRGBA8, 4, 4, true, false, "RGBA8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if got := tt.format.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.format.HasAlpha(); got != tt.hasAlpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.hasAlpha)
			}
			if got := tt.format.IsGrayscale(); got != tt.grayscale {
				t.Errorf("IsGrayscale() = %v, want %v", got, tt.grayscale)
			}
			if got := tt.format.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if !tt.format.IsValid() {
				t.Errorf("IsValid() = false, want true")
			}
		})
	}
}

func TestFormat_InvalidFormat(t *testing.T) {
	f := Format(200)
	if f.IsValid() {
		t.Error("Format(200).IsValid() = true, want false")
	}
	if info := f.Info(); info != (FormatInfo{}) {
		t.Errorf("Format(200).Info() = %+v, want zero value", info)
	}
	if f.String() != "Unknown" {
		t.Errorf("Format(200).String() = %q, want Unknown", f.String())
	}
}

func TestFormatForChannels(t *testing.T) {
	tests := []struct {
		channels int
		want     Format
		ok       bool
	}{
		{1, FormatGray8, true},
		{3, FormatRGB8, true},
		{4, FormatRGBA8, true},
		{0, 0, false},
		{2, 0, false},
		{5, 0, false},
	}
	for _, tt := range tests {
		got, ok := FormatForChannels(tt.channels)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("FormatForChannels(%d) = (%v, %v), want (%v, %v)", tt.channels, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormat_RowAndImageBytes(t *testing.T) {
	if got := FormatRGB8.RowBytes(10); got != 30 {
		t.Errorf("RGB8.RowBytes(10) = %d, want 30", got)
	}
	if got := FormatGray8.ImageBytes(7, 3); got != 21 {
		t.Errorf("Gray8.ImageBytes(7, 3) = %d, want 21", got)
	}
	if got := FormatRGBA8.ImageBytes(2, 2); got != 16 {
		t.Errorf("RGBA8.ImageBytes(2, 2) = %d, want 16", got)
	}
}
