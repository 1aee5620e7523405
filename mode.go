package warp

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Mode names the kind of transform handed to Warp. Only two behaviors
// depend on it, exposed as PerspectiveForward and CropsToSource.
type Mode uint8

const (
	// ModeScaling declares an affine scale.
	ModeScaling Mode = iota
	// ModeTranslation declares an affine translation.
	ModeTranslation
	// ModeRotation declares an affine rotation.
	ModeRotation
	// ModeReflection declares an affine reflection. The output is cropped
	// back to the source size.
	ModeReflection
	// ModeHomography declares a projective transform. Corners are
	// perspective-divided when sizing the canvas.
	ModeHomography
	// ModeAffine declares a general affine transform.
	ModeAffine

	modeCount
)

var modeNames = [modeCount]string{
	ModeScaling:     "scaling",
	ModeTranslation: "translation",
	ModeRotation:    "rotation",
	ModeReflection:  "reflection",
	ModeHomography:  "homography",
	ModeAffine:      "affine",
}

// Modes returns every valid mode in declaration order.
func Modes() []Mode {
	modes := make([]Mode, modeCount)
	for i := range modes {
		modes[i] = Mode(i)
	}
	return modes
}

// ParseMode returns the mode with the given name. Matching ignores case and
// surrounding space. Unknown names return ErrInvalidArgument.
func ParseMode(name string) (Mode, error) {
	folded := cases.Fold().String(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == folded {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, name)
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m < modeCount
}

// PerspectiveForward reports whether mapped corners are divided by their
// homogeneous coordinate when sizing the canvas. Other modes take x' and y'
// as they are, assuming a [0 0 1] bottom row.
func (m Mode) PerspectiveForward() bool {
	return m == ModeHomography
}

// CropsToSource reports whether the output is cropped to the top-left
// W x H region of the canvas.
func (m Mode) CropsToSource() bool {
	return m == ModeReflection
}

// String returns the mode name, or "Mode(n)" for unknown values.
func (m Mode) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidArgument, uint8(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseMode.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
