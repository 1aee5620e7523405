package warp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCompose_NoOptionsIsIdentity(t *testing.T) {
	if got := Compose(); !got.IsIdentity() {
		t.Errorf("Compose() = %v, want identity", got)
	}
}

func TestCompose_SinglePrimitive(t *testing.T) {
	tests := []struct {
		name string
		got  Transform
		want Transform
	}{
		{"tx only", Compose(WithTX(5)), Translate(5, 0)},
		{"ty only", Compose(WithTY(-7)), Translate(0, -7)},
		{"angle", Compose(WithAngle(30)), Rotate(30)},
		{"sx only", Compose(WithSX(3)), Scale(3, 1)},
		{"sy reflection", Compose(WithSY(-1)), Scale(1, -1)},
		{"shear", Compose(WithShear(0.5)), Shear(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got, cmpopts.EquateApprox(0, eps)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompose_Order(t *testing.T) {
	// Shear before scale: (1,1) -> (2,1) -> (4,1).
	// Scale before shear would give (3,1).
	x, y := Compose(WithSX(2), WithShear(1)).Project(1, 1)
	if math.Abs(x-4) > eps || math.Abs(y-1) > eps {
		t.Errorf("shear then scale maps (1,1) to (%v, %v), want (4, 1)", x, y)
	}

	// Rotate before translate: (1,0) -> (0,1) -> (1,1).
	x, y = Compose(WithTX(1), WithAngle(90)).Project(1, 0)
	if math.Abs(x-1) > eps || math.Abs(y-1) > eps {
		t.Errorf("rotate then translate maps (1,0) to (%v, %v), want (1, 1)", x, y)
	}
}

func TestCompose_AllPrimitives(t *testing.T) {
	got := Compose(WithTX(300), WithTY(500), WithAngle(-20), WithSX(0.5), WithSY(0.5))

	sin, cos := math.Sincos(-20 * math.Pi / 180)
	want := NewTransform(
		0.5*cos, -0.5*sin, 300,
		0.5*sin, 0.5*cos, 500,
		0, 0, 1,
	)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, eps)); diff != "" {
		t.Errorf("Compose mismatch (-want +got):\n%s", diff)
	}

	explicit := Translate(300, 500).Multiply(Rotate(-20)).Multiply(Scale(0.5, 0.5)).Multiply(Shear(0))
	if !got.ApproxEqual(explicit, 0) {
		t.Errorf("Compose = %v, want T·R·S·Sh = %v", got, explicit)
	}
	if !got.IsAffine() {
		t.Error("composed transform should be affine")
	}
}

func TestCompose_LastOptionWins(t *testing.T) {
	if got := Compose(WithTX(1), WithTX(2)); !got.ApproxEqual(Translate(2, 0), 0) {
		t.Errorf("Compose(WithTX(1), WithTX(2)) = %v, want Translate(2, 0)", got)
	}
}
