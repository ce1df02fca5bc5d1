package common

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestComposeTRSIdentity(t *testing.T) {
	out := make([]float32, 16)
	ComposeTRS(out, [3]float32{}, [3]float32{}, [3]float32{1, 1, 1})

	want := make([]float32, 16)
	Identity(want)
	for i := range out {
		if !approx(out[i], want[i]) {
			t.Fatalf("ComposeTRS()[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestComposeTRSTranslationAndScale(t *testing.T) {
	out := make([]float32, 16)
	ComposeTRS(out, [3]float32{1, 2, 3}, [3]float32{}, [3]float32{2, 3, 4})

	if out[0] != 2 || out[5] != 3 || out[10] != 4 {
		t.Errorf("diagonal = (%v, %v, %v), want (2, 3, 4)", out[0], out[5], out[10])
	}
	if out[12] != 1 || out[13] != 2 || out[14] != 3 {
		t.Errorf("translation = (%v, %v, %v), want (1, 2, 3)", out[12], out[13], out[14])
	}
}

func TestComposeTRSRotateY(t *testing.T) {
	out := make([]float32, 16)
	ComposeTRS(out, [3]float32{}, [3]float32{0, math.Pi / 2, 0}, [3]float32{1, 1, 1})

	// +X rotated a quarter turn around Y lands on -Z.
	x, y, z := out[0], out[1], out[2]
	if !approx(x, 0) || !approx(y, 0) || !approx(z, -1) {
		t.Errorf("rotated X axis = (%v, %v, %v), want (0, 0, -1)", x, y, z)
	}
}

func TestMul4Identity(t *testing.T) {
	a := make([]float32, 16)
	ComposeTRS(a, [3]float32{4, 5, 6}, [3]float32{0.3, 0.2, 0.1}, [3]float32{1, 2, 1})
	id := make([]float32, 16)
	Identity(id)

	out := make([]float32, 16)
	Mul4(out, a, id)
	for i := range out {
		if !approx(out[i], a[i]) {
			t.Fatalf("Mul4(a, I)[%d] = %v, want %v", i, out[i], a[i])
		}
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	view := make([]float32, 16)
	LookAt(view, [3]float32{0, 0, 5}, [3]float32{}, [3]float32{0, 1, 0})

	// Eye at +5 on Z looking at the origin: origin lands at view-space z = -5.
	if !approx(view[14], -5) {
		t.Errorf("view[14] = %v, want -5", view[14])
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := make([]float32, 16)
	Perspective(p, DegToRad(75), 1, 0.1, 1000)

	depth := func(z float32) float32 {
		clipZ := p[10]*z + p[14]
		clipW := p[11] * z
		return clipZ / clipW
	}
	if d := depth(-0.1); !approx(d, 0) {
		t.Errorf("near depth = %v, want 0", d)
	}
	if d := depth(-1000); math.Abs(float64(d-1)) > 1e-3 {
		t.Errorf("far depth = %v, want 1", d)
	}
}

func TestHexColor(t *testing.T) {
	c := HexColor(0x2E8B57)
	if !approx(c[0], 46.0/255) || !approx(c[1], 139.0/255) || !approx(c[2], 87.0/255) {
		t.Errorf("HexColor(0x2E8B57) = %v", c)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, want float64
	}{
		{-1, 0},
		{0.5, 0.5},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, 0, 1); got != tt.want {
			t.Errorf("Clamp(%v, 0, 1) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
