package animation

import (
	"math"
	"testing"
)

func TestEasingNames(t *testing.T) {
	tests := []struct {
		name  string
		known bool
	}{
		{"none", true},
		{"power2.inOut", true},
		{"power2.out", true},
		{"power3", true},
		{"sine.in", true},
		{"Expo.InOut", true},
		{"wobble.out", false},
		{"power2.sideways", false},
	}
	for _, tt := range tests {
		fn, ok := Easing(tt.name)
		if ok != tt.known {
			t.Errorf("Easing(%q) known = %v, want %v", tt.name, ok, tt.known)
		}
		if fn == nil {
			t.Errorf("Easing(%q) returned nil curve", tt.name)
		}
	}
}

func TestEasingEndpoints(t *testing.T) {
	for _, name := range []string{"none", "power1.out", "power2.inOut", "power4.in", "sine.inOut", "circ.out"} {
		fn, _ := Easing(name)
		if got := applyEase(fn, 0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := applyEase(fn, 1); got != 1 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestEasingShape(t *testing.T) {
	linear, _ := Easing("none")
	out, _ := Easing("power2.out")
	inOut, _ := Easing("power2.inOut")

	if got := applyEase(linear, 0.25); math.Abs(got-0.25) > 1e-6 {
		t.Errorf("linear(0.25) = %v, want 0.25", got)
	}
	if got := applyEase(out, 0.5); got <= 0.5 {
		t.Errorf("power2.out(0.5) = %v, want > 0.5", got)
	}
	if got := applyEase(inOut, 0.5); math.Abs(got-0.5) > 1e-4 {
		t.Errorf("power2.inOut(0.5) = %v, want 0.5", got)
	}
}
