package light

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestDirectionalPointsAtOrigin(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(0, 5, 0))
	if got := l.Direction(); got != [3]float32{0, -1, 0} {
		t.Errorf("Direction() = %v, want [0 -1 0]", got)
	}
	if got := NewLight(LightTypePoint).Direction(); got != [3]float32{} {
		t.Errorf("point Direction() = %v, want zero", got)
	}
}

func TestBuildGPULightsUniform(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeAmbient, WithHexColor(0xffffff), WithIntensity(0.5)),
		NewLight(LightTypeAmbient, WithColor(0.2, 0, 0), WithIntensity(1)),
		NewLight(LightTypeDirectional, WithPosition(5, 5, 5)),
		NewLight(LightTypePoint, WithHexColor(0x00ff00), WithRange(100), WithPosition(5, 5, 5)),
		NewLight(LightTypePoint, WithEnabled(false)),
	}
	u := BuildGPULightsUniform(lights)

	if u.Count != 2 {
		t.Fatalf("Count = %d, want 2", u.Count)
	}
	if math.Abs(float64(u.Ambient[0]-0.7)) > 1e-6 || u.Ambient[1] != 0.5 {
		t.Errorf("Ambient = %v, want [0.7 0.5 0.5]", u.Ambient)
	}
	if u.Lights[1].LightType != uint32(LightTypePoint) || u.Lights[1].LightRange != 100 {
		t.Errorf("point light = %+v", u.Lights[1])
	}
}

func TestBuildGPULightsUniformCapsCount(t *testing.T) {
	var lights []Light
	for i := 0; i < MaxGPULights+3; i++ {
		lights = append(lights, NewLight(LightTypePoint))
	}
	if u := BuildGPULightsUniform(lights); u.Count != MaxGPULights {
		t.Errorf("Count = %d, want %d", u.Count, MaxGPULights)
	}
}

func TestGPULightsUniformMarshal(t *testing.T) {
	u := BuildGPULightsUniform([]Light{NewLight(LightTypePoint, WithIntensity(2), WithRange(10))})
	buf := u.Marshal()

	if len(buf) != u.Size() {
		t.Fatalf("len = %d, want %d", len(buf), u.Size())
	}
	if got := binary.LittleEndian.Uint32(buf[12:]); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[16+28:])); got != 2 {
		t.Errorf("intensity = %v, want 2", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[16+44:])); got != 10 {
		t.Errorf("range = %v, want 10", got)
	}
}

func TestLightProperties(t *testing.T) {
	l := NewLight(LightTypePoint)
	l.SetProperty("intensity", 3)
	if l.Intensity() != 3 {
		t.Errorf("Intensity() = %v, want 3", l.Intensity())
	}
	if l.SetProperty("hue", 1) {
		t.Error("SetProperty(hue) = true")
	}
}
