package camera

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	if c.Fov() != 75 || c.Near() != 0.1 || c.Far() != 1000 {
		t.Errorf("fov/near/far = %v/%v/%v, want 75/0.1/1000", c.Fov(), c.Near(), c.Far())
	}
	if c.Position() != [3]float32{0, 0, 5} {
		t.Errorf("Position() = %v, want [0 0 5]", c.Position())
	}
	vm := c.ViewMatrix()
	if math.Abs(float64(vm[14]+5)) > 1e-5 {
		t.Errorf("view translation z = %v, want -5", vm[14])
	}
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	c := NewCamera(WithAspect(1))
	before := c.ProjectionMatrix()

	c.SetAspect(2)
	after := c.ProjectionMatrix()
	if math.Abs(float64(after[0]-before[0]/2)) > 1e-5 {
		t.Errorf("projection[0] = %v, want %v", after[0], before[0]/2)
	}

	c.SetAspect(0)
	if c.Aspect() != 2 {
		t.Errorf("Aspect() = %v after SetAspect(0), want unchanged 2", c.Aspect())
	}
}

func TestSetPropertyPositionZ(t *testing.T) {
	c := NewCamera()
	if !c.SetProperty("position.z", 7.5) {
		t.Fatal("SetProperty(position.z) = false")
	}
	if v, _ := c.Property("position.z"); v != 7.5 {
		t.Errorf("Property(position.z) = %v, want 7.5", v)
	}
	vm := c.ViewMatrix()
	if math.Abs(float64(vm[14]+7.5)) > 1e-5 {
		t.Errorf("view translation z = %v, want -7.5", vm[14])
	}
	if c.SetProperty("zoom", 1) {
		t.Error("SetProperty(zoom) = true")
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3))
	u := NewGPUCameraUniform(c, 1.25)

	buf := u.Marshal()
	if len(buf) != 80 {
		t.Fatalf("len = %d, want 80", len(buf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[68:])); got != 2 {
		t.Errorf("position.y = %v, want 2", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[76:])); got != 1.25 {
		t.Errorf("exposure = %v, want 1.25", got)
	}
}
