package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-scroll/engine/light"
	"github.com/Carmen-Shannon/oxy-scroll/engine/model"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/material"
)

func TestAddAndRemoveChildren(t *testing.T) {
	root := NewGameObject(WithName("root"))
	a := NewGameObject(WithName("a"))
	b := NewGameObject(WithName("b"))

	root.Add(a)
	a.Add(b)

	if got := len(root.Children()); got != 1 {
		t.Fatalf("root children = %d, want 1", got)
	}
	if b.Parent() != a {
		t.Errorf("b.Parent() = %v, want a", b.Parent())
	}
	if b.Add(root) {
		t.Error("Add allowed a cycle")
	}

	root.Add(b)
	if len(a.Children()) != 0 || b.Parent() != root {
		t.Error("re-adding did not detach from the previous parent")
	}

	if !root.Remove(a) || a.Parent() != nil {
		t.Error("Remove(a) failed")
	}
	if root.Remove(a) {
		t.Error("second Remove(a) = true")
	}
}

func TestTraverseVisitsDepthFirst(t *testing.T) {
	root := NewGameObject(WithName("root"))
	a := NewGameObject(WithName("a"))
	b := NewGameObject(WithName("b"))
	c := NewGameObject(WithName("c"))
	root.Add(a)
	a.Add(b)
	root.Add(c)

	var names []string
	root.Traverse(func(o GameObject) { names = append(names, o.Name()) })

	want := []string{"root", "a", "b", "c"}
	for i := range want {
		if i >= len(names) || names[i] != want[i] {
			t.Fatalf("Traverse order = %v, want %v", names, want)
		}
	}
}

func TestWorldMatrixComposesParent(t *testing.T) {
	parent := NewGameObject(WithPosition(1, 0, 0), WithScale(2, 2, 2))
	child := NewGameObject(WithPosition(0, 1, 0))
	parent.Add(child)

	m := child.WorldMatrix()
	if m[12] != 1 || m[13] != 2 || m[14] != 0 {
		t.Errorf("world translation = (%v, %v, %v), want (1, 2, 0)", m[12], m[13], m[14])
	}
}

func TestTransformProperties(t *testing.T) {
	obj := NewGameObject()

	tests := []struct {
		name  string
		value float64
	}{
		{"position.z", 7.5},
		{"rotation.y", 0.25},
		{"scale.x", 1.5},
	}
	for _, tt := range tests {
		if !obj.SetProperty(tt.name, tt.value) {
			t.Fatalf("SetProperty(%q) = false", tt.name)
		}
		if got, ok := obj.Property(tt.name); !ok || got != tt.value {
			t.Errorf("Property(%q) = %v, %v, want %v", tt.name, got, ok, tt.value)
		}
	}

	obj.SetProperty("scale", 1.02)
	sx, sy, sz := obj.Scale()
	if sx != sy || sy != sz || math.Abs(float64(sx)-1.02) > 1e-6 {
		t.Errorf("uniform scale = %v %v %v", sx, sy, sz)
	}
	if obj.SetProperty("position.w", 1) {
		t.Error("SetProperty(position.w) = true")
	}
}

func TestDisposeReleasesMesh(t *testing.T) {
	g := model.NewBoxGeometry(1, 1, 1)
	m := material.NewMaterial()
	obj := NewGameObject(WithMesh(g, m))

	if !obj.IsMesh() {
		t.Fatal("IsMesh() = false")
	}
	obj.Dispose()
	if !g.Disposed() || !m.Disposed() {
		t.Error("geometry or material not disposed")
	}
}

func TestWithLightAdoptsLightPosition(t *testing.T) {
	l := light.NewLight(light.LightTypePoint, light.WithPosition(2, 3, 4))
	obj := NewGameObject(WithLight(l))

	if x, y, z := obj.Position(); x != 2 || y != 3 || z != 4 {
		t.Errorf("Position() = %v %v %v, want 2 3 4", x, y, z)
	}
	if obj.IsMesh() {
		t.Error("light node reported as mesh")
	}
}
