package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-scroll/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scroll/engine/light"
)

// Fog is exponential-squared distance fog.
type Fog struct {
	Color   [3]float32
	Density float32
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	root       game_object.GameObject
	background [3]float32
	fog        *Fog
}

// Scene is a mutable tree of GameObjects under a single root, plus a
// background color and optional fog. It holds no GPU resources itself.
type Scene interface {
	// Root returns the root group every actor hangs off.
	Root() game_object.GameObject

	// Add attaches obj under the root.
	//
	// Parameters:
	//   - obj: the object to attach
	Add(obj game_object.GameObject)

	// Remove detaches obj from the root without releasing it.
	//
	// Parameters:
	//   - obj: the object to detach
	//
	// Returns:
	//   - bool: true if obj was a direct child of the root
	Remove(obj game_object.GameObject) bool

	// ChildCount returns the number of direct children of the root.
	ChildCount() int

	// Background returns the clear color.
	Background() [3]float32

	// SetBackground sets the clear color.
	//
	// Parameters:
	//   - color: linear RGB color
	SetBackground(color [3]float32)

	// Fog returns the current fog and whether fog is enabled.
	//
	// Returns:
	//   - Fog: the fog parameters
	//   - bool: false when no fog is set
	Fog() (Fog, bool)

	// SetFog enables fog with the given parameters. A nil fog disables it.
	//
	// Parameters:
	//   - fog: the fog parameters or nil
	SetFog(fog *Fog)

	// Meshes returns every enabled mesh object in traversal order. Disabled
	// objects hide their whole subtree.
	//
	// Returns:
	//   - []game_object.GameObject: drawable objects
	Meshes() []game_object.GameObject

	// Lights returns every enabled light object in traversal order.
	//
	// Returns:
	//   - []game_object.GameObject: objects carrying an enabled light
	Lights() []game_object.GameObject

	// Clear disposes the geometry and material of every object in the tree,
	// then detaches all children of the root.
	Clear()
}

var _ Scene = &scene{}

// NewScene creates an empty scene with a black background and no fog.
//
// Returns:
//   - Scene: the new scene
func NewScene() Scene {
	return &scene{
		mu:   &sync.Mutex{},
		root: game_object.NewGameObject(game_object.WithName("scene")),
	}
}

func (s *scene) Root() game_object.GameObject {
	return s.root
}

func (s *scene) Add(obj game_object.GameObject) {
	if obj == nil {
		return
	}
	s.root.Add(obj)
}

func (s *scene) Remove(obj game_object.GameObject) bool {
	if obj == nil {
		return false
	}
	return s.root.Remove(obj)
}

func (s *scene) ChildCount() int {
	return len(s.root.Children())
}

func (s *scene) Background() [3]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *scene) SetBackground(color [3]float32) {
	s.mu.Lock()
	s.background = color
	s.mu.Unlock()
}

func (s *scene) Fog() (Fog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fog == nil {
		return Fog{}, false
	}
	return *s.fog, true
}

func (s *scene) SetFog(fog *Fog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fog == nil {
		s.fog = nil
		return
	}
	f := *fog
	s.fog = &f
}

func (s *scene) Meshes() []game_object.GameObject {
	var out []game_object.GameObject
	visitEnabled(s.root, func(o game_object.GameObject) {
		if o.IsMesh() {
			out = append(out, o)
		}
	})
	return out
}

func (s *scene) Lights() []game_object.GameObject {
	var out []game_object.GameObject
	visitEnabled(s.root, func(o game_object.GameObject) {
		if l := o.Light(); l != nil && l.Enabled() {
			out = append(out, o)
		}
	})
	return out
}

func (s *scene) Clear() {
	for _, child := range s.root.Children() {
		child.Traverse(func(o game_object.GameObject) {
			o.Dispose()
		})
		s.root.Remove(child)
	}
}

func visitEnabled(obj game_object.GameObject, fn func(game_object.GameObject)) {
	if !obj.Enabled() {
		return
	}
	fn(obj)
	for _, c := range obj.Children() {
		visitEnabled(c, fn)
	}
}

// SceneLights returns the Light of every enabled light object, with each
// light's position synced to its object's world translation.
//
// Parameters:
//   - s: the scene to collect from
//
// Returns:
//   - []light.Light: lights ready for GPU upload
func SceneLights(s Scene) []light.Light {
	objs := s.Lights()
	out := make([]light.Light, 0, len(objs))
	for _, o := range objs {
		l := o.Light()
		if l.Type() != light.LightTypeAmbient {
			m := o.WorldMatrix()
			l.SetPosition(m[12], m[13], m[14])
		}
		out = append(out, l)
	}
	return out
}
