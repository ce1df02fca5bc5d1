package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-scroll/common"
	"github.com/Carmen-Shannon/oxy-scroll/engine/light"
	"github.com/Carmen-Shannon/oxy-scroll/engine/model"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/material"
)

var objectCount atomic.Uint64

type gameObject struct {
	mu *sync.Mutex

	id            uint64
	name          string
	enabled       atomic.Bool
	geometry      model.Geometry
	material      material.Material
	attachedLight light.Light

	position [3]float32
	rotation [3]float32
	scale    [3]float32

	parent   *gameObject
	children []*gameObject
}

// GameObject is a node of the scene tree. A node with both a Geometry and a
// Material is drawn as a mesh; a node carrying a Light contributes that light;
// a node with neither is a plain group. Transforms compose parent to child.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the debug name of the object.
	Name() string

	// Enabled returns whether this object (and so its subtree) is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Geometry returns the mesh geometry, or nil for groups and lights.
	//
	// Returns:
	//   - model.Geometry: the geometry or nil
	Geometry() model.Geometry

	// Material returns the mesh material, or nil for groups and lights.
	//
	// Returns:
	//   - material.Material: the material or nil
	Material() material.Material

	// IsMesh reports whether the object carries both a geometry and a material.
	IsMesh() bool

	// Light returns the Light attached to this object, or nil if none is set.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// Position returns the local position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Rotation returns the local XYZ Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// Scale returns the local scale.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// TransformData reads the whole local transform under one lock.
	//
	// Returns:
	//   - pos: position as [3]float32 (x, y, z)
	//   - rot: rotation as [3]float32 (rx, ry, rz)
	//   - scale: scale as [3]float32 (x, y, z)
	TransformData() (pos, rot, scale [3]float32)

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetRotation sets the local XYZ Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// Property reads an animatable transform channel: "position.x|y|z",
	// "rotation.x|y|z", "scale.x|y|z" or "scale" (the X component).
	//
	// Parameters:
	//   - name: channel name
	//
	// Returns:
	//   - float64: the current value
	//   - bool: false when the channel is unknown
	Property(name string) (float64, bool)

	// SetProperty writes an animatable transform channel. "scale" sets all
	// three axes.
	//
	// Parameters:
	//   - name: channel name
	//   - value: the new value
	//
	// Returns:
	//   - bool: false when the channel is unknown
	SetProperty(name string, value float64) bool

	// LocalMatrix returns the column-major local TRS matrix.
	LocalMatrix() [16]float32

	// WorldMatrix returns the column-major matrix from local to world space.
	WorldMatrix() [16]float32

	// Parent returns the parent node, or nil for a root or detached node.
	Parent() GameObject

	// Children returns a snapshot of the direct children.
	//
	// Returns:
	//   - []GameObject: the children in insertion order
	Children() []GameObject

	// Add attaches child under this node, detaching it from any previous parent.
	// Adding a node to itself or to one of its descendants is ignored.
	//
	// Parameters:
	//   - child: the node to attach
	//
	// Returns:
	//   - bool: true if the child was attached
	Add(child GameObject) bool

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if child was a direct child
	Remove(child GameObject) bool

	// Traverse calls fn for this node and then every descendant, depth first.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(GameObject))

	// Dispose releases this node's geometry and material. Children are not
	// touched; use Traverse to release a subtree.
	Dispose()
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.Mutex{},
		id:    objectCount.Add(1),
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Geometry() model.Geometry {
	return g.geometry
}

func (g *gameObject) Material() material.Material {
	return g.material
}

func (g *gameObject) IsMesh() bool {
	return g.geometry != nil && g.material != nil
}

func (g *gameObject) Light() light.Light {
	return g.attachedLight
}

func (g *gameObject) Position() (x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) TransformData() (pos, rot, scale [3]float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position, g.rotation, g.scale
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	g.position = [3]float32{x, y, z}
	g.mu.Unlock()
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	g.rotation = [3]float32{rx, ry, rz}
	g.mu.Unlock()
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	g.scale = [3]float32{sx, sy, sz}
	g.mu.Unlock()
}

// channel resolves a property name to the backing vector and component index.
func (g *gameObject) channel(name string) (*[3]float32, int, bool) {
	var vec *[3]float32
	var rest string
	switch {
	case len(name) > 9 && name[:9] == "position.":
		vec, rest = &g.position, name[9:]
	case len(name) > 9 && name[:9] == "rotation.":
		vec, rest = &g.rotation, name[9:]
	case len(name) > 6 && name[:6] == "scale.":
		vec, rest = &g.scale, name[6:]
	default:
		return nil, 0, false
	}
	switch rest {
	case "x":
		return vec, 0, true
	case "y":
		return vec, 1, true
	case "z":
		return vec, 2, true
	}
	return nil, 0, false
}

func (g *gameObject) Property(name string) (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if name == "scale" {
		return float64(g.scale[0]), true
	}
	vec, i, ok := g.channel(name)
	if !ok {
		return 0, false
	}
	return float64(vec[i]), true
}

func (g *gameObject) SetProperty(name string, value float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if name == "scale" {
		s := float32(value)
		g.scale = [3]float32{s, s, s}
		return true
	}
	vec, i, ok := g.channel(name)
	if !ok {
		return false
	}
	vec[i] = float32(value)
	return true
}

func (g *gameObject) LocalMatrix() [16]float32 {
	pos, rot, scale := g.TransformData()
	var m [16]float32
	common.ComposeTRS(m[:], pos, rot, scale)
	return m
}

func (g *gameObject) WorldMatrix() [16]float32 {
	m := g.LocalMatrix()
	g.mu.Lock()
	parent := g.parent
	g.mu.Unlock()
	if parent != nil {
		pm := parent.WorldMatrix()
		common.Mul4(m[:], pm[:], m[:])
	}
	return m
}

func (g *gameObject) Parent() GameObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

func (g *gameObject) Add(child GameObject) bool {
	c, ok := child.(*gameObject)
	if !ok || c == nil {
		return false
	}
	for p := g; p != nil; p = p.parentOf() {
		if p == c {
			return false
		}
	}
	if old := c.parentOf(); old != nil {
		old.Remove(c)
	}

	g.mu.Lock()
	g.children = append(g.children, c)
	g.mu.Unlock()

	c.mu.Lock()
	c.parent = g
	c.mu.Unlock()
	return true
}

func (g *gameObject) Remove(child GameObject) bool {
	c, ok := child.(*gameObject)
	if !ok || c == nil {
		return false
	}
	g.mu.Lock()
	idx := -1
	for i, existing := range g.children {
		if existing == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		g.mu.Unlock()
		return false
	}
	g.children = append(g.children[:idx], g.children[idx+1:]...)
	g.mu.Unlock()

	c.mu.Lock()
	c.parent = nil
	c.mu.Unlock()
	return true
}

func (g *gameObject) Traverse(fn func(GameObject)) {
	fn(g)
	for _, c := range g.Children() {
		c.Traverse(fn)
	}
}

func (g *gameObject) Dispose() {
	if g.geometry != nil {
		g.geometry.Dispose()
	}
	if g.material != nil {
		g.material.Dispose()
	}
}

func (g *gameObject) parentOf() *gameObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parent
}
