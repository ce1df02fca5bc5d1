package material

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-scroll/common"
)

var materialCount atomic.Uint64

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	id                uint64
	name              string
	color             [3]float32
	metalness         float32
	roughness         float32
	emissive          [3]float32
	emissiveIntensity float32
	opacity           float32

	disposed  bool
	onDispose []func()
}

// Material defines a standard metal/rough surface for scene actors.
//
// Scalar surface properties are animatable through Property/SetProperty so a
// tween can drive them ("opacity", "metalness", "roughness",
// "emissiveIntensity").
type Material interface {
	// ID retrieves a process-unique identifier, used as the GPU cache key.
	//
	// Returns:
	//   - uint64: the material id
	ID() uint64

	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the linear RGB albedo of the material.
	//
	// Returns:
	//   - [3]float32: the base color
	Color() [3]float32

	// SetColor sets the linear RGB albedo of the material.
	//
	// Parameters:
	//   - color: the new base color
	SetColor(color [3]float32)

	// Metalness retrieves the metalness factor.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metalness factor
	Metalness() float32

	// Roughness retrieves the roughness factor.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Emissive retrieves the emissive RGB color.
	Emissive() [3]float32

	// EmissiveIntensity retrieves the multiplier applied to Emissive.
	EmissiveIntensity() float32

	// Opacity retrieves the surface opacity in [0, 1].
	Opacity() float32

	// Property reads an animatable scalar property.
	//
	// Parameters:
	//   - name: property name
	//
	// Returns:
	//   - float64: the current value
	//   - bool: false when the property is unknown
	Property(name string) (float64, bool)

	// SetProperty writes an animatable scalar property.
	//
	// Parameters:
	//   - name: property name
	//   - value: the new value
	//
	// Returns:
	//   - bool: false when the property is unknown
	SetProperty(name string, value float64) bool

	// OnDispose registers fn to run once when the material is disposed. If it
	// already was, fn runs immediately.
	//
	// Parameters:
	//   - fn: the release hook
	OnDispose(fn func())

	// Dispose runs the release hooks. Safe to call more than once.
	Dispose()

	// Disposed reports whether Dispose has run.
	//
	// Returns:
	//   - bool: true after Dispose
	Disposed() bool
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:                &sync.Mutex{},
		id:                materialCount.Add(1),
		color:             [3]float32{1, 1, 1},
		metalness:         0.0,
		roughness:         1.0,
		emissiveIntensity: 1.0,
		opacity:           1.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) ID() uint64 { return m.id }

func (m *material) Name() string { return m.name }

func (m *material) Color() [3]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

func (m *material) SetColor(color [3]float32) {
	m.mu.Lock()
	m.color = color
	m.mu.Unlock()
}

func (m *material) Metalness() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metalness
}

func (m *material) Roughness() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roughness
}

func (m *material) Emissive() [3]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emissive
}

func (m *material) EmissiveIntensity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emissiveIntensity
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) Property(name string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch name {
	case "opacity":
		return float64(m.opacity), true
	case "metalness":
		return float64(m.metalness), true
	case "roughness":
		return float64(m.roughness), true
	case "emissiveIntensity":
		return float64(m.emissiveIntensity), true
	}
	return 0, false
}

func (m *material) SetProperty(name string, value float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch name {
	case "opacity":
		m.opacity = common.Clamp(float32(value), 0, 1)
	case "metalness":
		m.metalness = common.Clamp(float32(value), 0, 1)
	case "roughness":
		m.roughness = common.Clamp(float32(value), 0, 1)
	case "emissiveIntensity":
		m.emissiveIntensity = max(float32(value), 0)
	default:
		return false
	}
	return true
}

func (m *material) OnDispose(fn func()) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		fn()
		return
	}
	m.onDispose = append(m.onDispose, fn)
	m.mu.Unlock()
}

func (m *material) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	hooks := m.onDispose
	m.onDispose = nil
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func (m *material) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}
