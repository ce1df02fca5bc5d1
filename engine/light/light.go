package light

import "math"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment equally, with no direction.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional shines from its position towards the origin with no
	// distance attenuation.
	LightTypeDirectional

	// LightTypePoint emits in all directions from a position and attenuates
	// with distance up to its range. A range of 0 never cuts off.
	LightTypePoint
)

func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType  LightType
	position   [3]float32
	color      [3]float32
	intensity  float32
	lightRange float32
	enabled    bool
}

// Light is a light source attached to the scene graph.
//
// Lights are marshaled into the frame's light uniform by the renderer; ambient
// lights fold into a single ambient term.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: ambient, directional or point
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized direction the light travels in. For
	// directional lights this points from the position to the origin; other
	// types return zero.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// Range returns the cutoff distance for point lights (0 = unbounded).
	Range() float32

	// Enabled returns whether this light contributes to rendering.
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	SetPosition(x, y, z float32)

	// SetColor sets the RGB color of the light.
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetRange sets the point light cutoff distance.
	SetRange(lightRange float32)

	// SetEnabled enables or disables the light for rendering.
	SetEnabled(enabled bool)

	// Property reads an animatable property: "intensity" or "position.x|y|z".
	Property(name string) (float64, bool)

	// SetProperty writes an animatable property.
	SetProperty(name string, value float64) bool
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type. Defaults: white,
// intensity 1, range 0, at the origin, enabled.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	if l.lightType != LightTypeDirectional {
		return [3]float32{}
	}
	return normalize3(-l.position[0], -l.position[1], -l.position[2])
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = max(lightRange, 0)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) Property(name string) (float64, bool) {
	switch name {
	case "intensity":
		return float64(l.intensity), true
	case "position.x":
		return float64(l.position[0]), true
	case "position.y":
		return float64(l.position[1]), true
	case "position.z":
		return float64(l.position[2]), true
	}
	return 0, false
}

func (l *lightImpl) SetProperty(name string, value float64) bool {
	switch name {
	case "intensity":
		l.intensity = float32(value)
	case "position.x":
		l.position[0] = float32(value)
	case "position.y":
		l.position[1] = float32(value)
	case "position.z":
		l.position[2] = float32(value)
	default:
		return false
	}
	return true
}

// normalize3 returns the unit vector of (x, y, z), or +Y down for a zero vector.
func normalize3(x, y, z float32) [3]float32 {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l == 0 {
		return [3]float32{0, -1, 0}
	}
	return [3]float32{x / l, y / l, z / l}
}
