package light

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// MaxGPULights is the number of directional and point lights the shader
// evaluates per frame. Extra lights are dropped in scene order.
const MaxGPULights = 8

// GPULightsSource is the canonical WGSL definition of the Light and
// LightsUniform structs.
//
//go:embed assets/lights_uniform.wgsl
var GPULightsSource string

// GPULight is the GPU-aligned representation of a single light source (48 bytes).
type GPULight struct {
	Position   [3]float32 // offset  0: world-space position (point)
	LightType  uint32     // offset 12: 1 = directional, 2 = point
	Color      [3]float32 // offset 16: RGB color premultiplied by nothing
	Intensity  float32    // offset 28: scalar multiplier
	Direction  [3]float32 // offset 32: normalized travel direction (directional)
	LightRange float32    // offset 44: cutoff distance, 0 = unbounded
}

// gpuLightSize is the byte size of one GPULight.
const gpuLightSize = 48

// GPULightsUniform is the frame's light uniform: the folded ambient term, the
// number of active lights and a fixed array of lights.
type GPULightsUniform struct {
	Ambient [3]float32 // offset  0: sum of ambient color * intensity
	Count   uint32     // offset 12: number of valid entries in Lights
	Lights  [MaxGPULights]GPULight
}

// Size returns the size of the uniform in bytes.
func (g *GPULightsUniform) Size() int {
	return 16 + MaxGPULights*gpuLightSize
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
func (g *GPULightsUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec3(buf[0:], g.Ambient)
	binary.LittleEndian.PutUint32(buf[12:], g.Count)
	for i := range g.Lights {
		l := &g.Lights[i]
		off := 16 + i*gpuLightSize
		putVec3(buf[off:], l.Position)
		binary.LittleEndian.PutUint32(buf[off+12:], l.LightType)
		putVec3(buf[off+16:], l.Color)
		binary.LittleEndian.PutUint32(buf[off+28:], math.Float32bits(l.Intensity))
		putVec3(buf[off+32:], l.Direction)
		binary.LittleEndian.PutUint32(buf[off+44:], math.Float32bits(l.LightRange))
	}
	return buf
}

// BuildGPULightsUniform folds ambient lights and packs up to MaxGPULights
// enabled directional and point lights. Disabled lights are skipped.
func BuildGPULightsUniform(lights []Light) GPULightsUniform {
	var u GPULightsUniform
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		c, k := l.Color(), l.Intensity()
		if l.Type() == LightTypeAmbient {
			u.Ambient[0] += c[0] * k
			u.Ambient[1] += c[1] * k
			u.Ambient[2] += c[2] * k
			continue
		}
		if u.Count >= MaxGPULights {
			continue
		}
		u.Lights[u.Count] = GPULight{
			Position:   l.Position(),
			LightType:  uint32(l.Type()),
			Color:      c,
			Intensity:  k,
			Direction:  l.Direction(),
			LightRange: l.Range(),
		}
		u.Count++
	}
	return u
}

func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v[2]))
}
