package scene

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFogSource is the canonical WGSL definition of the FogUniform struct.
// Matches GPUFog layout exactly (16 bytes).
//
//go:embed assets/fog_uniform.wgsl
var GPUFogSource string

// GPUFog is the GPU layout of the scene fog. A zero density disables fog.
type GPUFog struct {
	Color   [3]float32 // offset  0: fog color
	Density float32    // offset 12: exp2 density
}

// Size returns the size of the GPUFog struct in bytes.
func (g *GPUFog) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the fog into a 16-byte buffer.
func (g *GPUFog) Marshal() []byte {
	buf := make([]byte, 16)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Color[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Density))
	return buf
}

// NewGPUFog snapshots the scene fog, or a disabled fog when none is set.
func NewGPUFog(s Scene) GPUFog {
	fog, ok := s.Fog()
	if !ok {
		return GPUFog{}
	}
	return GPUFog{Color: fog.Color, Density: fog.Density}
}
