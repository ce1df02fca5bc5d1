package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialSource is the canonical WGSL definition of the MaterialUniform struct.
// Matches GPUMaterial layout exactly (48 bytes, std140 aligned).
//
//go:embed assets/material_uniform.wgsl
var GPUMaterialSource string

// GPUMaterial is the GPU-aligned uniform for the standard surface shader.
// Matches the WGSL MaterialUniform struct layout exactly (see GPUMaterialSource).
type GPUMaterial struct {
	Color    [4]float32 // offset  0: RGB albedo + opacity
	Emissive [4]float32 // offset 16: RGB emissive premultiplied by intensity, w unused
	Surface  [4]float32 // offset 32: metalness, roughness, unused, unused
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, 48)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Color[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Emissive[i]))
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(g.Surface[i]))
	}
	return buf
}

// NewGPUMaterial snapshots m into its uniform layout.
//
// Parameters:
//   - m: the material to snapshot
//
// Returns:
//   - GPUMaterial: the uniform contents
func NewGPUMaterial(m Material) GPUMaterial {
	c, e, k := m.Color(), m.Emissive(), m.EmissiveIntensity()
	return GPUMaterial{
		Color:    [4]float32{c[0], c[1], c[2], m.Opacity()},
		Emissive: [4]float32{e[0] * k, e[1] * k, e[2] * k, 0},
		Surface:  [4]float32{m.Metalness(), m.Roughness(), 0, 0},
	}
}
