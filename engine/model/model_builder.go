package model

import (
	"fmt"
	"math"
)

// GeometryBuilderOption configures a generated geometry.
type GeometryBuilderOption func(*geometryConfig)

type geometryConfig struct {
	label string
}

// WithLabel sets the geometry's debug label.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithLabel(label string) GeometryBuilderOption {
	return func(c *geometryConfig) {
		c.label = label
	}
}

func applyGeometryOptions(defaultLabel string, options []GeometryBuilderOption) geometryConfig {
	cfg := geometryConfig{label: defaultLabel}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// NewBoxGeometry creates an axis-aligned box centered on the origin with flat
// per-face normals (24 vertices, 36 indices).
//
// Parameters:
//   - width, height, depth: box extents along X, Y and Z
//   - options: functional options
//
// Returns:
//   - Geometry: the box mesh
func NewBoxGeometry(width, height, depth float32, options ...GeometryBuilderOption) Geometry {
	cfg := applyGeometryOptions(fmt.Sprintf("box_%gx%gx%g", width, height, depth), options)
	hx, hy, hz := width/2, height/2, depth/2

	// Each face: normal, then the four corners counter-clockwise seen from outside.
	faces := []struct {
		n       [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}

	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range f.corners {
			vertices = append(vertices, GPUVertex{Position: c, Normal: f.n})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return newGeometry(cfg.label, vertices, indices)
}

// NewSphereGeometry creates a UV sphere centered on the origin.
//
// Parameters:
//   - radius: sphere radius
//   - widthSegments: longitudinal segments (minimum 3)
//   - heightSegments: latitudinal segments (minimum 2)
//   - options: functional options
//
// Returns:
//   - Geometry: the sphere mesh
func NewSphereGeometry(radius float32, widthSegments, heightSegments int, options ...GeometryBuilderOption) Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	cfg := applyGeometryOptions(fmt.Sprintf("sphere_%g_%dx%d", radius, widthSegments, heightSegments), options)

	vertices := make([]GPUVertex, 0, (widthSegments+1)*(heightSegments+1))
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			n := [3]float32{
				float32(-math.Cos(phi) * math.Sin(theta)),
				float32(math.Cos(theta)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{n[0] * radius, n[1] * radius, n[2] * radius},
				Normal:   n,
			})
		}
	}

	row := uint32(widthSegments + 1)
	indices := make([]uint32, 0, widthSegments*heightSegments*6)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy)*row + uint32(ix) + 1
			b := uint32(iy)*row + uint32(ix)
			c := uint32(iy+1)*row + uint32(ix)
			d := uint32(iy+1)*row + uint32(ix) + 1
			// The poles collapse one triangle of each quad.
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return newGeometry(cfg.label, vertices, indices)
}
