package model

import (
	"math"
	"sync"
	"sync/atomic"
)

var geometryCount atomic.Uint64

// geometry is the implementation of the Geometry interface.
type geometry struct {
	mu *sync.Mutex

	id       uint64
	label    string
	vertices []GPUVertex
	indices  []uint32
	radius   float32

	disposed  bool
	onDispose []func()
}

// Geometry is an indexed triangle mesh owned by a scene actor. GPU buffers
// created for it by a renderer backend are released through the dispose
// hooks when the actor is cleared from the scene.
type Geometry interface {
	// ID returns a process-unique identifier, used as the GPU cache key.
	ID() uint64

	// Label returns the debug label.
	Label() string

	// Vertices returns the vertex list.
	//
	// Returns:
	//   - []GPUVertex: vertices in model space
	Vertices() []GPUVertex

	// Indices returns the triangle list indices (counter-clockwise winding).
	Indices() []uint32

	// VertexData returns the vertices serialized for GPU upload.
	VertexData() []byte

	// IndexData returns the indices serialized for GPU upload.
	IndexData() []byte

	// IndexCount returns the number of indices.
	IndexCount() int

	// BoundingRadius returns the radius of the bounding sphere around the origin.
	BoundingRadius() float32

	// OnDispose registers fn to run once when the geometry is disposed. If it
	// already was, fn runs immediately.
	//
	// Parameters:
	//   - fn: the release hook
	OnDispose(fn func())

	// Dispose runs the release hooks. Safe to call more than once.
	Dispose()

	// Disposed reports whether Dispose has run.
	Disposed() bool
}

var _ Geometry = &geometry{}

func newGeometry(label string, vertices []GPUVertex, indices []uint32) *geometry {
	var r2 float32
	for _, v := range vertices {
		p := v.Position
		r2 = max(r2, p[0]*p[0]+p[1]*p[1]+p[2]*p[2])
	}
	return &geometry{
		mu:       &sync.Mutex{},
		id:       geometryCount.Add(1),
		label:    label,
		vertices: vertices,
		indices:  indices,
		radius:   float32(math.Sqrt(float64(r2))),
	}
}

func (g *geometry) ID() uint64 { return g.id }

func (g *geometry) Label() string { return g.label }

func (g *geometry) Vertices() []GPUVertex { return g.vertices }

func (g *geometry) Indices() []uint32 { return g.indices }

func (g *geometry) VertexData() []byte {
	return MarshalVertices(g.vertices)
}

func (g *geometry) IndexData() []byte {
	return MarshalIndices(g.indices)
}

func (g *geometry) IndexCount() int { return len(g.indices) }

func (g *geometry) BoundingRadius() float32 { return g.radius }

func (g *geometry) OnDispose(fn func()) {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		fn()
		return
	}
	g.onDispose = append(g.onDispose, fn)
	g.mu.Unlock()
}

func (g *geometry) Dispose() {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	g.disposed = true
	hooks := g.onDispose
	g.onDispose = nil
	g.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func (g *geometry) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}
