package renderer

import (
	"github.com/Carmen-Shannon/oxy-scroll/engine/camera"
	"github.com/Carmen-Shannon/oxy-scroll/engine/light"
	"github.com/Carmen-Shannon/oxy-scroll/engine/model"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

// Host is the native window a Surface draws into. window.Window satisfies it.
type Host interface {
	// SurfaceDescriptor returns the platform descriptor used to create the GPU surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in physical pixels.
	Width() int

	// Height returns the framebuffer height in physical pixels.
	Height() int

	// ContentScale returns the monitor's device pixel ratio.
	ContentScale() float64
}

// BackendOptions is the creation-time configuration handed to a BackendFactory.
type BackendOptions struct {
	PresentMode          PresentMode
	SampleCount          MSAASampleCount
	ForceFallbackAdapter bool
	Alpha                bool
}

// BackendFactory creates the native drawing context for a host.
type BackendFactory func(host Host, opts BackendOptions) (RendererBackend, error)

// RendererBackend owns the native graphics context of one surface.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and size dependent attachments.
	//
	// Parameters:
	//   - width: the drawing buffer width in pixels
	//   - height: the drawing buffer height in pixels
	ConfigureSurface(width, height int)

	// RenderFrame uploads the frame's uniforms and draws every item in one pass.
	//
	// Parameters:
	//   - frame: the snapshot to draw
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or encoded
	RenderFrame(frame *FrameData) error

	// Release destroys every native resource owned by the backend.
	Release()
}

// DrawItem is one mesh to draw in a frame.
type DrawItem struct {
	// ObjectID identifies the scene object the GPU resources belong to.
	ObjectID uint64
	Geometry model.Geometry
	Material material.Material
	Model    model.GPUModelData
	GPUMat   material.GPUMaterial
	// Translucent items draw after every opaque item, blended and without depth writes.
	Translucent bool
}

// FrameData is an immutable snapshot of everything a backend needs to draw one frame.
type FrameData struct {
	Clear  [3]float32
	Camera camera.GPUCameraUniform
	Lights light.GPULightsUniform
	Fog    scene.GPUFog
	Draws  []DrawItem
}

// BuildFrame snapshots the scene as seen from cam. Disposed geometry or materials are skipped.
// Opaque draws come first, followed by translucent ones, each in scene order.
//
// Parameters:
//   - s: the scene to snapshot
//   - cam: the camera to view through
//   - exposure: the tone mapping exposure
//
// Returns:
//   - *FrameData: the frame snapshot
func BuildFrame(s scene.Scene, cam camera.Camera, exposure float32) *FrameData {
	f := &FrameData{
		Clear:  s.Background(),
		Camera: camera.NewGPUCameraUniform(cam, exposure),
		Lights: light.BuildGPULightsUniform(scene.SceneLights(s)),
		Fog:    scene.NewGPUFog(s),
	}
	var translucent []DrawItem
	for _, obj := range s.Meshes() {
		geo, mat := obj.Geometry(), obj.Material()
		if geo.Disposed() || mat.Disposed() || geo.IndexCount() == 0 {
			continue
		}
		item := DrawItem{
			ObjectID:    obj.ID(),
			Geometry:    geo,
			Material:    mat,
			Model:       model.GPUModelData{Model: obj.WorldMatrix()},
			GPUMat:      material.NewGPUMaterial(mat),
			Translucent: mat.Opacity() < 1,
		}
		if item.Translucent {
			translucent = append(translucent, item)
			continue
		}
		f.Draws = append(f.Draws, item)
	}
	f.Draws = append(f.Draws, translucent...)
	return f
}
