package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/standard.wgsl
var standardShaderSource string

const (
	globalsGroup = 0
	objectGroup  = 1

	bindingCamera   = 0
	bindingLights   = 1
	bindingFog      = 2
	bindingModel    = 0
	bindingMaterial = 1
)

// newScenePipelines builds the opaque pipeline and its blended, depth-read-only
// translucent twin from the same shader.
func newScenePipelines(s shader.Shader) (opaque, translucent pipeline.Pipeline) {
	opaque = pipeline.NewPipeline("standard", s)
	translucent = pipeline.NewPipeline("translucent", s,
		pipeline.WithBlendEnabled(true),
		pipeline.WithDepthWriteEnabled(false),
	)
	return opaque, translucent
}

// meshResources are the GPU resources of one drawn scene object.
type meshResources struct {
	provider   bind_group_provider.BindGroupProvider
	geometryID uint64
	materialID uint64
	seen       bool
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	alphaMode            wgpu.CompositeAlphaMode
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	standard    pipeline.Pipeline
	translucent pipeline.Pipeline
	module      *wgpu.ShaderModule
	layouts     map[int]*wgpu.BindGroupLayout
	pipeLayout  *wgpu.PipelineLayout
	globals     bind_group_provider.BindGroupProvider
	meshes      map[uint64]*meshResources
	configured  bool
	released    bool
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// NewWGPUBackend is the default BackendFactory. It creates the instance, surface, adapter and
// device for host and compiles the standard surface pipeline. Panics raised by the native
// layer during creation are returned as errors.
//
// Parameters:
//   - host: the window providing the surface descriptor
//   - opts: creation-time options
//
// Returns:
//   - RendererBackend: the wgpu backend
//   - error: an error if any native object could not be created
func NewWGPUBackend(host Host, opts BackendOptions) (backend RendererBackend, err error) {
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("wgpu backend: %v", r)
		}
	}()

	desc := host.SurfaceDescriptor()
	if desc == nil {
		return nil, errors.New("wgpu backend: host has no surface descriptor")
	}

	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: opts.SampleCount,
		layouts:     make(map[int]*wgpu.BindGroupLayout),
		meshes:      make(map[uint64]*meshResources),
	}
	if b.sampleCount == 0 {
		b.sampleCount = MSAAOff
	}
	b.surface = b.instance.CreateSurface(desc)

	b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	b.device, err = b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.queue = b.device.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		b.Release()
		return nil, errors.New("wgpu backend: surface reports no formats")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]
	if opts.Alpha && slices.Contains(capabilities.AlphaModes, wgpu.CompositeAlphaModePremultiplied) {
		b.alphaMode = wgpu.CompositeAlphaModePremultiplied
	}
	if opts.PresentMode == PresentModeUncapped && slices.Contains(capabilities.PresentModes, wgpu.PresentModeImmediate) {
		b.presentMode = wgpu.PresentModeImmediate
	}

	if err := b.registerStandardPipeline(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// registerStandardPipeline compiles the standard shader, creates the bind group layouts,
// the render pipeline and the per-frame globals bind group.
func (b *wgpuRendererBackendImpl) registerStandardPipeline() error {
	s, err := shader.NewShader("standard", standardShaderSource)
	if err != nil {
		return err
	}
	b.standard, b.translucent = newScenePipelines(s)

	b.module, err = b.device.CreateShaderModule(s.Module())
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	descriptors := s.BindGroupLayoutDescriptors()
	groups := s.GroupIndices()
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, 0, len(groups))
	for _, g := range groups {
		desc := descriptors[g]
		bgl, bglErr := b.device.CreateBindGroupLayout(&desc)
		if bglErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, bglErr)
		}
		b.layouts[g] = bgl
		bindGroupLayouts = append(bindGroupLayouts, bgl)
	}

	b.pipeLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            b.standard.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	for _, p := range []pipeline.Pipeline{b.standard, b.translucent} {
		created, err := b.device.CreateRenderPipeline(p.Descriptor(b.pipeLayout, b.module, b.surfaceFormat, uint32(b.sampleCount)))
		if err != nil {
			return fmt.Errorf("create %s pipeline: %w", p.PipelineKey(), err)
		}
		p.SetRenderPipeline(created)
	}

	b.globals = bind_group_provider.NewBindGroupProvider("Globals")
	return b.initBindGroup(b.globals, descriptors[globalsGroup], b.layouts[globalsGroup])
}

// initBindGroup creates one uniform buffer per layout entry and the bind group tying them together.
func (b *wgpuRendererBackendImpl) initBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, layout *wgpu.BindGroupLayout) error {
	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		buf := provider.Buffer(binding)
		if buf == nil {
			var err error
			buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: provider.Label() + " Buffer",
				Size:  entry.Buffer.MinBindingSize,
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return err
			}
			provider.SetBuffer(binding, buf)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

// initMeshBuffers uploads vertex and index data into new GPU buffers on provider.
func (b *wgpuRendererBackendImpl) initMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)
	provider.SetVertexBuffer(vb)

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(ib, 0, indexData)
	provider.SetIndexBuffer(ib)
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released || width <= 0 || height <= 0 {
		return
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	var err error
	if msaaEnabled {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		b.msaaTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = b.msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	b.depthTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = b.depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView, // nil when MSAA is off; set per frame
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	b.configured = true
}

func (b *wgpuRendererBackendImpl) RenderFrame(frame *FrameData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return errors.New("wgpu backend released")
	}
	if !b.configured {
		return errors.New("surface not configured")
	}

	draws := make([]bind_group_provider.BindGroupProvider, 0, len(frame.Draws))
	firstTranslucent := len(frame.Draws)
	for i := range frame.Draws {
		item := &frame.Draws[i]
		res, err := b.meshFor(item)
		if err != nil {
			return fmt.Errorf("mesh %d: %w", item.ObjectID, err)
		}
		if item.Translucent && firstTranslucent == len(frame.Draws) {
			firstTranslucent = i
		}
		draws = append(draws, res.provider)
	}
	b.sweepMeshes()
	b.writeBuffers(frameBufferWrites(b.globals, frame, draws))

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	color := &b.renderPassDescriptor.ColorAttachments[0]
	if b.sampleCount > 1 {
		color.ResolveTarget = view
	} else {
		color.View = view
	}
	color.ClearValue = wgpu.Color{
		R: float64(frame.Clear[0]),
		G: float64(frame.Clear[1]),
		B: float64(frame.Clear[2]),
		A: 1.0,
	}

	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetPipeline(b.standard.RenderPipeline())
	pass.SetBindGroup(globalsGroup, b.globals.BindGroup(), nil)
	for i, p := range draws {
		if i == firstTranslucent {
			pass.SetPipeline(b.translucent.RenderPipeline())
		}
		pass.SetBindGroup(objectGroup, p.BindGroup(), nil)
		pass.SetVertexBuffer(0, p.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(p.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(p.IndexCount()), 1, 0, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

// frameBufferWrites lists the uniform uploads for one frame: the camera, lights and fog on
// globals, then the model and material of each draw. draws[i] holds the resources of
// frame.Draws[i].
func frameBufferWrites(globals bind_group_provider.BindGroupProvider, frame *FrameData, draws []bind_group_provider.BindGroupProvider) []bind_group_provider.BufferWrite {
	writes := make([]bind_group_provider.BufferWrite, 0, 3+2*len(draws))
	writes = append(writes,
		bind_group_provider.BufferWrite{Provider: globals, Binding: bindingCamera, Data: frame.Camera.Marshal()},
		bind_group_provider.BufferWrite{Provider: globals, Binding: bindingLights, Data: frame.Lights.Marshal()},
		bind_group_provider.BufferWrite{Provider: globals, Binding: bindingFog, Data: frame.Fog.Marshal()},
	)
	for i, p := range draws {
		item := &frame.Draws[i]
		writes = append(writes,
			bind_group_provider.BufferWrite{Provider: p, Binding: bindingModel, Data: item.Model.Marshal()},
			bind_group_provider.BufferWrite{Provider: p, Binding: bindingMaterial, Data: item.GPUMat.Marshal()},
		)
	}
	return writes
}

// writeBuffers queues writes on the device queue. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

// meshFor returns the GPU resources for a draw item, creating them on first use and
// rebuilding them when the object's geometry or material changed.
func (b *wgpuRendererBackendImpl) meshFor(item *DrawItem) (*meshResources, error) {
	res, ok := b.meshes[item.ObjectID]
	if ok && res.geometryID == item.Geometry.ID() && res.materialID == item.Material.ID() && !res.provider.Released() {
		res.seen = true
		return res, nil
	}
	if ok {
		res.provider.Release()
		delete(b.meshes, item.ObjectID)
	}

	provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s#%d", item.Geometry.Label(), item.ObjectID))
	if err := b.initMeshBuffers(provider, item.Geometry.VertexData(), item.Geometry.IndexData(), item.Geometry.IndexCount()); err != nil {
		provider.Release()
		return nil, err
	}
	s := b.standard.Shader()
	if err := b.initBindGroup(provider, s.BindGroupLayoutDescriptors()[objectGroup], b.layouts[objectGroup]); err != nil {
		provider.Release()
		return nil, err
	}

	res = &meshResources{
		provider:   provider,
		geometryID: item.Geometry.ID(),
		materialID: item.Material.ID(),
		seen:       true,
	}
	b.meshes[item.ObjectID] = res

	id := item.ObjectID
	release := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if cur, ok := b.meshes[id]; ok && cur == res {
			cur.provider.Release()
			delete(b.meshes, id)
		}
	}
	item.Geometry.OnDispose(release)
	item.Material.OnDispose(release)
	return res, nil
}

// sweepMeshes releases resources of objects that were not drawn this frame.
func (b *wgpuRendererBackendImpl) sweepMeshes() {
	for id, res := range b.meshes {
		if !res.seen {
			res.provider.Release()
			delete(b.meshes, id)
			continue
		}
		res.seen = false
	}
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true

	for id, res := range b.meshes {
		res.provider.Release()
		delete(b.meshes, id)
	}
	if b.globals != nil {
		b.globals.Release()
	}
	if b.standard != nil {
		b.standard.Release()
	}
	if b.translucent != nil {
		b.translucent.Release()
	}
	if b.pipeLayout != nil {
		b.pipeLayout.Release()
	}
	for g, l := range b.layouts {
		l.Release()
		delete(b.layouts, g)
	}
	if b.module != nil {
		b.module.Release()
	}
	b.releaseAttachments()
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
