package renderer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-scroll/engine/camera"
	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

// ErrNoHost is returned by Initialize when no host window is supplied.
var ErrNoHost = errors.New("renderer: no host surface")

// surface is the implementation of the Surface interface.
type surface struct {
	mu *sync.Mutex

	sched   *frame.Scheduler
	factory BackendFactory
	backend RendererBackend
	host    Host
	loop    *frame.Loop

	backendOptions BackendOptions
	maxPixelRatio  float64
	exposure       float32
	width, height  int

	isInitialized *signal.Value[bool]
	isRendering   *signal.Value[bool]
}

// Surface owns the native drawing context of one host window and drives the per-frame
// render callback. The context is created at most once per Initialize/Dispose cycle.
type Surface interface {
	// Initialize creates the drawing context for host. A second call while the context is
	// live logs a warning and returns nil. When the backend cannot be created the failure is
	// logged, the surface stays uninitialized and the error is returned.
	//
	// Parameters:
	//   - host: the window to draw into
	//
	// Returns:
	//   - error: ErrNoHost, a wrapped backend error, or nil
	Initialize(host Host) error

	// Resize reconfigures the drawing buffer for a new framebuffer size. The buffer is
	// scaled down when the host's pixel ratio exceeds the configured cap.
	// No-op when there is no context.
	//
	// Parameters:
	//   - width: the framebuffer width in physical pixels
	//   - height: the framebuffer height in physical pixels
	Resize(width, height int)

	// DrawingSize returns the current drawing buffer size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	DrawingSize() (int, int)

	// StartLoop schedules cb once per frame in the present phase, re-arming each tick.
	// Calling it while the loop runs is a no-op.
	//
	// Parameters:
	//   - cb: the per-frame render callback
	StartLoop(cb func(frame.Info))

	// StopLoop cancels the pending frame request. Safe when not running.
	StopLoop()

	// Present draws one frame of s as seen from cam. No-op when uninitialized or when
	// either argument is nil. Backend errors are logged.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to view through
	Present(s scene.Scene, cam camera.Camera)

	// Dispose stops the loop and releases the drawing context. Initialize may be called again afterwards.
	Dispose()

	// IsInitialized reports whether a drawing context exists.
	IsInitialized() *signal.Value[bool]

	// IsRendering reports whether the render loop is armed.
	IsRendering() *signal.Value[bool]
}

var _ Surface = &surface{}

// NewSurface creates an uninitialized Surface scheduling on sched.
//
// Parameters:
//   - sched: the frame scheduler driving the render loop
//   - options: functional options applied to the surface
//
// Returns:
//   - Surface: the new surface
func NewSurface(sched *frame.Scheduler, options ...SurfaceBuilderOption) Surface {
	if sched == nil {
		panic("renderer: NewSurface requires a frame scheduler")
	}
	s := &surface{
		mu:      &sync.Mutex{},
		sched:   sched,
		factory: NewWGPUBackend,
		backendOptions: BackendOptions{
			PresentMode: PresentModeVSync,
			SampleCount: MSAA4x,
		},
		maxPixelRatio: 2,
		exposure:      1,
		isInitialized: signal.NewValue(false),
		isRendering:   signal.NewValue(false),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *surface) Initialize(host Host) error {
	s.mu.Lock()
	if s.backend != nil {
		s.mu.Unlock()
		logger.Logger().Warn("render surface already initialized", "component", "renderer")
		return nil
	}
	if host == nil {
		s.mu.Unlock()
		logger.Logger().Error("render surface initialize failed", "component", "renderer", "err", ErrNoHost)
		return ErrNoHost
	}

	backend, err := s.factory(host, s.backendOptions)
	if err != nil {
		s.mu.Unlock()
		logger.Logger().Error("render surface initialize failed", "component", "renderer", "err", err)
		return fmt.Errorf("renderer: create backend: %w", err)
	}
	s.backend = backend
	s.host = host
	s.mu.Unlock()

	s.Resize(host.Width(), host.Height())
	s.isInitialized.Set(true)
	return nil
}

func (s *surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return
	}
	s.width, s.height = s.drawingSize(width, height)
	s.backend.ConfigureSurface(s.width, s.height)
}

// drawingSize caps the framebuffer's effective pixel ratio at maxPixelRatio.
func (s *surface) drawingSize(width, height int) (int, int) {
	scale := s.host.ContentScale()
	if scale <= s.maxPixelRatio || s.maxPixelRatio <= 0 {
		return width, height
	}
	f := s.maxPixelRatio / scale
	return max(1, int(math.Round(float64(width)*f))), max(1, int(math.Round(float64(height)*f)))
}

func (s *surface) DrawingSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *surface) StartLoop(cb func(frame.Info)) {
	if cb == nil {
		return
	}
	s.mu.Lock()
	if s.loop != nil && s.loop.Running() {
		s.mu.Unlock()
		return
	}
	s.loop = frame.NewLoop(s.sched, frame.PhasePresent, cb)
	s.loop.Start()
	s.mu.Unlock()

	s.isRendering.Set(true)
}

func (s *surface) StopLoop() {
	s.mu.Lock()
	loop := s.loop
	s.loop = nil
	s.mu.Unlock()

	if loop == nil {
		return
	}
	loop.Stop()
	s.isRendering.Set(false)
}

func (s *surface) Present(sc scene.Scene, cam camera.Camera) {
	s.mu.Lock()
	backend := s.backend
	exposure := s.exposure
	s.mu.Unlock()

	if backend == nil || sc == nil || cam == nil {
		return
	}
	if err := backend.RenderFrame(BuildFrame(sc, cam, exposure)); err != nil {
		logger.Logger().Debug("frame skipped", "component", "renderer", "err", err)
	}
}

func (s *surface) Dispose() {
	s.StopLoop()

	s.mu.Lock()
	backend := s.backend
	s.backend = nil
	s.host = nil
	s.width, s.height = 0, 0
	s.mu.Unlock()

	if backend != nil {
		backend.Release()
	}
	s.isInitialized.Set(false)
}

func (s *surface) IsInitialized() *signal.Value[bool] {
	return s.isInitialized
}

func (s *surface) IsRendering() *signal.Value[bool] {
	return s.isRendering
}
