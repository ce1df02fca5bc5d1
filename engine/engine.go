// Package engine wires the stage together: the host window, render surface, scene manager,
// scroll tracker, animation orchestrator and audio subsystem, plus the scene behaviors that
// populate them.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/common"
	"github.com/Carmen-Shannon/oxy-scroll/engine/animation"
	"github.com/Carmen-Shannon/oxy-scroll/engine/audio"
	"github.com/Carmen-Shannon/oxy-scroll/engine/config"
	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/overlay"
	"github.com/Carmen-Shannon/oxy-scroll/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
	"github.com/Carmen-Shannon/oxy-scroll/engine/window"
)

var (
	// ErrNoWindow is returned by Initialize when the engine was built without a window.
	ErrNoWindow = errors.New("engine: no window")

	// ErrNotInitialized is returned by Navigate before Initialize.
	ErrNotInitialized = errors.New("engine: not initialized")

	// ErrUnknownBehavior is returned by Navigate for an id with no registered factory.
	ErrUnknownBehavior = errors.New("engine: unknown behavior")
)

// CanvasElement is the overlay element standing in for the drawing surface. It starts
// transparent and fades in once the surface is ready, and again after each page switch.
const CanvasElement = "stage-canvas"

// SoundToggleElement is the overlay element for the mute control. With accessible labels
// enabled its label follows the audio state.
const SoundToggleElement = "sound-toggle"

const (
	// pageFraction is how much of the viewport PageUp/PageDown/Space scroll.
	pageFraction = 0.9

	canvasFadeSeconds = 1.0
)

// engine implements the Engine interface.
// Everything runs on the goroutine that calls Run (the locked main thread).
type engine struct {
	cfg    config.Config
	window window.Window
	stage  *Stage

	now   func() time.Time
	sleep func(time.Duration)

	surfaceOptions []renderer.SurfaceBuilderOption
	audioOptions   []audio.SubsystemBuilderOption
	overlay        *overlay.Layer

	behaviors map[string]BehaviorFactory
	order     []string
	active    Behavior
	activeID  string

	canvasFade *animation.Tween
	unsubAudio []func()

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameLimit time.Duration
	lastFrame  time.Time

	resizePending bool
	pendingWidth  int
	pendingHeight int
	lastResize    time.Time

	initialized bool
	quit        bool
}

// Engine is the main entry point for the stage.
// It owns the frame loop, input routing and the lifecycle of every subsystem.
type Engine interface {
	// Stage returns the collaborators shared with behaviors.
	//
	// Returns:
	//   - *Stage: the stage
	Stage() *Stage

	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil if none was supplied
	Window() window.Window

	// RegisterBehavior makes a behavior reachable through Navigate. Registration order decides
	// which number key selects it. Registering an id again replaces its factory.
	//
	// Parameters:
	//   - id: the behavior identifier
	//   - factory: builds a fresh, unloaded behavior
	RegisterBehavior(id string, factory BehaviorFactory)

	// Behaviors returns the registered ids in registration order.
	Behaviors() []string

	// Navigate disposes the active behavior, clears the scene and loads the behavior
	// registered under id. Navigating to the active id is a no-op.
	//
	// Parameters:
	//   - id: the behavior identifier
	//
	// Returns:
	//   - error: ErrNotInitialized, ErrUnknownBehavior or a wrapped load error
	Navigate(id string) error

	// ActiveBehavior returns the id of the loaded behavior, or "" when none is loaded.
	ActiveBehavior() string

	// Initialize creates the drawing surface, scene and camera, attaches scroll tracking and
	// the animation loops, starts the render loop and loads the configured start scene.
	// When the surface cannot be created the failure is logged and the stage runs without
	// a render loop. A second call warns and returns nil.
	//
	// Returns:
	//   - error: ErrNoWindow
	Initialize() error

	// Initialized reports whether Initialize succeeded and Dispose has not run.
	Initialized() bool

	// Step runs one iteration of the main loop: flush throttled resizes, poll the scroll
	// tracker, tick the frame scheduler and the profiler.
	Step()

	// HandleScroll applies a wheel offset to the document.
	//
	// Parameters:
	//   - dx, dy: wheel offsets, positive dy scrolls toward the top
	HandleScroll(dx, dy float64)

	// HandleKey routes a key press: document scrolling, mute, profiler, reduced motion and
	// scene selection.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	HandleKey(keyCode uint32)

	// HandleClick records a user gesture.
	HandleClick(button int, x, y float64)

	// Resize fans a framebuffer size change out to the surface, scene manager and document,
	// throttled to the configured interval. The last size always lands.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// ProfilingEnabled reports whether the profiler is reporting.
	ProfilingEnabled() bool

	// Run initializes the engine if needed and runs the window message loop until the
	// window closes, then disposes everything.
	//
	// Returns:
	//   - error: ErrNoWindow when there is no window to run
	Run() error

	// Quit closes the window, which ends Run. Safe to call multiple times.
	Quit()

	// Dispose tears down the active behavior and every subsystem in reverse order of
	// creation. Safe to call more than once; Initialize may run again afterwards.
	Dispose()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine from cfg. Subsystems are constructed here but stay
// uninitialized until Initialize.
//
// Parameters:
//   - cfg: the application config
//   - options: functional options for engine configuration (window, clock, backends, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(cfg config.Config, options ...EngineBuilderOption) Engine {
	e := &engine{
		cfg:              cfg,
		now:              time.Now,
		sleep:            time.Sleep,
		behaviors:        make(map[string]BehaviorFactory),
		profilingEnabled: cfg.Dev.ShowFPS,
	}
	for _, opt := range options {
		opt(e)
	}

	if !cfg.Rendering.VSync && cfg.Rendering.TargetFPS > 0 {
		e.frameLimit = time.Second / time.Duration(cfg.Rendering.TargetFPS)
	}

	sched := frame.NewScheduler(frame.WithClock(e.now))
	if e.overlay == nil {
		e.overlay = overlay.NewLayer(CanvasElement)
	}
	e.stage = &Stage{
		Config:    cfg,
		Scheduler: sched,
		Scenes:    scene.NewManager(scene.WithConfig(cfg)),
		Surface: renderer.NewSurface(sched,
			append([]renderer.SurfaceBuilderOption{renderer.WithRenderingConfig(cfg.Rendering)}, e.surfaceOptions...)...),
		Document: scroll.NewDocument(cfg.Scroll.DocumentHeight, float64(cfg.Window.Height)),
		Tracker: scroll.NewTracker(
			scroll.WithSampleInterval(cfg.Scroll.SampleInterval),
			scroll.WithClock(e.now),
		),
		Orchestrator: animation.NewOrchestrator(
			animation.WithDefaultEase(cfg.Animation.DefaultEasing),
			animation.WithReducedMotion(cfg.ReducedMotion()),
			animation.WithClock(e.now),
		),
		Overlay: e.overlay,
		Audio: audio.NewSubsystem(sched,
			append([]audio.SubsystemBuilderOption{audio.WithConfig(cfg.Audio)}, e.audioOptions...)...),
		Gesture: signal.NewEmitter(),
	}
	e.profiler = profiler.NewProfiler(profiler.WithClock(e.now))

	if canvas := e.overlay.Element(CanvasElement); canvas != nil {
		canvas.SetProperty("opacity", 0)
	}
	e.stage.Surface.IsInitialized().Subscribe(e.onSurfaceReady)

	return e
}

func (e *engine) Stage() *Stage {
	return e.stage
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) RegisterBehavior(id string, factory BehaviorFactory) {
	if factory == nil {
		panic(fmt.Sprintf("engine: RegisterBehavior(%q) requires a factory", id))
	}
	if _, ok := e.behaviors[id]; !ok {
		e.order = append(e.order, id)
	}
	e.behaviors[id] = factory
}

func (e *engine) Behaviors() []string {
	return append([]string(nil), e.order...)
}

func (e *engine) Navigate(id string) error {
	if !e.initialized {
		logger.Logger().Warn("engine not initialized", "op", "Navigate", "scene", id)
		return ErrNotInitialized
	}
	factory, ok := e.behaviors[id]
	if !ok {
		logger.Logger().Warn("unknown scene", "scene", id)
		return fmt.Errorf("%w: %s", ErrUnknownBehavior, id)
	}
	if id == e.activeID && e.active != nil {
		return nil
	}

	switching := e.active != nil
	e.disposeActive()

	st := e.stage
	st.Scenes.LoadScene(id)
	st.Document.ScrollTo(0)
	st.Tracker.Sample()

	b := factory()
	if err := b.Load(st); err != nil {
		b.Dispose()
		st.Scenes.ActiveScene().Set("")
		logger.Logger().Error("failed to load scene", "scene", id, "err", err)
		return fmt.Errorf("engine: load %s: %w", id, err)
	}
	e.active = b
	e.activeID = id
	st.Orchestrator.Refresh()
	if switching && st.Surface.IsInitialized().Get() {
		e.fadeCanvas(e.cfg.Animation.TransitionDuration.Seconds())
	}
	logger.Logger().Info("scene loaded", "scene", id)
	return nil
}

func (e *engine) disposeActive() {
	if e.active == nil {
		return
	}
	e.active.Dispose()
	logger.Logger().Debug("scene disposed", "scene", e.activeID)
	e.active = nil
	e.activeID = ""
}

func (e *engine) ActiveBehavior() string {
	return e.activeID
}

func (e *engine) Initialize() error {
	if e.initialized {
		logger.Logger().Warn("engine already initialized")
		return nil
	}
	if e.window == nil {
		logger.Logger().Error("engine initialize failed", "err", ErrNoWindow)
		return ErrNoWindow
	}

	st := e.stage
	if err := st.Surface.Initialize(e.window); err != nil {
		// Scroll, animation, audio and behaviors still run; only drawing is lost.
		logger.Logger().Error("rendering disabled", "err", err)
	}

	width, height := e.window.Width(), e.window.Height()
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	st.Scenes.Initialize(aspect)
	st.Document.SetViewportHeight(e.logicalHeight(height))
	st.Tracker.Initialize(st.Document)
	st.Orchestrator.Initialize(st.Scheduler, st.Tracker, st.Document)
	st.Orchestrator.SetReducedMotion(e.cfg.ReducedMotion())

	e.window.SetResizeCallback(e.Resize)
	e.window.SetScrollCallback(e.HandleScroll)
	e.window.SetKeyDownCallback(e.HandleKey)
	e.window.SetClickCallback(e.HandleClick)

	if e.cfg.A11y.AriaLabels {
		if toggle := e.overlay.Element(SoundToggleElement); toggle != nil {
			label := func(bool) { toggle.SetLabel(soundToggleLabel(st.Audio)) }
			label(false)
			e.unsubAudio = append(e.unsubAudio,
				st.Audio.IsEnabled().Subscribe(label),
				st.Audio.IsMuted().Subscribe(label),
			)
		}
	}

	if st.Surface.IsInitialized().Get() {
		st.Surface.StartLoop(e.present)
	}
	e.initialized = true
	e.quit = false
	e.lastResize = time.Time{}

	if start := e.cfg.StartScene; start != "" {
		if err := e.Navigate(start); err != nil {
			logger.Logger().Warn("start scene not loaded", "scene", start, "err", err)
		}
	}
	return nil
}

func (e *engine) Initialized() bool {
	return e.initialized
}

// present is the render loop body: it draws the latest scene state and performs no scroll logic.
func (e *engine) present(frame.Info) {
	e.stage.Surface.Present(e.stage.Scenes.Scene(), e.stage.Scenes.Camera())
}

// onSurfaceReady fades the canvas element in once the drawing context exists.
func (e *engine) onSurfaceReady(ready bool) {
	if !ready {
		if canvas := e.overlay.Element(CanvasElement); canvas != nil {
			canvas.SetProperty("opacity", 0)
		}
		return
	}
	e.fadeCanvas(canvasFadeSeconds)
}

// fadeCanvas fades the canvas element from transparent to opaque over seconds, replacing
// any fade in flight. Under reduced motion the canvas is shown at once.
func (e *engine) fadeCanvas(seconds float64) {
	canvas := e.overlay.Element(CanvasElement)
	if canvas == nil {
		return
	}
	if e.canvasFade != nil {
		e.canvasFade.Kill()
		e.canvasFade = nil
	}
	o := e.stage.Orchestrator
	if o.ReducedMotion() || seconds <= 0 {
		canvas.SetProperty("opacity", 1)
		return
	}
	canvas.SetProperty("opacity", 0)
	e.canvasFade = o.To(canvas, animation.TweenVars{
		Props:    animation.Props{"opacity": 1},
		Duration: seconds,
		Ease:     "power2.out",
	})
}

// soundToggleLabel names the action the mute control performs next.
func soundToggleLabel(a audio.Subsystem) string {
	switch {
	case !a.IsEnabled().Get():
		return "Enable sound"
	case a.IsMuted().Get():
		return "Unmute"
	default:
		return "Mute"
	}
}

func (e *engine) Step() {
	e.flushResize()
	e.stage.Tracker.Poll()
	e.stage.Scheduler.Tick()

	if e.profilingEnabled {
		e.profiler.Tick()
	}

	// Frame rate limiting when the present mode does not pace us.
	now := e.now()
	if e.frameLimit > 0 && !e.lastFrame.IsZero() {
		if remaining := e.frameLimit - now.Sub(e.lastFrame); remaining > 0 {
			e.sleep(remaining)
			now = now.Add(remaining)
		}
	}
	e.lastFrame = now
}

func (e *engine) HandleScroll(dx, dy float64) {
	e.stage.Gesture.Emit()
	if dy == 0 {
		return
	}
	e.stage.Document.ScrollBy(-dy * e.cfg.Scroll.WheelStep)
}

func (e *engine) HandleKey(keyCode uint32) {
	e.stage.Gesture.Emit()

	switch keyCode {
	case common.KeyM:
		e.stage.Audio.ToggleMute()
		return
	case common.KeyF:
		if e.profilingEnabled {
			e.DisableProfiler()
		} else {
			e.EnableProfiler()
		}
		return
	case common.KeyR:
		o := e.stage.Orchestrator
		o.SetReducedMotion(!o.ReducedMotion())
		logger.Logger().Info("reduced motion toggled", "reduced", o.ReducedMotion())
		return
	}

	if !e.cfg.A11y.KeyboardNavigation {
		return
	}
	doc := e.stage.Document
	page := doc.ViewportHeight() * pageFraction
	switch keyCode {
	case common.KeyDown:
		doc.ScrollBy(e.cfg.Scroll.WheelStep)
	case common.KeyUp:
		doc.ScrollBy(-e.cfg.Scroll.WheelStep)
	case common.KeyPageDown, common.KeySpace:
		doc.ScrollBy(page)
	case common.KeyPageUp:
		doc.ScrollBy(-page)
	case common.KeyHome:
		doc.ScrollTo(0)
	case common.KeyEnd:
		doc.ScrollTo(doc.MaxScroll())
	case common.Key1, common.Key2:
		if idx := int(keyCode - common.Key1); idx < len(e.order) {
			_ = e.Navigate(e.order[idx])
		}
	}
}

func (e *engine) HandleClick(button int, x, y float64) {
	e.stage.Gesture.Emit()
}

func (e *engine) Resize(width, height int) {
	// A minimized window reports 0x0; keep the last real size.
	if width <= 0 || height <= 0 {
		return
	}
	e.pendingWidth, e.pendingHeight = width, height
	e.resizePending = true
	e.flushResize()
}

// flushResize applies the pending size on the leading edge and again once the throttle window
// has passed, so bursts collapse to at most one resize per interval.
func (e *engine) flushResize() {
	if !e.resizePending || !e.initialized {
		return
	}
	now := e.now()
	if !e.lastResize.IsZero() && now.Sub(e.lastResize) < e.cfg.Scroll.ResizeThrottle {
		return
	}
	e.resizePending = false
	e.lastResize = now

	st := e.stage
	st.Surface.Resize(e.pendingWidth, e.pendingHeight)
	st.Scenes.Resize(e.pendingWidth, e.pendingHeight)
	st.Document.SetViewportHeight(e.logicalHeight(e.pendingHeight))
	st.Orchestrator.Refresh()
	st.Tracker.Sample()
}

// logicalHeight converts a framebuffer height to document pixels.
func (e *engine) logicalHeight(height int) float64 {
	scale := 1.0
	if e.window != nil && e.window.ContentScale() > 0 {
		scale = e.window.ContentScale()
	}
	return float64(height) / scale
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) ProfilingEnabled() bool {
	return e.profilingEnabled
}

func (e *engine) Run() error {
	if !e.initialized {
		if err := e.Initialize(); err != nil {
			return err
		}
	}
	e.window.SetUpdateCallback(e.Step)
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)
	e.Dispose()
	return nil
}

func (e *engine) Quit() {
	if e.quit || e.window == nil {
		return
	}
	e.quit = true
	if err := e.window.Close(); err != nil {
		logger.Logger().Warn("closing window", "err", err)
	}
}

func (e *engine) Dispose() {
	if !e.initialized {
		return
	}
	e.disposeActive()
	for _, unsub := range e.unsubAudio {
		unsub()
	}
	e.unsubAudio = nil
	e.canvasFade = nil

	st := e.stage
	st.Orchestrator.Dispose()
	st.Tracker.Dispose()
	st.Audio.Dispose()
	st.Surface.Dispose()
	st.Scenes.Dispose()

	e.window.SetResizeCallback(nil)
	e.window.SetScrollCallback(nil)
	e.window.SetKeyDownCallback(nil)
	e.window.SetClickCallback(nil)

	e.resizePending = false
	e.initialized = false
	logger.Logger().Info("engine disposed")
}
