package home

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine"
	"github.com/Carmen-Shannon/oxy-scroll/engine/animation"
	"github.com/Carmen-Shannon/oxy-scroll/engine/audio"
	"github.com/Carmen-Shannon/oxy-scroll/engine/config"
	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/overlay"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logger.Logger()
	logger.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { logger.SetLogger(orig) })
	return &buf
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeAudio records the calls the sound module makes.
type fakeAudio struct {
	initialized bool
	initErr     error
	inits       int
	fades       []time.Duration
	played      []string
	stopped     []string
	loads       []string
	loaded      map[string]bool
	result      chan error
}

var _ audio.Subsystem = &fakeAudio{}

func (f *fakeAudio) Initialize() error {
	f.inits++
	if f.initErr != nil {
		return f.initErr
	}
	f.initialized = true
	return nil
}

func (f *fakeAudio) Initialized() bool { return f.initialized }

func (f *fakeAudio) LoadSound(id, source string) <-chan error {
	f.loads = append(f.loads, id+"="+source)
	if f.result == nil {
		f.result = make(chan error, 1)
	}
	return f.result
}

func (f *fakeAudio) Loaded(id string) bool                { return f.loaded[id] }
func (f *fakeAudio) PlayAmbient(id string)                { f.played = append(f.played, id) }
func (f *fakeAudio) StopAmbient(id string)                { f.stopped = append(f.stopped, id) }
func (f *fakeAudio) PlayEffect(string)                    {}
func (f *fakeAudio) ToggleMute()                          {}
func (f *fakeAudio) SetMasterVolume(float64)              {}
func (f *fakeAudio) FadeIn(d time.Duration)               { f.fades = append(f.fades, d) }
func (f *fakeAudio) FadeOut(time.Duration)                {}
func (f *fakeAudio) Dispose()                             {}
func (f *fakeAudio) Mixer() *audio.Mixer                  { return nil }
func (f *fakeAudio) IsEnabled() *signal.Value[bool]       { return signal.NewValue(f.initialized) }
func (f *fakeAudio) IsMuted() *signal.Value[bool]         { return signal.NewValue(false) }
func (f *fakeAudio) MasterVolume() *signal.Value[float64] { return signal.NewValue(0.5) }

func newManager(t *testing.T) scene.Manager {
	t.Helper()
	m := scene.NewManager()
	m.Initialize(16.0 / 9.0)
	t.Cleanup(m.Dispose)
	return m
}

func newScheduler() (*frame.Scheduler, *testClock) {
	clk := &testClock{t: time.Unix(0, 0)}
	return frame.NewScheduler(frame.WithClock(clk.now)), clk
}

func tick(sched *frame.Scheduler, clk *testClock, n int) {
	for range n {
		clk.advance(16 * time.Millisecond)
		sched.Tick()
	}
}

func TestSceneLoadAndDispose(t *testing.T) {
	m := newManager(t)
	sched, clk := newScheduler()
	baseline := m.Scene().ChildCount()

	s := NewScene(m, sched)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := m.Scene().ChildCount(); got != baseline+4 {
		t.Errorf("ChildCount() = %d, want %d", got, baseline+4)
	}
	fog, ok := m.Scene().Fog()
	if !ok || math.Abs(float64(fog.Density)-fogDensity) > 1e-6 {
		t.Errorf("Fog() = %+v, %v, want density %v", fog, ok, fogDensity)
	}
	if !s.Idling() {
		t.Fatal("Idling() = false after Load")
	}

	tick(sched, clk, 3)
	_, ry, _ := s.Sphere().Rotation()
	if ry <= 0 {
		t.Errorf("rotation y after 3 frames = %v, want > 0", ry)
	}

	sphere := s.Sphere()
	s.Dispose()
	if got := m.Scene().ChildCount(); got != baseline {
		t.Errorf("ChildCount() after Dispose = %d, want %d", got, baseline)
	}
	if _, ok := m.Scene().Fog(); ok {
		t.Error("fog still enabled after Dispose")
	}
	if s.Idling() {
		t.Error("Idling() = true after Dispose")
	}
	if !sphere.Geometry().Disposed() || !sphere.Material().Disposed() {
		t.Error("sphere geometry and material not released")
	}

	_, before, _ := sphere.Rotation()
	tick(sched, clk, 3)
	if _, after, _ := sphere.Rotation(); after != before {
		t.Errorf("sphere still spinning after Dispose: %v -> %v", before, after)
	}

	s.Dispose()
}

func TestSceneLoadTwiceWarns(t *testing.T) {
	buf := captureLogs(t)
	m := newManager(t)
	sched, _ := newScheduler()
	baseline := m.Scene().ChildCount()

	s := NewScene(m, sched)
	s.Load()
	s.Load()
	if got := m.Scene().ChildCount(); got != baseline+4 {
		t.Errorf("ChildCount() = %d, want %d", got, baseline+4)
	}
	if !strings.Contains(buf.String(), "home scene already loaded") {
		t.Errorf("missing warning, logs: %s", buf.String())
	}
}

func TestSceneDisposedIsTerminal(t *testing.T) {
	buf := captureLogs(t)
	m := newManager(t)
	sched, _ := newScheduler()
	baseline := m.Scene().ChildCount()

	s := NewScene(m, sched)
	s.Load()
	s.Dispose()
	if err := s.Load(); err != nil {
		t.Fatalf("Load() after Dispose error = %v", err)
	}
	if got := m.Scene().ChildCount(); got != baseline {
		t.Errorf("ChildCount() = %d, want %d", got, baseline)
	}
	if s.Loaded() || s.Idling() {
		t.Error("disposed scene loaded again")
	}
	if !strings.Contains(buf.String(), "home scene disposed") {
		t.Errorf("missing warning, logs: %s", buf.String())
	}
}

func TestSceneLoadWithoutStage(t *testing.T) {
	sched, _ := newScheduler()
	s := NewScene(scene.NewManager(), sched)
	if err := s.Load(); !errors.Is(err, ErrNoStage) {
		t.Errorf("Load() error = %v, want %v", err, ErrNoStage)
	}
	if s.Loaded() {
		t.Error("Loaded() = true after failed Load")
	}
	s.Dispose()
}

func TestUpdateFromScroll(t *testing.T) {
	tests := []struct {
		progress float64
		wantZ    float32
		wantTilt float32
	}{
		{progress: 0, wantZ: 5, wantTilt: 0},
		{progress: 0.5, wantZ: 7.5, wantTilt: 0.25},
		{progress: 1, wantZ: 10, wantTilt: 0.5},
	}
	for _, tt := range tests {
		m := newManager(t)
		sched, _ := newScheduler()
		s := NewScene(m, sched)
		if err := s.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		s.UpdateFromScroll(tt.progress, 1000)
		if got := m.Camera().Position()[2]; got != tt.wantZ {
			t.Errorf("progress %v: camera z = %v, want %v", tt.progress, got, tt.wantZ)
		}
		rx, ry, _ := s.Sphere().Rotation()
		if rx != tt.wantTilt {
			t.Errorf("progress %v: rotation x = %v, want %v", tt.progress, rx, tt.wantTilt)
		}
		if math.Abs(float64(ry)-0.1) > 1e-6 {
			t.Errorf("progress %v: rotation y = %v, want 0.1", tt.progress, ry)
		}
		s.Dispose()
	}
}

type motionFixture struct {
	manager scene.Manager
	scene   *Scene
	orch    *animation.Orchestrator
	layer   *overlay.Layer
	doc     *scroll.Document
	tracker *scroll.Tracker
}

func newMotionFixture(t *testing.T) *motionFixture {
	t.Helper()
	m := newManager(t)
	sched, _ := newScheduler()
	s := NewScene(m, sched)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(s.Dispose)

	doc := scroll.NewDocument(3600, 720)
	tracker := scroll.NewTracker()
	tracker.Initialize(doc)
	orch := animation.NewOrchestrator()
	orch.Initialize(nil, tracker, doc)
	t.Cleanup(orch.Dispose)

	return &motionFixture{
		manager: m,
		scene:   s,
		orch:    orch,
		layer:   overlay.NewLayer(OverlayElements()...),
		doc:     doc,
		tracker: tracker,
	}
}

func TestHalfwayScrollMovesCamera(t *testing.T) {
	f := newMotionFixture(t)
	mo := NewMotion(f.orch, f.layer, f.scene)
	mo.Init()

	f.doc.ScrollTo(f.doc.MaxScroll() / 2)
	f.tracker.Sample()
	for range 20 {
		f.orch.Advance(time.Second)
	}

	if got := mo.Trigger().Progress(); got != 0.5 {
		t.Errorf("trigger progress = %v, want 0.5", got)
	}
	if got := f.manager.Camera().Position()[2]; got != 7.5 {
		t.Errorf("camera z = %v, want 7.5", got)
	}
	if got := f.layer.Element(HeroContent).Opacity(); got != 0 {
		t.Errorf("hero opacity = %v, want 0", got)
	}
}

func TestHeroIntro(t *testing.T) {
	f := newMotionFixture(t)
	mo := NewMotion(f.orch, f.layer, f.scene)
	mo.Init()

	if _, ok := f.orch.Timeline(IntroTimeline); !ok {
		t.Fatalf("Timeline(%q) not found", IntroTimeline)
	}
	content := f.layer.Element(HeroContent)
	if content.Opacity() != 0 || content.Y() != 30 {
		t.Errorf("hero content before intro = (%v, %v), want (0, 30)", content.Opacity(), content.Y())
	}

	f.orch.Advance(3 * time.Second)
	for _, st := range f.layer.Snapshot() {
		if st.Opacity != 1 || st.Y != 0 {
			t.Errorf("%s after intro = (%v, %v), want (1, 0)", st.Name, st.Opacity, st.Y)
		}
	}

	mo.Dispose()
	if _, ok := f.orch.Timeline(IntroTimeline); ok {
		t.Errorf("Timeline(%q) found after Dispose", IntroTimeline)
	}
}

func TestHeroIntroStagger(t *testing.T) {
	f := newMotionFixture(t)
	mo := NewMotion(f.orch, f.layer, f.scene)
	mo.Init()

	// the first line starts at 0.4s, the second at 0.6s
	f.orch.Advance(500 * time.Millisecond)
	first := f.layer.Element(HeroLine0).Opacity()
	second := f.layer.Element(HeroLine1).Opacity()
	if first <= 0 || second != 0 {
		t.Errorf("line opacities at 0.5s = (%v, %v), want (>0, 0)", first, second)
	}
}

func TestReducedMotion(t *testing.T) {
	t.Run("final state without timeline", func(t *testing.T) {
		f := newMotionFixture(t)
		f.orch.SetReducedMotion(true)
		mo := NewMotion(f.orch, f.layer, f.scene)
		mo.Init()

		if _, ok := f.orch.Timeline(IntroTimeline); ok {
			t.Error("intro timeline created under reduced motion")
		}
		for _, st := range f.layer.Snapshot() {
			if st.Opacity != 1 || st.Y != 0 {
				t.Errorf("%s = (%v, %v), want (1, 0)", st.Name, st.Opacity, st.Y)
			}
		}
	})

	t.Run("freezes an in-flight intro", func(t *testing.T) {
		f := newMotionFixture(t)
		mo := NewMotion(f.orch, f.layer, f.scene)
		mo.Init()

		f.orch.Advance(400 * time.Millisecond)
		tl, _ := f.orch.Timeline(IntroTimeline)
		progress := tl.Progress()
		opacity := f.layer.Element(HeroContent).Opacity()

		f.orch.SetReducedMotion(true)
		f.orch.Advance(time.Second)
		if got := tl.Progress(); got != progress {
			t.Errorf("Progress() = %v, want frozen at %v", got, progress)
		}
		if got := f.layer.Element(HeroContent).Opacity(); got != opacity {
			t.Errorf("hero opacity = %v, want frozen at %v", got, opacity)
		}
	})
}

func TestMotionDisposeKeepsForeignTriggers(t *testing.T) {
	f := newMotionFixture(t)
	other := f.orch.CreateScrollTrigger(animation.TriggerSpec{Start: "top top", End: "bottom bottom"})
	mo := NewMotion(f.orch, f.layer, f.scene)
	mo.Init()
	own := mo.Trigger()

	mo.Dispose()
	if !own.Killed() {
		t.Error("own trigger still live after Dispose")
	}
	if other.Killed() {
		t.Error("foreign trigger killed by Dispose")
	}
}

func TestSoundGestureGate(t *testing.T) {
	sched, _ := newScheduler()
	fa := &fakeAudio{}
	gesture := signal.NewEmitter()
	s := NewSound(fa, gesture, sched, "")
	s.Init()

	if fa.inits != 0 || gesture.Listeners() != 1 {
		t.Fatalf("before gesture: inits = %d, listeners = %d, want 0, 1", fa.inits, gesture.Listeners())
	}

	gesture.Emit()
	gesture.Emit()
	if fa.inits != 1 {
		t.Errorf("Initialize() calls = %d, want 1", fa.inits)
	}
	if gesture.Listeners() != 0 {
		t.Errorf("Listeners() = %d after first gesture, want 0", gesture.Listeners())
	}
	if len(fa.fades) != 1 || fa.fades[0] != 2000*time.Millisecond {
		t.Errorf("fades = %v, want [2s]", fa.fades)
	}
	if len(fa.loads) != 0 {
		t.Errorf("loads = %v without an ambient source", fa.loads)
	}
}

func TestSoundSkipsGateWhenAudioOpen(t *testing.T) {
	sched, _ := newScheduler()
	fa := &fakeAudio{initialized: true}
	gesture := signal.NewEmitter()
	s := NewSound(fa, gesture, sched, "")
	s.Init()

	if !s.Started() {
		t.Error("Started() = false with audio already open")
	}
	if gesture.Listeners() != 0 {
		t.Errorf("Listeners() = %d, want 0", gesture.Listeners())
	}
	if len(fa.fades) != 1 {
		t.Errorf("fades = %v, want one fade in", fa.fades)
	}
}

func TestSoundAmbient(t *testing.T) {
	tests := []struct {
		name       string
		loadErr    error
		wantPlayed int
	}{
		{name: "plays once loaded", loadErr: nil, wantPlayed: 1},
		{name: "skips failed load", loadErr: errors.New("decode failed"), wantPlayed: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, clk := newScheduler()
			fa := &fakeAudio{result: make(chan error, 1)}
			gesture := signal.NewEmitter()
			s := NewSound(fa, gesture, sched, "sounds/breath.wav")
			s.Init()
			gesture.Emit()

			if len(fa.loads) != 1 || fa.loads[0] != "breath=sounds/breath.wav" {
				t.Fatalf("loads = %v", fa.loads)
			}
			tick(sched, clk, 2)
			if len(fa.played) != 0 {
				t.Fatalf("played %v before the load finished", fa.played)
			}

			fa.result <- tt.loadErr
			tick(sched, clk, 3)
			if len(fa.played) != tt.wantPlayed {
				t.Errorf("played = %v, want %d plays", fa.played, tt.wantPlayed)
			}

			s.Dispose()
			if len(fa.stopped) != 1 || fa.stopped[0] != AmbientSound {
				t.Errorf("stopped = %v, want [%s]", fa.stopped, AmbientSound)
			}
		})
	}
}

func TestSoundInitializeFailure(t *testing.T) {
	buf := captureLogs(t)
	sched, _ := newScheduler()
	fa := &fakeAudio{initErr: errors.New("no device")}
	gesture := signal.NewEmitter()
	s := NewSound(fa, gesture, sched, "sounds/breath.wav")
	s.Init()
	gesture.Emit()

	if len(fa.fades) != 0 || len(fa.loads) != 0 {
		t.Errorf("fades = %v, loads = %v after failed Initialize", fa.fades, fa.loads)
	}
	if !strings.Contains(buf.String(), "audio unavailable") {
		t.Errorf("missing warning, logs: %s", buf.String())
	}
}

func TestSoundDisposeBeforeGesture(t *testing.T) {
	sched, _ := newScheduler()
	fa := &fakeAudio{}
	gesture := signal.NewEmitter()
	s := NewSound(fa, gesture, sched, "sounds/breath.wav")
	s.Init()
	s.Dispose()

	gesture.Emit()
	if fa.inits != 0 {
		t.Errorf("Initialize() calls = %d after Dispose, want 0", fa.inits)
	}
	if len(fa.stopped) != 0 {
		t.Errorf("stopped = %v, want none", fa.stopped)
	}
}

func newStage(t *testing.T) *engine.Stage {
	t.Helper()
	sched, _ := newScheduler()
	doc := scroll.NewDocument(3600, 720)
	tracker := scroll.NewTracker()
	tracker.Initialize(doc)
	orch := animation.NewOrchestrator()
	orch.Initialize(nil, tracker, doc)
	t.Cleanup(orch.Dispose)

	return &engine.Stage{
		Config:       config.Default(),
		Scheduler:    sched,
		Scenes:       newManager(t),
		Document:     doc,
		Tracker:      tracker,
		Orchestrator: orch,
		Overlay:      overlay.NewLayer(append(OverlayElements(), engine.CanvasElement)...),
		Audio:        &fakeAudio{},
		Gesture:      signal.NewEmitter(),
	}
}

func TestPage(t *testing.T) {
	st := newStage(t)
	baseline := st.Scenes.Scene().ChildCount()

	p := New()
	if err := p.Load(st); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !p.Loaded() {
		t.Error("Loaded() = false after Load")
	}
	if got := st.Scenes.Scene().ChildCount(); got != baseline+4 {
		t.Errorf("ChildCount() = %d, want %d", got, baseline+4)
	}
	if _, ok := st.Orchestrator.Timeline(IntroTimeline); !ok {
		t.Errorf("Timeline(%q) not found", IntroTimeline)
	}
	if st.Gesture.Listeners() != 1 {
		t.Errorf("gesture listeners = %d, want 1", st.Gesture.Listeners())
	}
	if got := st.Orchestrator.TriggerCount(); got != 1 {
		t.Errorf("TriggerCount() = %d, want 1", got)
	}

	p.Dispose()
	if p.Loaded() {
		t.Error("Loaded() = true after Dispose")
	}
	if got := st.Scenes.Scene().ChildCount(); got != baseline {
		t.Errorf("ChildCount() after Dispose = %d, want %d", got, baseline)
	}
	if _, ok := st.Orchestrator.Timeline(IntroTimeline); ok {
		t.Errorf("Timeline(%q) found after Dispose", IntroTimeline)
	}
	if st.Gesture.Listeners() != 0 {
		t.Errorf("gesture listeners = %d after Dispose, want 0", st.Gesture.Listeners())
	}
	p.Dispose()
}

func TestPageLoadFailure(t *testing.T) {
	st := newStage(t)
	st.Scenes = scene.NewManager()

	p := New()
	err := p.Load(st)
	if !errors.Is(err, ErrNoStage) {
		t.Fatalf("Load() error = %v, want %v", err, ErrNoStage)
	}
	p.Dispose()
	if st.Gesture.Listeners() != 0 {
		t.Errorf("gesture listeners = %d after failed Load, want 0", st.Gesture.Listeners())
	}
}
