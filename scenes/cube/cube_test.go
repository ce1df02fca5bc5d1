package cube

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine"
	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newStage(t *testing.T) (*engine.Stage, *testClock) {
	t.Helper()
	clk := &testClock{t: time.Unix(0, 0)}
	m := scene.NewManager()
	m.Initialize(1)
	t.Cleanup(m.Dispose)

	doc := scroll.NewDocument(2000, 1000)
	tracker := scroll.NewTracker(scroll.WithClock(clk.now))
	tracker.Initialize(doc)
	t.Cleanup(tracker.Dispose)

	return &engine.Stage{
		Scheduler: frame.NewScheduler(frame.WithClock(clk.now)),
		Scenes:    m,
		Document:  doc,
		Tracker:   tracker,
	}, clk
}

func TestSpin(t *testing.T) {
	st, clk := newStage(t)
	s := NewScene(st.Scenes, st.Scheduler)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for range 4 {
		clk.t = clk.t.Add(16 * time.Millisecond)
		st.Scheduler.Tick()
	}
	rx, ry, rz := s.Cube().Rotation()
	want := 4 * spinStep
	if math.Abs(float64(rx)-want) > 1e-6 || math.Abs(float64(ry)-want) > 1e-6 || rz != 0 {
		t.Errorf("Rotation() = (%v, %v, %v), want (%v, %v, 0)", rx, ry, rz, want, want)
	}

	s.Dispose()
	if s.Spinning() {
		t.Error("Spinning() = true after Dispose")
	}
}

func TestDisposeReleasesLights(t *testing.T) {
	st, _ := newStage(t)
	baseline := len(st.Scenes.Scene().Lights())
	s := NewScene(st.Scenes, st.Scheduler)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	lights := append([]game_object.GameObject(nil), s.lights...)
	if got := len(st.Scenes.Scene().Lights()); got != baseline+len(lights) {
		t.Fatalf("Lights() = %d, want %d", got, baseline+len(lights))
	}

	s.Dispose()
	if got := len(st.Scenes.Scene().Lights()); got != baseline {
		t.Errorf("Lights() after Dispose = %d, want %d", got, baseline)
	}
	for _, l := range lights {
		if l.Parent() != nil {
			t.Errorf("light %q still attached after Dispose", l.Name())
		}
	}
	if s.lights != nil {
		t.Error("lights kept after Dispose")
	}
}

func TestUpdateScroll(t *testing.T) {
	tests := []struct {
		progress float64
		want     float32
	}{
		{0, 1},
		{0.5, 1.25},
		{1, 1.5},
	}
	st, _ := newStage(t)
	s := NewScene(st.Scenes, st.Scheduler)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer s.Dispose()

	for _, tt := range tests {
		s.UpdateScroll(tt.progress)
		if sx, sy, sz := s.Cube().Scale(); sx != tt.want || sy != tt.want || sz != tt.want {
			t.Errorf("UpdateScroll(%v): Scale() = (%v, %v, %v), want %v", tt.progress, sx, sy, sz, tt.want)
		}
	}
}

func TestPage(t *testing.T) {
	st, clk := newStage(t)
	baseline := st.Scenes.Scene().ChildCount()

	p := New()
	if err := p.Load(st); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := st.Scenes.Scene().ChildCount(); got != baseline+3 {
		t.Errorf("ChildCount() = %d, want %d", got, baseline+3)
	}
	cube := p.(*page).scene.Cube()

	clk.t = clk.t.Add(time.Second)
	st.Document.ScrollTo(500)
	if sx, _, _ := cube.Scale(); sx != 1.25 {
		t.Errorf("scale at half scroll = %v, want 1.25", sx)
	}

	p.Dispose()
	if got := st.Scenes.Scene().ChildCount(); got != baseline {
		t.Errorf("ChildCount() after Dispose = %d, want %d", got, baseline)
	}
	if !cube.Geometry().Disposed() {
		t.Error("cube geometry not released")
	}

	clk.t = clk.t.Add(time.Second)
	st.Document.ScrollTo(1000)
	if sx, _, _ := cube.Scale(); sx != 1.25 {
		t.Errorf("scale changed after Dispose: %v", sx)
	}
}

func TestPageLoadFailure(t *testing.T) {
	st, _ := newStage(t)
	st.Scenes = scene.NewManager()
	p := New()
	if err := p.Load(st); !errors.Is(err, ErrNoStage) {
		t.Errorf("Load() error = %v, want %v", err, ErrNoStage)
	}
	if p.Loaded() {
		t.Error("Loaded() = true after failed Load")
	}
	p.Dispose()
}
