package animation

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
)

type fakeSource struct {
	state scroll.State
	subs  []func(scroll.State)
}

func (f *fakeSource) State() scroll.State { return f.state }

func (f *fakeSource) Subscribe(fn func(scroll.State)) func() {
	f.subs = append(f.subs, fn)
	idx := len(f.subs) - 1
	return func() { f.subs[idx] = nil }
}

func (f *fakeSource) emit(st scroll.State) {
	f.state = st
	for _, fn := range f.subs {
		if fn != nil {
			fn(st)
		}
	}
}

type fakeLayout struct{ doc, view float64 }

func (l *fakeLayout) DocumentHeight() float64 { return l.doc }
func (l *fakeLayout) ViewportHeight() float64 { return l.view }

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func newTriggerFixture() (*Orchestrator, *fakeSource, *fakeLayout, *stepClock) {
	clk := &stepClock{t: time.Unix(0, 0)}
	o := NewOrchestrator(WithClock(clk.now))
	src := &fakeSource{}
	layout := &fakeLayout{doc: 3000, view: 1000}
	o.Initialize(nil, src, layout)
	return o, src, layout, clk
}

func TestResolveMarker(t *testing.T) {
	body := Bounds{Top: 0, Height: 3000}
	section := Bounds{Top: 1200, Height: 400}
	tests := []struct {
		marker string
		el     Bounds
		want   float64
	}{
		{"top top", body, 0},
		{"bottom bottom", body, 2000},
		{"top bottom", section, 200},
		{"top 80%", section, 400},
		{"center center", section, 900},
		{"bottom top", section, 1600},
		{"top 100px", section, 1100},
	}
	for _, tt := range tests {
		if got := resolveMarker(tt.marker, tt.el, 1000); got != tt.want {
			t.Errorf("resolveMarker(%q) = %v, want %v", tt.marker, got, tt.want)
		}
	}
}

func TestTriggerExactProgress(t *testing.T) {
	o, src, _, _ := newTriggerFixture()
	var got []TriggerState
	tr := o.CreateScrollTrigger(TriggerSpec{
		Start:    "top top",
		End:      "bottom bottom",
		OnUpdate: func(s TriggerState) { got = append(got, s) },
	})

	if tr.Start() != 0 || tr.End() != 2000 {
		t.Fatalf("span = [%v, %v], want [0, 2000]", tr.Start(), tr.End())
	}

	src.emit(scroll.State{ScrollY: 1000, Progress: 0.5})
	if len(got) != 1 || got[0].Progress != 0.5 {
		t.Fatalf("updates = %+v, want one at progress 0.5", got)
	}
	if !got[0].IsActive {
		t.Error("IsActive = false inside the span")
	}
}

func TestTriggerEndRelativeToStart(t *testing.T) {
	o, _, _, _ := newTriggerFixture()
	tr := o.CreateScrollTrigger(TriggerSpec{Start: "top top", End: "+=500"})
	if tr.End() != 500 {
		t.Errorf("End() = %v, want 500", tr.End())
	}
}

func TestTriggerScrubSmoothing(t *testing.T) {
	o, src, _, _ := newTriggerFixture()
	var last TriggerState
	updates := 0
	tr := o.CreateScrollTrigger(TriggerSpec{
		Start:    "top top",
		End:      "bottom bottom",
		Scrub:    1,
		OnUpdate: func(s TriggerState) { last = s; updates++ },
	})

	src.emit(scroll.State{ScrollY: 2000, Progress: 1})
	if updates != 0 {
		t.Fatalf("scrubbed trigger updated synchronously on scroll")
	}

	o.Advance(time.Second)
	want := 1 - math.Exp(-1)
	if math.Abs(last.Progress-want) > 1e-9 {
		t.Errorf("progress after one time constant = %v, want %v", last.Progress, want)
	}
	if last.RawProgress != 1 {
		t.Errorf("RawProgress = %v, want 1", last.RawProgress)
	}

	for i := 0; i < 60; i++ {
		o.Advance(time.Second)
	}
	if tr.Progress() != 1 {
		t.Errorf("progress did not settle, = %v", tr.Progress())
	}
}

func TestTriggerVelocity(t *testing.T) {
	o, src, _, clk := newTriggerFixture()
	var last TriggerState
	o.CreateScrollTrigger(TriggerSpec{
		Start:    "top top",
		End:      "bottom bottom",
		OnUpdate: func(s TriggerState) { last = s },
	})

	clk.t = clk.t.Add(100 * time.Millisecond)
	src.emit(scroll.State{ScrollY: 100})
	clk.t = clk.t.Add(100 * time.Millisecond)
	src.emit(scroll.State{ScrollY: 300})

	if math.Abs(last.Velocity-2000) > 1e-6 {
		t.Errorf("Velocity = %v, want 2000 px/s", last.Velocity)
	}
	if math.Abs(last.ProgressVelocity-1) > 1e-9 {
		t.Errorf("ProgressVelocity = %v, want 1", last.ProgressVelocity)
	}
}

func TestDisposeAllStopsTriggerCallbacks(t *testing.T) {
	o, src, _, _ := newTriggerFixture()
	calls := 0
	for i := 0; i < 3; i++ {
		o.CreateScrollTrigger(TriggerSpec{
			Start:    "top top",
			End:      "bottom bottom",
			OnUpdate: func(TriggerState) { calls++ },
		})
	}

	o.DisposeAll()
	src.emit(scroll.State{ScrollY: 1500})
	o.Advance(time.Second)

	if calls != 0 {
		t.Errorf("callbacks after DisposeAll = %d, want 0", calls)
	}
	if o.TriggerCount() != 0 {
		t.Errorf("TriggerCount() = %d, want 0", o.TriggerCount())
	}
}

func TestKilledTriggerIsPruned(t *testing.T) {
	o, src, _, _ := newTriggerFixture()
	calls := 0
	tr := o.CreateScrollTrigger(TriggerSpec{
		Start:    "top top",
		End:      "bottom bottom",
		OnUpdate: func(TriggerState) { calls++ },
	})
	keep := o.CreateScrollTrigger(TriggerSpec{Start: "top top", End: "bottom bottom"})

	tr.Kill()
	o.Advance(16 * time.Millisecond)
	src.emit(scroll.State{ScrollY: 500})

	if calls != 0 {
		t.Errorf("killed trigger fired %d times", calls)
	}
	if o.TriggerCount() != 1 || keep.Progress() != 0.25 {
		t.Errorf("TriggerCount() = %d, keep progress = %v", o.TriggerCount(), keep.Progress())
	}
}

func TestReducedMotionFreezesScrub(t *testing.T) {
	o, src, _, _ := newTriggerFixture()
	tr := o.CreateScrollTrigger(TriggerSpec{Start: "top top", End: "bottom bottom", Scrub: 0.5})
	o.SetReducedMotion(true)

	src.emit(scroll.State{ScrollY: 2000})
	o.Advance(5 * time.Second)
	if tr.Progress() != 0 {
		t.Errorf("frozen progress = %v, want 0", tr.Progress())
	}
}

func TestRefreshRecomputesBounds(t *testing.T) {
	o, _, layout, _ := newTriggerFixture()
	tr := o.CreateScrollTrigger(TriggerSpec{Start: "top top", End: "bottom bottom"})

	layout.view = 500
	o.Refresh()
	if tr.End() != 2500 {
		t.Errorf("End() after refresh = %v, want 2500", tr.End())
	}
}

func TestInitializeDrivesLoopsFromScheduler(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	sched := frame.NewScheduler(frame.WithClock(clk.now))
	o := NewOrchestrator(WithClock(clk.now))
	o.Initialize(sched, &fakeSource{}, &fakeLayout{doc: 2000, view: 1000})
	o.Initialize(sched, &fakeSource{}, &fakeLayout{doc: 2000, view: 1000})

	v := Values{"x": 0}
	o.To(v, TweenVars{Props: Props{"x": 1}, Duration: 1, Ease: "none"})

	sched.Tick()
	clk.t = clk.t.Add(500 * time.Millisecond)
	sched.Tick()
	if !near(v["x"], 0.5) {
		t.Errorf("x after scheduler ticks = %v, want 0.5", v["x"])
	}

	o.Dispose()
	if sched.Pending() != 0 {
		t.Errorf("Pending() after Dispose = %d, want 0", sched.Pending())
	}
}
