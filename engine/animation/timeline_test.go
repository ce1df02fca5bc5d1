package animation

import (
	"math"
	"testing"
	"time"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestTimelinePositions(t *testing.T) {
	o := NewOrchestrator()
	a, b, c := Values{"x": 0}, Values{"x": 0}, Values{"x": 0}

	tl := o.CreateTimeline("intro", TimelineOptions{})
	tl.To([]Target{a}, TweenVars{Props: Props{"x": 1}, Duration: 0.8}, "")
	tl.To([]Target{b}, TweenVars{Props: Props{"x": 1}, Duration: 0.8}, "-=0.4")
	tl.To([]Target{c}, TweenVars{Props: Props{"x": 1}, Duration: 0.5}, "2")

	if !near(tl.steps[1].start, 0.4) {
		t.Errorf("relative step start = %v, want 0.4", tl.steps[1].start)
	}
	if !near(tl.steps[2].start, 2) {
		t.Errorf("absolute step start = %v, want 2", tl.steps[2].start)
	}
	if !near(tl.Duration(), 2.5) {
		t.Errorf("Duration() = %v, want 2.5", tl.Duration())
	}
}

func TestTimelineStaggerAndOverlap(t *testing.T) {
	o := NewOrchestrator()
	content := Values{"opacity": 0}
	line0, line1 := Values{"y": 30}, Values{"y": 30}

	tl := o.CreateTimeline("hero-intro", TimelineOptions{})
	tl.To([]Target{content}, TweenVars{Props: Props{"opacity": 1}, Duration: 0.8, Ease: "none"}, "")
	tl.To([]Target{line0, line1}, TweenVars{Props: Props{"y": 0}, Duration: 0.8, Stagger: 0.2, Ease: "none"}, "-=0.4")

	// Lines start at 0.4 and 0.6; the step ends at 1.4.
	if !near(tl.Duration(), 1.4) {
		t.Fatalf("Duration() = %v, want 1.4", tl.Duration())
	}

	o.Advance(500 * time.Millisecond)
	if !near(content["opacity"], 0.625) {
		t.Errorf("content opacity at 0.5s = %v, want 0.625", content["opacity"])
	}
	if !near(line0["y"], 30-30*0.125) {
		t.Errorf("line0 y at 0.5s = %v, want %v", line0["y"], 30-30*0.125)
	}
	if line1["y"] != 30 {
		t.Errorf("line1 y at 0.5s = %v, want untouched 30", line1["y"])
	}

	o.Advance(time.Second)
	if content["opacity"] != 1 || line0["y"] != 0 || line1["y"] != 0 {
		t.Errorf("final values = %v %v %v", content, line0, line1)
	}
	if !tl.Completed() {
		t.Error("Completed() = false after running past the end")
	}
}

func TestTimelineSeekBackward(t *testing.T) {
	o := NewOrchestrator()
	a, b := Values{"x": 0}, Values{"x": 0}

	tl := o.CreateTimeline("seek", TimelineOptions{Paused: true})
	tl.To([]Target{a}, TweenVars{Props: Props{"x": 1}, Duration: 1, Ease: "none"}, "")
	tl.To([]Target{a, b}, TweenVars{Props: Props{"x": 3}, Duration: 1, Ease: "none"}, "")

	tl.Seek(2)
	if a["x"] != 3 || b["x"] != 3 || !tl.Completed() {
		t.Fatalf("Seek(2): a=%v b=%v completed=%v", a["x"], b["x"], tl.Completed())
	}

	tests := []struct {
		at    float64
		wantA float64
		wantB float64
	}{
		{at: 0.5, wantA: 0.5, wantB: 0},
		{at: 1.5, wantA: 2, wantB: 1.5},
		{at: 0, wantA: 0, wantB: 0},
	}
	for _, tt := range tests {
		tl.Seek(tt.at)
		if !near(a["x"], tt.wantA) || !near(b["x"], tt.wantB) {
			t.Errorf("Seek(%v): a=%v b=%v, want %v %v", tt.at, a["x"], b["x"], tt.wantA, tt.wantB)
		}
		if tl.Completed() {
			t.Errorf("Seek(%v): Completed() = true", tt.at)
		}
	}
}

func TestTimelineOnComplete(t *testing.T) {
	o := NewOrchestrator()
	done := 0
	tl := o.CreateTimeline("once", TimelineOptions{OnComplete: func() { done++ }})
	tl.To([]Target{Values{"x": 0}}, TweenVars{Props: Props{"x": 1}, Duration: 0.1}, "")

	for i := 0; i < 5; i++ {
		o.Advance(50 * time.Millisecond)
	}
	if done != 1 {
		t.Errorf("OnComplete calls = %d, want 1", done)
	}
}

func TestTimelineDelayAndPause(t *testing.T) {
	o := NewOrchestrator()
	v := Values{"x": 0}
	tl := o.CreateTimeline("delayed", TimelineOptions{Delay: 0.5, Paused: true})
	tl.To([]Target{v}, TweenVars{Props: Props{"x": 10}, Duration: 1, Ease: "none"}, "")

	o.Advance(time.Second)
	if v["x"] != 0 {
		t.Fatalf("paused timeline moved x to %v", v["x"])
	}

	tl.Play()
	o.Advance(250 * time.Millisecond)
	if v["x"] != 0 {
		t.Errorf("x during delay = %v, want 0", v["x"])
	}
	o.Advance(750 * time.Millisecond)
	if !near(v["x"], 5) {
		t.Errorf("x at 0.5s past delay = %v, want 5", v["x"])
	}
}

func TestKillTimelineThenLookup(t *testing.T) {
	o := NewOrchestrator()
	first := o.CreateTimeline("hero-intro", TimelineOptions{})

	o.KillTimeline("hero-intro")
	o.KillTimeline("missing")
	if _, ok := o.Timeline("hero-intro"); ok {
		t.Fatal("Timeline() found a killed timeline")
	}

	second := o.CreateTimeline("hero-intro", TimelineOptions{})
	got, ok := o.Timeline("hero-intro")
	if !ok || got != second || got == first {
		t.Errorf("Timeline() = %p, %v; want new instance %p", got, ok, second)
	}
}

func TestCreateTimelineOverExistingKeyKillsOld(t *testing.T) {
	o := NewOrchestrator()
	v := Values{"x": 0}
	old := o.CreateTimeline("k", TimelineOptions{})
	old.To([]Target{v}, TweenVars{Props: Props{"x": 100}, Duration: 1}, "")

	o.CreateTimeline("k", TimelineOptions{})
	o.Advance(time.Second)

	if !old.Killed() {
		t.Error("old timeline not killed")
	}
	if v["x"] != 0 {
		t.Errorf("killed timeline still wrote x = %v", v["x"])
	}
	if n := o.TimelineCount(); n != 1 {
		t.Errorf("TimelineCount() = %d, want 1", n)
	}
}

func TestReducedMotionFreezesTimeline(t *testing.T) {
	o := NewOrchestrator()
	v := Values{"x": 0}
	tl := o.CreateTimeline("t", TimelineOptions{})
	tl.To([]Target{v}, TweenVars{Props: Props{"x": 1}, Duration: 1, Ease: "none"}, "")

	o.Advance(250 * time.Millisecond)
	frozenAt := v["x"]

	o.SetReducedMotion(true)
	o.Advance(time.Second)
	if v["x"] != frozenAt {
		t.Errorf("x moved from %v to %v while frozen", frozenAt, v["x"])
	}
	if tl.Completed() {
		t.Error("timeline completed while frozen")
	}

	o.SetReducedMotion(false)
	o.Advance(time.Second)
	if v["x"] != 1 {
		t.Errorf("x after resume = %v, want 1", v["x"])
	}
}

func TestTimelineInvalidPositionAppends(t *testing.T) {
	o := NewOrchestrator()
	tl := o.CreateTimeline("t", TimelineOptions{})
	tl.To([]Target{Values{}}, TweenVars{Props: Props{"x": 1}, Duration: 1}, "")
	tl.To([]Target{Values{}}, TweenVars{Props: Props{"x": 1}, Duration: 1}, "soon")

	if !near(tl.steps[1].start, 1) {
		t.Errorf("start = %v, want 1", tl.steps[1].start)
	}
}
