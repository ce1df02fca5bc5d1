package animation

import (
	"testing"
	"time"
)

func TestToTween(t *testing.T) {
	o := NewOrchestrator()
	v := Values{"opacity": 0}
	completed := false
	o.To(v, TweenVars{Props: Props{"opacity": 1}, Duration: 1, Ease: "none", OnComplete: func() { completed = true }})

	o.Advance(500 * time.Millisecond)
	if !near(v["opacity"], 0.5) {
		t.Errorf("opacity at 0.5s = %v, want 0.5", v["opacity"])
	}
	o.Advance(600 * time.Millisecond)
	if v["opacity"] != 1 || !completed {
		t.Errorf("opacity = %v completed = %v, want 1 true", v["opacity"], completed)
	}
	if o.ActiveTweens() != 0 {
		t.Errorf("ActiveTweens() = %d, want 0", o.ActiveTweens())
	}
}

func TestFromTween(t *testing.T) {
	o := NewOrchestrator()
	v := Values{"y": 0}
	o.From(v, TweenVars{Props: Props{"y": 30}, Duration: 1, Ease: "none"})

	if v["y"] != 30 {
		t.Fatalf("From() did not apply start value, y = %v", v["y"])
	}
	o.Advance(2 * time.Second)
	if v["y"] != 0 {
		t.Errorf("y = %v, want 0", v["y"])
	}
}

func TestSetAndZeroDuration(t *testing.T) {
	o := NewOrchestrator()
	v := Values{"opacity": 1}

	o.Set(v, Props{"opacity": 0, "y": 20})
	if v["opacity"] != 0 || v["y"] != 20 {
		t.Fatalf("Set() values = %v", v)
	}

	o.To(v, TweenVars{Props: Props{"opacity": 1}})
	o.Advance(time.Millisecond)
	if v["opacity"] != 1 {
		t.Errorf("zero-duration To left opacity = %v", v["opacity"])
	}
}

func TestTweenDelay(t *testing.T) {
	o := NewOrchestrator()
	v := Values{"x": 0}
	o.To(v, TweenVars{Props: Props{"x": 1}, Duration: 1, Delay: 0.5, Ease: "none"})

	o.Advance(400 * time.Millisecond)
	if v["x"] != 0 {
		t.Errorf("x during delay = %v, want 0", v["x"])
	}
	o.Advance(600 * time.Millisecond)
	if !near(v["x"], 0.5) {
		t.Errorf("x = %v, want 0.5", v["x"])
	}
}
