package frame

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler() (*Scheduler, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	return NewScheduler(WithClock(clk.now)), clk
}

func TestTickRunsPhasesInOrder(t *testing.T) {
	s, _ := newTestScheduler()
	var order []string

	s.RequestFrame(PhasePresent, func(Info) { order = append(order, "present") })
	s.RequestFrame(PhaseScroll, func(Info) { order = append(order, "scroll") })
	s.RequestFrame(PhaseUpdate, func(Info) { order = append(order, "update") })
	s.RequestFrame(PhaseAnimation, func(Info) { order = append(order, "animation") })
	s.Post(func() { order = append(order, "posted") })

	s.Tick()

	want := []string{"posted", "update", "scroll", "animation", "present"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRequestDuringTickRunsNextTick(t *testing.T) {
	s, _ := newTestScheduler()
	runs := 0
	s.RequestFrame(PhaseUpdate, func(Info) {
		runs++
		s.RequestFrame(PhasePresent, func(Info) { runs += 10 })
	})

	s.Tick()
	if runs != 1 {
		t.Fatalf("after first tick runs = %d, want 1", runs)
	}
	s.Tick()
	if runs != 11 {
		t.Fatalf("after second tick runs = %d, want 11", runs)
	}
}

func TestCancelFrame(t *testing.T) {
	s, _ := newTestScheduler()
	ran := false
	id := s.RequestFrame(PhaseUpdate, func(Info) { ran = true })
	s.CancelFrame(id)
	s.CancelFrame(id)
	s.CancelFrame(9999)

	s.Tick()
	if ran {
		t.Error("cancelled callback ran")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestCancelFromEarlierPhaseSameTick(t *testing.T) {
	s, _ := newTestScheduler()
	ran := false
	id := s.RequestFrame(PhasePresent, func(Info) { ran = true })
	s.RequestFrame(PhaseUpdate, func(Info) { s.CancelFrame(id) })

	s.Tick()
	if ran {
		t.Error("callback cancelled earlier in the same tick still ran")
	}
}

func TestTickInfo(t *testing.T) {
	s, clk := newTestScheduler()

	clk.advance(10 * time.Millisecond)
	first := s.Tick()
	clk.advance(16 * time.Millisecond)
	second := s.Tick()

	if first.Frame != 1 || first.Delta != 0 || first.Time != 10*time.Millisecond {
		t.Errorf("first = %+v", first)
	}
	if second.Frame != 2 || second.Delta != 16*time.Millisecond {
		t.Errorf("second = %+v", second)
	}
}

func TestPostFromOtherGoroutine(t *testing.T) {
	s, _ := newTestScheduler()
	var wg sync.WaitGroup
	results := make(chan int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Post(func() { results <- n })
		}(i)
	}
	wg.Wait()

	s.Tick()
	close(results)
	count := 0
	for range results {
		count++
	}
	if count != 4 {
		t.Errorf("continuations run = %d, want 4", count)
	}
}
