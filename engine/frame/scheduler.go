// Package frame implements the engine's frame-scheduling primitive: one-shot
// per-frame callbacks grouped into ordered phases, plus main-thread
// continuations posted from other goroutines.
package frame

import (
	"sync"
	"time"
)

// Phase orders callbacks within a single tick.
type Phase int

const (
	// PhaseUpdate runs behavior idle loops.
	PhaseUpdate Phase = iota
	// PhaseScroll runs trigger smoothing and scroll-driven mutation.
	PhaseScroll
	// PhaseAnimation runs timelines and one-shot tweens.
	PhaseAnimation
	// PhasePresent runs the render loop driver.
	PhasePresent

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseScroll:
		return "scroll"
	case PhaseAnimation:
		return "animation"
	case PhasePresent:
		return "present"
	default:
		return "unknown"
	}
}

// ID identifies a pending frame request. The zero ID is never issued.
type ID uint64

// Info describes the tick a callback runs in.
type Info struct {
	// Frame is the 1-based tick counter.
	Frame uint64
	// Time is the elapsed time since the scheduler was created.
	Time time.Duration
	// Delta is the time since the previous tick (zero on the first tick).
	Delta time.Duration
}

// Seconds returns Time in seconds.
func (i Info) Seconds() float64 { return i.Time.Seconds() }

// DeltaSeconds returns Delta in seconds.
func (i Info) DeltaSeconds() float64 { return i.Delta.Seconds() }

type request struct {
	id        ID
	phase     Phase
	fn        func(Info)
	cancelled bool
}

// Scheduler runs frame callbacks on the goroutine that calls Tick.
// RequestFrame, CancelFrame and Post are safe from any goroutine.
type Scheduler struct {
	mu *sync.Mutex

	now   func() time.Time
	start time.Time
	last  time.Time

	frame   uint64
	nextID  ID
	pending []*request
	byID    map[ID]*request
	posted  []func()
}

// NewScheduler creates a Scheduler.
//
// Parameters:
//   - options: functional options (clock override)
//
// Returns:
//   - *Scheduler: the new scheduler
func NewScheduler(options ...SchedulerBuilderOption) *Scheduler {
	s := &Scheduler{
		mu:   &sync.Mutex{},
		now:  time.Now,
		byID: make(map[ID]*request),
	}
	for _, opt := range options {
		opt(s)
	}
	s.start = s.now()
	return s
}

// RequestFrame schedules fn to run once in the given phase of the next tick.
// Requests made while a tick is running land in the tick after it.
//
// Parameters:
//   - phase: the phase the callback runs in
//   - fn: the callback
//
// Returns:
//   - ID: handle for CancelFrame
func (s *Scheduler) RequestFrame(phase Phase, fn func(Info)) ID {
	if phase < 0 || phase >= phaseCount {
		phase = PhaseUpdate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r := &request{id: s.nextID, phase: phase, fn: fn}
	s.pending = append(s.pending, r)
	s.byID[r.id] = r
	return r.id
}

// CancelFrame drops a pending request. Unknown or already-run IDs are ignored.
func (s *Scheduler) CancelFrame(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[id]; ok {
		r.cancelled = true
		delete(s.byID, id)
	}
}

// Post queues fn to run on the ticking goroutine at the start of the next tick.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, fn)
}

// Pending returns the number of live frame requests.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Now returns the scheduler clock's elapsed time.
func (s *Scheduler) Now() time.Duration {
	return s.now().Sub(s.start)
}

// Tick runs posted continuations, then every request made before this tick
// in phase order. Within a phase, requests run in the order they were made.
//
// Returns:
//   - Info: the tick that ran
func (s *Scheduler) Tick() Info {
	now := s.now()

	s.mu.Lock()
	s.frame++
	info := Info{Frame: s.frame, Time: now.Sub(s.start)}
	if !s.last.IsZero() {
		info.Delta = now.Sub(s.last)
	}
	s.last = now
	posted := s.posted
	s.posted = nil
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range posted {
		fn()
	}

	for phase := Phase(0); phase < phaseCount; phase++ {
		for _, r := range batch {
			if r.phase != phase {
				continue
			}
			s.mu.Lock()
			run := !r.cancelled
			if run {
				delete(s.byID, r.id)
			}
			s.mu.Unlock()
			if run {
				r.fn(info)
			}
		}
	}
	return info
}
