package frame

import "sync"

// Loop is a self re-arming per-frame callback. It runs fn once per tick in
// its phase until stopped. Stopping cancels the pending request and clears the
// live flag so an in-flight callback does not re-arm.
type Loop struct {
	mu    *sync.Mutex
	sched *Scheduler
	phase Phase
	fn    func(Info)
	live  bool
	id    ID
}

// NewLoop creates a stopped Loop. Panics if sched or fn is nil.
func NewLoop(sched *Scheduler, phase Phase, fn func(Info)) *Loop {
	if sched == nil {
		panic("frame: NewLoop requires a scheduler")
	}
	if fn == nil {
		panic("frame: NewLoop requires a callback")
	}
	return &Loop{
		mu:    &sync.Mutex{},
		sched: sched,
		phase: phase,
		fn:    fn,
	}
}

// Start arms the loop. Returns false if it was already running.
func (l *Loop) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.live {
		return false
	}
	l.live = true
	l.id = l.sched.RequestFrame(l.phase, l.tick)
	return true
}

// Stop cancels the pending frame request. Safe when not running.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.live {
		return
	}
	l.live = false
	l.sched.CancelFrame(l.id)
	l.id = 0
}

// Running reports whether the loop is armed.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.live
}

func (l *Loop) tick(info Info) {
	l.mu.Lock()
	live := l.live
	l.mu.Unlock()
	if !live {
		return
	}

	l.fn(info)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.live {
		l.id = l.sched.RequestFrame(l.phase, l.tick)
	}
}
