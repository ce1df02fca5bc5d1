package scroll

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

// Tracker samples a Source at a bounded rate and publishes normalized State
// to any number of subscribers.
//
// Scroll events closer together than the sample interval are dropped on the
// leading edge. A dropped event is remembered and picked up by the next Poll
// once the interval has elapsed, so the final resting offset is never lost.
type Tracker struct {
	mu *sync.Mutex

	interval time.Duration
	now      func() time.Time

	source      Source
	unsubscribe func()

	lastSample time.Time
	sampled    bool
	dirty      bool
	lastY      float64

	state *signal.Value[State]
}

// NewTracker creates an uninitialized Tracker.
//
// Parameters:
//   - options: functional options (sample interval, clock)
//
// Returns:
//   - *Tracker: the new tracker
func NewTracker(options ...TrackerBuilderOption) *Tracker {
	t := &Tracker{
		mu:       &sync.Mutex{},
		interval: 16 * time.Millisecond,
		now:      time.Now,
		state:    signal.NewValue(State{Direction: Down}),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Initialize subscribes to the source once and publishes an initial sample.
// Calling it again while attached warns and does nothing.
func (t *Tracker) Initialize(source Source) {
	if source == nil {
		logger.Logger().Warn("scroll tracker initialized without a source")
		return
	}
	t.mu.Lock()
	if t.source != nil {
		t.mu.Unlock()
		logger.Logger().Warn("scroll tracker already initialized")
		return
	}
	t.source = source
	t.lastY = source.ScrollY()
	t.mu.Unlock()

	unsub := source.OnScroll(t.handleScroll)

	t.mu.Lock()
	t.unsubscribe = unsub
	t.mu.Unlock()

	t.Sample()
}

// State returns the latest published sample.
func (t *Tracker) State() State {
	return t.state.Get()
}

// Subscribe registers fn for every published sample that differs from the
// previous one and returns its unsubscribe function.
func (t *Tracker) Subscribe(fn func(State)) (unsubscribe func()) {
	return t.state.Subscribe(fn)
}

// Sample reads the source immediately, bypassing the throttle.
func (t *Tracker) Sample() {
	t.mu.Lock()
	src := t.source
	t.mu.Unlock()
	if src == nil {
		return
	}
	t.publish(src, t.now())
}

// Poll publishes a sample if a scroll event was dropped by the throttle and
// the interval has since elapsed. The engine calls it once per frame.
func (t *Tracker) Poll() {
	now := t.now()
	t.mu.Lock()
	src := t.source
	due := t.dirty && now.Sub(t.lastSample) >= t.interval
	t.mu.Unlock()
	if src == nil || !due {
		return
	}
	t.publish(src, now)
}

// Dispose unsubscribes from the source. The tracker may be initialized again.
func (t *Tracker) Dispose() {
	t.mu.Lock()
	unsub := t.unsubscribe
	t.unsubscribe = nil
	t.source = nil
	t.sampled = false
	t.dirty = false
	t.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (t *Tracker) handleScroll() {
	now := t.now()
	t.mu.Lock()
	src := t.source
	throttled := t.sampled && now.Sub(t.lastSample) < t.interval
	if throttled {
		t.dirty = true
	}
	t.mu.Unlock()
	if src == nil || throttled {
		return
	}
	t.publish(src, now)
}

func (t *Tracker) publish(src Source, now time.Time) {
	y := src.ScrollY()
	progress := Progress(y, src.DocumentHeight(), src.ViewportHeight())

	t.mu.Lock()
	prev := t.state.Get()
	dir := NextDirection(prev.Direction, t.lastY, y)
	t.lastY = y
	t.lastSample = now
	t.sampled = true
	t.dirty = false
	t.mu.Unlock()

	t.state.Set(State{ScrollY: y, Progress: progress, Direction: dir})
}
