package animation

import (
	"math"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-scroll/common"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
)

// velocityHold is how long, in seconds, a velocity estimate survives without
// a new scroll sample before it decays to zero.
const velocityHold = 0.1

// Bounds is the vertical extent of a trigger element within the document.
type Bounds struct {
	Top    float64
	Height float64
}

// TriggerSpec declares a scroll trigger.
type TriggerSpec struct {
	// Element is the trigger element. Nil means the whole document body.
	Element *Bounds
	// Start and End are "<element edge> <viewport edge>" markers such as
	// "top top", "bottom bottom" or "top 80%". End may also be "+=<px>",
	// relative to the resolved start. Defaults: "top bottom", "bottom top".
	Start string
	End   string
	// Scrub is the smoothing time constant in seconds. Zero tracks the raw
	// scroll position exactly.
	Scrub float64
	// OnUpdate runs whenever the effective progress changes.
	OnUpdate func(TriggerState)
	// OnToggle runs when the scroll position enters or leaves the span.
	OnToggle func(TriggerState)
}

// TriggerState is passed to trigger callbacks.
type TriggerState struct {
	// Progress is the smoothed progress through the start/end span.
	Progress float64
	// RawProgress is the unsmoothed progress of the latest sample.
	RawProgress float64
	// Velocity is the scroll speed in pixels per second.
	Velocity float64
	// ProgressVelocity is the rate of raw progress change per second.
	ProgressVelocity float64
	Direction        scroll.Direction
	IsActive         bool
}

// Trigger maps the scroll offset onto a progress value for a span of the
// document and reports it, optionally smoothed, to its callbacks.
type Trigger struct {
	spec TriggerSpec

	start float64
	end   float64

	scrollY     float64
	raw         float64
	progress    float64
	velocity    float64
	direction   scroll.Direction
	active      bool
	sinceSample float64
	sampled     bool
	killed      bool
}

func newTrigger(spec TriggerSpec) *Trigger {
	if spec.Start == "" {
		spec.Start = "top bottom"
	}
	if spec.End == "" {
		spec.End = "bottom top"
	}
	if spec.Scrub < 0 {
		spec.Scrub = 0
	}
	return &Trigger{spec: spec}
}

// Start returns the resolved start offset in pixels.
func (tr *Trigger) Start() float64 { return tr.start }

// End returns the resolved end offset in pixels.
func (tr *Trigger) End() float64 { return tr.end }

// Progress returns the effective (smoothed) progress.
func (tr *Trigger) Progress() float64 { return tr.progress }

// Kill detaches the trigger. No callback runs after Kill.
func (tr *Trigger) Kill() { tr.killed = true }

// Killed reports whether Kill has been called.
func (tr *Trigger) Killed() bool { return tr.killed }

func (tr *Trigger) state() TriggerState {
	span := tr.end - tr.start
	pv := 0.0
	if span > 0 {
		pv = tr.velocity / span
	}
	return TriggerState{
		Progress:         tr.progress,
		RawProgress:      tr.raw,
		Velocity:         tr.velocity,
		ProgressVelocity: pv,
		Direction:        tr.direction,
		IsActive:         tr.active,
	}
}

// refresh resolves the markers against the current document size.
func (tr *Trigger) refresh(documentHeight, viewportHeight float64) {
	el := Bounds{Top: 0, Height: documentHeight}
	if tr.spec.Element != nil {
		el = *tr.spec.Element
	}
	tr.start = resolveMarker(tr.spec.Start, el, viewportHeight)
	if rel, ok := strings.CutPrefix(strings.TrimSpace(tr.spec.End), "+="); ok {
		px, err := strconv.ParseFloat(strings.TrimSuffix(rel, "px"), 64)
		if err != nil {
			logger.Logger().Warn("invalid trigger end marker", "end", tr.spec.End)
		}
		tr.end = tr.start + px
	} else {
		tr.end = resolveMarker(tr.spec.End, el, viewportHeight)
	}
	tr.raw = tr.rawAt(tr.scrollY)
}

func (tr *Trigger) rawAt(y float64) float64 {
	if tr.end <= tr.start {
		if y >= tr.start {
			return 1
		}
		return 0
	}
	return common.Clamp((y-tr.start)/(tr.end-tr.start), 0, 1)
}

// sample feeds a scroll sample. dt is the time since the previous sample in
// seconds; frozen suppresses progress updates.
func (tr *Trigger) sample(st scroll.State, dt float64, frozen bool) {
	if tr.killed {
		return
	}
	if tr.sampled && dt > 0 {
		tr.velocity = (st.ScrollY - tr.scrollY) / dt
	}
	tr.sampled = true
	tr.sinceSample = 0
	tr.scrollY = st.ScrollY
	tr.direction = st.Direction
	tr.raw = tr.rawAt(st.ScrollY)

	active := st.ScrollY >= tr.start && st.ScrollY <= tr.end
	if active != tr.active {
		tr.active = active
		if tr.spec.OnToggle != nil {
			tr.spec.OnToggle(tr.state())
		}
	}

	if frozen || tr.spec.Scrub > 0 {
		return
	}
	tr.setProgress(tr.raw)
}

// advance applies scrub smoothing for dt seconds.
func (tr *Trigger) advance(dt float64, frozen bool) {
	if tr.killed || dt <= 0 {
		return
	}
	tr.sinceSample += dt
	if tr.sinceSample > velocityHold {
		tr.velocity = 0
	}
	if frozen || tr.spec.Scrub <= 0 || tr.progress == tr.raw {
		return
	}
	next := tr.progress + (tr.raw-tr.progress)*(1-math.Exp(-dt/tr.spec.Scrub))
	if math.Abs(tr.raw-next) < 1e-4 {
		next = tr.raw
	}
	tr.setProgress(next)
}

func (tr *Trigger) setProgress(p float64) {
	if p == tr.progress {
		return
	}
	tr.progress = p
	if tr.spec.OnUpdate != nil {
		tr.spec.OnUpdate(tr.state())
	}
}

// resolveMarker converts "<element edge> <viewport edge>" into the scroll
// offset at which the two edges meet.
func resolveMarker(marker string, el Bounds, viewportHeight float64) float64 {
	fields := strings.Fields(marker)
	elemEdge, viewEdge := "top", "top"
	if len(fields) > 0 {
		elemEdge = fields[0]
	}
	if len(fields) > 1 {
		viewEdge = fields[1]
	}
	return el.Top + edgeOffset(elemEdge, el.Height) - edgeOffset(viewEdge, viewportHeight)
}

func edgeOffset(edge string, size float64) float64 {
	switch edge {
	case "top":
		return 0
	case "center":
		return size / 2
	case "bottom":
		return size
	}
	if pct, ok := strings.CutSuffix(edge, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err == nil {
			return size * v / 100
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(edge, "px"), 64)
	if err != nil {
		logger.Logger().Warn("invalid trigger marker edge", "edge", edge)
		return 0
	}
	return v
}
