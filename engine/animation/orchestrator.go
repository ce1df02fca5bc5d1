// Package animation sequences property tweens on timelines and maps scroll
// position onto scrubbed trigger progress.
package animation

import (
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
)

// ScrollSource publishes scroll samples.
type ScrollSource interface {
	State() scroll.State
	Subscribe(fn func(scroll.State)) (unsubscribe func())
}

// Layout reports the document geometry triggers resolve against.
type Layout interface {
	DocumentHeight() float64
	ViewportHeight() float64
}

// Orchestrator owns every timeline, one-shot tween and scroll trigger in the
// stage. It is driven by the frame scheduler and is not safe for concurrent
// use; all calls happen on the main goroutine.
type Orchestrator struct {
	defaultEase string
	timeScale   float64
	now         func() time.Time

	timelines map[string]*Timeline
	order     []*Timeline
	tweens    []*Tween
	triggers  []*Trigger

	source      ScrollSource
	layout      Layout
	unsubscribe func()
	lastSample  time.Time

	scrollLoop *frame.Loop
	animLoop   *frame.Loop
}

// NewOrchestrator creates an Orchestrator that is not yet attached to a
// scheduler. Advance may be called directly until Initialize is.
//
// Parameters:
//   - options: functional options (default ease, reduced motion, clock)
//
// Returns:
//   - *Orchestrator: the new orchestrator
func NewOrchestrator(options ...OrchestratorBuilderOption) *Orchestrator {
	o := &Orchestrator{
		defaultEase: "power1.out",
		timeScale:   1,
		now:         time.Now,
		timelines:   make(map[string]*Timeline),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Initialize attaches the orchestrator to the frame scheduler and the scroll
// stream. Triggers are smoothed in the scroll phase, timelines and tweens
// advance in the animation phase. A second call warns and does nothing.
//
// Parameters:
//   - sched: the frame scheduler
//   - source: the scroll sample stream
//   - layout: the document geometry
func (o *Orchestrator) Initialize(sched *frame.Scheduler, source ScrollSource, layout Layout) {
	if o.scrollLoop != nil {
		logger.Logger().Warn("animation orchestrator already initialized")
		return
	}
	o.source = source
	o.layout = layout
	if source != nil {
		o.unsubscribe = source.Subscribe(o.onScroll)
	}
	o.Refresh()

	if sched != nil {
		o.scrollLoop = frame.NewLoop(sched, frame.PhaseScroll, func(info frame.Info) {
			o.advanceTriggers(info.DeltaSeconds())
		})
		o.animLoop = frame.NewLoop(sched, frame.PhaseAnimation, func(info frame.Info) {
			o.advanceAnimations(info.DeltaSeconds())
		})
		o.scrollLoop.Start()
		o.animLoop.Start()
	}
}

// SetReducedMotion freezes (true) or resumes (false) every timeline, tween
// and scrubbed trigger.
func (o *Orchestrator) SetReducedMotion(reduced bool) {
	if reduced {
		o.timeScale = 0
		return
	}
	o.timeScale = 1
}

// ReducedMotion reports whether animation is frozen.
func (o *Orchestrator) ReducedMotion() bool { return o.timeScale == 0 }

// SetTimeScale sets the global playback rate. Negative values are treated as 0.
func (o *Orchestrator) SetTimeScale(scale float64) { o.timeScale = max(scale, 0) }

// TimeScale returns the global playback rate.
func (o *Orchestrator) TimeScale() float64 { return o.timeScale }

// CreateTimeline registers a new timeline under key. An existing live
// timeline with the same key is killed first.
//
// Parameters:
//   - key: registry key
//   - opts: timeline options
//
// Returns:
//   - *Timeline: the new timeline
func (o *Orchestrator) CreateTimeline(key string, opts TimelineOptions) *Timeline {
	if old, ok := o.timelines[key]; ok && !old.Killed() {
		logger.Logger().Debug("replacing timeline", "timeline", key)
		old.Kill()
	}
	tl := newTimeline(key, opts, o.defaultEase)
	o.timelines[key] = tl
	o.order = append(o.order, tl)
	return tl
}

// Timeline looks up a live timeline by key.
func (o *Orchestrator) Timeline(key string) (*Timeline, bool) {
	tl, ok := o.timelines[key]
	if !ok || tl.Killed() {
		return nil, false
	}
	return tl, true
}

// KillTimeline kills and unregisters the timeline under key. Unknown keys are ignored.
func (o *Orchestrator) KillTimeline(key string) {
	tl, ok := o.timelines[key]
	if !ok {
		return
	}
	tl.Kill()
	delete(o.timelines, key)
}

// KillAllTimelines kills and unregisters every timeline.
func (o *Orchestrator) KillAllTimelines() {
	for key, tl := range o.timelines {
		tl.Kill()
		delete(o.timelines, key)
	}
	for _, tl := range o.order {
		tl.Kill()
	}
	o.order = nil
}

// TimelineCount returns the number of live timelines.
func (o *Orchestrator) TimelineCount() int {
	n := 0
	for _, tl := range o.timelines {
		if !tl.Killed() {
			n++
		}
	}
	return n
}

// CreateScrollTrigger registers a trigger and resolves it against the
// current layout and scroll position. A non-zero starting progress is
// reported immediately.
func (o *Orchestrator) CreateScrollTrigger(spec TriggerSpec) *Trigger {
	tr := newTrigger(spec)
	if o.layout != nil {
		tr.refresh(o.layout.DocumentHeight(), o.layout.ViewportHeight())
	}
	if o.source != nil {
		st := o.source.State()
		tr.sample(st, 0, false)
		if tr.spec.Scrub > 0 {
			tr.setProgress(tr.raw)
		}
	}
	o.triggers = append(o.triggers, tr)
	return tr
}

// TriggerCount returns the number of live triggers.
func (o *Orchestrator) TriggerCount() int {
	n := 0
	for _, tr := range o.triggers {
		if !tr.Killed() {
			n++
		}
	}
	return n
}

// Refresh re-resolves every trigger against the current document geometry.
func (o *Orchestrator) Refresh() {
	if o.layout == nil {
		return
	}
	doc, view := o.layout.DocumentHeight(), o.layout.ViewportHeight()
	for _, tr := range o.triggers {
		if !tr.Killed() {
			tr.refresh(doc, view)
		}
	}
}

// To tweens target from its current values to props.
func (o *Orchestrator) To(target Target, vars TweenVars) *Tween {
	return o.addTween(newTween(target, nil, vars.Props, vars, o.defaultEase))
}

// From sets target to props immediately and tweens back to the values it
// had before the call.
func (o *Orchestrator) From(target Target, vars TweenVars) *Tween {
	end := make(Props, len(vars.Props))
	for key, v := range vars.Props {
		cur, ok := target.Property(key)
		if !ok {
			cur = v
		}
		end[key] = cur
		target.SetProperty(key, v)
	}
	return o.addTween(newTween(target, vars.Props, end, vars, o.defaultEase))
}

// Set writes props to target immediately.
func (o *Orchestrator) Set(target Target, props Props) {
	for _, key := range props.keys() {
		target.SetProperty(key, props[key])
	}
}

// ActiveTweens returns the number of unfinished one-shot tweens.
func (o *Orchestrator) ActiveTweens() int {
	n := 0
	for _, tw := range o.tweens {
		if !tw.Done() {
			n++
		}
	}
	return n
}

func (o *Orchestrator) addTween(tw *Tween) *Tween {
	o.tweens = append(o.tweens, tw)
	return tw
}

// Advance runs one frame of dt: trigger smoothing first, then timelines and
// tweens. The frame loops call the two halves separately.
func (o *Orchestrator) Advance(dt time.Duration) {
	o.advanceTriggers(dt.Seconds())
	o.advanceAnimations(dt.Seconds())
}

func (o *Orchestrator) advanceTriggers(dt float64) {
	frozen := o.ReducedMotion()
	for _, tr := range slices.Clone(o.triggers) {
		tr.advance(dt, frozen)
	}
	o.triggers = slices.DeleteFunc(o.triggers, (*Trigger).Killed)
}

func (o *Orchestrator) advanceAnimations(dt float64) {
	scaled := dt * o.timeScale

	for _, tl := range slices.Clone(o.order) {
		tl.advance(scaled)
	}
	o.order = slices.DeleteFunc(o.order, (*Timeline).Killed)

	for _, tw := range slices.Clone(o.tweens) {
		tw.update(scaled)
	}
	o.tweens = slices.DeleteFunc(o.tweens, (*Tween).Done)
}

func (o *Orchestrator) onScroll(st scroll.State) {
	now := o.now()
	dt := 0.0
	if !o.lastSample.IsZero() {
		dt = now.Sub(o.lastSample).Seconds()
	}
	o.lastSample = now

	frozen := o.ReducedMotion()
	for _, tr := range slices.Clone(o.triggers) {
		tr.sample(st, dt, frozen)
	}
}

// DisposeAll kills every timeline, tween and trigger.
func (o *Orchestrator) DisposeAll() {
	o.KillAllTimelines()
	for _, tw := range o.tweens {
		tw.Kill()
	}
	o.tweens = nil
	for _, tr := range o.triggers {
		tr.Kill()
	}
	o.triggers = nil
}

// Dispose kills everything, detaches from the scroll stream and stops the
// frame loops. The orchestrator may be initialized again.
func (o *Orchestrator) Dispose() {
	o.DisposeAll()
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	if o.scrollLoop != nil {
		o.scrollLoop.Stop()
		o.animLoop.Stop()
		o.scrollLoop, o.animLoop = nil, nil
	}
	o.source, o.layout = nil, nil
	o.lastSample = time.Time{}
}
