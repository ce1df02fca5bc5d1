package animation

import (
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-scroll/common"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/tanema/gween/ease"
)

// TweenVars describes one tween: the property targets plus timing.
type TweenVars struct {
	Props Props
	// Duration in seconds. Zero applies the values immediately.
	Duration float64
	// Ease is a GSAP-style curve name; empty uses the owner's default.
	Ease string
	// Stagger offsets each subsequent target's start, in seconds.
	Stagger float64
	// Delay postpones the start, in seconds.
	Delay float64
	// OnComplete runs once when every target has finished.
	OnComplete func()
}

// TimelineOptions configures a new Timeline.
type TimelineOptions struct {
	Paused      bool
	Delay       float64
	DefaultEase string
	OnComplete  func()
}

type step struct {
	targets  []Target
	keys     []string
	to       Props
	duration float64
	stagger  float64
	curve    ease.TweenFunc
	start    float64

	from [][]float64
	done []bool
}

func (s *step) end() float64 {
	return s.start + s.duration + s.stagger*float64(max(len(s.targets)-1, 0))
}

func (s *step) render(playhead float64) {
	for i, target := range s.targets {
		if s.done[i] {
			continue
		}
		localStart := s.start + s.stagger*float64(i)
		if playhead < localStart {
			continue
		}
		if s.from[i] == nil {
			s.from[i] = make([]float64, len(s.keys))
			for k, key := range s.keys {
				v, _ := target.Property(key)
				s.from[i][k] = v
			}
		}

		t := 1.0
		if s.duration > 0 {
			t = common.Clamp((playhead-localStart)/s.duration, 0, 1)
		}
		e := applyEase(s.curve, t)
		for k, key := range s.keys {
			target.SetProperty(key, common.Lerp(s.from[i][k], s.to[key], e))
		}
		if t >= 1 {
			s.done[i] = true
		}
	}
}

// rewind restores every target this step has touched to its captured start
// value and forgets the capture.
func (s *step) rewind() {
	for i, target := range s.targets {
		if s.from[i] != nil {
			for k, key := range s.keys {
				target.SetProperty(key, s.from[i][k])
			}
		}
		s.from[i] = nil
		s.done[i] = false
	}
}

// Timeline sequences tween steps on a single playhead. Steps are placed on
// the timeline as they are added; the playhead advances with the
// orchestrator's frame clock.
type Timeline struct {
	key         string
	defaultEase string

	steps     []*step
	cursor    float64
	lastStart float64

	playhead   float64
	paused     bool
	killed     bool
	completed  bool
	onComplete func()
}

func newTimeline(key string, opts TimelineOptions, fallbackEase string) *Timeline {
	return &Timeline{
		key:         key,
		defaultEase: common.Coalesce(opts.DefaultEase, fallbackEase, "power1.out"),
		playhead:    -max(opts.Delay, 0),
		paused:      opts.Paused,
		onComplete:  opts.OnComplete,
	}
}

// Key returns the registry key.
func (tl *Timeline) Key() string { return tl.key }

// To appends a step that animates every target's properties from their
// value at step start to vars.Props.
//
// Parameters:
//   - targets: the objects to animate
//   - vars: property targets and timing
//   - position: "" to append, "+=x"/"-=x" relative to the current end,
//     "<" to align with the previous step's start, or an absolute time
//
// Returns:
//   - *Timeline: the timeline, for chaining
func (tl *Timeline) To(targets []Target, vars TweenVars, position string) *Timeline {
	if tl.killed {
		return tl
	}
	curve, ok := Easing(common.Coalesce(vars.Ease, tl.defaultEase))
	if !ok {
		logger.Logger().Warn("unknown ease, using linear", "timeline", tl.key, "ease", vars.Ease)
	}

	s := &step{
		targets:  targets,
		keys:     vars.Props.keys(),
		to:       vars.Props,
		duration: max(vars.Duration, 0),
		stagger:  max(vars.Stagger, 0),
		curve:    curve,
		start:    max(tl.resolvePosition(position)+max(vars.Delay, 0), 0),
		from:     make([][]float64, len(targets)),
		done:     make([]bool, len(targets)),
	}
	tl.steps = append(tl.steps, s)
	tl.lastStart = s.start
	tl.cursor = max(tl.cursor, s.end())
	tl.completed = false
	return tl
}

// Set appends a zero-duration step.
func (tl *Timeline) Set(targets []Target, props Props, position string) *Timeline {
	return tl.To(targets, TweenVars{Props: props}, position)
}

func (tl *Timeline) resolvePosition(position string) float64 {
	position = strings.TrimSpace(position)
	switch {
	case position == "" || position == ">":
		return tl.cursor
	case position == "<":
		return tl.lastStart
	case strings.HasPrefix(position, "+="), strings.HasPrefix(position, "-="):
		offset, err := strconv.ParseFloat(position[2:], 64)
		if err != nil {
			logger.Logger().Warn("invalid timeline position", "timeline", tl.key, "position", position)
			return tl.cursor
		}
		if position[0] == '-' {
			offset = -offset
		}
		return tl.cursor + offset
	default:
		at, err := strconv.ParseFloat(position, 64)
		if err != nil {
			logger.Logger().Warn("invalid timeline position", "timeline", tl.key, "position", position)
			return tl.cursor
		}
		return at
	}
}

// Duration returns the end time of the last step, in seconds.
func (tl *Timeline) Duration() float64 { return tl.cursor }

// Time returns the playhead position, in seconds. Negative while delayed.
func (tl *Timeline) Time() float64 { return tl.playhead }

// Progress returns the playhead as a fraction of Duration.
func (tl *Timeline) Progress() float64 {
	if tl.cursor <= 0 {
		if tl.completed {
			return 1
		}
		return 0
	}
	return common.Clamp(tl.playhead/tl.cursor, 0, 1)
}

// Play resumes a paused timeline.
func (tl *Timeline) Play() { tl.paused = false }

// Pause stops the playhead without discarding state.
func (tl *Timeline) Pause() { tl.paused = true }

// Paused reports whether the timeline is paused.
func (tl *Timeline) Paused() bool { return tl.paused }

// Completed reports whether the playhead has reached the end.
func (tl *Timeline) Completed() bool { return tl.completed }

// Kill stops playback permanently. Targets keep their current values.
func (tl *Timeline) Kill() {
	tl.killed = true
	tl.steps = nil
}

// Killed reports whether Kill has been called.
func (tl *Timeline) Killed() bool { return tl.killed }

// Seek moves the playhead to t seconds and renders every step reached.
// Seeking backward rewinds the targets first, so the state at t does not
// depend on where the playhead was.
func (tl *Timeline) Seek(t float64) {
	if tl.killed {
		return
	}
	if t < tl.playhead {
		// Latest steps first so shared properties end up at their earliest capture.
		for i := len(tl.steps) - 1; i >= 0; i-- {
			tl.steps[i].rewind()
		}
		tl.completed = false
	}
	tl.playhead = t
	tl.render()
}

func (tl *Timeline) advance(dt float64) {
	if tl.killed || tl.paused || tl.completed || dt <= 0 {
		return
	}
	tl.playhead += dt
	tl.render()
}

func (tl *Timeline) render() {
	if tl.playhead < 0 {
		return
	}
	for _, s := range tl.steps {
		s.render(tl.playhead)
	}
	if tl.playhead >= tl.cursor && !tl.completed {
		tl.completed = true
		if tl.onComplete != nil {
			tl.onComplete()
		}
	}
}
