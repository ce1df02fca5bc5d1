package animation

import (
	"github.com/Carmen-Shannon/oxy-scroll/common"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween is a one-shot animation of a single target, created by the
// orchestrator's To, From and Set.
type Tween struct {
	target   Target
	keys     []string
	start    Props
	end      Props
	duration float64
	curve    ease.TweenFunc

	delay      float64
	tweens     []*gween.Tween
	started    bool
	done       bool
	killed     bool
	onComplete func()
}

func newTween(target Target, start, end Props, vars TweenVars, fallbackEase string) *Tween {
	curve, ok := Easing(common.Coalesce(vars.Ease, fallbackEase))
	if !ok {
		logger.Logger().Warn("unknown ease, using linear", "ease", vars.Ease)
	}
	return &Tween{
		target:     target,
		keys:       end.keys(),
		start:      start,
		end:        end,
		duration:   max(vars.Duration, 0),
		curve:      curve,
		delay:      max(vars.Delay, 0),
		onComplete: vars.OnComplete,
	}
}

// Done reports whether the tween finished or was killed.
func (tw *Tween) Done() bool { return tw.done || tw.killed }

// Kill stops the tween where it is.
func (tw *Tween) Kill() { tw.killed = true }

func (tw *Tween) begin() {
	tw.started = true
	tw.tweens = make([]*gween.Tween, len(tw.keys))
	for i, key := range tw.keys {
		from, ok := tw.start[key]
		if !ok {
			from, _ = tw.target.Property(key)
		}
		tw.tweens[i] = gween.New(float32(from), float32(tw.end[key]), float32(tw.duration), tw.curve)
	}
}

func (tw *Tween) finish() {
	for _, key := range tw.keys {
		tw.target.SetProperty(key, tw.end[key])
	}
	tw.done = true
	if tw.onComplete != nil {
		tw.onComplete()
	}
}

// update advances the tween by dt seconds.
func (tw *Tween) update(dt float64) {
	if tw.Done() {
		return
	}
	if tw.delay > 0 {
		tw.delay -= dt
		if tw.delay > 0 {
			return
		}
		dt = -tw.delay
		tw.delay = 0
	}
	if !tw.started {
		if tw.duration == 0 {
			tw.finish()
			return
		}
		tw.begin()
	}

	finished := true
	for i, key := range tw.keys {
		v, done := tw.tweens[i].Update(float32(dt))
		tw.target.SetProperty(key, float64(v))
		finished = finished && done
	}
	if finished {
		tw.finish()
	}
}
