package home

import (
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine/audio"
	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

// AmbientSound is the id the breathing loop is stored under.
const AmbientSound = "breath"

const soundFadeIn = 2000 * time.Millisecond

// Sound starts the home soundscape on the first user gesture: it opens the audio output,
// starts the ambient loop when a source is configured and fades the master gain in.
type Sound struct {
	audio   audio.Subsystem
	gesture *signal.Emitter
	sched   *frame.Scheduler
	source  string

	unsubscribe func()
	pending     <-chan error
	poll        *frame.Loop
	started     bool
}

// NewSound creates the home sound module. Panics if sub, gesture or sched is nil.
//
// Parameters:
//   - sub: the audio subsystem
//   - gesture: fires on every user click, wheel or key press
//   - sched: the frame scheduler the ambient load is awaited on
//   - ambientSource: file path or URL of the ambient loop, empty for none
//
// Returns:
//   - *Sound: the sound module
func NewSound(sub audio.Subsystem, gesture *signal.Emitter, sched *frame.Scheduler, ambientSource string) *Sound {
	if sub == nil || gesture == nil || sched == nil {
		panic("home: NewSound requires an audio subsystem, a gesture emitter and a scheduler")
	}
	return &Sound{audio: sub, gesture: gesture, sched: sched, source: ambientSource}
}

// Init arms the gesture gate. When audio was already opened by an earlier page the gate is
// skipped and the soundscape starts immediately.
func (s *Sound) Init() {
	if s.started || s.unsubscribe != nil {
		logger.Logger().Warn("home sound already initialized", "component", "home")
		return
	}
	if s.audio.Initialized() {
		s.start()
		return
	}
	s.unsubscribe = s.gesture.Subscribe(s.onGesture)
}

func (s *Sound) onGesture() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.start()
}

func (s *Sound) start() {
	if s.started {
		return
	}
	s.started = true
	if err := s.audio.Initialize(); err != nil {
		logger.Logger().Warn("audio unavailable", "component", "home", "error", err)
		return
	}

	if s.source != "" {
		if s.audio.Loaded(AmbientSound) {
			s.audio.PlayAmbient(AmbientSound)
		} else {
			s.pending = s.audio.LoadSound(AmbientSound, s.source)
			s.poll = frame.NewLoop(s.sched, frame.PhaseUpdate, s.awaitAmbient)
			s.poll.Start()
		}
	}
	s.audio.FadeIn(soundFadeIn)
}

// awaitAmbient checks once per frame whether the ambient load finished.
func (s *Sound) awaitAmbient(frame.Info) {
	select {
	case err := <-s.pending:
		s.poll.Stop()
		s.pending = nil
		if err != nil {
			return
		}
		s.audio.PlayAmbient(AmbientSound)
	default:
	}
}

// Started reports whether the gesture gate has opened.
func (s *Sound) Started() bool { return s.started }

// Dispose removes the gesture listener, abandons a pending ambient load and stops the loop.
// The audio output stays open for the next page.
func (s *Sound) Dispose() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
	s.pending = nil
	if s.started && s.source != "" {
		s.audio.StopAmbient(AmbientSound)
	}
}
