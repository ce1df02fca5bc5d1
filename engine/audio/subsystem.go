package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-scroll/common"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

var (
	// ErrNotInitialized is reported when an operation needs the audio context before Initialize.
	ErrNotInitialized = errors.New("audio: not initialized")

	// ErrNotLoaded is reported when a sound id has no decoded buffer.
	ErrNotLoaded = errors.New("audio: sound not loaded")
)

// Poster runs a function on the main goroutine. frame.Scheduler satisfies it.
type Poster interface {
	Post(fn func())
}

// subsystem is the implementation of the Subsystem interface.
type subsystem struct {
	mu *sync.Mutex

	poster  Poster
	fetcher Fetcher
	open    OutputFactory
	submit  func(fn func())

	sampleRate    int
	ambientVolume float64
	effectsVolume float64
	fadeIn        time.Duration
	fadeOut       time.Duration

	output     Output
	mixer      *Mixer
	buffers    map[string]*Buffer
	ambient    map[string]uint64
	generation uint64
	workers    int
	nextTaskID int

	isEnabled    *signal.Value[bool]
	isMuted      *signal.Value[bool]
	masterVolume *signal.Value[float64]
}

// Subsystem is the audio graph of the application: one output context, a master gain and
// ambient and effects buses feeding it, a table of decoded buffers and the set of looping
// ambient sources.
type Subsystem interface {
	// Initialize opens the output context and builds the gain graph with the configured
	// volumes. Call it from a user gesture handler; desktop hosts do not require it but the
	// gesture gate keeps sound from starting unprompted. A second call warns and returns nil.
	//
	// Returns:
	//   - error: a wrapped output error, in which case the subsystem stays uninitialized
	Initialize() error

	// Initialized reports whether the output context is open.
	Initialized() bool

	// LoadSound fetches and decodes source off the main goroutine and stores the buffer
	// under id on the main goroutine. Failures are logged and leave id absent.
	//
	// Parameters:
	//   - id: the key the buffer is stored under
	//   - source: a file path or http(s) URL of a WAV, MP3 or Ogg Vorbis file
	//
	// Returns:
	//   - <-chan error: receives exactly one value (nil on success) and is then closed
	LoadSound(id, source string) <-chan error

	// Loaded reports whether id has a decoded buffer.
	Loaded(id string) bool

	// PlayAmbient starts id looping on the ambient bus, replacing an existing source for id.
	// No-op when muted or uninitialized, warns when id is not loaded.
	PlayAmbient(id string)

	// StopAmbient stops the looping source for id if there is one.
	StopAmbient(id string)

	// PlayEffect plays id once on the effects bus. No-op when muted or uninitialized,
	// warns when id is not loaded.
	PlayEffect(id string)

	// ToggleMute flips the mute state and sets the master gain to 0 or the master volume
	// immediately, cancelling any fade.
	ToggleMute()

	// SetMasterVolume clamps v to [0, 1], publishes it and applies it when not muted.
	SetMasterVolume(v float64)

	// FadeIn ramps the master gain linearly from 0 to the master volume over d on the audio
	// clock. A zero d uses the configured duration. No-op when muted or uninitialized.
	FadeIn(d time.Duration)

	// FadeOut ramps the master gain linearly from its current value to 0 over d on the audio
	// clock. A zero d uses the configured duration. No-op when muted or uninitialized.
	FadeOut(d time.Duration)

	// Dispose stops every source, closes the output and clears the buffers. Initialize may
	// be called again afterwards.
	Dispose()

	// Mixer returns the live mixer, or nil when uninitialized.
	Mixer() *Mixer

	IsEnabled() *signal.Value[bool]
	IsMuted() *signal.Value[bool]
	MasterVolume() *signal.Value[float64]
}

var _ Subsystem = &subsystem{}

// NewSubsystem creates an uninitialized audio subsystem. Load continuations are posted
// through poster. Panics if poster is nil.
//
// Parameters:
//   - poster: runs continuations on the main goroutine
//   - options: functional options applied to the subsystem
//
// Returns:
//   - Subsystem: the new subsystem
func NewSubsystem(poster Poster, options ...SubsystemBuilderOption) Subsystem {
	if poster == nil {
		panic("audio: NewSubsystem requires a poster")
	}
	s := &subsystem{
		mu:            &sync.Mutex{},
		poster:        poster,
		fetcher:       NewFetcher(nil),
		open:          NewEbitenOutput,
		sampleRate:    44100,
		ambientVolume: 0.3,
		effectsVolume: 0.7,
		fadeIn:        2000 * time.Millisecond,
		fadeOut:       1000 * time.Millisecond,
		buffers:       make(map[string]*Buffer),
		ambient:       make(map[string]uint64),
		isEnabled:     signal.NewValue(false),
		isMuted:       signal.NewValue(false),
		masterVolume:  signal.NewValue(0.5),
		workers:       2,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.submit == nil {
		pool := worker.NewDynamicWorkerPool(max(s.workers, 1), 256, 1*time.Second)
		s.submit = func(fn func()) {
			s.mu.Lock()
			s.nextTaskID++
			id := s.nextTaskID
			s.mu.Unlock()
			pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					fn()
					return nil, nil
				},
			})
		}
	}
	return s
}

func (s *subsystem) Initialize() error {
	s.mu.Lock()
	if s.mixer != nil {
		s.mu.Unlock()
		logger.Logger().Warn("audio context already initialized", "component", "audio")
		return nil
	}

	out, err := s.open(s.sampleRate)
	if err != nil {
		s.mu.Unlock()
		logger.Logger().Error("failed to initialize audio context", "component", "audio", "err", err)
		return fmt.Errorf("audio: open output: %w", err)
	}

	m := NewMixer(s.sampleRate)
	m.SetBusGain(BusAmbient, s.ambientVolume)
	m.SetBusGain(BusEffects, s.effectsVolume)
	if s.isMuted.Get() {
		m.SetMasterGain(0)
	} else {
		m.SetMasterGain(s.masterVolume.Get())
	}

	if err := out.Start(m); err != nil {
		s.mu.Unlock()
		_ = out.Close()
		logger.Logger().Error("failed to start audio output", "component", "audio", "err", err)
		return fmt.Errorf("audio: start output: %w", err)
	}
	s.output = out
	s.mixer = m
	s.mu.Unlock()

	s.isEnabled.Set(true)
	logger.Logger().Info("audio context initialized", "component", "audio", "sample_rate", s.sampleRate)
	return nil
}

func (s *subsystem) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixer != nil
}

func (s *subsystem) LoadSound(id, source string) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	if s.mixer == nil {
		s.mu.Unlock()
		logger.Logger().Warn("audio context not initialized", "component", "audio", "op", "LoadSound", "sound", id)
		done <- ErrNotInitialized
		close(done)
		return done
	}
	gen := s.generation
	sampleRate := s.sampleRate
	fetcher := s.fetcher
	s.mu.Unlock()

	s.submit(func() {
		var buf *Buffer
		data, err := fetcher.Fetch(context.Background(), source)
		if err == nil {
			buf, err = Decode(source, data, sampleRate)
		}

		s.poster.Post(func() {
			defer close(done)
			if err != nil {
				logger.Logger().Error("failed to load sound", "component", "audio", "sound", id, "err", err)
				done <- err
				return
			}

			s.mu.Lock()
			stale := s.mixer == nil || s.generation != gen
			if !stale {
				s.buffers[id] = buf
			}
			s.mu.Unlock()

			if stale {
				done <- ErrNotInitialized
				return
			}
			logger.Logger().Info("loaded sound", "component", "audio", "sound", id, "seconds", buf.Duration())
			done <- nil
		})
	})
	return done
}

func (s *subsystem) Loaded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buffers[id]
	return ok
}

func (s *subsystem) PlayAmbient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mixer == nil || s.isMuted.Get() {
		return
	}
	buf, ok := s.buffers[id]
	if !ok {
		logger.Logger().Warn("sound not loaded", "component", "audio", "sound", id)
		return
	}

	s.stopAmbientLocked(id)
	s.ambient[id] = s.mixer.Start(buf, BusAmbient, true)
}

func (s *subsystem) StopAmbient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAmbientLocked(id)
}

func (s *subsystem) stopAmbientLocked(id string) {
	voice, ok := s.ambient[id]
	if !ok {
		return
	}
	if s.mixer != nil {
		s.mixer.Stop(voice)
	}
	delete(s.ambient, id)
}

func (s *subsystem) PlayEffect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mixer == nil || s.isMuted.Get() {
		return
	}
	buf, ok := s.buffers[id]
	if !ok {
		logger.Logger().Warn("sound not loaded", "component", "audio", "sound", id)
		return
	}
	s.mixer.Start(buf, BusEffects, false)
}

func (s *subsystem) ToggleMute() {
	muted := !s.isMuted.Get()
	s.isMuted.Set(muted)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mixer == nil {
		return
	}
	if muted {
		s.mixer.SetMasterGain(0)
	} else {
		s.mixer.SetMasterGain(s.masterVolume.Get())
	}
}

func (s *subsystem) SetMasterVolume(v float64) {
	v = common.Clamp(v, 0, 1)
	s.masterVolume.Set(v)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mixer != nil && !s.isMuted.Get() {
		s.mixer.SetMasterGain(v)
	}
}

func (s *subsystem) FadeIn(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mixer == nil || s.isMuted.Get() {
		return
	}
	if d <= 0 {
		d = s.fadeIn
	}
	s.mixer.RampMaster(0, s.masterVolume.Get(), s.frames(d))
}

func (s *subsystem) FadeOut(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mixer == nil || s.isMuted.Get() {
		return
	}
	if d <= 0 {
		d = s.fadeOut
	}
	s.mixer.RampMaster(s.mixer.MasterGain(), 0, s.frames(d))
}

// frames converts a duration to sample frames at the output rate.
func (s *subsystem) frames(d time.Duration) int64 {
	return int64(d.Seconds() * float64(s.sampleRate))
}

func (s *subsystem) Dispose() {
	s.mu.Lock()
	if s.mixer == nil {
		s.mu.Unlock()
		return
	}
	s.mixer.StopAll()
	clear(s.ambient)
	clear(s.buffers)
	out := s.output
	s.output = nil
	s.mixer = nil
	s.generation++
	s.mu.Unlock()

	if err := out.Close(); err != nil {
		logger.Logger().Warn("closing audio output", "component", "audio", "err", err)
	}
	s.isEnabled.Set(false)
	logger.Logger().Info("audio subsystem disposed", "component", "audio")
}

func (s *subsystem) Mixer() *Mixer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixer
}

func (s *subsystem) IsEnabled() *signal.Value[bool] {
	return s.isEnabled
}

func (s *subsystem) IsMuted() *signal.Value[bool] {
	return s.isMuted
}

func (s *subsystem) MasterVolume() *signal.Value[float64] {
	return s.masterVolume
}
