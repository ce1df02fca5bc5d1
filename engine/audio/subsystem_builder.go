package audio

import (
	"github.com/Carmen-Shannon/oxy-scroll/engine/config"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

// SubsystemBuilderOption is a functional option used to configure a Subsystem during construction.
type SubsystemBuilderOption func(*subsystem)

// WithConfig applies the audio section of the app config: volumes, fade durations, sample
// rate, loader worker count and the initial enabled flag.
//
// Parameters:
//   - cfg: the audio config
//
// Returns:
//   - SubsystemBuilderOption: a function that applies the config to a subsystem
func WithConfig(cfg config.Audio) SubsystemBuilderOption {
	return func(s *subsystem) {
		if cfg.SampleRate > 0 {
			s.sampleRate = cfg.SampleRate
		}
		if cfg.Workers > 0 {
			s.workers = cfg.Workers
		}
		s.ambientVolume = cfg.AmbientVolume
		s.effectsVolume = cfg.EffectsVolume
		s.fadeIn = cfg.FadeIn
		s.fadeOut = cfg.FadeOut
		s.masterVolume = signal.NewValue(cfg.MasterVolume)
		s.isEnabled = signal.NewValue(cfg.Enabled)
	}
}

// WithOutputFactory replaces the device output, which defaults to NewEbitenOutput.
//
// Parameters:
//   - open: the factory opening the output
//
// Returns:
//   - SubsystemBuilderOption: a function that sets the output factory
func WithOutputFactory(open OutputFactory) SubsystemBuilderOption {
	return func(s *subsystem) {
		s.open = open
	}
}

// WithFetcher replaces the sound fetcher.
func WithFetcher(f Fetcher) SubsystemBuilderOption {
	return func(s *subsystem) {
		s.fetcher = f
	}
}

// WithExecutor replaces the worker pool that runs fetch and decode jobs.
func WithExecutor(submit func(fn func())) SubsystemBuilderOption {
	return func(s *subsystem) {
		s.submit = submit
	}
}
