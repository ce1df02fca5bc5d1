package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine/audio"
	"github.com/Carmen-Shannon/oxy-scroll/engine/overlay"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scroll/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output, overriding the
// config's ShowFPS flag.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the host window the engine draws into and reads input from.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithClock replaces the wall clock used by the scheduler, scroll tracker, orchestrator,
// profiler and resize throttle.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSleep replaces time.Sleep in the frame limiter.
func WithSleep(sleep func(time.Duration)) EngineBuilderOption {
	return func(e *engine) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// WithSurfaceOptions appends options to the render surface, after the rendering config.
//
// Parameters:
//   - options: surface options such as renderer.WithBackendFactory
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurfaceOptions(options ...renderer.SurfaceBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.surfaceOptions = append(e.surfaceOptions, options...)
	}
}

// WithAudioOptions appends options to the audio subsystem, after the audio config.
func WithAudioOptions(options ...audio.SubsystemBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.audioOptions = append(e.audioOptions, options...)
	}
}

// WithOverlay sets the overlay layer shared with behaviors. Include CanvasElement among its
// elements to get the canvas fade-in.
//
// Parameters:
//   - layer: the overlay layer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithOverlay(layer *overlay.Layer) EngineBuilderOption {
	return func(e *engine) {
		e.overlay = layer
	}
}

// WithBehavior registers a behavior during engine construction. See Engine.RegisterBehavior.
//
// Parameters:
//   - id: the behavior identifier
//   - factory: builds a fresh, unloaded behavior
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBehavior(id string, factory BehaviorFactory) EngineBuilderOption {
	return func(e *engine) {
		e.RegisterBehavior(id, factory)
	}
}
