package engine

import (
	"github.com/Carmen-Shannon/oxy-scroll/engine/animation"
	"github.com/Carmen-Shannon/oxy-scroll/engine/audio"
	"github.com/Carmen-Shannon/oxy-scroll/engine/config"
	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/overlay"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

// Stage bundles the long-lived collaborators a Behavior populates and drives. Every field is
// owned by the engine; behaviors must only release what they created themselves.
type Stage struct {
	Config       config.Config
	Scheduler    *frame.Scheduler
	Scenes       scene.Manager
	Surface      renderer.Surface
	Document     *scroll.Document
	Tracker      *scroll.Tracker
	Orchestrator *animation.Orchestrator
	Overlay      *overlay.Layer
	Audio        audio.Subsystem

	// Gesture fires on every click, wheel or key press from the user.
	Gesture *signal.Emitter
}

// Behavior is a scene module: it fills the shared scene with its actors and lights, drives them
// from idle loops and scroll triggers, and removes everything it added on Dispose.
//
// Lifecycle: unloaded -> loaded -> disposed. A disposed behavior is not reloaded; the engine asks
// the factory for a fresh one.
type Behavior interface {
	// Load populates the stage. A second call warns and does nothing.
	//
	// Parameters:
	//   - stage: the engine's collaborators
	//
	// Returns:
	//   - error: an error if the behavior could not be built
	Load(stage *Stage) error

	// Loaded reports whether Load succeeded and Dispose has not run.
	Loaded() bool

	// Dispose stops the behavior's loops and triggers and removes its actors and lights.
	// Safe to call more than once.
	Dispose()
}

// BehaviorFactory builds an unloaded Behavior.
type BehaviorFactory func() Behavior
