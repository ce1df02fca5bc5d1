// Package home is the landing page behavior: a breathing sphere whose tilt, spin and camera
// distance follow the page scroll, a staged hero intro and a gesture-gated ambient soundscape.
package home

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scroll/engine"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
)

// ID is the behavior identifier the home page registers under.
const ID = "home"

// page is the implementation of engine.Behavior for the home page.
type page struct {
	scene  *Scene
	motion *Motion
	sound  *Sound
	loaded bool
}

var _ engine.Behavior = &page{}

// New builds an unloaded home page. It satisfies engine.BehaviorFactory.
func New() engine.Behavior {
	return &page{}
}

func (p *page) Load(stage *engine.Stage) error {
	if p.loaded {
		logger.Logger().Warn("home page already loaded", "component", "home")
		return nil
	}

	p.scene = NewScene(stage.Scenes, stage.Scheduler)
	if err := p.scene.Load(); err != nil {
		return fmt.Errorf("load home scene: %w", err)
	}
	p.sound = NewSound(stage.Audio, stage.Gesture, stage.Scheduler, stage.Config.Audio.AmbientSource)
	p.sound.Init()
	p.motion = NewMotion(stage.Orchestrator, stage.Overlay, p.scene)
	p.motion.Init()

	p.loaded = true
	return nil
}

func (p *page) Loaded() bool {
	return p.loaded
}

func (p *page) Dispose() {
	if p.scene != nil {
		p.scene.Dispose()
	}
	if p.motion != nil {
		p.motion.Dispose()
	}
	if p.sound != nil {
		p.sound.Dispose()
	}
	p.loaded = false
}
