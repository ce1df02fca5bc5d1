// Package cube is a minimal second page: a spinning cube that grows as the page scrolls.
package cube

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scroll/engine"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scroll"
)

// ID is the behavior identifier the cube page registers under.
const ID = "cube"

type page struct {
	scene       *Scene
	unsubscribe func()
	loaded      bool
}

var _ engine.Behavior = &page{}

// New builds an unloaded cube page.
func New() engine.Behavior {
	return &page{}
}

// Load builds the cube and follows the tracker's page progress directly, without smoothing.
func (p *page) Load(stage *engine.Stage) error {
	if p.loaded {
		logger.Logger().Warn("cube page already loaded", "component", "cube")
		return nil
	}
	p.scene = NewScene(stage.Scenes, stage.Scheduler)
	if err := p.scene.Load(); err != nil {
		return fmt.Errorf("load cube scene: %w", err)
	}
	if stage.Tracker != nil {
		p.scene.UpdateScroll(stage.Tracker.State().Progress)
		p.unsubscribe = stage.Tracker.Subscribe(func(st scroll.State) {
			p.scene.UpdateScroll(st.Progress)
		})
	}
	p.loaded = true
	return nil
}

func (p *page) Loaded() bool {
	return p.loaded
}

func (p *page) Dispose() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	if p.scene != nil {
		p.scene.Dispose()
	}
	p.loaded = false
}
