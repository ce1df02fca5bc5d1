package cube

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scroll/engine/light"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/model"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
)

const (
	cubeSize   = 2
	spinStep   = 0.005
	scrollGrow = 0.5
)

// ErrNoStage is returned by Load when the scene manager has no live scene.
var ErrNoStage = errors.New("cube: scene manager not initialized")

// Scene is a single rotating cube lit by an ambient and a directional light.
type Scene struct {
	manager scene.Manager
	sched   *frame.Scheduler

	cube     game_object.GameObject
	lights   []game_object.GameObject
	idle     *frame.Loop
	loaded   bool
	disposed bool
}

// NewScene creates an unloaded cube scene. Panics if manager or sched is nil.
func NewScene(manager scene.Manager, sched *frame.Scheduler) *Scene {
	if manager == nil {
		panic("cube: NewScene requires a scene manager")
	}
	if sched == nil {
		panic("cube: NewScene requires a scheduler")
	}
	return &Scene{manager: manager, sched: sched}
}

// Load adds the cube and its lights and starts spinning it.
func (s *Scene) Load() error {
	if s.disposed {
		logger.Logger().Warn("cube scene disposed, build a new one", "component", "cube")
		return nil
	}
	if s.loaded {
		logger.Logger().Warn("cube scene already loaded", "component", "cube")
		return nil
	}
	sc := s.manager.Scene()
	if sc == nil {
		logger.Logger().Warn("scene manager not initialized", "component", "cube")
		return ErrNoStage
	}

	s.cube = game_object.NewGameObject(
		game_object.WithName("cube"),
		game_object.WithMesh(
			model.NewBoxGeometry(cubeSize, cubeSize, cubeSize, model.WithLabel("cube")),
			material.NewMaterial(
				material.WithName("cube"),
				material.WithHexColor(0xa0e9ff),
				material.WithMetalness(0.5),
				material.WithRoughness(0.5),
			),
		),
	)
	s.lights = []game_object.GameObject{
		game_object.NewGameObject(
			game_object.WithName("cube_ambient"),
			game_object.WithLight(light.NewLight(light.LightTypeAmbient,
				light.WithHexColor(0xffffff),
				light.WithIntensity(0.5),
			)),
		),
		game_object.NewGameObject(
			game_object.WithName("cube_key"),
			game_object.WithLight(light.NewLight(light.LightTypeDirectional,
				light.WithHexColor(0xffffff),
				light.WithIntensity(1),
				light.WithPosition(5, 5, 5),
			)),
		),
	}

	sc.Add(s.cube)
	for _, l := range s.lights {
		sc.Add(l)
	}

	s.idle = frame.NewLoop(s.sched, frame.PhaseUpdate, s.spin)
	s.idle.Start()
	s.loaded = true
	logger.Logger().Debug("cube scene loaded", "component", "cube")
	return nil
}

func (s *Scene) Loaded() bool { return s.loaded }

// Cube returns the cube, or nil when not loaded.
func (s *Scene) Cube() game_object.GameObject { return s.cube }

func (s *Scene) Spinning() bool { return s.idle != nil && s.idle.Running() }

func (s *Scene) spin(frame.Info) {
	if s.cube == nil {
		return
	}
	rx, ry, rz := s.cube.Rotation()
	s.cube.SetRotation(rx+spinStep, ry+spinStep, rz)
}

// UpdateScroll grows the cube from scale 1 at the top of the page to 1.5 at the bottom.
func (s *Scene) UpdateScroll(progress float64) {
	if s.cube == nil {
		return
	}
	k := float32(1 + progress*scrollGrow)
	s.cube.SetScale(k, k, k)
}

// Dispose stops the spin and removes and releases the cube and lights.
func (s *Scene) Dispose() {
	if s.idle != nil {
		s.idle.Stop()
	}
	sc := s.manager.Scene()
	if s.cube != nil {
		if sc != nil {
			sc.Remove(s.cube)
		}
		s.cube.Dispose()
		s.cube = nil
	}
	for _, l := range s.lights {
		if sc != nil {
			sc.Remove(l)
		}
		l.Dispose()
	}
	s.lights = nil
	if s.loaded {
		logger.Logger().Debug("cube scene disposed", "component", "cube")
		s.disposed = true
	}
	s.loaded = false
}
