package home

import (
	"errors"
	"math"

	"github.com/Carmen-Shannon/oxy-scroll/common"
	"github.com/Carmen-Shannon/oxy-scroll/engine/frame"
	"github.com/Carmen-Shannon/oxy-scroll/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scroll/engine/light"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/model"
	"github.com/Carmen-Shannon/oxy-scroll/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scroll/engine/scene"
)

const (
	sphereRadius   = 2
	sphereSegments = 64
	fogDensity     = 0.02

	idleSpin    = 0.0005
	breathScale = 0.02

	scrollSpin = 0.0001
	scrollTilt = 0.5

	cameraRestZ  = 5
	cameraTravel = 5
)

// ErrNoStage is returned by Load when the scene manager has no live scene.
var ErrNoStage = errors.New("home: scene manager not initialized")

// Scene owns the home page actors: a slowly breathing sphere, its three lights and the fog.
// All methods must be called from the main goroutine.
type Scene struct {
	manager scene.Manager
	sched   *frame.Scheduler

	sphere   game_object.GameObject
	lights   []game_object.GameObject
	idle     *frame.Loop
	loaded   bool
	disposed bool
}

// NewScene creates an unloaded home scene. Panics if manager or sched is nil.
//
// Parameters:
//   - manager: the scene manager whose scene receives the actors
//   - sched: the frame scheduler driving the idle loop
//
// Returns:
//   - *Scene: the scene
func NewScene(manager scene.Manager, sched *frame.Scheduler) *Scene {
	if manager == nil {
		panic("home: NewScene requires a scene manager")
	}
	if sched == nil {
		panic("home: NewScene requires a scheduler")
	}
	return &Scene{manager: manager, sched: sched}
}

// Load adds the sphere, the lights and the fog to the live scene and starts the idle loop.
// A second call warns and does nothing.
//
// Returns:
//   - error: ErrNoStage when the scene manager is not initialized
func (s *Scene) Load() error {
	if s.disposed {
		logger.Logger().Warn("home scene disposed, build a new one", "component", "home")
		return nil
	}
	if s.loaded {
		logger.Logger().Warn("home scene already loaded", "component", "home")
		return nil
	}
	sc := s.manager.Scene()
	if sc == nil {
		logger.Logger().Warn("scene manager not initialized", "component", "home")
		return ErrNoStage
	}

	s.sphere = game_object.NewGameObject(
		game_object.WithName("home_sphere"),
		game_object.WithMesh(
			model.NewSphereGeometry(sphereRadius, sphereSegments, sphereSegments, model.WithLabel("home_sphere")),
			material.NewMaterial(
				material.WithName("home_sphere"),
				material.WithHexColor(0x2e8b57),
				material.WithMetalness(0.1),
				material.WithRoughness(0.8),
				material.WithEmissive(common.HexColor(0x001100), 0.2),
			),
		),
	)

	s.lights = []game_object.GameObject{
		game_object.NewGameObject(
			game_object.WithName("home_ambient"),
			game_object.WithLight(light.NewLight(light.LightTypeAmbient,
				light.WithHexColor(0x404040),
				light.WithIntensity(0.5),
			)),
		),
		game_object.NewGameObject(
			game_object.WithName("home_point"),
			game_object.WithLight(light.NewLight(light.LightTypePoint,
				light.WithHexColor(0x00ff00),
				light.WithIntensity(1),
				light.WithRange(100),
				light.WithPosition(5, 5, 5),
			)),
		),
		game_object.NewGameObject(
			game_object.WithName("home_back"),
			game_object.WithLight(light.NewLight(light.LightTypeDirectional,
				light.WithHexColor(0xa0e9ff),
				light.WithIntensity(0.5),
				light.WithPosition(-5, 5, -5),
			)),
		),
	}

	sc.Add(s.sphere)
	for _, l := range s.lights {
		sc.Add(l)
	}
	sc.SetFog(&scene.Fog{Color: [3]float32{0, 0, 0}, Density: fogDensity})

	s.idle = frame.NewLoop(s.sched, frame.PhaseUpdate, s.animate)
	s.idle.Start()
	s.loaded = true
	logger.Logger().Debug("home scene loaded", "component", "home", "children", sc.ChildCount())
	return nil
}

// Loaded reports whether the actors are in the scene.
func (s *Scene) Loaded() bool { return s.loaded }

// Sphere returns the sphere, or nil when not loaded.
func (s *Scene) Sphere() game_object.GameObject { return s.sphere }

// Idling reports whether the idle loop is armed.
func (s *Scene) Idling() bool { return s.idle != nil && s.idle.Running() }

// animate spins the sphere and makes it breathe. Rotation is scaled to a 60 Hz frame so the
// spin rate does not depend on the refresh rate.
func (s *Scene) animate(info frame.Info) {
	if s.sphere == nil {
		return
	}
	ratio := info.DeltaSeconds() * 60
	if ratio <= 0 {
		ratio = 1
	}
	rx, ry, rz := s.sphere.Rotation()
	s.sphere.SetRotation(rx, ry+float32(idleSpin*ratio), rz)

	k := float32(1 + breathScale*math.Sin(info.Seconds()))
	s.sphere.SetScale(k, k, k)
}

// UpdateFromScroll tilts the sphere with progress, adds velocity-proportional spin and pulls
// the camera back from z=5 at the top of the page to z=10 at the bottom.
//
// Parameters:
//   - progress: page progress in [0, 1]
//   - velocity: scroll velocity in pixels per second
func (s *Scene) UpdateFromScroll(progress, velocity float64) {
	if s.sphere == nil {
		return
	}
	_, ry, rz := s.sphere.Rotation()
	s.sphere.SetRotation(float32(scrollTilt*progress), ry+float32(velocity*scrollSpin), rz)

	if cam := s.manager.Camera(); cam != nil {
		p := cam.Position()
		cam.SetPosition(p[0], p[1], float32(cameraRestZ+cameraTravel*progress))
	}
}

// Dispose stops the idle loop, removes and releases the sphere and lights and clears the fog.
// Safe to call more than once.
func (s *Scene) Dispose() {
	if s.idle != nil {
		s.idle.Stop()
	}
	sc := s.manager.Scene()
	if s.sphere != nil {
		if sc != nil {
			sc.Remove(s.sphere)
		}
		s.sphere.Dispose()
		s.sphere = nil
	}
	for _, l := range s.lights {
		if sc != nil {
			sc.Remove(l)
		}
		l.Dispose()
	}
	s.lights = nil
	if s.loaded {
		if sc != nil {
			sc.SetFog(nil)
		}
		s.disposed = true
	}
	s.loaded = false
}
