package scene

import (
	"github.com/Carmen-Shannon/oxy-scroll/engine/camera"
	"github.com/Carmen-Shannon/oxy-scroll/engine/config"
	"github.com/Carmen-Shannon/oxy-scroll/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scroll/engine/light"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/signal"
)

// Default scene furniture applied by Manager.Initialize.
const (
	DefaultFogDensity           = 0.002
	DefaultAmbientIntensity     = 0.5
	DefaultDirectionalIntensity = 1.0
)

// manager is the implementation of the Manager interface.
type manager struct {
	cfg config.Config

	scene       Scene
	cam         camera.Camera
	activeScene *signal.Value[string]
}

// Manager owns the one Scene and its perspective Camera for the lifetime of
// the stage. Behavior modules populate the scene after LoadScene; the
// manager only provides the empty stage and clears it between behaviors.
//
// All methods must be called from the main goroutine.
type Manager interface {
	// Initialize creates the scene and camera. A second call while live logs a
	// warning and does nothing. Initialize is allowed again after Dispose.
	//
	// Parameters:
	//   - aspect: the initial viewport aspect ratio
	Initialize(aspect float32)

	// Initialized reports whether the scene and camera exist.
	Initialized() bool

	// Scene returns the live scene, or nil before Initialize and after Dispose.
	//
	// Returns:
	//   - Scene: the scene or nil
	Scene() Scene

	// Camera returns the live camera, or nil before Initialize and after Dispose.
	//
	// Returns:
	//   - camera.Camera: the camera or nil
	Camera() camera.Camera

	// Resize updates the camera aspect ratio and recomputes its projection.
	// Zero or negative sizes are ignored.
	//
	// Parameters:
	//   - width, height: the new viewport size in pixels
	Resize(width, height int)

	// ClearScene releases the geometry and material of every actor, then
	// detaches every actor and light.
	ClearScene()

	// LoadScene clears the stage and publishes id as the active scene.
	//
	// Parameters:
	//   - id: the behavior identifier about to populate the scene
	LoadScene(id string)

	// ActiveScene is the observable identifier of the loaded behavior, empty
	// when none is loaded.
	//
	// Returns:
	//   - *signal.Value[string]: the observable
	ActiveScene() *signal.Value[string]

	// Dispose clears the scene, drops the scene and camera and resets
	// ActiveScene. Safe to call more than once.
	Dispose()
}

var _ Manager = &manager{}

// NewManager creates an uninitialized scene manager.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Manager: the manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		cfg:         config.Default(),
		activeScene: signal.NewValue(""),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) Initialize(aspect float32) {
	if m.scene != nil {
		logger.Logger().Warn("scene manager already initialized")
		return
	}

	s := NewScene()
	s.SetBackground([3]float32{0, 0, 0})
	s.SetFog(&Fog{Color: [3]float32{0, 0, 0}, Density: DefaultFogDensity})
	s.Add(game_object.NewGameObject(
		game_object.WithName("ambient_light"),
		game_object.WithLight(light.NewLight(light.LightTypeAmbient,
			light.WithHexColor(0xffffff),
			light.WithIntensity(DefaultAmbientIntensity),
		)),
	))
	s.Add(game_object.NewGameObject(
		game_object.WithName("directional_light"),
		game_object.WithLight(light.NewLight(light.LightTypeDirectional,
			light.WithHexColor(0xffffff),
			light.WithIntensity(DefaultDirectionalIntensity),
			light.WithPosition(5, 5, 5),
		)),
	))

	pos := m.cfg.CameraPosition()
	opts := []camera.CameraBuilderOption{
		camera.WithFov(float32(m.cfg.Camera.FOV)),
		camera.WithNear(float32(m.cfg.Camera.Near)),
		camera.WithFar(float32(m.cfg.Camera.Far)),
		camera.WithAspect(aspect),
		camera.WithPosition(pos[0], pos[1], pos[2]),
	}
	if !m.cfg.Camera.LookAtOrg {
		opts = append(opts, camera.WithTarget(pos[0], pos[1], pos[2]-1))
	}

	m.scene = s
	m.cam = camera.NewCamera(opts...)
	logger.Logger().Debug("scene manager initialized", "aspect", aspect)
}

func (m *manager) Initialized() bool {
	return m.scene != nil
}

func (m *manager) Scene() Scene {
	return m.scene
}

func (m *manager) Camera() camera.Camera {
	return m.cam
}

func (m *manager) Resize(width, height int) {
	if m.cam == nil || width <= 0 || height <= 0 {
		return
	}
	m.cam.SetAspect(float32(width) / float32(height))
	m.cam.UpdateProjectionMatrix()
}

func (m *manager) ClearScene() {
	if m.scene == nil {
		logger.Logger().Warn("scene manager not initialized", "op", "ClearScene")
		return
	}
	m.scene.Clear()
}

func (m *manager) LoadScene(id string) {
	if m.scene == nil {
		logger.Logger().Warn("scene manager not initialized", "op", "LoadScene", "scene", id)
		return
	}
	m.scene.Clear()
	m.activeScene.Set(id)
}

func (m *manager) ActiveScene() *signal.Value[string] {
	return m.activeScene
}

func (m *manager) Dispose() {
	if m.scene != nil {
		m.scene.Clear()
	}
	m.scene = nil
	m.cam = nil
	m.activeScene.Set("")
}
