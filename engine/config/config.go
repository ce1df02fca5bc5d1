// Package config holds the runtime configuration for the stage, read once at
// startup from OXY_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full application configuration. It is read-only after Load.
type Config struct {
	Window     Window     `envPrefix:"WINDOW_"`
	Rendering  Rendering  `envPrefix:"RENDER_"`
	Camera     Camera     `envPrefix:"CAMERA_"`
	Audio      Audio      `envPrefix:"AUDIO_"`
	Animation  Animation  `envPrefix:"ANIM_"`
	Scroll     Scroll     `envPrefix:"SCROLL_"`
	A11y       A11y       `envPrefix:"A11Y_"`
	Dev        Dev        `envPrefix:"DEV_"`
	StartScene string     `env:"START_SCENE" envDefault:"home"`
	Logging    LogSetting `envPrefix:"LOG_"`
}

// Window describes the host window.
type Window struct {
	Title     string `env:"TITLE" envDefault:"oxy-scroll"`
	Width     int    `env:"WIDTH" envDefault:"1280"`
	Height    int    `env:"HEIGHT" envDefault:"720"`
	MinWidth  int    `env:"MIN_WIDTH" envDefault:"480"`
	MinHeight int    `env:"MIN_HEIGHT" envDefault:"320"`
	MaxWidth  int    `env:"MAX_WIDTH" envDefault:"3840"`
	MaxHeight int    `env:"MAX_HEIGHT" envDefault:"2160"`
}

// Rendering configures the drawing surface.
type Rendering struct {
	TargetFPS     int     `env:"TARGET_FPS" envDefault:"60"`
	MaxPixelRatio float64 `env:"MAX_PIXEL_RATIO" envDefault:"2"`
	Antialias     bool    `env:"ANTIALIAS" envDefault:"true"`
	Alpha         bool    `env:"ALPHA" envDefault:"true"`
	Exposure      float64 `env:"EXPOSURE" envDefault:"1"`
	VSync         bool    `env:"VSYNC" envDefault:"true"`
}

// Camera holds the perspective camera defaults.
type Camera struct {
	FOV       float64   `env:"FOV" envDefault:"75"`
	Near      float64   `env:"NEAR" envDefault:"0.1"`
	Far       float64   `env:"FAR" envDefault:"1000"`
	Position  []float64 `env:"POSITION" envDefault:"0,0,5" envSeparator:","`
	LookAtOrg bool      `env:"LOOK_AT_ORIGIN" envDefault:"true"`
}

// Audio holds the gain graph defaults.
type Audio struct {
	Enabled       bool          `env:"ENABLED" envDefault:"false"`
	MasterVolume  float64       `env:"MASTER_VOLUME" envDefault:"0.5"`
	AmbientVolume float64       `env:"AMBIENT_VOLUME" envDefault:"0.3"`
	EffectsVolume float64       `env:"EFFECTS_VOLUME" envDefault:"0.7"`
	FadeIn        time.Duration `env:"FADE_IN" envDefault:"2000ms"`
	FadeOut       time.Duration `env:"FADE_OUT" envDefault:"1000ms"`
	SampleRate    int           `env:"SAMPLE_RATE" envDefault:"44100"`
	Workers       int           `env:"WORKERS" envDefault:"2"`
	// AmbientSource is the optional path or URL of the home ambient loop.
	AmbientSource string `env:"AMBIENT_SOURCE"`
}

// Animation holds the tween defaults.
type Animation struct {
	DefaultEasing string `env:"DEFAULT_EASING" envDefault:"power2.inOut"`
	// TransitionDuration is the canvas fade when switching pages.
	TransitionDuration time.Duration `env:"TRANSITION_DURATION" envDefault:"1200ms"`
}

// Scroll configures the virtual document and the scroll sampler.
type Scroll struct {
	DocumentHeight float64       `env:"DOCUMENT_HEIGHT" envDefault:"3600"`
	WheelStep      float64       `env:"WHEEL_STEP" envDefault:"60"`
	SampleInterval time.Duration `env:"SAMPLE_INTERVAL" envDefault:"16ms"`
	ResizeThrottle time.Duration `env:"RESIZE_THROTTLE" envDefault:"100ms"`
}

// A11y holds the accessibility flags.
type A11y struct {
	ReducedMotion        bool `env:"REDUCED_MOTION" envDefault:"false"`
	RespectReducedMotion bool `env:"RESPECT_REDUCED_MOTION" envDefault:"true"`
	KeyboardNavigation   bool `env:"KEYBOARD_NAVIGATION" envDefault:"true"`
	// AriaLabels keeps accessible labels on interactive overlay elements current.
	AriaLabels bool `env:"ARIA_LABELS" envDefault:"true"`
}

// Dev holds developer toggles.
type Dev struct {
	DebugMode bool `env:"DEBUG_MODE" envDefault:"false"`
	ShowFPS   bool `env:"SHOW_FPS" envDefault:"false"`
}

// LogSetting selects the log level and output format.
type LogSetting struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// ReducedMotion reports whether animations should start frozen.
func (c Config) ReducedMotion() bool {
	return c.A11y.RespectReducedMotion && c.A11y.ReducedMotion
}

// CameraPosition returns the configured initial camera position, padding
// missing components with the default (0, 0, 5).
func (c Config) CameraPosition() [3]float32 {
	pos := [3]float32{0, 0, 5}
	for i := 0; i < len(c.Camera.Position) && i < 3; i++ {
		pos[i] = float32(c.Camera.Position[i])
	}
	return pos
}

// Default returns the configuration with every envDefault applied and no
// environment overrides.
func Default() Config {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix:      Prefix,
		Environment: map[string]string{},
	})
	if err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// Prefix is prepended to every environment variable name.
const Prefix = "OXY_"

// Load parses the configuration from the process environment. On a parse
// error the defaults are returned together with the error.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the configuration from the given environment map. A nil map
// reads the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Default(), fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
