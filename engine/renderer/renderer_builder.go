package renderer

import "github.com/Carmen-Shannon/oxy-scroll/engine/config"

// SurfaceBuilderOption is a functional option applied to a surface during construction via NewSurface.
type SurfaceBuilderOption func(*surface)

// WithBackendFactory replaces the backend factory, which defaults to NewWGPUBackend.
//
// Parameters:
//   - factory: the factory creating the native context
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the factory option to a surface
func WithBackendFactory(factory BackendFactory) SurfaceBuilderOption {
	return func(s *surface) {
		if factory != nil {
			s.factory = factory
		}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the present mode option to a surface
func WithPresentMode(mode PresentMode) SurfaceBuilderOption {
	return func(s *surface) {
		s.backendOptions.PresentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. The default is MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the MSAA option to a surface
func WithMSAA(count MSAASampleCount) SurfaceBuilderOption {
	return func(s *surface) {
		s.backendOptions.SampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the force software renderer option to a surface
func WithForceSoftwareRenderer(force bool) SurfaceBuilderOption {
	return func(s *surface) {
		s.backendOptions.ForceFallbackAdapter = force
	}
}

// WithMaxPixelRatio caps the drawing buffer's pixel density.
func WithMaxPixelRatio(ratio float64) SurfaceBuilderOption {
	return func(s *surface) {
		s.maxPixelRatio = ratio
	}
}

// WithExposure sets the tone mapping exposure.
func WithExposure(exposure float32) SurfaceBuilderOption {
	return func(s *surface) {
		s.exposure = exposure
	}
}

// WithRenderingConfig applies the rendering section of the app config.
//
// Parameters:
//   - cfg: the rendering config
//
// Returns:
//   - SurfaceBuilderOption: a function that applies every rendering setting
func WithRenderingConfig(cfg config.Rendering) SurfaceBuilderOption {
	return func(s *surface) {
		s.maxPixelRatio = cfg.MaxPixelRatio
		s.exposure = float32(cfg.Exposure)
		s.backendOptions.Alpha = cfg.Alpha
		s.backendOptions.SampleCount = MSAAOff
		if cfg.Antialias {
			s.backendOptions.SampleCount = MSAA4x
		}
		s.backendOptions.PresentMode = PresentModeUncapped
		if cfg.VSync {
			s.backendOptions.PresentMode = PresentModeVSync
		}
	}
}
