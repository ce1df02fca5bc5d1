// Command oxy-scroll opens the scroll-driven stage: the home page with its breathing sphere,
// plus a cube page reachable with the 2 key.
package main

import (
	"os"

	"github.com/Carmen-Shannon/oxy-scroll/engine"
	"github.com/Carmen-Shannon/oxy-scroll/engine/config"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/overlay"
	"github.com/Carmen-Shannon/oxy-scroll/engine/window"
	"github.com/Carmen-Shannon/oxy-scroll/scenes/cube"
	"github.com/Carmen-Shannon/oxy-scroll/scenes/home"
)

func main() {
	cfg, cfgErr := config.Load()

	level := cfg.Logging.Level
	if cfg.Dev.DebugMode {
		level = "debug"
	}
	logger.SetLogger(logger.New(level, cfg.Logging.Format))
	if cfgErr != nil {
		logger.Logger().Warn("invalid configuration, using defaults", "error", cfgErr)
	}

	eng := engine.NewEngine(cfg,
		engine.WithWindow(window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
			window.WithSizeLimits(cfg.Window.MinWidth, cfg.Window.MinHeight, cfg.Window.MaxWidth, cfg.Window.MaxHeight),
		)),
		engine.WithOverlay(overlay.NewLayer(append(home.OverlayElements(), engine.CanvasElement, engine.SoundToggleElement)...)),
		engine.WithBehavior(home.ID, home.New),
		engine.WithBehavior(cube.ID, cube.New),
	)

	if err := eng.Run(); err != nil {
		logger.Logger().Error("stage stopped", "error", err)
		os.Exit(1)
	}
}
