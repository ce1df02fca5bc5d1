package scene

import "github.com/Carmen-Shannon/oxy-scroll/engine/config"

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(*manager)

// WithConfig sets the configuration the camera defaults are read from.
//
// Parameters:
//   - cfg: the application config
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithConfig(cfg config.Config) ManagerBuilderOption {
	return func(m *manager) {
		m.cfg = cfg
	}
}
