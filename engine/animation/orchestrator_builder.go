package animation

import "time"

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator.
type OrchestratorBuilderOption func(*Orchestrator)

// WithDefaultEase sets the curve used when a tween names none.
//
// Parameters:
//   - name: GSAP-style ease name (default "power1.out")
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithDefaultEase(name string) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		if name != "" {
			o.defaultEase = name
		}
	}
}

// WithReducedMotion starts the orchestrator frozen.
func WithReducedMotion(reduced bool) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		o.SetReducedMotion(reduced)
	}
}

// WithClock replaces the wall clock used for velocity estimates.
func WithClock(now func() time.Time) OrchestratorBuilderOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}
