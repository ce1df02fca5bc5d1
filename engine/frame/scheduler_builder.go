package frame

import "time"

// SchedulerBuilderOption is a functional option for configuring a Scheduler.
type SchedulerBuilderOption func(*Scheduler)

// WithClock replaces the wall clock, for deterministic ticks in tests.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithClock(now func() time.Time) SchedulerBuilderOption {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}
