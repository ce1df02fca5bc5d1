package scroll

import "time"

// TrackerBuilderOption is a functional option for configuring a Tracker.
type TrackerBuilderOption func(*Tracker)

// WithSampleInterval sets the minimum time between published samples.
// Values <= 0 disable throttling.
//
// Parameters:
//   - d: the sample interval (default 16ms)
//
// Returns:
//   - TrackerBuilderOption: option function to apply
func WithSampleInterval(d time.Duration) TrackerBuilderOption {
	return func(t *Tracker) {
		if d < 0 {
			d = 0
		}
		t.interval = d
	}
}

// WithClock replaces the wall clock used for throttling.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - TrackerBuilderOption: option function to apply
func WithClock(now func() time.Time) TrackerBuilderOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}
