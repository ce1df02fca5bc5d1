package scroll

// Direction is the sign of the most recent scroll movement.
type Direction int

const (
	// Down means the offset last increased.
	Down Direction = iota
	// Up means the offset last decreased.
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// State is one normalized scroll sample.
type State struct {
	ScrollY   float64
	Progress  float64
	Direction Direction
}

// Progress normalizes scrollY against the scrollable range. A document no
// taller than its viewport has progress 0.
func Progress(scrollY, documentHeight, viewportHeight float64) float64 {
	maxScroll := documentHeight - viewportHeight
	if maxScroll <= 0 {
		return 0
	}
	p := scrollY / maxScroll
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// NextDirection derives the direction for a new sample. Equal samples keep
// the previous direction.
func NextDirection(prev Direction, lastY, y float64) Direction {
	switch {
	case y < lastY:
		return Up
	case y > lastY:
		return Down
	default:
		return prev
	}
}
