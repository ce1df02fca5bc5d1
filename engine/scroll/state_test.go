package scroll

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		name             string
		y, doc, viewport float64
		want             float64
	}{
		{"top", 0, 3000, 1000, 0},
		{"half", 1000, 3000, 1000, 0.5},
		{"bottom", 2000, 3000, 1000, 1},
		{"overscroll", 2500, 3000, 1000, 1},
		{"negative", -10, 3000, 1000, 0},
		{"short document", 100, 800, 1000, 0},
		{"exact fit", 0, 1000, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.y, tt.doc, tt.viewport); got != tt.want {
				t.Errorf("Progress(%v, %v, %v) = %v, want %v", tt.y, tt.doc, tt.viewport, got, tt.want)
			}
		})
	}
}

func TestNextDirection(t *testing.T) {
	tests := []struct {
		prev    Direction
		last, y float64
		want    Direction
	}{
		{Down, 100, 50, Up},
		{Up, 50, 100, Down},
		{Up, 100, 100, Up},
		{Down, 100, 100, Down},
	}
	for _, tt := range tests {
		if got := NextDirection(tt.prev, tt.last, tt.y); got != tt.want {
			t.Errorf("NextDirection(%v, %v, %v) = %v, want %v", tt.prev, tt.last, tt.y, got, tt.want)
		}
	}
}
