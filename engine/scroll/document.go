// Package scroll models the scrollable document behind the stage and samples
// its scroll position into a normalized, throttled state stream.
package scroll

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-scroll/common"
)

// Source is anything that exposes a scroll offset and the sizes needed to
// normalize it.
type Source interface {
	// ScrollY returns the current vertical scroll offset in pixels.
	ScrollY() float64

	// DocumentHeight returns the total scrollable content height in pixels.
	DocumentHeight() float64

	// ViewportHeight returns the visible viewport height in pixels.
	ViewportHeight() float64

	// OnScroll registers fn to run after every offset change and returns a
	// function that removes it.
	OnScroll(fn func()) (unsubscribe func())
}

// Document is a virtual scrollable document. The window drives it with wheel
// and keyboard input; animations may drive it programmatically.
type Document struct {
	mu *sync.Mutex

	scrollY        float64
	documentHeight float64
	viewportHeight float64

	nextID    uint64
	listeners map[uint64]func()
	order     []uint64
}

var _ Source = &Document{}

// NewDocument creates a Document at offset 0.
//
// Parameters:
//   - documentHeight: total content height in pixels
//   - viewportHeight: visible height in pixels
//
// Returns:
//   - *Document: the new document
func NewDocument(documentHeight, viewportHeight float64) *Document {
	return &Document{
		mu:             &sync.Mutex{},
		documentHeight: max(documentHeight, 0),
		viewportHeight: max(viewportHeight, 0),
		listeners:      make(map[uint64]func()),
	}
}

func (d *Document) ScrollY() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollY
}

func (d *Document) DocumentHeight() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.documentHeight
}

func (d *Document) ViewportHeight() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewportHeight
}

// MaxScroll returns the largest reachable offset.
func (d *Document) MaxScroll() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return max(d.documentHeight-d.viewportHeight, 0)
}

func (d *Document) OnScroll(fn func()) (unsubscribe func()) {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners[id] = fn
	d.order = append(d.order, id)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.listeners[id]; !ok {
			return
		}
		delete(d.listeners, id)
		for i, o := range d.order {
			if o == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
}

// ScrollTo moves to y, clamped to [0, MaxScroll]. Listeners run only when the
// offset actually changes.
func (d *Document) ScrollTo(y float64) {
	d.mu.Lock()
	y = common.Clamp(y, 0, max(d.documentHeight-d.viewportHeight, 0))
	if y == d.scrollY {
		d.mu.Unlock()
		return
	}
	d.scrollY = y
	fns := d.snapshot()
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ScrollBy moves the offset by dy pixels.
func (d *Document) ScrollBy(dy float64) {
	d.ScrollTo(d.ScrollY() + dy)
}

// SetViewportHeight updates the viewport and re-clamps the offset.
func (d *Document) SetViewportHeight(h float64) {
	d.mu.Lock()
	d.viewportHeight = max(h, 0)
	y := d.scrollY
	d.mu.Unlock()
	d.ScrollTo(y)
}

// SetDocumentHeight updates the content height and re-clamps the offset.
func (d *Document) SetDocumentHeight(h float64) {
	d.mu.Lock()
	d.documentHeight = max(h, 0)
	y := d.scrollY
	d.mu.Unlock()
	d.ScrollTo(y)
}

// Property implements the animation target contract so tweens can drive the
// offset ("scrollY").
func (d *Document) Property(name string) (float64, bool) {
	if name != "scrollY" {
		return 0, false
	}
	return d.ScrollY(), true
}

// SetProperty sets "scrollY".
func (d *Document) SetProperty(name string, v float64) bool {
	if name != "scrollY" {
		return false
	}
	d.ScrollTo(v)
	return true
}

func (d *Document) snapshot() []func() {
	fns := make([]func(), 0, len(d.order))
	for _, id := range d.order {
		fns = append(fns, d.listeners[id])
	}
	return fns
}
