// Package overlay is the presentational side channel drawn over the stage: a
// fixed set of named elements whose opacity and vertical offset animations
// may drive.
package overlay

import (
	"sort"
	"sync"
)

// Element is one named overlay element. It satisfies the animation target
// contract with the properties "opacity" and "y".
type Element struct {
	mu      *sync.Mutex
	name    string
	label   string
	opacity float64
	y       float64
}

// Name returns the element name.
func (e *Element) Name() string { return e.name }

// Label returns the accessible label, empty when none is set.
func (e *Element) Label() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.label
}

// SetLabel replaces the accessible label.
func (e *Element) SetLabel(label string) {
	e.mu.Lock()
	e.label = label
	e.mu.Unlock()
}

// Opacity returns the element opacity in [0, 1].
func (e *Element) Opacity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opacity
}

// Y returns the vertical offset in pixels.
func (e *Element) Y() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.y
}

func (e *Element) Property(name string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch name {
	case "opacity":
		return e.opacity, true
	case "y":
		return e.y, true
	}
	return 0, false
}

// SetProperty writes "opacity" (clamped to [0, 1]) or "y".
func (e *Element) SetProperty(name string, v float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch name {
	case "opacity":
		e.opacity = min(max(v, 0), 1)
		return true
	case "y":
		e.y = v
		return true
	}
	return false
}

// ElementState is a copy of an element's presentational state.
type ElementState struct {
	Name    string
	Label   string
	Opacity float64
	Y       float64
}

// Layer holds the declared overlay elements.
type Layer struct {
	elements map[string]*Element
	names    []string
}

// NewLayer declares the given elements, all fully opaque at offset 0.
func NewLayer(names ...string) *Layer {
	l := &Layer{elements: make(map[string]*Element, len(names))}
	for _, n := range names {
		if _, ok := l.elements[n]; ok {
			continue
		}
		l.elements[n] = &Element{mu: &sync.Mutex{}, name: n, opacity: 1}
		l.names = append(l.names, n)
	}
	return l
}

// Element returns the named element, or nil if it was not declared.
func (l *Layer) Element(name string) *Element {
	return l.elements[name]
}

// Elements returns the named elements that exist, in the order given.
func (l *Layer) Elements(names ...string) []*Element {
	out := make([]*Element, 0, len(names))
	for _, n := range names {
		if e, ok := l.elements[n]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot copies the state of every element, sorted by name.
func (l *Layer) Snapshot() []ElementState {
	out := make([]ElementState, 0, len(l.names))
	for _, n := range l.names {
		e := l.elements[n]
		out = append(out, ElementState{Name: n, Label: e.Label(), Opacity: e.Opacity(), Y: e.Y()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset returns every element to opacity 1 and offset 0.
func (l *Layer) Reset() {
	for _, e := range l.elements {
		e.SetProperty("opacity", 1)
		e.SetProperty("y", 0)
	}
}
