package animation

import "sort"

// Target is anything with named numeric properties a tween can drive.
// Scene nodes, the camera, overlay elements and the scroll document all
// satisfy it.
type Target interface {
	// Property returns the current value of name, or false if the target
	// has no such property.
	Property(name string) (float64, bool)

	// SetProperty writes name and reports whether the target accepted it.
	SetProperty(name string, value float64) bool
}

// Values is a plain map target, the equivalent of tweening a bare object.
type Values map[string]float64

func (v Values) Property(name string) (float64, bool) {
	f, ok := v[name]
	return f, ok
}

func (v Values) SetProperty(name string, value float64) bool {
	v[name] = value
	return true
}

// Props lists property targets for a tween.
type Props map[string]float64

func (p Props) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
