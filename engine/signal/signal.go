// Package signal provides small observable values with synchronous fan-out.
package signal

import "sync"

// Value is an observable value. Subscribers run synchronously on the goroutine
// that calls Set, in subscription order, and only when the value changes.
type Value[T comparable] struct {
	mu     *sync.Mutex
	value  T
	nextID uint64
	subs   []subscriber[T]
}

type subscriber[T comparable] struct {
	id uint64
	fn func(T)
}

// NewValue creates a Value holding initial.
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{
		mu:    &sync.Mutex{},
		value: initial,
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set stores next and notifies subscribers when it differs from the current value.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	if v.value == next {
		v.mu.Unlock()
		return
	}
	v.value = next
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
}

// Subscribe registers fn for future changes and returns a function that
// removes it. The returned function is safe to call more than once.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Emitter is a value-less event stream, used for one-off notifications such
// as user gestures.
type Emitter struct {
	v *Value[uint64]
}

// NewEmitter creates an Emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{v: NewValue[uint64](0)}
}

// Emit notifies every listener once.
func (e *Emitter) Emit() {
	e.v.mu.Lock()
	e.v.value++
	n := e.v.value
	subs := make([]subscriber[uint64], len(e.v.subs))
	copy(subs, e.v.subs)
	e.v.mu.Unlock()

	for _, s := range subs {
		s.fn(n)
	}
}

// Subscribe registers fn and returns its unsubscribe function.
func (e *Emitter) Subscribe(fn func()) (unsubscribe func()) {
	return e.v.Subscribe(func(uint64) { fn() })
}

// Listeners returns the number of live listeners.
func (e *Emitter) Listeners() int {
	return e.v.Subscribers()
}
