package observe

import "sync"

// Change carries the previous and current value of a Value.
type Change[T any] struct {
	Old T
	New T
}

// Value is an observable value. Subscribers are notified only when Set
// stores a value that differs from the current one.
type Value[T comparable] struct {
	mu        sync.RWMutex
	v         T
	listeners Listeners[Change[T]]
}

// NewValue creates a Value holding initial.
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{v: initial}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.v
}

// Set stores v and notifies subscribers if it changed.
// Returns true if the value changed.
func (o *Value[T]) Set(v T) bool {
	o.mu.Lock()
	old := o.v
	if old == v {
		o.mu.Unlock()
		return false
	}
	o.v = v
	o.mu.Unlock()

	o.listeners.Notify(Change[T]{Old: old, New: v})
	return true
}

// Subscribe registers fn for future changes.
func (o *Value[T]) Subscribe(fn func(old, new T)) *Subscription {
	return o.listeners.Add(func(c Change[T]) { fn(c.Old, c.New) })
}

// Bind subscribes fn and also calls it immediately with the current value,
// so the subscriber starts in sync.
func (o *Value[T]) Bind(fn func(v T)) *Subscription {
	sub := o.Subscribe(func(_, v T) { fn(v) })
	fn(o.Get())
	return sub
}
