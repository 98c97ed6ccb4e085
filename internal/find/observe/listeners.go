package observe

import "sync"

// Listeners fans an event out to registered callbacks in registration order.
// The zero value is ready to use.
type Listeners[T any] struct {
	mu     sync.Mutex
	nextID uint64
	order  []uint64
	fns    map[uint64]func(T)
}

// Add registers fn and returns its subscription.
func (l *Listeners[T]) Add(fn func(T)) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[uint64]func(T))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	l.order = append(l.order, id)

	return &Subscription{remove: func() { l.remove(id) }}
}

func (l *Listeners[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.fns, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of active callbacks.
func (l *Listeners[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

// Notify calls every callback with v. Callbacks registered or cancelled
// during delivery take effect from the next Notify.
func (l *Listeners[T]) Notify(v T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
