package observe

import "sync/atomic"

// Subscription is a handle to one registered callback.
type Subscription struct {
	cancelled atomic.Bool
	remove    func()
}

// Cancel stops delivery to the callback. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	if s.cancelled.CompareAndSwap(false, true) && s.remove != nil {
		s.remove()
	}
}

// IsActive reports whether the callback still receives notifications.
func (s *Subscription) IsActive() bool {
	return s != nil && !s.cancelled.Load()
}

// Group cancels a set of subscriptions together.
type Group struct {
	subs []*Subscription
}

// Add tracks subs for a later CancelAll.
func (g *Group) Add(subs ...*Subscription) {
	g.subs = append(g.subs, subs...)
}

// CancelAll cancels every tracked subscription.
func (g *Group) CancelAll() {
	for _, s := range g.subs {
		s.Cancel()
	}
	g.subs = nil
}
