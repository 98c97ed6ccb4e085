// Package observe provides the explicit subscription primitives the find
// subsystem uses in place of a reactive binding graph.
//
// A Value holds one piece of state. Set publishes synchronously to every
// subscriber, in subscription order, after the internal lock is released, so
// a subscriber may read the value or set other values without deadlocking.
//
//	count := observe.NewValue(0)
//	sub := count.Subscribe(func(old, new int) {
//	    status.Set(fmt.Sprintf("%d results", new))
//	})
//	defer sub.Cancel()
//
// Listeners is the lower-level fan-out used for event streams that carry no
// current value, such as result-set changes or form intents.
package observe
