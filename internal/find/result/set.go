package result

import (
	"sync"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/observe"
)

// ChangeKind identifies what happened to a Set.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Cleared
	Replaced
	Shifted
)

// String implements fmt.Stringer.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Cleared:
		return "cleared"
	case Replaced:
		return "replaced"
	case Shifted:
		return "shifted"
	}
	return "unknown"
}

// SetChange describes one mutation of a Set.
type SetChange struct {
	Kind    ChangeKind
	Results []*Result // results added or removed, depending on Kind
	Len     int       // size of the set after the mutation
	Version uint64
}

// Set is the insertion-ordered, mutable collection of results for a
// session. Every mutation bumps Version and notifies subscribers after the
// lock is released.
type Set struct {
	mu      sync.RWMutex
	items   []*Result
	version uint64

	listeners observe.Listeners[SetChange]
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Len returns the number of results.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version returns the mutation counter.
func (s *Set) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Items returns a snapshot of the results in insertion order.
func (s *Set) Items() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Contains reports whether r is a member of the set.
func (s *Set) Contains(r *Result) bool {
	if r == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(r) >= 0
}

func (s *Set) indexOf(r *Result) int {
	for i, item := range s.items {
		if item == r {
			return i
		}
	}
	return -1
}

// Add appends results. Results already in the set are ignored.
func (s *Set) Add(results ...*Result) {
	s.mu.Lock()
	added := make([]*Result, 0, len(results))
	for _, r := range results {
		if r == nil || s.indexOf(r) >= 0 {
			continue
		}
		s.items = append(s.items, r)
		added = append(added, r)
	}
	if len(added) == 0 {
		s.mu.Unlock()
		return
	}
	ch := s.bump(Added, added)
	s.mu.Unlock()

	s.listeners.Notify(ch)
}

// Remove deletes r from the set. Returns false if r was not a member.
func (s *Set) Remove(r *Result) bool {
	s.mu.Lock()
	i := s.indexOf(r)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	ch := s.bump(Removed, []*Result{r})
	s.mu.Unlock()

	s.listeners.Notify(ch)
	return true
}

// Clear removes every result.
func (s *Set) Clear() {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	removed := s.items
	s.items = nil
	ch := s.bump(Cleared, removed)
	s.mu.Unlock()

	s.listeners.Notify(ch)
}

// Reset replaces the whole content with results in one mutation.
func (s *Set) Reset(results []*Result) {
	s.mu.Lock()
	s.items = make([]*Result, 0, len(results))
	for _, r := range results {
		if r != nil && s.indexOf(r) < 0 {
			s.items = append(s.items, r)
		}
	}
	ch := s.bump(Replaced, s.snapshot())
	s.mu.Unlock()

	s.listeners.Notify(ch)
}

// snapshot returns a copy of the items. Caller holds the lock.
func (s *Set) snapshot() []*Result {
	out := make([]*Result, len(s.items))
	copy(out, s.items)
	return out
}

// Track applies a buffer change to the set: results the edit touches are
// removed and results after it are shifted by the edit delta.
// Returns the removed results.
func (s *Set) Track(c buffer.Change) []*Result {
	s.mu.Lock()
	var removed []*Result
	kept := s.items[:0]
	shifted := false
	for _, r := range s.items {
		rng := r.Range()
		switch {
		case rng.Touches(c.Range):
			removed = append(removed, r)
		case rng.Start >= c.Range.End && c.Delta != 0:
			r.shift(c.Delta)
			shifted = true
			kept = append(kept, r)
		default:
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept

	var changes []SetChange
	if len(removed) > 0 {
		changes = append(changes, s.bump(Removed, removed))
	}
	if shifted {
		changes = append(changes, s.bump(Shifted, nil))
	}
	s.mu.Unlock()

	for _, ch := range changes {
		s.listeners.Notify(ch)
	}
	return removed
}

// Subscribe registers fn for every mutation.
func (s *Set) Subscribe(fn func(SetChange)) *observe.Subscription {
	return s.listeners.Add(fn)
}

func (s *Set) bump(kind ChangeKind, results []*Result) SetChange {
	s.version++
	return SetChange{
		Kind:    kind,
		Results: results,
		Len:     len(s.items),
		Version: s.version,
	}
}
