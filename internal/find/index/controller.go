package index

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/findreplace/internal/find/observe"
	"github.com/dshills/findreplace/internal/find/result"
)

// Source is a result collection the controller can read. *result.Set
// implements it.
type Source interface {
	Items() []*result.Result
}

// Controller computes highlight offsets and match counts and owns the
// Idle/SearchActive/Dirty state machine.
type Controller struct {
	mu    sync.Mutex
	state State

	cmp      result.Comparator
	logger   *zap.Logger
	recorder Recorder

	matchCount      *observe.Value[int]
	highlightOffset *observe.Value[int]
	transitions     observe.Listeners[Transition]
	dirty           observe.Listeners[struct{}]
}

// Option configures a Controller.
type Option func(*Controller)

// WithComparator sets the position comparator. Defaults to result.ByStart.
func WithComparator(cmp result.Comparator) Option {
	return func(c *Controller) {
		if cmp != nil {
			c.cmp = cmp
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets a transition recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// NewController creates a Controller in the Idle state.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:           Idle,
		cmp:             result.ByStart,
		logger:          zap.NewNop(),
		matchCount:      observe.NewValue(0),
		highlightOffset: observe.NewValue(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComputeHighlightOffset returns the 1-based position of highlighted among
// results ordered by position, or 0 when highlighted is nil. Results that
// compare Same keep their insertion order. A highlighted result that is not
// a member of results also yields 0.
func (c *Controller) ComputeHighlightOffset(results Source, highlighted *result.Result) int {
	offset, _ := c.Lookup(results, highlighted)
	return offset
}

// Lookup is ComputeHighlightOffset that also reports whether highlighted was
// found. It returns (0, true) for a nil highlight and (0, false) for a stale
// one.
func (c *Controller) Lookup(results Source, highlighted *result.Result) (int, bool) {
	if highlighted == nil {
		return 0, true
	}
	if results == nil {
		return 0, false
	}

	sorted := c.Ordered(results)
	for i, r := range sorted {
		if r == highlighted {
			return i + 1, true
		}
	}

	c.logger.Debug("highlighted result not in result set",
		zap.Stringer("result", highlighted),
		zap.Int("results", len(sorted)),
	)
	return 0, false
}

// Ordered returns the results sorted by position with the controller's
// comparator. The sort is stable and results is not modified.
func (c *Controller) Ordered(results Source) []*result.Result {
	if results == nil {
		return nil
	}
	return result.SortedByPosition(results.Items(), c.cmp)
}

// OnResultSetChanged publishes and returns the size of results.
func (c *Controller) OnResultSetChanged(results Source) int {
	n := 0
	if results != nil {
		n = len(results.Items())
	}
	c.matchCount.Set(n)
	return n
}

// Refresh recomputes both the match count and the highlight offset and
// publishes them.
func (c *Controller) Refresh(results Source, highlighted *result.Result) (count, offset int) {
	count = c.OnResultSetChanged(results)
	offset = c.ComputeHighlightOffset(results, highlighted)
	c.highlightOffset.Set(offset)
	return count, offset
}

// MatchCount returns the observable match count.
func (c *Controller) MatchCount() *observe.Value[int] {
	return c.matchCount
}

// HighlightOffset returns the observable highlight offset.
func (c *Controller) HighlightOffset() *observe.Value[int] {
	return c.highlightOffset
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsDirty reports whether displayed counts and offsets are provisional.
func (c *Controller) IsDirty() bool {
	return c.State() == Dirty
}

// SearchExecuted records that a search ran against the current criteria.
func (c *Controller) SearchExecuted() {
	c.transition(SearchActive, Idle, Dirty)
}

// MarkDirty signals that the search criteria changed without a new search.
// It only has an effect while SearchActive and returns true if it did.
func (c *Controller) MarkDirty() bool {
	if !c.transition(Dirty, SearchActive) {
		return false
	}
	c.dirty.Notify(struct{}{})
	return true
}

// Reset returns the controller to Idle and publishes zero count and offset.
func (c *Controller) Reset() {
	c.transition(Idle, SearchActive, Dirty)
	c.matchCount.Set(0)
	c.highlightOffset.Set(0)
}

// OnTransition registers fn for every state change.
func (c *Controller) OnTransition(fn func(Transition)) *observe.Subscription {
	return c.transitions.Add(fn)
}

// OnDirty registers fn for the dirty signal.
func (c *Controller) OnDirty(fn func()) *observe.Subscription {
	return c.dirty.Add(func(struct{}) { fn() })
}

// transition moves to the given state if the current state is one of from.
func (c *Controller) transition(to State, from ...State) bool {
	c.mu.Lock()
	prev := c.state
	allowed := false
	for _, f := range from {
		if prev == f {
			allowed = true
			break
		}
	}
	if !allowed {
		c.mu.Unlock()
		return false
	}
	c.state = to
	c.mu.Unlock()

	c.logger.Debug("find session state changed",
		zap.Stringer("from", prev),
		zap.Stringer("to", to),
	)
	if c.recorder != nil {
		c.recorder.RecordTransition(prev, to)
	}
	c.transitions.Notify(Transition{From: prev, To: to})
	return true
}
