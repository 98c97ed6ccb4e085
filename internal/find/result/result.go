package result

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/findreplace/internal/engine/buffer"
)

// Result is one located match. Results are handles: two Results are the same
// match only if they are the same pointer (or share an ID).
type Result struct {
	id uuid.UUID

	mu   sync.RWMutex
	rng  buffer.Range
	text string
}

// New creates a Result for the match text found at rng.
func New(rng buffer.Range, text string) *Result {
	return &Result{
		id:   uuid.New(),
		rng:  rng,
		text: text,
	}
}

// ID returns the result identity.
func (r *Result) ID() uuid.UUID {
	return r.id
}

// Range returns the current document range of the match.
func (r *Result) Range() buffer.Range {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rng
}

// Text returns the matched text captured when the result was created.
func (r *Result) Text() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.text
}

func (r *Result) shift(delta buffer.ByteOffset) {
	r.mu.Lock()
	r.rng = r.rng.Shift(delta)
	r.mu.Unlock()
}

// String implements fmt.Stringer.
func (r *Result) String() string {
	if r == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s%s %q", r.id.String()[:8], r.Range(), r.Text())
}
