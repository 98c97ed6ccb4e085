package buffer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap")
	ErrReadOnly         = errors.New("buffer is read-only")
)

// Buffer holds the document text and its line index.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lineStarts []ByteOffset
	revision   uint64
	readOnly   bool
	name       string

	listenerMu sync.Mutex
	listeners  map[int]func(Change)
	nextID     int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	return NewBufferFromString("", opts...)
}

// NewBufferFromString creates a buffer initialized with text.
func NewBufferFromString(text string, opts ...Option) *Buffer {
	b := &Buffer{
		text:      text,
		listeners: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.reindex()
	return b
}

// Name returns the display name of the buffer.
func (b *Buffer) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// ReadOnly reports whether edits are rejected.
func (b *Buffer) ReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// SetReadOnly toggles the read-only flag.
func (b *Buffer) SetReadOnly(readOnly bool) {
	b.mu.Lock()
	b.readOnly = readOnly
	b.mu.Unlock()
}

// Revision returns a counter incremented by every applied edit.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lineStarts))
}

// LineText returns the content of a line without its line ending.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineStarts) {
		return ""
	}
	start := b.lineStarts[line]
	end := ByteOffset(len(b.text))
	if int(line)+1 < len(b.lineStarts) {
		end = b.lineStarts[line+1] - 1
	}
	return strings.TrimSuffix(b.text[start:end], "\r")
}

// LineStartOffset returns the byte offset of the first byte of line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	return b.lineStarts[line]
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start, end = clamp(start, 0, ByteOffset(len(b.text))), clamp(end, 0, ByteOffset(len(b.text)))
	if start >= end {
		return ""
	}
	return b.text[start:end]
}

// OffsetToPoint converts a byte offset to a line/column point.
// Offsets past the end are clamped.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.offsetToPoint(offset)
}

func (b *Buffer) offsetToPoint(offset ByteOffset) Point {
	offset = clamp(offset, 0, ByteOffset(len(b.text)))
	line := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return Point{Line: uint32(line), Column: uint32(offset - b.lineStarts[line])}
}

// PointToOffset converts a line/column point to a byte offset.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(p.Line) >= len(b.lineStarts) {
		return ByteOffset(len(b.text))
	}
	return clamp(b.lineStarts[p.Line]+ByteOffset(p.Column), 0, ByteOffset(len(b.text)))
}

// Replace replaces [start, end) with text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (Change, error) {
	changes, err := b.ApplyEdits([]Edit{NewEdit(NewRange(start, end), text)})
	if err != nil {
		return Change{}, err
	}
	return changes[0], nil
}

// ApplyEdits applies a group of non-overlapping edits atomically. Edits are
// applied from the end of the buffer backwards, so each reported Change is
// valid in the coordinates the listener sees at the time it is notified.
func (b *Buffer) ApplyEdits(edits []Edit) ([]Change, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	// Back to front; at a shared start the longer range goes first so an
	// insertion there lands before the replaced text whatever the input order.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Range, sorted[j].Range
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		return a.End > b.End
	})

	b.mu.Lock()
	if b.readOnly {
		b.mu.Unlock()
		return nil, ErrReadOnly
	}
	size := ByteOffset(len(b.text))
	for i, e := range sorted {
		if !e.Range.IsValid() {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrRangeInvalid, e.Range)
		}
		if e.Range.Start < 0 || e.Range.End > size {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrOffsetOutOfRange, e.Range)
		}
		if i > 0 && e.Range.End > sorted[i-1].Range.Start {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s and %s", ErrEditsOverlap, e.Range, sorted[i-1].Range)
		}
	}

	changes := make([]Change, 0, len(sorted))
	for _, e := range sorted {
		b.text = b.text[:e.Range.Start] + e.NewText + b.text[e.Range.End:]
		b.revision++
		changes = append(changes, Change{
			Range:    e.Range,
			NewText:  e.NewText,
			Delta:    e.Delta(),
			Revision: b.revision,
		})
	}
	b.reindex()
	b.mu.Unlock()

	for _, c := range changes {
		b.notify(c)
	}
	return changes, nil
}

// OnChange registers fn to be called after every applied edit.
// The returned function removes the listener.
func (b *Buffer) OnChange(fn func(Change)) func() {
	b.listenerMu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.listenerMu.Unlock()

	return func() {
		b.listenerMu.Lock()
		delete(b.listeners, id)
		b.listenerMu.Unlock()
	}
}

func (b *Buffer) notify(c Change) {
	b.listenerMu.Lock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.listeners[id])
	}
	b.listenerMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// reindex rebuilds the line-start table. Caller holds the write lock.
func (b *Buffer) reindex() {
	starts := make([]ByteOffset, 1, strings.Count(b.text, "\n")+1)
	for i := 0; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	b.lineStarts = starts
}

func clamp(v, lo, hi ByteOffset) ByteOffset {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
