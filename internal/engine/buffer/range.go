package buffer

import "fmt"

// Range is the half-open byte interval [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange returns [start, end).
func NewRange(start, end ByteOffset) Range {
	return Range{Start: start, End: end}
}

// String formats r as "[start:end)".
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len is the byte length of r.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty reports a zero-length range.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid reports Start <= End.
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Contains reports whether offset falls inside r.
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// Touches reports whether an edit of other affects r: the two share a
// byte, or other is an insertion point strictly inside r.
func (r Range) Touches(other Range) bool {
	if other.IsEmpty() {
		return other.Start > r.Start && other.Start < r.End
	}
	return r.Start < other.End && other.Start < r.End
}

// Compare orders ranges by start, then by end.
func (r Range) Compare(other Range) int {
	switch {
	case r.Start < other.Start:
		return -1
	case r.Start > other.Start:
		return 1
	case r.End < other.End:
		return -1
	case r.End > other.End:
		return 1
	}
	return 0
}

// Shift returns the range moved by delta bytes.
func (r Range) Shift(delta ByteOffset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}
