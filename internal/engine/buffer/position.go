package buffer

import "fmt"

// ByteOffset is a position in the buffer counted in bytes from the start.
type ByteOffset = int64

// Point is a 0-based line and byte column.
type Point struct {
	Line   uint32
	Column uint32
}

// String formats p as "(line:col)", 0-based.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Human formats p as 1-based "line:col", the way editors and compilers
// report locations.
func (p Point) Human() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}
