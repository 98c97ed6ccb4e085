package buffer

// Edit replaces Range with NewText. An empty range inserts; empty text
// deletes.
type Edit struct {
	Range   Range
	NewText string
}

// NewEdit returns an Edit replacing r with newText.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// Delta is how much the edit grows (or shrinks) the buffer.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// Change is an applied edit as delivered to OnChange listeners. Range is in
// coordinates from before the edit.
type Change struct {
	Range    Range
	NewText  string
	Delta    ByteOffset
	Revision uint64
}
