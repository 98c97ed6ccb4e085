// Package buffer provides the text buffer searched by the find subsystem.
//
// The buffer keeps its content as a single string plus a line-start index,
// which is all a find-and-replace session needs: byte offsets for match
// ranges, line/column points for display, and grouped replacement for
// "replace all".
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Replace(7, 12, "Gopher") // "Hello, Gopher!"
//
//	unsub := buf.OnChange(func(c buffer.Change) {
//	    // shift or drop search results touched by c.Range
//	})
//	defer unsub()
//
// Position Types:
//
//   - ByteOffset: Raw byte position in the buffer
//   - Point: Line and column position (0-indexed, column in bytes)
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Change listeners are invoked after the
// write lock is released, so a listener may read the buffer.
package buffer
