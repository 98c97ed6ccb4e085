package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithReadOnly marks the buffer read-only. Edits fail with ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(b *Buffer) {
		b.readOnly = readOnly
	}
}

// WithName sets the display name, usually the file path.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}
