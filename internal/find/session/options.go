package session

import (
	"go.uber.org/zap"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/command"
	"github.com/dshills/findreplace/internal/find/index"
	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/input/key"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used by the session and its components.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaults sets the initial match options.
func WithDefaults(opts matcher.Options) Option {
	return func(s *Session) {
		s.defaults = opts
	}
}

// WithMaxResults caps the number of results a search keeps.
func WithMaxResults(n int) Option {
	return func(s *Session) {
		s.maxResults = n
	}
}

// WithCursor sets the function that reports the caret offset.
func WithCursor(fn func() buffer.ByteOffset) Option {
	return func(s *Session) {
		s.cursor = fn
	}
}

// WithKeymap sets the find bar key bindings.
func WithKeymap(km *key.Keymap) Option {
	return func(s *Session) {
		if km != nil {
			s.keymap = km
		}
	}
}

// WithCommandRecorder sets the recorder for command statistics.
func WithCommandRecorder(rec command.Recorder) Option {
	return func(s *Session) {
		s.cmdRecorder = rec
	}
}

// WithIndexRecorder sets the recorder for controller state transitions.
func WithIndexRecorder(rec index.Recorder) Option {
	return func(s *Session) {
		s.idxRecorder = rec
	}
}
