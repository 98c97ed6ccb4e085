package lua

import "errors"

var (
	// ErrStateClosed is returned by every call after Close.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout wraps the error of a script stopped by the
	// execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned by Call for a global that is not a function.
	ErrNotFunction = errors.New("lua global is not a function")
)
