package command

import "errors"

// Command errors.
var (
	// ErrUnknownCommand indicates no command is registered under a name.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrDuplicateCommand indicates a name is already registered.
	ErrDuplicateCommand = errors.New("command: duplicate command")

	// ErrDisabled indicates the command is currently disabled.
	ErrDisabled = errors.New("command: command is disabled")

	// ErrNoSearchText indicates find was called without search text.
	ErrNoSearchText = errors.New("command: no search text")

	// ErrNoBuffer indicates the environment has no buffer attached.
	ErrNoBuffer = errors.New("command: no buffer")
)
