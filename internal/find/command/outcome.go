package command

import "github.com/dshills/findreplace/internal/find/result"

// Status indicates the outcome of a command.
type Status uint8

const (
	// StatusOK indicates the command changed something.
	StatusOK Status = iota
	// StatusNoOp indicates the command had no effect.
	StatusNoOp
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	default:
		return "unknown"
	}
}

// Args are the inputs a command may use. Unset fields fall back to the
// editing state.
type Args struct {
	SearchText  string
	ReplaceText string
}

// Outcome describes what a command did.
type Outcome struct {
	Status      Status
	Message     string
	Results     int
	Replaced    int
	Highlighted *result.Result
}

func noOp(msg string) Outcome {
	return Outcome{Status: StatusNoOp, Message: msg}
}
