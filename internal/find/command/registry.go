package command

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/editing"
	"github.com/dshills/findreplace/internal/find/index"
	"github.com/dshills/findreplace/internal/find/observe"
	"github.com/dshills/findreplace/internal/find/result"
)

// Command names.
const (
	NameFind         = "find"
	NameFindNext     = "findNext"
	NameFindPrevious = "findPrevious"
	NameReplace      = "replace"
	NameReplaceAll   = "replaceAll"
)

// Command is a named, enable-able operation.
type Command interface {
	Name() string
	Enabled() *observe.Value[bool]
	Execute(args Args) (Outcome, error)
}

// Enabled is the combined enabled state the find form binds to.
type Enabled struct {
	FindNext     bool
	FindPrevious bool
	Replace      bool
	ReplaceAll   bool
}

// Any reports whether at least one command is enabled.
func (e Enabled) Any() bool {
	return e.FindNext || e.FindPrevious || e.Replace || e.ReplaceAll
}

// Recorder receives command statistics, e.g. for metrics.
type Recorder interface {
	RecordCommand(name string, err error)
	RecordSearch(results int, elapsed time.Duration)
	RecordReplace(replaced int)
}

// Env is what the commands of one session operate on.
type Env struct {
	Buffer *buffer.Buffer
	State  *editing.State
	Index  *index.Controller

	// MaxResults caps the number of results a search keeps. 0 means no cap.
	MaxResults int

	// Cursor returns the caret offset used to pick the first highlight.
	// Nil means the start of the buffer.
	Cursor func() buffer.ByteOffset
}

func (e Env) cursor() buffer.ByteOffset {
	if e.Cursor == nil {
		return 0
	}
	return e.Cursor()
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder sets the statistics recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		r.recorder = rec
	}
}

// Registry holds the commands of one find session.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	order    []string

	env      Env
	logger   *zap.Logger
	recorder Recorder

	enabled *observe.Value[Enabled]
	subs    observe.Group
	untrack func()
}

// New creates a Registry with the five find-and-replace commands.
func New(env Env, opts ...Option) *Registry {
	r := &Registry{
		commands: make(map[string]Command),
		env:      env,
		logger:   zap.NewNop(),
		enabled:  observe.NewValue(Enabled{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, cmd := range []Command{
		r.newFind(),
		r.newStep(NameFindNext, 1),
		r.newStep(NameFindPrevious, -1),
		r.newReplace(),
		r.newReplaceAll(),
	} {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}

	results := env.State.Results()
	if env.Buffer != nil {
		r.untrack = env.Buffer.OnChange(func(c buffer.Change) {
			results.Track(c)
		})
	}
	r.subs.Add(results.Subscribe(func(result.SetChange) { r.Refresh() }))
	r.Refresh()

	return r
}

// Register adds a command.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.Name())
	}
	r.commands[cmd.Name()] = cmd
	r.order = append(r.order, cmd.Name())
	return nil
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered command names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Enabled returns the combined enabled state of findNext, findPrevious,
// replace and replaceAll.
func (r *Registry) Enabled() *observe.Value[Enabled] {
	return r.enabled
}

// Execute runs the named command.
func (r *Registry) Execute(name string, args Args) (Outcome, error) {
	cmd, ok := r.Get(name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	r.Refresh()
	if !cmd.Enabled().Get() {
		err := fmt.Errorf("%w: %s", ErrDisabled, name)
		r.record(name, err)
		return Outcome{}, err
	}

	out, err := cmd.Execute(args)
	r.record(name, err)
	if err != nil {
		r.logger.Warn("find command failed", zap.String("command", name), zap.Error(err))
		return out, err
	}

	r.logger.Debug("find command executed",
		zap.String("command", name),
		zap.Stringer("status", out.Status),
		zap.Int("results", out.Results),
		zap.Int("replaced", out.Replaced),
	)
	return out, nil
}

// Refresh recomputes every command's enabled flag from the result count and
// the buffer's read-only flag. It runs automatically when results change;
// call it after toggling read-only.
func (r *Registry) Refresh() {
	n := r.env.State.Results().Len()
	hasBuffer := r.env.Buffer != nil
	writable := hasBuffer && !r.env.Buffer.ReadOnly()

	r.setEnabled(NameFind, hasBuffer)
	r.setEnabled(NameFindNext, n > 1)
	r.setEnabled(NameFindPrevious, n > 1)
	r.setEnabled(NameReplace, n > 0 && writable)
	r.setEnabled(NameReplaceAll, n > 0 && writable)

	r.enabled.Set(Enabled{
		FindNext:     r.isEnabled(NameFindNext),
		FindPrevious: r.isEnabled(NameFindPrevious),
		Replace:      r.isEnabled(NameReplace),
		ReplaceAll:   r.isEnabled(NameReplaceAll),
	})
}

// Close detaches the registry from the buffer and the result set.
func (r *Registry) Close() {
	if r.untrack != nil {
		r.untrack()
		r.untrack = nil
	}
	r.subs.CancelAll()
}

func (r *Registry) setEnabled(name string, v bool) {
	if cmd, ok := r.Get(name); ok {
		cmd.Enabled().Set(v)
	}
}

func (r *Registry) isEnabled(name string) bool {
	cmd, ok := r.Get(name)
	return ok && cmd.Enabled().Get()
}

func (r *Registry) record(name string, err error) {
	if r.recorder != nil {
		r.recorder.RecordCommand(name, err)
	}
}
