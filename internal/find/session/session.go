package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/command"
	"github.com/dshills/findreplace/internal/find/editing"
	"github.com/dshills/findreplace/internal/find/form"
	"github.com/dshills/findreplace/internal/find/index"
	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/find/observe"
	"github.com/dshills/findreplace/internal/find/result"
	"github.com/dshills/findreplace/internal/input/key"
)

// Session is a find-and-replace session over one buffer.
type Session struct {
	buf    *buffer.Buffer
	state  *editing.State
	ctrl   *index.Controller
	reg    *command.Registry
	form   *form.Form
	keymap *key.Keymap
	logger *zap.Logger

	defaults    matcher.Options
	maxResults  int
	cursor      func() buffer.ByteOffset
	cmdRecorder command.Recorder
	idxRecorder index.Recorder

	open bool
	subs observe.Group
}

// New creates a session over buf. The find bar starts closed.
func New(buf *buffer.Buffer, opts ...Option) *Session {
	s := &Session{
		buf:    buf,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.keymap == nil {
		s.keymap, _ = key.NewKeymap(key.DefaultBindings())
	}

	s.state = editing.New(s.defaults)
	s.ctrl = index.NewController(
		index.WithLogger(s.logger.Named("index")),
		index.WithRecorder(s.idxRecorder),
	)

	cmdOpts := []command.Option{command.WithLogger(s.logger.Named("command"))}
	if s.cmdRecorder != nil {
		cmdOpts = append(cmdOpts, command.WithRecorder(s.cmdRecorder))
	}
	s.reg = command.New(command.Env{
		Buffer:     buf,
		State:      s.state,
		Index:      s.ctrl,
		MaxResults: s.maxResults,
		Cursor:     s.cursor,
	}, cmdOpts...)

	s.form = form.New(s.defaults)
	s.form.SetHandler(s)
	s.bind()
	return s
}

func (s *Session) bind() {
	refresh := func() {
		s.ctrl.Refresh(s.state.Results(), s.state.Highlighted().Get())
	}
	s.subs.Add(
		s.state.Results().Subscribe(func(result.SetChange) { refresh() }),
		s.state.Highlighted().Subscribe(func(_, _ *result.Result) { refresh() }),

		s.ctrl.MatchCount().Bind(func(n int) { s.form.MatchCount().Set(n) }),
		s.ctrl.HighlightOffset().Bind(func(n int) { s.form.HighlightOffset().Set(n) }),
		s.reg.Enabled().Bind(func(e command.Enabled) { s.form.Commands().Set(e) }),

		s.form.IsDirty().Subscribe(func(_, dirty bool) {
			if dirty {
				s.ctrl.MarkDirty()
			}
		}),
		s.ctrl.OnTransition(func(t index.Transition) {
			switch t.To {
			case index.Dirty:
				// The results no longer answer the criteria on display.
				_ = s.state.Highlight(nil)
			case index.SearchActive:
				s.form.IsDirty().Set(false)
				s.form.Searched().Set(true)
			case index.Idle:
				s.form.IsDirty().Set(false)
				s.form.Searched().Set(false)
			}
		}),
	)
	refresh()
}

// Buffer returns the searched buffer.
func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// State returns the editing state.
func (s *Session) State() *editing.State { return s.state }

// Controller returns the index controller.
func (s *Session) Controller() *index.Controller { return s.ctrl }

// Registry returns the command registry.
func (s *Session) Registry() *command.Registry { return s.reg }

// Form returns the find bar form.
func (s *Session) Form() *form.Form { return s.form }

// Keymap returns the find bar key bindings.
func (s *Session) Keymap() *key.Keymap { return s.keymap }

// SetKeymap replaces the find bar key bindings. A nil keymap is ignored.
func (s *Session) SetKeymap(km *key.Keymap) {
	if km != nil {
		s.keymap = km
	}
}

// IsOpen reports whether the find bar is shown.
func (s *Session) IsOpen() bool { return s.open }

// Open shows the find bar. Reopening keeps the form fields.
func (s *Session) Open() {
	if s.open {
		return
	}
	s.open = true
	s.form.Message().Set("")
	s.logger.Debug("find bar opened")
}

// Close hides the find bar, drops the results and returns the controller
// to Idle.
func (s *Session) Close() {
	if !s.open {
		return
	}
	s.open = false
	s.state.Clear()
	s.ctrl.Reset()
	s.form.Message().Set("")
	s.logger.Debug("find bar closed")
}

// Detach releases every subscription the session holds. The session must
// not be used afterwards.
func (s *Session) Detach() {
	s.subs.CancelAll()
	s.reg.Close()
	s.state.Close()
}

// FindNext moves the highlight to the next result, searching first when the
// text or options differ from the last search.
func (s *Session) FindNext(searchText string) error {
	return s.step(searchText, command.NameFindNext)
}

// FindPrevious moves the highlight to the previous result, searching first
// when the text or options differ from the last search.
func (s *Session) FindPrevious(searchText string) error {
	return s.step(searchText, command.NameFindPrevious)
}

func (s *Session) step(searchText, name string) error {
	if s.needsSearch(searchText) {
		_, err := s.search(searchText)
		return err
	}
	if s.state.Results().Len() < 2 {
		// Nothing to move to; show where we are.
		s.form.Message().Set(s.form.Counter())
		return nil
	}
	_, err := s.execute(name, command.Args{SearchText: searchText})
	return err
}

// Replace replaces the highlighted result and highlights the next one.
func (s *Session) Replace(searchText, replaceText string) error {
	if s.needsSearch(searchText) {
		out, err := s.search(searchText)
		if err != nil || out.Results == 0 {
			return err
		}
	}
	s.state.ReplaceText().Set(replaceText)
	_, err := s.execute(command.NameReplace, command.Args{
		SearchText:  searchText,
		ReplaceText: replaceText,
	})
	return err
}

// ReplaceAll replaces every occurrence of searchText.
func (s *Session) ReplaceAll(searchText, replaceText string) error {
	_, err := s.replaceAll(searchText, replaceText)
	return err
}

// replaceAll reports the number of occurrences replaced, which is not
// bounded by the max results cap.
func (s *Session) replaceAll(searchText, replaceText string) (int, error) {
	if s.needsSearch(searchText) {
		out, err := s.search(searchText)
		if err != nil || out.Results == 0 {
			return 0, err
		}
	}
	s.state.ReplaceText().Set(replaceText)
	out, err := s.execute(command.NameReplaceAll, command.Args{
		SearchText:  searchText,
		ReplaceText: replaceText,
	})
	return out.Replaced, err
}

// Search runs a new search for text with opts, whatever the current state.
// The form fields are updated to match.
func (s *Session) Search(text string, opts matcher.Options) (command.Outcome, error) {
	if text == "" {
		return command.Outcome{}, command.ErrNoSearchText
	}
	s.Open()
	s.form.TypeSearch(text)
	s.form.SetOptions(opts)
	out, err := s.search(text)
	if err != nil {
		s.form.Message().Set(err.Error())
	}
	return out, err
}

// Next highlights the next result using the current form text.
func (s *Session) Next() error {
	return s.form.SubmitFindNext()
}

// Previous highlights the previous result using the current form text.
func (s *Session) Previous() error {
	return s.form.SubmitFindPrevious()
}

// ReplaceWith replaces the highlighted result with text.
func (s *Session) ReplaceWith(text string) error {
	s.form.TypeReplace(text)
	return s.form.SubmitReplace()
}

// ReplaceAllWith replaces every occurrence of the form's search text with
// text and returns how many were replaced.
func (s *Session) ReplaceAllWith(text string) (int, error) {
	s.form.TypeReplace(text)
	search := s.form.SearchText().Get()
	if search == "" {
		return 0, s.form.SubmitReplaceAll()
	}
	n, err := s.replaceAll(search, text)
	if err != nil {
		s.form.Message().Set(err.Error())
	}
	return n, err
}

// MatchCount returns the number of results.
func (s *Session) MatchCount() int { return s.ctrl.MatchCount().Get() }

// HighlightOffset returns the 1-based position of the highlighted result,
// or 0 when nothing is highlighted.
func (s *Session) HighlightOffset() int { return s.ctrl.HighlightOffset().Get() }

// Highlighted returns the highlighted result, or nil.
func (s *Session) Highlighted() *result.Result { return s.state.Highlighted().Get() }

// Ordered returns the results in document order.
func (s *Session) Ordered() []*result.Result { return s.ctrl.Ordered(s.state.Results()) }

// needsSearch reports whether the criteria in the form differ from those of
// the results on display.
func (s *Session) needsSearch(searchText string) bool {
	if s.ctrl.State() != index.SearchActive {
		return true
	}
	return searchText != s.state.SearchText().Get() || s.form.Options() != s.state.Options()
}

func (s *Session) search(text string) (command.Outcome, error) {
	s.state.SetOptions(s.form.Options())
	return s.execute(command.NameFind, command.Args{SearchText: text})
}

func (s *Session) execute(name string, args command.Args) (command.Outcome, error) {
	out, err := s.reg.Execute(name, args)
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	msg := out.Message
	switch name {
	case command.NameFind, command.NameFindNext, command.NameFindPrevious:
		if out.Results > 0 {
			msg = s.form.Counter()
		}
	}
	s.form.Message().Set(msg)
	return out, nil
}
