// Package form models the find-and-replace form: the text fields and option
// toggles the user edits, and the counters and enabled flags it displays.
//
// The form does not run searches. User intents (find next, find previous,
// replace, replace all) are forwarded to a Handler, normally the session
// that owns the commands. Editing the search text or an option raises
// IsDirty so the owner can mark the current results stale.
package form

import (
	"errors"
	"fmt"

	"github.com/dshills/findreplace/internal/find/command"
	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/find/observe"
)

// ErrNoHandler is returned when an intent is submitted before SetHandler.
var ErrNoHandler = errors.New("form: no handler")

// ErrEmptySearch is returned when an intent needs search text and the
// field is empty.
var ErrEmptySearch = errors.New("form: search text is empty")

// Handler receives the form's user intents.
type Handler interface {
	FindNext(searchText string) error
	FindPrevious(searchText string) error
	Replace(searchText, replaceText string) error
	ReplaceAll(searchText, replaceText string) error
}

// Form is the view model of the find bar.
type Form struct {
	searchText  *observe.Value[string]
	replaceText *observe.Value[string]
	matchCase   *observe.Value[bool]
	wholeWords  *observe.Value[bool]
	regex       *observe.Value[bool]

	matchCount      *observe.Value[int]
	highlightOffset *observe.Value[int]
	isDirty         *observe.Value[bool]
	searched        *observe.Value[bool]
	commands        *observe.Value[command.Enabled]
	message         *observe.Value[string]

	handler Handler
}

// New creates an empty Form with the given option defaults.
func New(defaults matcher.Options) *Form {
	return &Form{
		searchText:      observe.NewValue(""),
		replaceText:     observe.NewValue(""),
		matchCase:       observe.NewValue(defaults.MatchCase),
		wholeWords:      observe.NewValue(defaults.WholeWords),
		regex:           observe.NewValue(defaults.Regex),
		matchCount:      observe.NewValue(0),
		highlightOffset: observe.NewValue(0),
		isDirty:         observe.NewValue(false),
		searched:        observe.NewValue(false),
		commands:        observe.NewValue(command.Enabled{}),
		message:         observe.NewValue(""),
	}
}

// SetHandler sets where intents are forwarded.
func (f *Form) SetHandler(h Handler) {
	f.handler = h
}

// SearchText returns the search field.
func (f *Form) SearchText() *observe.Value[string] { return f.searchText }

// ReplaceText returns the replace field.
func (f *Form) ReplaceText() *observe.Value[string] { return f.replaceText }

// MatchCount returns the displayed number of results.
func (f *Form) MatchCount() *observe.Value[int] { return f.matchCount }

// HighlightOffset returns the displayed 1-based highlighted position.
func (f *Form) HighlightOffset() *observe.Value[int] { return f.highlightOffset }

// IsDirty returns the dirty flag: criteria edited since the last search.
func (f *Form) IsDirty() *observe.Value[bool] { return f.isDirty }

// Searched returns whether a search has run in this session.
func (f *Form) Searched() *observe.Value[bool] { return f.searched }

// Commands returns the combined enabled state of the commands.
func (f *Form) Commands() *observe.Value[command.Enabled] { return f.commands }

// Message returns the last status or error message.
func (f *Form) Message() *observe.Value[string] { return f.message }

// Options returns the option toggles.
func (f *Form) Options() matcher.Options {
	return matcher.Options{
		MatchCase:  f.matchCase.Get(),
		WholeWords: f.wholeWords.Get(),
		Regex:      f.regex.Get(),
	}
}

// TypeSearch sets the search field as the user would.
func (f *Form) TypeSearch(text string) {
	if f.searchText.Set(text) {
		f.isDirty.Set(true)
	}
}

// TypeReplace sets the replace field. The replace text does not affect
// results, so it never dirties the form.
func (f *Form) TypeReplace(text string) {
	f.replaceText.Set(text)
}

// ToggleMatchCase flips the match-case option.
func (f *Form) ToggleMatchCase() { f.toggle(f.matchCase) }

// ToggleWholeWords flips the whole-words option.
func (f *Form) ToggleWholeWords() { f.toggle(f.wholeWords) }

// ToggleRegex flips the regular-expression option.
func (f *Form) ToggleRegex() { f.toggle(f.regex) }

// SetOptions sets all option toggles at once, marking the form dirty if
// any of them changed.
func (f *Form) SetOptions(opts matcher.Options) {
	changed := f.matchCase.Set(opts.MatchCase)
	changed = f.wholeWords.Set(opts.WholeWords) || changed
	changed = f.regex.Set(opts.Regex) || changed
	if changed {
		f.isDirty.Set(true)
	}
}

func (f *Form) toggle(v *observe.Value[bool]) {
	v.Set(!v.Get())
	f.isDirty.Set(true)
}

// SubmitFindNext forwards a find-next intent.
func (f *Form) SubmitFindNext() error {
	return f.submit(func(h Handler) error { return h.FindNext(f.searchText.Get()) })
}

// SubmitFindPrevious forwards a find-previous intent.
func (f *Form) SubmitFindPrevious() error {
	return f.submit(func(h Handler) error { return h.FindPrevious(f.searchText.Get()) })
}

// SubmitReplace forwards a replace intent.
func (f *Form) SubmitReplace() error {
	return f.submit(func(h Handler) error {
		return h.Replace(f.searchText.Get(), f.replaceText.Get())
	})
}

// SubmitReplaceAll forwards a replace-all intent.
func (f *Form) SubmitReplaceAll() error {
	return f.submit(func(h Handler) error {
		return h.ReplaceAll(f.searchText.Get(), f.replaceText.Get())
	})
}

func (f *Form) submit(fn func(Handler) error) error {
	if f.handler == nil {
		return ErrNoHandler
	}
	if f.searchText.Get() == "" {
		f.message.Set("type something to find")
		return ErrEmptySearch
	}
	if err := fn(f.handler); err != nil {
		f.message.Set(err.Error())
		return err
	}
	return nil
}

// Counter returns the results counter shown next to the search field:
// "3 of 10", "10 results" or "No results". It is empty before the first
// search, and marked as provisional while the form is dirty.
func (f *Form) Counter() string {
	if !f.searched.Get() || f.searchText.Get() == "" {
		return ""
	}

	count, offset := f.matchCount.Get(), f.highlightOffset.Get()
	var s string
	switch {
	case count == 0:
		s = "No results"
	case offset > 0:
		s = fmt.Sprintf("%d of %d", offset, count)
	case count == 1:
		s = "1 result"
	default:
		s = fmt.Sprintf("%d results", count)
	}
	if f.isDirty.Get() {
		s += " (stale)"
	}
	return s
}
