// Package editing holds the observable state of a find-and-replace session:
// the live result set, the highlighted result and the search criteria.
package editing

import (
	"errors"

	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/find/observe"
	"github.com/dshills/findreplace/internal/find/result"
)

// ErrNotMember is returned when highlighting a result outside the set.
var ErrNotMember = errors.New("result is not in the current result set")

// Criteria is a snapshot of everything that determines search results.
type Criteria struct {
	SearchText string
	Options    matcher.Options
}

// State is the editing-state provider for one find session.
type State struct {
	results     *result.Set
	highlighted *observe.Value[*result.Result]

	searchText  *observe.Value[string]
	replaceText *observe.Value[string]
	matchCase   *observe.Value[bool]
	wholeWords  *observe.Value[bool]
	regex       *observe.Value[bool]

	criteria observe.Listeners[Criteria]
	subs     observe.Group
}

// New creates an empty State with the given default options.
func New(defaults matcher.Options) *State {
	s := &State{
		results:     result.NewSet(),
		highlighted: observe.NewValue[*result.Result](nil),
		searchText:  observe.NewValue(""),
		replaceText: observe.NewValue(""),
		matchCase:   observe.NewValue(defaults.MatchCase),
		wholeWords:  observe.NewValue(defaults.WholeWords),
		regex:       observe.NewValue(defaults.Regex),
	}

	// A highlight must always be a member of the result set.
	s.subs.Add(s.results.Subscribe(func(c result.SetChange) {
		h := s.highlighted.Get()
		if h != nil && !s.results.Contains(h) {
			s.highlighted.Set(nil)
		}
	}))

	publish := func() { s.criteria.Notify(s.Criteria()) }
	s.subs.Add(
		s.searchText.Subscribe(func(_, _ string) { publish() }),
		s.matchCase.Subscribe(func(_, _ bool) { publish() }),
		s.wholeWords.Subscribe(func(_, _ bool) { publish() }),
		s.regex.Subscribe(func(_, _ bool) { publish() }),
	)
	return s
}

// Results returns the live result set.
func (s *State) Results() *result.Set {
	return s.results
}

// Highlighted returns the observable highlighted result (nil for none).
func (s *State) Highlighted() *observe.Value[*result.Result] {
	return s.highlighted
}

// Highlight makes r the highlighted result. nil clears the highlight.
func (s *State) Highlight(r *result.Result) error {
	if r != nil && !s.results.Contains(r) {
		return ErrNotMember
	}
	s.highlighted.Set(r)
	return nil
}

// SearchText returns the observable search text.
func (s *State) SearchText() *observe.Value[string] { return s.searchText }

// ReplaceText returns the observable replacement text.
func (s *State) ReplaceText() *observe.Value[string] { return s.replaceText }

// MatchCase returns the observable match-case option.
func (s *State) MatchCase() *observe.Value[bool] { return s.matchCase }

// WholeWords returns the observable whole-words option.
func (s *State) WholeWords() *observe.Value[bool] { return s.wholeWords }

// Regex returns the observable regular-expression option.
func (s *State) Regex() *observe.Value[bool] { return s.regex }

// Options returns the current match options.
func (s *State) Options() matcher.Options {
	return matcher.Options{
		MatchCase:  s.matchCase.Get(),
		WholeWords: s.wholeWords.Get(),
		Regex:      s.regex.Get(),
	}
}

// SetOptions updates all match options.
func (s *State) SetOptions(opts matcher.Options) {
	s.matchCase.Set(opts.MatchCase)
	s.wholeWords.Set(opts.WholeWords)
	s.regex.Set(opts.Regex)
}

// Criteria returns the current search criteria.
func (s *State) Criteria() Criteria {
	return Criteria{SearchText: s.searchText.Get(), Options: s.Options()}
}

// OnCriteriaChange registers fn for changes of search text or options.
func (s *State) OnCriteriaChange(fn func(Criteria)) *observe.Subscription {
	return s.criteria.Add(fn)
}

// Clear removes all results and the highlight.
func (s *State) Clear() {
	s.highlighted.Set(nil)
	s.results.Clear()
}

// Close detaches internal subscriptions.
func (s *State) Close() {
	s.subs.CancelAll()
}
