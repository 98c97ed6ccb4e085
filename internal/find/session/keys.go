package session

import (
	"go.uber.org/zap"

	"github.com/dshills/findreplace/internal/input/key"
)

// HandleKey runs the find bar action bound to ev. While the bar is closed
// only the open binding is honored. It reports whether ev was consumed.
// Text entry into the fields is left to the caller.
func (s *Session) HandleKey(ev key.Event) (bool, error) {
	action, ok := s.keymap.Lookup(ev)
	if !ok {
		return false, nil
	}
	if !s.open {
		if action != key.ActionOpen {
			return false, nil
		}
		s.Open()
		return true, nil
	}

	s.logger.Debug("find bar action", zap.String("action", action), zap.Stringer("key", ev))

	var err error
	switch action {
	case key.ActionOpen:
		// Already open; the caller moves focus to the search field.
	case key.ActionClose:
		s.Close()
	case key.ActionFindNext:
		err = s.form.SubmitFindNext()
	case key.ActionFindPrevious:
		err = s.form.SubmitFindPrevious()
	case key.ActionReplace:
		err = s.form.SubmitReplace()
	case key.ActionReplaceAll:
		err = s.form.SubmitReplaceAll()
	case key.ActionToggleMatchCase:
		s.form.ToggleMatchCase()
	case key.ActionToggleWholeWord:
		s.form.ToggleWholeWords()
	case key.ActionToggleRegex:
		s.form.ToggleRegex()
	default:
		return false, nil
	}
	return true, err
}
