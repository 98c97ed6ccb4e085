package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidSpec is returned when a key specification cannot be parsed.
var ErrInvalidSpec = errors.New("invalid key spec")

// Parse parses a key specification into an Event.
//
// Supported formats:
//   - Plain keys: "a", "Enter", "Esc", "F3"
//   - Modifier style: "Ctrl+F", "Alt+Shift+Enter", "ctrl-f"
//   - Vim style: "<C-f>", "<A-c>", "<S-CR>", "<Esc>"
func Parse(spec string) (Event, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return Event{}, fmt.Errorf("%w: empty", ErrInvalidSpec)
	}

	if len(s) > 2 && s[0] == '<' && s[len(s)-1] == '>' {
		ev, err := parseParts(strings.Split(s[1:len(s)-1], "-"))
		if err != nil {
			return Event{}, fmt.Errorf("%w: %q: %v", ErrInvalidSpec, spec, err)
		}
		return ev, nil
	}

	// A single character is always a plain key, even '+' or '-'.
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return NewRuneEvent(r, ModNone), nil
	}

	sep := "+"
	if !strings.Contains(s, "+") && strings.Contains(s, "-") {
		sep = "-"
	}
	ev, err := parseParts(splitKeepingTrailing(s, sep))
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %v", ErrInvalidSpec, spec, err)
	}
	return ev, nil
}

// splitKeepingTrailing splits on sep, treating a trailing separator as the key
// itself ("Ctrl++" is Ctrl and '+').
func splitKeepingTrailing(s, sep string) []string {
	if strings.HasSuffix(s, sep+sep) {
		parts := strings.Split(strings.TrimSuffix(s, sep+sep), sep)
		return append(parts, sep)
	}
	return strings.Split(s, sep)
}

func parseParts(parts []string) (Event, error) {
	if len(parts) == 0 {
		return Event{}, errors.New("no key")
	}
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m := ModifierFromName(p)
		if m == ModNone {
			return Event{}, fmt.Errorf("unknown modifier %q", p)
		}
		mods = mods.With(m)
	}

	name := parts[len(parts)-1]
	if name == "" {
		return Event{}, errors.New("missing key")
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return NewRuneEvent(r, mods), nil
	}
	if strings.EqualFold(name, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	k := KeyFromName(name)
	if k == KeyNone {
		return Event{}, fmt.Errorf("unknown key %q", name)
	}
	return NewSpecialEvent(k, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for constant specs.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return ev
}
