package key

import (
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsChar returns true if this is a printable character typed without
// Ctrl, Alt or Meta.
func (e Event) IsChar() bool {
	return e.Key == KeyRune && unicode.IsPrint(e.Rune) &&
		e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// String returns the canonical "Ctrl+F" form. Parse(e.String()) == e.
func (e Event) String() string {
	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	default:
		name = e.Key.String()
	}

	mods := e.Modifiers
	// Shift on a character is part of the character itself.
	if e.Key == KeyRune && !mods.Has(ModCtrl|ModAlt|ModMeta) {
		mods &^= ModShift
	}
	if mods == ModNone {
		return name
	}
	return mods.String() + "+" + name
}

// Equals compares key, rune and modifiers. Character comparison ignores
// case when Ctrl, Alt or Meta is held, since terminals report the case of
// chorded letters inconsistently.
func (e Event) Equals(other Event) bool {
	if e.Key != other.Key || e.Modifiers != other.Modifiers {
		return false
	}
	if e.Key != KeyRune {
		return true
	}
	if e.Modifiers.Has(ModCtrl | ModAlt | ModMeta) {
		return unicode.ToLower(e.Rune) == unicode.ToLower(other.Rune)
	}
	return e.Rune == other.Rune
}

// Matches returns true if e equals the event described by spec.
func (e Event) Matches(spec string) bool {
	other, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Equals(other)
}
