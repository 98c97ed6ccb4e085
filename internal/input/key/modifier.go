package key

import "strings"

// Modifier is the set of modifier keys held with a key.
type Modifier uint8

// Modifier bits. Combine them with With or |.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta

	ModNone Modifier = 0
)

// modifierOrder is the order modifiers appear in a canonical chord.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModMeta, "Meta"},
}

// Has reports whether any of the bits in mod are held.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// String joins the held modifiers in canonical order, e.g. "Ctrl+Shift".
func (m Modifier) String() string {
	names := make([]string, 0, len(modifierOrder))
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			names = append(names, o.name)
		}
	}
	return strings.Join(names, "+")
}

// modifierAliases accepts long names, macOS names and the one-letter
// prefixes of "<C-f>" style specs.
var modifierAliases = map[string]Modifier{
	"ctrl": ModCtrl, "control": ModCtrl, "c": ModCtrl,
	"alt": ModAlt, "option": ModAlt, "opt": ModAlt, "a": ModAlt,
	"shift": ModShift, "s": ModShift,
	"meta": ModMeta, "cmd": ModMeta, "super": ModMeta, "m": ModMeta,
}

// ModifierFromName looks up a modifier name, ignoring case. Unknown names
// give ModNone.
func ModifierFromName(name string) Modifier {
	return modifierAliases[strings.ToLower(strings.TrimSpace(name))]
}
