package key

import (
	"fmt"
	"sort"
	"sync"
)

// Find bar actions.
const (
	ActionOpen            = "open"
	ActionClose           = "close"
	ActionFindNext        = "findNext"
	ActionFindPrevious    = "findPrevious"
	ActionReplace         = "replace"
	ActionReplaceAll      = "replaceAll"
	ActionToggleMatchCase = "toggleMatchCase"
	ActionToggleWholeWord = "toggleWholeWords"
	ActionToggleRegex     = "toggleRegex"
	ActionSwitchField     = "switchField"
)

// DefaultBindings returns the default find bar key bindings.
func DefaultBindings() map[string]string {
	return map[string]string{
		ActionOpen:            "Ctrl+F",
		ActionClose:           "Esc",
		ActionFindNext:        "Enter",
		ActionFindPrevious:    "Shift+Enter",
		ActionReplace:         "Ctrl+R",
		ActionReplaceAll:      "Ctrl+A",
		ActionToggleMatchCase: "Alt+C",
		ActionToggleWholeWord: "Alt+W",
		ActionToggleRegex:     "Alt+R",
		ActionSwitchField:     "Tab",
	}
}

type binding struct {
	event  Event
	action string
}

// Keymap resolves key events to action names.
type Keymap struct {
	mu       sync.RWMutex
	bindings []binding
}

// NewKeymap creates a keymap from action → spec pairs.
// Every spec must parse.
func NewKeymap(specs map[string]string) (*Keymap, error) {
	km := &Keymap{}
	actions := make([]string, 0, len(specs))
	for action := range specs {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		if err := km.Bind(action, specs[action]); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// Bind binds spec to action, replacing any previous binding for the action.
func (km *Keymap) Bind(action, spec string) error {
	ev, err := Parse(spec)
	if err != nil {
		return fmt.Errorf("bind %s: %w", action, err)
	}
	km.mu.Lock()
	defer km.mu.Unlock()
	for i, b := range km.bindings {
		if b.action == action {
			km.bindings[i].event = ev
			return nil
		}
	}
	km.bindings = append(km.bindings, binding{event: ev, action: action})
	return nil
}

// Lookup returns the action bound to ev.
func (km *Keymap) Lookup(ev Event) (string, bool) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	for _, b := range km.bindings {
		if b.event.Equals(ev) {
			return b.action, true
		}
	}
	return "", false
}

// Binding returns the event bound to action.
func (km *Keymap) Binding(action string) (Event, bool) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	for _, b := range km.bindings {
		if b.action == action {
			return b.event, true
		}
	}
	return Event{}, false
}
