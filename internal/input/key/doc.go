// Package key provides keystroke types and parsing for the find bar.
//
//   - Key: identifies a keyboard key (special keys or runes)
//   - Modifier: modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: a single key press with modifiers
//   - Keymap: action names bound to keystrokes
//
// # Key Specifications
//
// Key specifications can be written in two formats:
//
//   - With modifiers: "Ctrl+F", "Alt+C", "Shift+Enter"
//   - Vim-style: "<C-f>", "<A-c>", "<S-CR>", "<Esc>"
//
// Both parse to the same Event, so configuration files may use either.
package key
