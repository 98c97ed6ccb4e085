// Package session owns one find-and-replace session.
//
// A Session wires the pieces of the find subsystem together:
//
//   - the editing state (results, highlight, criteria)
//   - the index controller (match count, highlight offset, dirty state)
//   - the command registry (find, findNext, findPrevious, replace, replaceAll)
//   - the form the user edits
//
// Form intents are forwarded to the Session, which decides whether the
// criteria changed and a new search must run before stepping or replacing.
// Controller outputs and command enabled flags are bound back into the form.
//
// Sessions are not safe for concurrent use; drive them from the UI goroutine.
package session
