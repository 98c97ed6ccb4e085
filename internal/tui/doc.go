// Package tui is the terminal front end: a read-mostly document view with a
// find bar, drawn with tcell.
//
// The view shows every result of the current search; the highlighted result
// is drawn in a distinct style and scrolled into view. The find bar shows
// the search and replace fields, the option toggles and the results counter
// ("3 of 10"), which is marked stale while the criteria differ from the last
// search.
package tui
