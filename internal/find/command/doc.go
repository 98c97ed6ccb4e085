// Package command provides the find-and-replace command registry.
//
// Five commands are registered by New:
//
//	find          run a search and fill the result set
//	findNext      highlight the next result in document order (wraps)
//	findPrevious  highlight the previous result in document order (wraps)
//	replace       replace the highlighted result
//	replaceAll    replace every occurrence of the search text
//
// Each command exposes an observable Enabled flag. The registry combines the
// flags of the four navigation/replace commands into one Enabled value that
// the find form binds to.
//
// Commands operate on an Env: the buffer, the editing state and the index
// controller of one session. The registry keeps the result set in step with
// buffer edits, so results made stale by an edit disappear and results after
// it move with the text.
package command
