// Package matcher locates search matches in text.
//
// A Pattern is compiled once from the search text and Options and can then
// be run against any text. Literal search text is quoted; with Regex set the
// text is used as a Go regular expression. WholeWords rejects matches that
// are adjacent to a letter, digit or underscore (Unicode-aware, unlike \b).
package matcher
