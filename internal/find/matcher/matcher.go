package matcher

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/findreplace/internal/engine/buffer"
)

// Errors returned when compiling a pattern.
var (
	ErrEmptyPattern   = errors.New("empty search pattern")
	ErrInvalidPattern = errors.New("invalid search pattern")
)

// Options control how search text is interpreted.
type Options struct {
	MatchCase  bool
	WholeWords bool
	Regex      bool
}

// Match is one occurrence of a pattern.
type Match struct {
	Range buffer.Range
	Text  string

	// submatch holds submatch byte offsets relative to the searched text,
	// used to expand $1-style references in regex replacements.
	submatch []int
}

// Pattern is a compiled search.
type Pattern struct {
	source string
	opts   Options
	re     *regexp.Regexp
}

// Compile builds a Pattern from search text and options.
func Compile(text string, opts Options) (*Pattern, error) {
	if text == "" {
		return nil, ErrEmptyPattern
	}

	expr := text
	if !opts.Regex {
		expr = regexp.QuoteMeta(text)
	}
	if !opts.MatchCase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	return &Pattern{source: text, opts: opts, re: re}, nil
}

// Source returns the search text the pattern was compiled from.
func (p *Pattern) Source() string {
	return p.source
}

// Options returns the options the pattern was compiled with.
func (p *Pattern) Options() Options {
	return p.opts
}

// FindAll returns non-overlapping, non-empty matches in text in document
// order. limit <= 0 means no limit.
func (p *Pattern) FindAll(text string, limit int) []Match {
	var matches []Match
	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start == end {
			continue
		}
		if p.opts.WholeWords && !isWholeWord(text, start, end) {
			continue
		}
		matches = append(matches, Match{
			Range:    buffer.NewRange(buffer.ByteOffset(start), buffer.ByteOffset(end)),
			Text:     text[start:end],
			submatch: loc,
		})
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches
}

// Replacement returns the text that replaces m. In regex mode, $1 and
// ${name} references in template are expanded against m; otherwise the
// template is used verbatim.
func (p *Pattern) Replacement(text string, m Match, template string) string {
	if !p.opts.Regex || m.submatch == nil {
		return template
	}
	return string(p.re.ExpandString(nil, template, text, m.submatch))
}

// isWholeWord reports whether text[start:end] is not glued to word
// characters on either side.
func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordChar(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordChar(r) {
			return false
		}
	}
	return true
}

// isWordChar returns true if the rune is a word character.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
