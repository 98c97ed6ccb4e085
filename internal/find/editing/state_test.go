package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/find/result"
)

func TestNewUsesDefaults(t *testing.T) {
	s := New(matcher.Options{MatchCase: true, Regex: true})

	assert.Equal(t, matcher.Options{MatchCase: true, Regex: true}, s.Options())
	assert.Equal(t, 0, s.Results().Len())
	assert.Nil(t, s.Highlighted().Get())
}

func TestHighlightRequiresMembership(t *testing.T) {
	s := New(matcher.Options{})
	r := result.New(buffer.NewRange(0, 1), "a")

	assert.ErrorIs(t, s.Highlight(r), ErrNotMember)

	s.Results().Add(r)
	require.NoError(t, s.Highlight(r))
	assert.Same(t, r, s.Highlighted().Get())

	require.NoError(t, s.Highlight(nil))
	assert.Nil(t, s.Highlighted().Get())
}

func TestRemovingHighlightedClearsHighlight(t *testing.T) {
	s := New(matcher.Options{})
	a := result.New(buffer.NewRange(0, 1), "a")
	b := result.New(buffer.NewRange(2, 3), "b")
	s.Results().Add(a, b)
	require.NoError(t, s.Highlight(a))

	s.Results().Remove(b)
	assert.Same(t, a, s.Highlighted().Get())

	s.Results().Remove(a)
	assert.Nil(t, s.Highlighted().Get())
}

func TestClear(t *testing.T) {
	s := New(matcher.Options{})
	a := result.New(buffer.NewRange(0, 1), "a")
	s.Results().Add(a)
	require.NoError(t, s.Highlight(a))

	s.Clear()

	assert.Equal(t, 0, s.Results().Len())
	assert.Nil(t, s.Highlighted().Get())
}

func TestCriteriaChange(t *testing.T) {
	s := New(matcher.Options{})
	var got []Criteria
	s.OnCriteriaChange(func(c Criteria) { got = append(got, c) })

	s.SearchText().Set("foo")
	s.SearchText().Set("foo")
	s.WholeWords().Set(true)
	s.ReplaceText().Set("bar")

	require.Len(t, got, 2)
	assert.Equal(t, "foo", got[0].SearchText)
	assert.Equal(t, Criteria{SearchText: "foo", Options: matcher.Options{WholeWords: true}}, got[1])
}

func TestSetOptions(t *testing.T) {
	s := New(matcher.Options{})
	s.SetOptions(matcher.Options{MatchCase: true, WholeWords: true})

	assert.True(t, s.MatchCase().Get())
	assert.True(t, s.WholeWords().Get())
	assert.False(t, s.Regex().Get())
}

func TestClose(t *testing.T) {
	s := New(matcher.Options{})
	calls := 0
	s.OnCriteriaChange(func(Criteria) { calls++ })
	s.Close()

	s.SearchText().Set("x")
	assert.Equal(t, 0, calls)
}
