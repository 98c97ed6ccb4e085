package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/findreplace/internal/engine/buffer"
)

func texts(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Text
	}
	return out
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("", Options{})
	assert.True(t, errors.Is(err, ErrEmptyPattern))

	_, err = Compile("(", Options{Regex: true})
	assert.True(t, errors.Is(err, ErrInvalidPattern))

	_, err = Compile("(", Options{})
	assert.NoError(t, err, "literal text is quoted")
}

func TestFindAll(t *testing.T) {
	text := "Foo foo food fOO_bar (foo) föo"

	tests := []struct {
		name  string
		query string
		opts  Options
		want  []string
	}{
		{"case insensitive", "foo", Options{}, []string{"Foo", "foo", "foo", "fOO", "foo"}},
		{"match case", "foo", Options{MatchCase: true}, []string{"foo", "foo", "foo"}},
		{"whole words", "foo", Options{WholeWords: true}, []string{"Foo", "foo", "foo"}},
		{"whole words match case", "Foo", Options{WholeWords: true, MatchCase: true}, []string{"Foo"}},
		{"regex", `f.o`, Options{Regex: true, MatchCase: true}, []string{"foo", "foo", "foo", "föo"}},
		{"literal dot", `f.o`, Options{}, nil},
		{"parens literal", `(foo)`, Options{}, []string{"(foo)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.query, tt.opts)
			require.NoError(t, err)
			got := texts(p.FindAll(text, 0))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAllRanges(t *testing.T) {
	p, err := Compile("ab", Options{})
	require.NoError(t, err)

	ms := p.FindAll("xxab\nab", 0)
	require.Len(t, ms, 2)
	assert.Equal(t, buffer.NewRange(2, 4), ms[0].Range)
	assert.Equal(t, buffer.NewRange(5, 7), ms[1].Range)
}

func TestFindAllSkipsEmptyMatches(t *testing.T) {
	p, err := Compile("a*", Options{Regex: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"aa", "a"}, texts(p.FindAll("baab a", 0)))
}

func TestFindAllLimit(t *testing.T) {
	p, err := Compile("x", Options{})
	require.NoError(t, err)

	assert.Len(t, p.FindAll("xxxxx", 2), 2)
	assert.Len(t, p.FindAll("xxxxx", 0), 5)
}

func TestReplacement(t *testing.T) {
	text := "key=value"

	re, err := Compile(`(\w+)=(\w+)`, Options{Regex: true})
	require.NoError(t, err)
	ms := re.FindAll(text, 0)
	require.Len(t, ms, 1)
	assert.Equal(t, "value:key", re.Replacement(text, ms[0], "$2:$1"))

	lit, err := Compile("key", Options{})
	require.NoError(t, err)
	ms = lit.FindAll(text, 0)
	require.Len(t, ms, 1)
	assert.Equal(t, "$2", lit.Replacement(text, ms[0], "$2"))
}
