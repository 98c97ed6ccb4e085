package command

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/editing"
	"github.com/dshills/findreplace/internal/find/index"
	"github.com/dshills/findreplace/internal/find/matcher"
)

type fixture struct {
	buf    *buffer.Buffer
	state  *editing.State
	ctrl   *index.Controller
	reg    *Registry
	cursor buffer.ByteOffset
}

func newFixture(t *testing.T, text string, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		buf:   buffer.NewBufferFromString(text),
		state: editing.New(matcher.Options{}),
		ctrl:  index.NewController(),
	}
	f.reg = New(Env{
		Buffer: f.buf,
		State:  f.state,
		Index:  f.ctrl,
		Cursor: func() buffer.ByteOffset { return f.cursor },
	}, opts...)
	t.Cleanup(f.reg.Close)
	return f
}

func (f *fixture) offset() int {
	return f.ctrl.ComputeHighlightOffset(f.state.Results(), f.state.Highlighted().Get())
}

func TestNewRegistersCommands(t *testing.T) {
	f := newFixture(t, "abc")

	assert.Equal(t, []string{NameFind, NameFindNext, NameFindPrevious, NameReplace, NameReplaceAll}, f.reg.Names())
	assert.ErrorIs(t, f.reg.Register(newFuncCommand(NameFind, nil)), ErrDuplicateCommand)
}

func TestEnabledRules(t *testing.T) {
	f := newFixture(t, "one two one")

	find, _ := f.reg.Get(NameFind)
	assert.True(t, find.Enabled().Get())
	assert.Equal(t, Enabled{}, f.reg.Enabled().Get())

	_, err := f.reg.Execute(NameFind, Args{SearchText: "two"})
	require.NoError(t, err)
	assert.Equal(t, Enabled{Replace: true, ReplaceAll: true}, f.reg.Enabled().Get())

	_, err = f.reg.Execute(NameFind, Args{SearchText: "one"})
	require.NoError(t, err)
	assert.Equal(t, Enabled{FindNext: true, FindPrevious: true, Replace: true, ReplaceAll: true}, f.reg.Enabled().Get())
	assert.True(t, f.reg.Enabled().Get().Any())

	f.buf.SetReadOnly(true)
	f.reg.Refresh()
	assert.Equal(t, Enabled{FindNext: true, FindPrevious: true}, f.reg.Enabled().Get())
}

func TestExecuteErrors(t *testing.T) {
	f := newFixture(t, "abc")

	_, err := f.reg.Execute("bogus", Args{})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = f.reg.Execute(NameFindNext, Args{})
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = f.reg.Execute(NameFind, Args{})
	assert.ErrorIs(t, err, ErrNoSearchText)

	f.state.Regex().Set(true)
	_, err = f.reg.Execute(NameFind, Args{SearchText: "("})
	assert.ErrorIs(t, err, matcher.ErrInvalidPattern)
	assert.Equal(t, index.Idle, f.ctrl.State())
}

func TestFindHighlightsFirstAtOrAfterCursor(t *testing.T) {
	f := newFixture(t, "cat dog cat dog cat")
	f.cursor = 5

	out, err := f.reg.Execute(NameFind, Args{SearchText: "cat"})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, out.Status)
	assert.Equal(t, 3, out.Results)
	assert.Equal(t, buffer.NewRange(8, 11), out.Highlighted.Range())
	assert.Equal(t, 2, f.offset())
	assert.Equal(t, index.SearchActive, f.ctrl.State())
	assert.Equal(t, "cat", f.state.SearchText().Get())
}

func TestFindWrapsHighlightPastLastResult(t *testing.T) {
	f := newFixture(t, "cat dog")
	f.cursor = 6

	out, err := f.reg.Execute(NameFind, Args{SearchText: "cat"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.offset())
	assert.Equal(t, buffer.NewRange(0, 3), out.Highlighted.Range())
}

func TestFindNoResults(t *testing.T) {
	f := newFixture(t, "abc")

	out, err := f.reg.Execute(NameFind, Args{SearchText: "zzz"})
	require.NoError(t, err)

	assert.Equal(t, StatusNoOp, out.Status)
	assert.Nil(t, f.state.Highlighted().Get())
	assert.Equal(t, index.SearchActive, f.ctrl.State())
}

func TestFindUsesStateOptionsAndCap(t *testing.T) {
	f := newFixture(t, "Go go GO gopher")
	f.reg.env.MaxResults = 2
	f.state.SetOptions(matcher.Options{WholeWords: true})

	out, err := f.reg.Execute(NameFind, Args{SearchText: "go"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Results)

	f.reg.env.MaxResults = 0
	f.state.MatchCase().Set(true)
	out, err = f.reg.Execute(NameFind, Args{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Results)
}

func TestFindNextAndPreviousWrap(t *testing.T) {
	f := newFixture(t, "x1 x2 x3")
	_, err := f.reg.Execute(NameFind, Args{SearchText: "x"})
	require.NoError(t, err)
	require.Equal(t, 1, f.offset())

	var offsets []int
	for i := 0; i < 4; i++ {
		out, err := f.reg.Execute(NameFindNext, Args{})
		require.NoError(t, err)
		offsets = append(offsets, f.offset())
		assert.Equal(t, 3, out.Results)
	}
	assert.Equal(t, []int{2, 3, 1, 2}, offsets)

	offsets = nil
	for i := 0; i < 3; i++ {
		_, err := f.reg.Execute(NameFindPrevious, Args{})
		require.NoError(t, err)
		offsets = append(offsets, f.offset())
	}
	assert.Equal(t, []int{1, 3, 2}, offsets)
}

func TestFindPreviousWithoutHighlightUsesCursor(t *testing.T) {
	f := newFixture(t, "ab ab ab")
	_, err := f.reg.Execute(NameFind, Args{SearchText: "ab"})
	require.NoError(t, err)
	require.NoError(t, f.state.Highlight(nil))
	f.cursor = 4

	out, err := f.reg.Execute(NameFindPrevious, Args{})
	require.NoError(t, err)
	assert.Equal(t, buffer.NewRange(3, 5), out.Highlighted.Range())
}

func TestReplaceMovesToNextResult(t *testing.T) {
	f := newFixture(t, "a-a-a")
	_, err := f.reg.Execute(NameFind, Args{SearchText: "a"})
	require.NoError(t, err)

	out, err := f.reg.Execute(NameReplace, Args{ReplaceText: "bb"})
	require.NoError(t, err)

	assert.Equal(t, "bb-a-a", f.buf.Text())
	assert.Equal(t, 1, out.Replaced)
	assert.Equal(t, 2, out.Results)
	require.NotNil(t, out.Highlighted)
	assert.Equal(t, buffer.NewRange(3, 4), out.Highlighted.Range())
	assert.Equal(t, 1, f.offset())
}

func TestReplaceTextContainingSearchTextTerminates(t *testing.T) {
	f := newFixture(t, "a a")
	_, err := f.reg.Execute(NameFind, Args{SearchText: "a"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.reg.Execute(NameReplace, Args{ReplaceText: "aa"})
		require.NoError(t, err)
	}

	assert.Equal(t, "aa aa", f.buf.Text())
	assert.Equal(t, 0, f.state.Results().Len())
	_, err = f.reg.Execute(NameReplace, Args{ReplaceText: "aa"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestReplaceRegexExpandsGroups(t *testing.T) {
	f := newFixture(t, "k1=v1 k2=v2")
	f.state.Regex().Set(true)
	_, err := f.reg.Execute(NameFind, Args{SearchText: `(\w+)=(\w+)`})
	require.NoError(t, err)

	_, err = f.reg.Execute(NameReplace, Args{ReplaceText: "$2=$1"})
	require.NoError(t, err)

	assert.Equal(t, "v1=k1 k2=v2", f.buf.Text())
}

func TestReplaceReadOnly(t *testing.T) {
	f := newFixture(t, "abc")
	_, err := f.reg.Execute(NameFind, Args{SearchText: "b"})
	require.NoError(t, err)

	f.buf.SetReadOnly(true)
	_, err = f.reg.Execute(NameReplace, Args{ReplaceText: "x"})
	assert.True(t, errors.Is(err, ErrDisabled))
	assert.Equal(t, "abc", f.buf.Text())
}

func TestReplaceAll(t *testing.T) {
	f := newFixture(t, "foo bar foo baz foo")
	_, err := f.reg.Execute(NameFind, Args{SearchText: "foo"})
	require.NoError(t, err)

	out, err := f.reg.Execute(NameReplaceAll, Args{ReplaceText: "qux"})
	require.NoError(t, err)

	assert.Equal(t, "qux bar qux baz qux", f.buf.Text())
	assert.Equal(t, 3, out.Replaced)
	assert.Equal(t, 0, f.state.Results().Len())
	assert.Nil(t, f.state.Highlighted().Get())
	assert.Equal(t, index.SearchActive, f.ctrl.State())
	assert.Equal(t, Enabled{}, f.reg.Enabled().Get())
}

func TestBufferEditsTrackResults(t *testing.T) {
	f := newFixture(t, "ab ab ab")
	_, err := f.reg.Execute(NameFind, Args{SearchText: "ab"})
	require.NoError(t, err)
	items := f.state.Results().Items()
	require.Len(t, items, 3)
	require.NoError(t, f.state.Highlight(items[2]))

	_, err = f.buf.Replace(3, 4, "X")
	require.NoError(t, err)
	assert.Equal(t, 2, f.state.Results().Len())
	assert.Equal(t, 2, f.offset())

	_, err = f.buf.Replace(0, 0, ">>")
	require.NoError(t, err)
	assert.Equal(t, buffer.NewRange(8, 10), items[2].Range())
}

type recorder struct {
	commands []string
	searches int
	replaced int
}

func (r *recorder) RecordCommand(name string, err error) {
	if err != nil {
		name += "!"
	}
	r.commands = append(r.commands, name)
}

func (r *recorder) RecordSearch(results int, _ time.Duration) { r.searches += results }
func (r *recorder) RecordReplace(n int)                       { r.replaced += n }

func TestRecorder(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, "a a a", WithRecorder(rec))

	_, _ = f.reg.Execute(NameFind, Args{SearchText: "a"})
	_, _ = f.reg.Execute(NameReplace, Args{ReplaceText: "b"})
	_, _ = f.reg.Execute(NameReplaceAll, Args{ReplaceText: "c"})
	_, _ = f.reg.Execute(NameFindNext, Args{})

	assert.Equal(t, []string{NameFind, NameReplace, NameReplaceAll, NameFindNext + "!"}, rec.commands)
	assert.Equal(t, 3, rec.searches)
	assert.Equal(t, 3, rec.replaced)
}
