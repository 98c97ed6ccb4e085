package index

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/result"
)

func resultAt(pos buffer.ByteOffset) *result.Result {
	return result.New(buffer.NewRange(pos, pos+1), "m")
}

func setOf(rs ...*result.Result) *result.Set {
	s := result.NewSet()
	s.Add(rs...)
	return s
}

func TestComputeHighlightOffsetScenario(t *testing.T) {
	a, b, c := resultAt(10), resultAt(5), resultAt(20)
	r := setOf(a, b, c)
	ctrl := NewController()

	assert.Equal(t, 1, ctrl.ComputeHighlightOffset(r, b))
	assert.Equal(t, 2, ctrl.ComputeHighlightOffset(r, a))
	assert.Equal(t, 3, ctrl.ComputeHighlightOffset(r, c))
	assert.Equal(t, []*result.Result{a, b, c}, r.Items(), "results must not be reordered")
}

func TestComputeHighlightOffsetNone(t *testing.T) {
	ctrl := NewController()

	assert.Equal(t, 0, ctrl.ComputeHighlightOffset(setOf(), nil))
	assert.Equal(t, 0, ctrl.ComputeHighlightOffset(setOf(resultAt(1), resultAt(2)), nil))
	assert.Equal(t, 0, ctrl.ComputeHighlightOffset(nil, nil))
}

func TestEmptyScenario(t *testing.T) {
	ctrl := NewController()
	r := setOf()

	assert.Equal(t, 0, ctrl.ComputeHighlightOffset(r, nil))
	assert.Equal(t, 0, ctrl.OnResultSetChanged(r))
}

func TestComputeHighlightOffsetStaleClampsToZero(t *testing.T) {
	ctrl := NewController()
	stale := resultAt(3)

	offset, ok := ctrl.Lookup(setOf(resultAt(1), resultAt(5)), stale)
	assert.Equal(t, 0, offset)
	assert.False(t, ok)
	assert.Equal(t, 0, ctrl.ComputeHighlightOffset(setOf(resultAt(1)), stale))
}

func TestComputeHighlightOffsetTiesKeepInsertionOrder(t *testing.T) {
	ctrl := NewController()
	first := result.New(buffer.NewRange(7, 12), "longer")
	second := result.New(buffer.NewRange(7, 9), "sh")
	early := resultAt(2)
	r := setOf(first, early, second)

	assert.Equal(t, 2, ctrl.ComputeHighlightOffset(r, first))
	assert.Equal(t, 3, ctrl.ComputeHighlightOffset(r, second))

	swapped := setOf(second, early, first)
	assert.Equal(t, 2, ctrl.ComputeHighlightOffset(swapped, second))
	assert.Equal(t, 3, ctrl.ComputeHighlightOffset(swapped, first))
}

func TestComputeHighlightOffsetProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ctrl := NewController()

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(30)
		items := make([]*result.Result, n)
		for i := range items {
			items[i] = resultAt(buffer.ByteOffset(rng.Intn(50)))
		}
		r := setOf(items...)

		seen := make(map[int]bool)
		for _, h := range items {
			offset := ctrl.ComputeHighlightOffset(r, h)
			require.GreaterOrEqual(t, offset, 1)
			require.LessOrEqual(t, offset, n)
			require.Equal(t, offset, ctrl.ComputeHighlightOffset(r, h), "idempotent")
			require.False(t, seen[offset], "offsets are distinct")
			seen[offset] = true
		}

		for _, h1 := range items {
			for _, h2 := range items {
				if result.ByStart(h1, h2) == result.Before {
					require.Less(t, ctrl.ComputeHighlightOffset(r, h1), ctrl.ComputeHighlightOffset(r, h2))
				}
			}
		}
	}
}

func TestComputeHighlightOffsetRecomputedAfterMutation(t *testing.T) {
	ctrl := NewController()
	a, b := resultAt(10), resultAt(20)
	r := setOf(a, b)
	require.Equal(t, 2, ctrl.ComputeHighlightOffset(r, b))

	r.Add(resultAt(1))
	assert.Equal(t, 3, ctrl.ComputeHighlightOffset(r, b))

	r.Remove(a)
	assert.Equal(t, 2, ctrl.ComputeHighlightOffset(r, b))
}

func TestCustomComparator(t *testing.T) {
	reverse := func(a, b *result.Result) result.Order {
		return -result.ByStart(a, b)
	}
	ctrl := NewController(WithComparator(reverse))
	a, b := resultAt(1), resultAt(2)

	assert.Equal(t, 2, ctrl.ComputeHighlightOffset(setOf(a, b), a))
}

func TestOnResultSetChangedPublishesCount(t *testing.T) {
	ctrl := NewController()
	var counts []int
	ctrl.MatchCount().Subscribe(func(_, n int) { counts = append(counts, n) })

	r := setOf(resultAt(1), resultAt(2))
	assert.Equal(t, 2, ctrl.OnResultSetChanged(r))
	r.Clear()
	assert.Equal(t, 0, ctrl.OnResultSetChanged(r))

	assert.Equal(t, []int{2, 0}, counts)
}

func TestRefresh(t *testing.T) {
	ctrl := NewController()
	a, b := resultAt(9), resultAt(3)

	count, offset := ctrl.Refresh(setOf(a, b), a)

	assert.Equal(t, 2, count)
	assert.Equal(t, 2, offset)
	assert.Equal(t, 2, ctrl.HighlightOffset().Get())
	assert.Equal(t, 2, ctrl.MatchCount().Get())
}

func TestStateMachine(t *testing.T) {
	ctrl := NewController()
	var trs []Transition
	ctrl.OnTransition(func(tr Transition) { trs = append(trs, tr) })
	dirtySignals := 0
	ctrl.OnDirty(func() { dirtySignals++ })

	require.Equal(t, Idle, ctrl.State())

	assert.False(t, ctrl.MarkDirty(), "dirty is a no-op while idle")
	assert.Equal(t, Idle, ctrl.State())

	ctrl.SearchExecuted()
	assert.Equal(t, SearchActive, ctrl.State())
	ctrl.SearchExecuted()

	assert.True(t, ctrl.MarkDirty())
	assert.True(t, ctrl.IsDirty())
	assert.False(t, ctrl.MarkDirty())

	ctrl.SearchExecuted()
	assert.Equal(t, SearchActive, ctrl.State())

	ctrl.MarkDirty()
	ctrl.Reset()
	assert.Equal(t, Idle, ctrl.State())
	ctrl.Reset()

	assert.Equal(t, []Transition{
		{Idle, SearchActive},
		{SearchActive, Dirty},
		{Dirty, SearchActive},
		{SearchActive, Dirty},
		{Dirty, Idle},
	}, trs)
	assert.Equal(t, 2, dirtySignals)
}

func TestDirtyKeepsNumericOutputProvisional(t *testing.T) {
	ctrl := NewController()
	a := resultAt(4)
	r := setOf(a)

	ctrl.SearchExecuted()
	ctrl.MarkDirty()

	assert.True(t, ctrl.IsDirty())
	assert.Equal(t, 1, ctrl.ComputeHighlightOffset(r, a))
}

func TestResetClearsPublishedValues(t *testing.T) {
	ctrl := NewController()
	a := resultAt(4)
	ctrl.SearchExecuted()
	ctrl.Refresh(setOf(a), a)

	ctrl.Reset()

	assert.Equal(t, 0, ctrl.MatchCount().Get())
	assert.Equal(t, 0, ctrl.HighlightOffset().Get())
}

type recorder struct {
	got []Transition
}

func (r *recorder) RecordTransition(from, to State) {
	r.got = append(r.got, Transition{From: from, To: to})
}

func TestRecorder(t *testing.T) {
	rec := &recorder{}
	ctrl := NewController(WithRecorder(rec))

	ctrl.SearchExecuted()
	ctrl.MarkDirty()

	assert.Equal(t, []Transition{{Idle, SearchActive}, {SearchActive, Dirty}}, rec.got)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "active", SearchActive.String())
	assert.Equal(t, "dirty", Dirty.String())
	assert.Equal(t, "unknown", State(9).String())
}
