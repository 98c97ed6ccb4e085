package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueSetNotifiesOnChange(t *testing.T) {
	v := NewValue(1)

	var got []Change[int]
	v.Subscribe(func(old, new int) {
		got = append(got, Change[int]{Old: old, New: new})
	})

	assert.True(t, v.Set(2))
	assert.False(t, v.Set(2))
	assert.True(t, v.Set(5))

	assert.Equal(t, []Change[int]{{1, 2}, {2, 5}}, got)
	assert.Equal(t, 5, v.Get())
}

func TestValueBindStartsInSync(t *testing.T) {
	v := NewValue("a")

	var seen []string
	sub := v.Bind(func(s string) { seen = append(seen, s) })
	v.Set("b")
	sub.Cancel()
	v.Set("c")

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.False(t, sub.IsActive())
}

func TestValueReentrantSet(t *testing.T) {
	a := NewValue(0)
	b := NewValue(0)

	a.Subscribe(func(_, n int) {
		b.Set(a.Get() * 10)
	})
	a.Set(3)

	assert.Equal(t, 30, b.Get())
}

func TestListenersOrderAndCancel(t *testing.T) {
	var l Listeners[string]
	var order []string

	s1 := l.Add(func(v string) { order = append(order, "1"+v) })
	l.Add(func(v string) { order = append(order, "2"+v) })

	l.Notify("a")
	s1.Cancel()
	s1.Cancel()
	l.Notify("b")

	assert.Equal(t, []string{"1a", "2a", "2b"}, order)
	assert.Equal(t, 1, l.Len())
}

func TestGroupCancelAll(t *testing.T) {
	v := NewValue(0)
	calls := 0

	var g Group
	g.Add(
		v.Subscribe(func(_, _ int) { calls++ }),
		v.Subscribe(func(_, _ int) { calls++ }),
	)
	v.Set(1)
	g.CancelAll()
	v.Set(2)

	assert.Equal(t, 2, calls)
}
