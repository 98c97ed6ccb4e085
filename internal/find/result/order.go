package result

import "sort"

// Order is the outcome of a three-way position comparison.
type Order int

const (
	Before Order = -1
	Same   Order = 0
	After  Order = 1
)

// String implements fmt.Stringer.
func (o Order) String() string {
	switch o {
	case Before:
		return "before"
	case Same:
		return "same"
	case After:
		return "after"
	}
	return "unknown"
}

// Comparator orders two results by document position.
type Comparator func(a, b *Result) Order

// ByStart compares results by the start of their range. Overlapping matches
// that begin at the same offset compare Same.
func ByStart(a, b *Result) Order {
	as, bs := a.Range().Start, b.Range().Start
	switch {
	case as < bs:
		return Before
	case as > bs:
		return After
	}
	return Same
}

// SortedByPosition returns a new slice holding results in ascending position
// order. The sort is stable; the input is not modified.
func SortedByPosition(results []*Result, cmp Comparator) []*Result {
	if cmp == nil {
		cmp = ByStart
	}
	sorted := make([]*Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return cmp(sorted[i], sorted[j]) == Before
	})
	return sorted
}
