// Package result defines search results and the live result set of a
// find-and-replace session.
//
// A Result is an opaque handle for one match: an identity, a position in the
// document and the matched text. The index controller only orders results by
// position; it never looks at the payload.
//
// A Set keeps results in insertion order. Position order is computed on
// demand by SortedByPosition, which is stable so results that compare Same
// keep their insertion order.
package result
