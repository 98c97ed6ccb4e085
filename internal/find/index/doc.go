// Package index tracks where the highlighted search result sits among all
// results of a find session and whether those results are still current.
//
// The Controller answers two questions for a find bar that shows "match X of
// N": what is X (the 1-based position of the highlighted result once results
// are ordered by document position) and what is N. It also carries the
// session state machine:
//
//	Idle         --SearchExecuted--> SearchActive
//	SearchActive --MarkDirty-------> Dirty
//	Dirty        --SearchExecuted--> SearchActive
//	SearchActive --Reset-----------> Idle
//	Dirty        --Reset-----------> Idle
//
// While Dirty, the numbers still computed by ComputeHighlightOffset are
// provisional: the search text or options changed and the results have not
// been refreshed. Consumers check IsDirty instead of the numeric output.
//
// Offsets are recomputed from the result set on every call. Nothing is
// cached across result-set mutations.
package index
