package command

import (
	"fmt"
	"time"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/find/observe"
	"github.com/dshills/findreplace/internal/find/result"
)

// funcCommand adapts a function to Command.
type funcCommand struct {
	name    string
	enabled *observe.Value[bool]
	run     func(Args) (Outcome, error)
}

func newFuncCommand(name string, run func(Args) (Outcome, error)) *funcCommand {
	return &funcCommand{name: name, enabled: observe.NewValue(false), run: run}
}

func (c *funcCommand) Name() string                       { return c.name }
func (c *funcCommand) Enabled() *observe.Value[bool]      { return c.enabled }
func (c *funcCommand) Execute(args Args) (Outcome, error) { return c.run(args) }

// searchText resolves the search text from args or the editing state.
func (r *Registry) searchText(args Args) (string, error) {
	text := args.SearchText
	if text == "" {
		text = r.env.State.SearchText().Get()
	}
	if text == "" {
		return "", ErrNoSearchText
	}
	return text, nil
}

func (r *Registry) newFind() Command {
	return newFuncCommand(NameFind, func(args Args) (Outcome, error) {
		if r.env.Buffer == nil {
			return Outcome{}, ErrNoBuffer
		}
		text, err := r.searchText(args)
		if err != nil {
			return Outcome{}, err
		}
		p, err := matcher.Compile(text, r.env.State.Options())
		if err != nil {
			return Outcome{}, err
		}

		start := time.Now()
		content := r.env.Buffer.Text()
		matches := p.FindAll(content, r.env.MaxResults)
		found := make([]*result.Result, len(matches))
		for i, m := range matches {
			found[i] = result.New(m.Range, m.Text)
		}

		state := r.env.State
		state.SearchText().Set(text)
		state.Highlighted().Set(nil)
		state.Results().Reset(found)

		h := firstAtOrAfter(r.env.Index.Ordered(state.Results()), r.env.cursor())
		if err := state.Highlight(h); err != nil {
			return Outcome{}, err
		}
		r.env.Index.SearchExecuted()

		if r.recorder != nil {
			r.recorder.RecordSearch(len(found), time.Since(start))
		}

		if len(found) == 0 {
			return noOp("no results for " + text), nil
		}
		return Outcome{
			Status:      StatusOK,
			Message:     fmt.Sprintf("%d results", len(found)),
			Results:     len(found),
			Highlighted: h,
		}, nil
	})
}

// newStep builds findNext (dir 1) or findPrevious (dir -1).
func (r *Registry) newStep(name string, dir int) Command {
	return newFuncCommand(name, func(Args) (Outcome, error) {
		state := r.env.State
		ordered := r.env.Index.Ordered(state.Results())
		n := len(ordered)
		if n == 0 {
			return noOp("no results"), nil
		}

		var next *result.Result
		if i := indexOf(ordered, state.Highlighted().Get()); i >= 0 {
			next = ordered[(i+dir+n)%n]
		} else if dir > 0 {
			next = firstAtOrAfter(ordered, r.env.cursor())
		} else {
			next = lastBefore(ordered, r.env.cursor())
		}

		if err := state.Highlight(next); err != nil {
			return Outcome{}, err
		}
		offset := r.env.Index.ComputeHighlightOffset(state.Results(), next)
		return Outcome{
			Status:      StatusOK,
			Message:     fmt.Sprintf("%d of %d", offset, n),
			Results:     n,
			Highlighted: next,
		}, nil
	})
}

func (r *Registry) newReplace() Command {
	return newFuncCommand(NameReplace, func(args Args) (Outcome, error) {
		state := r.env.State
		h := state.Highlighted().Get()
		if h == nil {
			h = firstAtOrAfter(r.env.Index.Ordered(state.Results()), r.env.cursor())
		}
		if h == nil {
			return noOp("nothing to replace"), nil
		}

		rng := h.Range()
		replacement := args.ReplaceText
		if state.Regex().Get() {
			replacement = r.expand(h, args.ReplaceText)
		}

		if _, err := r.env.Buffer.Replace(rng.Start, rng.End, replacement); err != nil {
			return Outcome{}, fmt.Errorf("replace %s: %w", rng, err)
		}
		// The edit removed h from the results; move on to the next one.
		end := rng.Start + buffer.ByteOffset(len(replacement))
		next := firstAtOrAfter(r.env.Index.Ordered(state.Results()), end)
		if err := state.Highlight(next); err != nil {
			return Outcome{}, err
		}

		if r.recorder != nil {
			r.recorder.RecordReplace(1)
		}
		return Outcome{
			Status:      StatusOK,
			Message:     "replaced 1 occurrence",
			Results:     state.Results().Len(),
			Replaced:    1,
			Highlighted: next,
		}, nil
	})
}

// expand resolves $1-style references for a regex search by re-locating the
// highlighted match in the current text.
func (r *Registry) expand(h *result.Result, template string) string {
	state := r.env.State
	p, err := matcher.Compile(state.SearchText().Get(), state.Options())
	if err != nil {
		return template
	}
	content := r.env.Buffer.Text()
	rng := h.Range()
	for _, m := range p.FindAll(content, 0) {
		if m.Range == rng {
			return p.Replacement(content, m, template)
		}
		if m.Range.Start > rng.Start {
			break
		}
	}
	return template
}

func (r *Registry) newReplaceAll() Command {
	return newFuncCommand(NameReplaceAll, func(args Args) (Outcome, error) {
		text, err := r.searchText(args)
		if err != nil {
			return Outcome{}, err
		}
		state := r.env.State
		p, err := matcher.Compile(text, state.Options())
		if err != nil {
			return Outcome{}, err
		}

		content := r.env.Buffer.Text()
		matches := p.FindAll(content, 0)
		if len(matches) == 0 {
			state.Clear()
			return noOp("no results for " + text), nil
		}

		edits := make([]buffer.Edit, len(matches))
		for i, m := range matches {
			edits[i] = buffer.NewEdit(m.Range, p.Replacement(content, m, args.ReplaceText))
		}
		if _, err := r.env.Buffer.ApplyEdits(edits); err != nil {
			return Outcome{}, fmt.Errorf("replace all: %w", err)
		}

		state.SearchText().Set(text)
		state.Clear()
		r.env.Index.SearchExecuted()

		if r.recorder != nil {
			r.recorder.RecordReplace(len(edits))
		}
		return Outcome{
			Status:   StatusOK,
			Message:  fmt.Sprintf("replaced %d occurrences", len(edits)),
			Replaced: len(edits),
		}, nil
	})
}

func indexOf(ordered []*result.Result, r *result.Result) int {
	if r == nil {
		return -1
	}
	for i, item := range ordered {
		if item == r {
			return i
		}
	}
	return -1
}

// firstAtOrAfter returns the first result that ends after offset, wrapping
// to the first result. Returns nil for no results.
func firstAtOrAfter(ordered []*result.Result, offset buffer.ByteOffset) *result.Result {
	if len(ordered) == 0 {
		return nil
	}
	for _, r := range ordered {
		if offset < r.Range().End {
			return r
		}
	}
	return ordered[0]
}

// lastBefore returns the last result that starts before offset, wrapping to
// the last result. Returns nil for no results.
func lastBefore(ordered []*result.Result, offset buffer.ByteOffset) *result.Result {
	if len(ordered) == 0 {
		return nil
	}
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Range().Start < offset {
			return ordered[i]
		}
	}
	return ordered[len(ordered)-1]
}
