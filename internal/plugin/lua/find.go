package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/find/result"
	"github.com/dshills/findreplace/internal/find/session"
)

// FindModule is the name of the global table InstallFind registers.
const FindModule = "find"

// InstallFind exposes sess to scripts as the global `find` table.
//
// Functions that can fail return nil and an error message instead of
// raising, so scripts can test the first result.
//
//	find.search(text [, opts])  -> count | nil, err
//	find.next()                 -> offset | nil, err
//	find.previous()             -> offset | nil, err
//	find.replace(text)          -> count | nil, err
//	find.replace_all(text)      -> count | nil, err
//	find.count()                -> number of results
//	find.offset()               -> 1-based highlight offset, 0 for none
//	find.state()                -> "idle" | "active" | "dirty"
//	find.results()              -> { {start=, ["end"]=, line=, column=, text=}, ... }
//	find.highlighted()          -> result table | nil
//	find.reset()                   closes the find bar
func InstallFind(s *State, sess *session.Session) {
	api := &findAPI{sess: sess}
	s.RegisterModule(FindModule, map[string]lua.LGFunction{
		"search":      api.search,
		"next":        api.next,
		"previous":    api.previous,
		"replace":     api.replace,
		"replace_all": api.replaceAll,
		"count":       api.count,
		"offset":      api.offset,
		"state":       api.state,
		"results":     api.results,
		"highlighted": api.highlighted,
		"reset":       api.reset,
	})
}

type findAPI struct {
	sess *session.Session
}

func fail(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

func (a *findAPI) search(L *lua.LState) int {
	text := L.CheckString(1)
	opts := a.sess.Form().Options()
	if t := L.OptTable(2, nil); t != nil {
		opts = matcher.Options{
			MatchCase:  lua.LVAsBool(t.RawGetString("match_case")),
			WholeWords: lua.LVAsBool(t.RawGetString("whole_words")),
			Regex:      lua.LVAsBool(t.RawGetString("regex")),
		}
	}
	out, err := a.sess.Search(text, opts)
	if err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(out.Results))
	return 1
}

func (a *findAPI) next(L *lua.LState) int {
	if err := a.sess.Next(); err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(a.sess.HighlightOffset()))
	return 1
}

func (a *findAPI) previous(L *lua.LState) int {
	if err := a.sess.Previous(); err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(a.sess.HighlightOffset()))
	return 1
}

func (a *findAPI) replace(L *lua.LState) int {
	text := L.CheckString(1)
	if err := a.sess.ReplaceWith(text); err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(a.sess.MatchCount()))
	return 1
}

func (a *findAPI) replaceAll(L *lua.LState) int {
	text := L.CheckString(1)
	n, err := a.sess.ReplaceAllWith(text)
	if err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (a *findAPI) count(L *lua.LState) int {
	L.Push(lua.LNumber(a.sess.MatchCount()))
	return 1
}

func (a *findAPI) offset(L *lua.LState) int {
	L.Push(lua.LNumber(a.sess.HighlightOffset()))
	return 1
}

func (a *findAPI) state(L *lua.LState) int {
	L.Push(lua.LString(a.sess.Controller().State().String()))
	return 1
}

func (a *findAPI) results(L *lua.LState) int {
	t := L.NewTable()
	for _, r := range a.sess.Ordered() {
		t.Append(a.resultTable(L, r))
	}
	L.Push(t)
	return 1
}

func (a *findAPI) highlighted(L *lua.LState) int {
	h := a.sess.Highlighted()
	if h == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(a.resultTable(L, h))
	return 1
}

func (a *findAPI) reset(L *lua.LState) int {
	a.sess.Close()
	return 0
}

// resultTable converts r to a table. Offsets are 0-based bytes; line and
// column are 1-based.
func (a *findAPI) resultTable(L *lua.LState, r *result.Result) *lua.LTable {
	rng := r.Range()
	pt := a.sess.Buffer().OffsetToPoint(rng.Start)
	t := L.NewTable()
	t.RawSetString("start", lua.LNumber(rng.Start))
	t.RawSetString("end", lua.LNumber(rng.End))
	t.RawSetString("line", lua.LNumber(pt.Line+1))
	t.RawSetString("column", lua.LNumber(pt.Column+1))
	t.RawSetString("text", lua.LString(r.Text()))
	return t
}
