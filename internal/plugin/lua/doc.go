// Package lua embeds a sandboxed Lua runtime that scripts the find bar.
//
// Scripts see a global `find` table bound to one session:
//
//	local n = find.search("TODO", { match_case = true })
//	while find.offset() < find.count() do
//	  find.next()
//	end
//	find.replace_all("DONE")
//
// Only the base, table, string and math libraries are opened; file loading
// and module loading are removed. Each DoString, DoFile or Call runs under
// the state's timeout.
package lua
