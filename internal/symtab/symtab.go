// Package symtab is the scoped identifier-to-declaration table used by
// every pass that needs to resolve or re-resolve a name after a rewrite
// (spec.md C3). It is a plain stack of scopes pushed and popped in
// lockstep with lexical scopes (spec.md §7: "pushed/popped in lockstep
// with lexical scopes"), plus the reserved-word/collision renaming rule
// the GLSL-specific pass needs (spec.md §7 step "GLSL-specific AST
// edits").
//
// Grounded on the teacher's `internal/renamer` reserved-name handling
// (a map of names a generated identifier must not collide with) and on
// the teacher's `internal/ast` scope-slice shape, generalized from a
// minifier's flat symbol table into a nested one.
package symtab

import "github.com/xsc-go/xsc/internal/ast"

// scope is one lexical level: a flat name->decl map plus the set of names
// it has registered (used for local shadow detection).
type scope struct {
	decls map[string]ast.Decl
}

func newScope() *scope { return &scope{decls: make(map[string]ast.Decl)} }

// Table is a stack of scopes. The zero value is not usable; use New.
type Table struct {
	scopes   []*scope
	reserved map[string]bool
}

// New constructs a table with one global scope and the given reserved
// words pre-populated (e.g. the target dialect's keyword set).
func New(reserved map[string]bool) *Table {
	t := &Table{reserved: reserved}
	t.Push()
	return t
}

// Push opens a new nested scope.
func (t *Table) Push() { t.scopes = append(t.scopes, newScope()) }

// Pop closes the innermost scope. Popping the last (global) scope panics —
// that is always a caller bug.
func (t *Table) Pop() {
	if len(t.scopes) <= 1 {
		panic("symtab: Pop called on the global scope")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth reports how many scopes are currently open (1 == global only).
func (t *Table) Depth() int { return len(t.scopes) }

func (t *Table) top() *scope { return t.scopes[len(t.scopes)-1] }

// Declare registers name in the innermost scope. It returns false without
// registering when name already exists in the innermost scope (a true
// redeclaration error, distinct from the shadowing permitted across
// scopes) — the caller renames or reports an error.
func (t *Table) Declare(name string, d ast.Decl) bool {
	s := t.top()
	if _, exists := s.decls[name]; exists {
		return false
	}
	s.decls[name] = d
	return true
}

// Lookup resolves name against the innermost-first scope chain, the way a
// C-family lexical scope resolves shadowing.
func (t *Table) Lookup(name string) (ast.Decl, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if d, ok := t.scopes[i].decls[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// Collides reports whether name is already visible in any enclosing scope
// or collides with a reserved word — the two conditions spec.md §7's
// GLSL-specific pass renames to avoid ("renames any decl whose name
// collides with a previously registered identifier or a reserved GLSL
// keyword").
func (t *Table) Collides(name string) bool {
	if t.reserved[name] {
		return true
	}
	_, exists := t.Lookup(name)
	return exists
}

// DeclareUnique registers ident under the first available name: its
// original rendered name if it doesn't collide, otherwise name+prefix
// repeated with an increasing counter via rename. rename is called with
// candidate attempt counters starting at 0 until it returns a name that
// doesn't collide; that name is both declared and returned.
//
// obfuscate selects between the two naming strategies spec.md §7
// describes: reserved-word-prefixed names normally, or a dense `_<n>`
// sequence when the obfuscate option is on. Callers pass the strategy via
// rename so this package stays policy-free about naming itself.
func (t *Table) DeclareUnique(original string, d ast.Decl, rename func(attempt int) string) string {
	if !t.Collides(original) {
		t.Declare(original, d)
		return original
	}
	for attempt := 0; ; attempt++ {
		candidate := rename(attempt)
		if !t.Collides(candidate) {
			t.Declare(candidate, d)
			return candidate
		}
	}
}
