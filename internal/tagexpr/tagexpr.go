// Package tagexpr parses the tag expressions accepted by --tags.
//
//	=a,b      replace the whole set with {a, b}
//	+a,-b,c   add a and c, remove b (requires the current set)
//	a,b       set {a, b} directly
package tagexpr

import (
	"slices"
	"strings"

	"github.com/steveyegge/rd/internal/clierr"
)

// Mode selects how an expression is applied.
type Mode int

const (
	// Direct is a bare tag list.
	Direct Mode = iota
	// Ops carries signed add/remove tokens.
	Ops
	// Replace is an explicit new set introduced by '='.
	Replace
)

func (m Mode) String() string {
	switch m {
	case Ops:
		return "ops"
	case Replace:
		return "replace"
	default:
		return "direct"
	}
}

// Expression is a parsed tag expression.
type Expression struct {
	Mode Mode
	// Tags is the final set for Direct and Replace.
	Tags []string
	// Add and Remove are populated for Ops.
	Add    []string
	Remove []string
}

// Parse classifies expr. Tokens are comma-separated and trimmed; empty
// tokens are dropped and duplicates collapsed. "=" alone clears the set.
func Parse(expr string) (Expression, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Expression{}, clierr.InvalidArgs("empty tag expression").
			WithSuggest("Use '=' to clear all tags, or e.g. '+new,-old'")
	}

	if rest, ok := strings.CutPrefix(trimmed, "="); ok {
		return Expression{Mode: Replace, Tags: split(rest)}, nil
	}

	var add, remove []string
	signed := false
	for _, tok := range split(trimmed) {
		switch tok[0] {
		case '+', '-':
			signed = true
			name := strings.TrimSpace(tok[1:])
			if name == "" {
				return Expression{}, clierr.InvalidArgs("tag token %q has no name", tok)
			}
			if tok[0] == '+' {
				add = appendUnique(add, name)
			} else {
				remove = appendUnique(remove, name)
			}
		default:
			add = appendUnique(add, tok)
		}
	}

	if signed {
		return Expression{Mode: Ops, Add: orEmpty(add), Remove: orEmpty(remove)}, nil
	}
	if len(add) == 0 {
		return Expression{}, clierr.InvalidArgs("tag expression %q contains no tags", expr)
	}
	return Expression{Mode: Direct, Tags: add}, nil
}

// NeedsCurrent reports whether applying the expression requires the
// bookmark's existing tags.
func (e Expression) NeedsCurrent() bool {
	return e.Mode == Ops
}

// Apply returns the tag set to write. For Ops it is
// (existing − Remove) ∪ Add, keeping existing order and appending new tags
// in expression order; other modes ignore existing.
func (e Expression) Apply(existing []string) []string {
	if e.Mode != Ops {
		return append([]string{}, e.Tags...)
	}
	removed := make(map[string]bool, len(e.Remove))
	for _, t := range e.Remove {
		removed[t] = true
	}
	out := []string{}
	for _, t := range existing {
		if !removed[t] || slices.Contains(e.Add, t) {
			out = appendUnique(out, t)
		}
	}
	for _, t := range e.Add {
		out = appendUnique(out, t)
	}
	return out
}

// Additions returns the tags to append in a bulk update. The bulk endpoint
// only appends, so Replace mode and removals are rejected.
func (e Expression) Additions() ([]string, error) {
	switch {
	case e.Mode == Replace:
		return nil, clierr.InvalidArgs("replace ('=') tag expressions are not supported for batch updates").
			WithSuggest("Update bookmarks one at a time to replace their tags")
	case len(e.Remove) > 0:
		return nil, clierr.InvalidArgs("tag removal (-%s) is not supported for batch updates", e.Remove[0]).
			WithSuggest("Batch updates can only add tags; remove tags one bookmark at a time")
	case e.Mode == Ops:
		return e.Add, nil
	default:
		return e.Tags, nil
	}
}

func split(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = appendUnique(out, p)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
