package optimizer

import (
	"fmt"
	"strings"

	"ashlar/internal/ast"
	"ashlar/internal/dialect"
)

// Context is the shared state threaded through every step invocation. It is
// created once per optimization run and never replaced; steps may draw fresh
// names from the dispenser but must not mutate anything else.
type Context struct {
	Dialect   *dialect.Dialect
	Dispenser *NameDispenser
	// ReservedIdentifiers are externally-used names plus the backend's fixed
	// names. No step may rename or remove them.
	ReservedIdentifiers map[string]bool
}

// NewContext builds the context for one run, seeding the name dispenser with
// every name already present in the block plus the reserved set.
func NewContext(d *dialect.Dialect, reserved map[string]bool, block *ast.Block) *Context {
	return &Context{
		Dialect:             d,
		Dispenser:           NewNameDispenser(block, reserved),
		ReservedIdentifiers: reserved,
	}
}

// NameDispenser hands out identifiers that collide with nothing seen so far.
type NameDispenser struct {
	used map[string]bool
}

// NewNameDispenser collects every name declared or referenced in the block,
// plus the reserved set, as taken.
func NewNameDispenser(block *ast.Block, reserved map[string]bool) *NameDispenser {
	d := &NameDispenser{used: map[string]bool{}}
	for name := range reserved {
		d.used[name] = true
	}
	if block != nil {
		for name := range collectNames(block) {
			d.used[name] = true
		}
	}
	return d
}

// NewName returns a fresh name derived from prefix and marks it used. Any
// existing numeric suffix on the prefix is stripped first so repeated
// renaming does not stack suffixes.
func (d *NameDispenser) NewName(prefix string) string {
	base := stripSuffix(prefix)
	if base == "" {
		base = "v"
	}
	if !d.used[base] {
		d.used[base] = true
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !d.used[candidate] {
			d.used[candidate] = true
			return candidate
		}
	}
}

// MarkUsed records an externally chosen name as taken.
func (d *NameDispenser) MarkUsed(name string) {
	d.used[name] = true
}

// Used reports whether a name is already taken.
func (d *NameDispenser) Used(name string) bool {
	return d.used[name]
}

func stripSuffix(name string) string {
	if i := strings.LastIndex(name, "_"); i > 0 {
		suffix := name[i+1:]
		if suffix != "" && strings.Trim(suffix, "0123456789") == "" {
			return name[:i]
		}
	}
	return name
}

// collectNames gathers every identifier that appears in the block, declared
// or referenced.
func collectNames(block *ast.Block) map[string]bool {
	names := map[string]bool{}
	add := func(list []string) {
		for _, n := range list {
			names[n] = true
		}
	}
	ast.VisitStatements(block, func(stmt ast.Statement) {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			add(s.Variables)
		case *ast.Assignment:
			add(s.Variables)
		case *ast.FunctionDefinition:
			names[s.Name] = true
			add(s.Parameters)
			add(s.ReturnVariables)
		}
	})
	ast.VisitExpressions(block, func(expr ast.Expression) {
		switch e := expr.(type) {
		case *ast.Identifier:
			names[e.Name] = true
		case *ast.FunctionCall:
			names[e.FunctionName] = true
		}
	})
	return names
}
