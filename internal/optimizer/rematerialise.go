package optimizer

import (
	"ashlar/internal/ast"
)

// Rematerialiser replaces a variable read with the value the variable was
// last set to, when recomputing the value is at most as expensive as the
// read: literals and plain identifier copies. Tracking is straight-line per
// block; control flow and reassignment invalidate bindings.
type Rematerialiser struct{}

func (*Rematerialiser) Name() string       { return "Rematerialiser" }
func (*Rematerialiser) Abbreviation() byte { return 'm' }

func (*Rematerialiser) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		rematerializeBlock(b, true)
	})
}

// LiteralRematerialiser does the same for literal values only. Unlike the
// full Rematerialiser it never reintroduces a variable dependency, so it is
// safe to run right before steps that reason about constants.
type LiteralRematerialiser struct{}

func (*LiteralRematerialiser) Name() string       { return "LiteralRematerialiser" }
func (*LiteralRematerialiser) Abbreviation() byte { return 'T' }

func (*LiteralRematerialiser) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		rematerializeBlock(b, false)
	})
}

func rematerializeBlock(b *ast.Block, allowIdentifiers bool) {
	values := map[string]ast.Expression{}

	invalidate := func(name string) {
		delete(values, name)
		for variable, value := range values {
			if id, ok := value.(*ast.Identifier); ok && id.Name == name {
				delete(values, variable)
			}
		}
	}

	record := func(names []string, value ast.Expression) {
		for _, name := range names {
			invalidate(name)
		}
		if len(names) != 1 || value == nil {
			return
		}
		switch value.(type) {
		case *ast.Literal:
			values[names[0]] = value
		case *ast.Identifier:
			if allowIdentifiers {
				values[names[0]] = value
			}
		}
	}

	substitute := func(expr ast.Expression) ast.Expression {
		if expr == nil {
			return nil
		}
		return substituteVariables(expr, values)
	}

	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			s.Value = substitute(s.Value)
			record(s.Variables, s.Value)
		case *ast.Assignment:
			s.Value = substitute(s.Value)
			record(s.Variables, s.Value)
		case *ast.ExpressionStatement:
			s.Expression = substitute(s.Expression)
		default:
			values = map[string]ast.Expression{}
		}
	}
}
