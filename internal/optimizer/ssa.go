package optimizer

import (
	"ashlar/internal/ast"
)

// SSATransform rewrites reassignments into declarations of fresh variables:
// `x := e` becomes `let x_1 := e` followed by `x := x_1`, and later reads of
// x in the same straight-line region use x_1 directly. The trailing
// assignment keeps x live across control flow; RedundantAssignEliminator and
// UnusedPruner clean it up when it is not needed.
type SSATransform struct{}

func (*SSATransform) Name() string       { return "SSATransform" }
func (*SSATransform) Abbreviation() byte { return 'a' }

func (*SSATransform) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		ssaTransformBlock(ctx, b)
	})
}

func ssaTransformBlock(ctx *Context, b *ast.Block) {
	current := map[string]ast.Expression{}

	substitute := func(expr ast.Expression) ast.Expression {
		if expr == nil {
			return nil
		}
		return substituteVariables(expr, current)
	}

	var out []ast.Statement
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			s.Value = substitute(s.Value)
			for _, name := range s.Variables {
				delete(current, name)
			}
			out = append(out, s)
		case *ast.Assignment:
			s.Value = substitute(s.Value)
			if len(s.Variables) != 1 {
				for _, name := range s.Variables {
					delete(current, name)
				}
				out = append(out, s)
				continue
			}
			name := s.Variables[0]
			version := ctx.Dispenser.NewName(name)
			out = append(out,
				&ast.VariableDeclaration{
					Variables: []string{version},
					Value:     s.Value,
				},
				&ast.Assignment{
					Variables: []string{name},
					Value:     &ast.Identifier{Name: version},
				},
			)
			current[name] = &ast.Identifier{Name: version}
		case *ast.ExpressionStatement:
			s.Expression = substitute(s.Expression)
			out = append(out, s)
		default:
			// Nested control flow may reassign anything it can see.
			current = map[string]ast.Expression{}
			out = append(out, stmt)
		}
	}
	b.Statements = out
}

// SSAReverser undoes the SSATransform shape: a single-use helper variable
// declared directly before the assignment or declaration that consumes it is
// folded away. Reference counts are taken over the whole tree, which is
// sound because names are unique.
type SSAReverser struct{}

func (*SSAReverser) Name() string       { return "SSAReverser" }
func (*SSAReverser) Abbreviation() byte { return 'V' }

func (*SSAReverser) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for i := 0; i < len(b.Statements); i++ {
			stmt := b.Statements[i]
			if i+1 < len(b.Statements) {
				if merged := reverseSSAPair(ctx, block, stmt, b.Statements[i+1]); merged != nil {
					out = append(out, merged)
					i++
					continue
				}
			}
			out = append(out, stmt)
		}
		b.Statements = out
	})
}

// reverseSSAPair merges `let a := e` with a directly following `x := a` or
// `let x := a`, returning the merged statement or nil.
func reverseSSAPair(ctx *Context, root *ast.Block, first, second ast.Statement) ast.Statement {
	decl, ok := first.(*ast.VariableDeclaration)
	if !ok || len(decl.Variables) != 1 || decl.Value == nil {
		return nil
	}
	helper := decl.Variables[0]
	if ctx.ReservedIdentifiers[helper] || countReferences(root, helper) != 1 {
		return nil
	}

	readsHelper := func(expr ast.Expression) bool {
		id, ok := expr.(*ast.Identifier)
		return ok && id.Name == helper
	}

	switch s := second.(type) {
	case *ast.Assignment:
		if len(s.Variables) == 1 && readsHelper(s.Value) {
			return &ast.Assignment{Variables: s.Variables, Value: decl.Value}
		}
	case *ast.VariableDeclaration:
		if len(s.Variables) == 1 && s.Value != nil && readsHelper(s.Value) {
			return &ast.VariableDeclaration{Variables: s.Variables, Value: decl.Value}
		}
	}
	return nil
}
