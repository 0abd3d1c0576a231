package optimizer

import (
	"ashlar/internal/ast"
)

// RedundantAssignEliminator drops assignments whose value is overwritten or
// falls out of scope before it can be read. The analysis is straight-line and
// per block: scanning stops at any nested control flow, which could read the
// variable along a path we do not model.
type RedundantAssignEliminator struct{}

func (*RedundantAssignEliminator) Name() string       { return "RedundantAssignEliminator" }
func (*RedundantAssignEliminator) Abbreviation() byte { return 'r' }

func (*RedundantAssignEliminator) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		localDecls := map[string]bool{}
		for _, stmt := range b.Statements {
			if d, ok := stmt.(*ast.VariableDeclaration); ok {
				for _, name := range d.Variables {
					localDecls[name] = true
				}
			}
		}

		var out []ast.Statement
		for i, stmt := range b.Statements {
			assign, ok := stmt.(*ast.Assignment)
			if ok && len(assign.Variables) == 1 &&
				!ctx.ReservedIdentifiers[assign.Variables[0]] &&
				isMovable(ctx, assign.Value) &&
				assignmentIsDead(b.Statements[i+1:], assign.Variables[0], localDecls) {
				continue
			}
			out = append(out, stmt)
		}
		b.Statements = out
	})
}

// assignmentIsDead reports whether name is overwritten before any possible
// read in the remaining statements. Reaching the end of the block also kills
// the value, but only for variables declared in this block.
func assignmentIsDead(rest []ast.Statement, name string, localDecls map[string]bool) bool {
	for _, stmt := range rest {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			if s.Value != nil && expressionReads(s.Value, name) {
				return false
			}
		case *ast.Assignment:
			if expressionReads(s.Value, name) {
				return false
			}
			for _, target := range s.Variables {
				if target == name {
					return true
				}
			}
		case *ast.ExpressionStatement:
			if expressionReads(s.Expression, name) {
				return false
			}
		default:
			return false
		}
	}
	return localDecls[name]
}
