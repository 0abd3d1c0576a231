package optimizer

import (
	"ashlar/internal/ast"
)

// CommonSubexpressionEliminator replaces a movable expression with a
// variable that already holds its value. Knowledge is tracked per block over
// straight-line statements only; any nested control flow or a call with side
// effects resets it, so no stale binding can survive an unknown code path.
type CommonSubexpressionEliminator struct{}

func (*CommonSubexpressionEliminator) Name() string {
	return "CommonSubexpressionEliminator"
}
func (*CommonSubexpressionEliminator) Abbreviation() byte { return 'c' }

func (*CommonSubexpressionEliminator) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		eliminateInBlock(ctx, b)
	})
}

// cseBinding maps a canonical expression rendering to the variable holding
// its value, together with the names the expression reads.
type cseBinding struct {
	variable string
	reads    map[string]bool
}

func eliminateInBlock(ctx *Context, b *ast.Block) {
	known := map[string]cseBinding{}

	invalidate := func(name string) {
		for key, binding := range known {
			if binding.variable == name || binding.reads[name] {
				delete(known, key)
			}
		}
	}

	rewrite := func(expr ast.Expression) ast.Expression {
		if expr == nil || !isMovable(ctx, expr) {
			return expr
		}
		if _, isIdent := expr.(*ast.Identifier); isIdent {
			return expr
		}
		if _, isLit := expr.(*ast.Literal); isLit {
			return expr
		}
		if binding, ok := known[ast.PrintExpression(expr)]; ok {
			return &ast.Identifier{Name: binding.variable}
		}
		return expr
	}

	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			if s.Value != nil {
				s.Value = ast.MapExpression(s.Value, rewrite)
			}
			for _, name := range s.Variables {
				invalidate(name)
			}
			if len(s.Variables) == 1 && s.Value != nil && isMovable(ctx, s.Value) {
				reads := map[string]bool{}
				referencedNames(s.Value, reads)
				known[ast.PrintExpression(s.Value)] = cseBinding{
					variable: s.Variables[0],
					reads:    reads,
				}
			}
		case *ast.Assignment:
			s.Value = ast.MapExpression(s.Value, rewrite)
			for _, name := range s.Variables {
				invalidate(name)
			}
		case *ast.ExpressionStatement:
			s.Expression = ast.MapExpression(s.Expression, rewrite)
			if hasSideEffects(ctx, s.Expression) {
				known = map[string]cseBinding{}
			}
		default:
			// Control flow or a nested block may assign anything.
			known = map[string]cseBinding{}
		}
	}
}
