package optimizer

import (
	"ashlar/internal/ast"
)

// ConditionalSimplifier propagates knowledge about a switch expression into
// its case bodies: inside `case N`, an identifier used as the switch
// expression is known to equal N and can be replaced by the literal,
// provided nothing in the switch assigns to it.
type ConditionalSimplifier struct{}

func (*ConditionalSimplifier) Name() string       { return "ConditionalSimplifier" }
func (*ConditionalSimplifier) Abbreviation() byte { return 'C' }

func (*ConditionalSimplifier) Run(ctx *Context, block *ast.Block) {
	ast.VisitStatements(block, func(stmt ast.Statement) {
		s, ok := stmt.(*ast.Switch)
		if !ok {
			return
		}
		ident, ok := s.Expression.(*ast.Identifier)
		if !ok {
			return
		}
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value == nil || caseBodyAssigns(c, ident.Name) {
				continue
			}
			value := c.Value
			ast.MapExpressions(&c.Body, func(expr ast.Expression) ast.Expression {
				if id, ok := expr.(*ast.Identifier); ok && id.Name == ident.Name {
					return ast.CopyExpression(value)
				}
				return expr
			})
		}
	})
}

// ConditionalUnsimplifier performs the reverse rewrite: inside `case N` of a
// switch over identifier x, literal occurrences of N are replaced by x. This
// shrinks bytecode when N is a large constant, since x is already on the
// stack. Only applied when x is not assigned within the case body.
type ConditionalUnsimplifier struct{}

func (*ConditionalUnsimplifier) Name() string       { return "ConditionalUnsimplifier" }
func (*ConditionalUnsimplifier) Abbreviation() byte { return 'U' }

func (*ConditionalUnsimplifier) Run(ctx *Context, block *ast.Block) {
	ast.VisitStatements(block, func(stmt ast.Statement) {
		s, ok := stmt.(*ast.Switch)
		if !ok {
			return
		}
		ident, ok := s.Expression.(*ast.Identifier)
		if !ok {
			return
		}
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value == nil || caseBodyAssigns(c, ident.Name) {
				continue
			}
			caseValue := literalValue(c.Value)
			if caseValue == nil {
				continue
			}
			ast.MapExpressions(&c.Body, func(expr ast.Expression) ast.Expression {
				lit, ok := expr.(*ast.Literal)
				if !ok || lit.Kind != ast.NumberLiteral {
					return expr
				}
				v := literalValue(lit)
				if v != nil && v.Cmp(caseValue) == 0 {
					return &ast.Identifier{Name: ident.Name}
				}
				return expr
			})
		}
	})
}

func caseBodyAssigns(c *ast.Case, name string) bool {
	assigned := map[string]bool{}
	assignedNames(&c.Body, assigned)
	return assigned[name]
}
