package optimizer

import (
	"math/big"
	"strings"

	"ashlar/internal/ast"
)

// Shared predicates and small utilities used across the optimization steps.

// isMovable reports whether evaluating expr has no effects and no hidden
// inputs, so it can be duplicated, reordered or dropped. Calls qualify only
// for builtins flagged movable; user function calls never do.
func isMovable(ctx *Context, expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Literal, *ast.Identifier:
		return true
	case *ast.FunctionCall:
		builtin, ok := ctx.Dialect.Builtin(e.FunctionName)
		if !ok || !builtin.Movable {
			return false
		}
		for _, arg := range e.Arguments {
			if !isMovable(ctx, arg) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// hasSideEffects reports whether evaluating expr can observably change state.
// Unknown calls are assumed to have effects.
func hasSideEffects(ctx *Context, expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.FunctionCall:
		builtin, ok := ctx.Dialect.Builtin(e.FunctionName)
		if !ok || builtin.SideEffects {
			return true
		}
		for _, arg := range e.Arguments {
			if hasSideEffects(ctx, arg) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// isTerminating reports whether control never continues past stmt.
func isTerminating(ctx *Context, stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.Break, *ast.Continue, *ast.Leave:
		return true
	case *ast.ExpressionStatement:
		call, ok := s.Expression.(*ast.FunctionCall)
		if !ok {
			return false
		}
		builtin, known := ctx.Dialect.Builtin(call.FunctionName)
		return known && builtin.Terminating
	default:
		return false
	}
}

// literalValue parses a number or bool literal into a 256-bit word.
// Returns nil for string literals and malformed numbers.
func literalValue(lit *ast.Literal) *big.Int {
	switch lit.Kind {
	case ast.BoolLiteral:
		if lit.Value == "true" {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	case ast.NumberLiteral:
		// Base 0 would read a leading-zero decimal like 010 as octal, which
		// the source syntax has no notion of.
		text, base := lit.Value, 10
		if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
			text, base = text[2:], 16
		}
		v, ok := new(big.Int).SetString(text, base)
		if !ok {
			return nil
		}
		return v
	default:
		return nil
	}
}

// isZeroLiteral reports whether expr is a literal with value zero.
func isZeroLiteral(expr ast.Expression) bool {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return false
	}
	v := literalValue(lit)
	return v != nil && v.Sign() == 0
}

// isNonZeroLiteral reports whether expr is a literal with a nonzero value.
func isNonZeroLiteral(expr ast.Expression) bool {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return false
	}
	v := literalValue(lit)
	return v != nil && v.Sign() != 0
}

func numberLiteral(v *big.Int) *ast.Literal {
	return &ast.Literal{Kind: ast.NumberLiteral, Value: v.String()}
}

func zeroLiteral() *ast.Literal {
	return &ast.Literal{Kind: ast.NumberLiteral, Value: "0"}
}

// referencedNames collects every variable and function name read by expr.
func referencedNames(expr ast.Expression, into map[string]bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		into[e.Name] = true
	case *ast.FunctionCall:
		into[e.FunctionName] = true
		for _, arg := range e.Arguments {
			referencedNames(arg, into)
		}
	}
}

// countReferences counts how many times name is read as a variable or called
// as a function anywhere in the block.
func countReferences(block *ast.Block, name string) int {
	count := 0
	ast.VisitExpressions(block, func(expr ast.Expression) {
		switch e := expr.(type) {
		case *ast.Identifier:
			if e.Name == name {
				count++
			}
		case *ast.FunctionCall:
			if e.FunctionName == name {
				count++
			}
		}
	})
	return count
}

// substituteVariables returns a copy of expr with identifier reads replaced
// per the mapping. Replacement expressions are deep-copied at every site.
func substituteVariables(expr ast.Expression, repl map[string]ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.Identifier:
		if r, ok := repl[e.Name]; ok {
			return ast.CopyExpression(r)
		}
		return e
	case *ast.FunctionCall:
		for i, arg := range e.Arguments {
			e.Arguments[i] = substituteVariables(arg, repl)
		}
		return e
	default:
		return expr
	}
}

// assignedNames collects every variable assigned (not declared) anywhere in
// the block, including nested scopes.
func assignedNames(block *ast.Block, into map[string]bool) {
	ast.VisitStatements(block, func(stmt ast.Statement) {
		if a, ok := stmt.(*ast.Assignment); ok {
			for _, name := range a.Variables {
				into[name] = true
			}
		}
	})
}
