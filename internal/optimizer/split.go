package optimizer

import (
	"ashlar/internal/ast"
)

// ExpressionSplitter turns nested function calls into sequences of variable
// declarations so that every remaining call takes only identifiers and
// literals as arguments. Arguments are hoisted right to left, preserving the
// right-to-left evaluation order of call arguments.
//
// Loop conditions are left alone: they are re-evaluated every iteration and
// cannot be hoisted. ForLoopConditionIntoBody reduces them to literals first.
type ExpressionSplitter struct{}

func (*ExpressionSplitter) Name() string       { return "ExpressionSplitter" }
func (*ExpressionSplitter) Abbreviation() byte { return 'x' }

func (*ExpressionSplitter) Run(ctx *Context, block *ast.Block) {
	splitBlock(ctx, block)
}

func splitBlock(ctx *Context, b *ast.Block) {
	var out []ast.Statement
	for _, stmt := range b.Statements {
		var prelude []ast.Statement
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			if s.Value != nil {
				s.Value = splitArguments(ctx, s.Value, &prelude)
			}
		case *ast.Assignment:
			s.Value = splitArguments(ctx, s.Value, &prelude)
		case *ast.ExpressionStatement:
			s.Expression = splitArguments(ctx, s.Expression, &prelude)
		case *ast.If:
			s.Condition = splitToAtom(ctx, s.Condition, &prelude)
			splitBlock(ctx, &s.Body)
		case *ast.Switch:
			s.Expression = splitToAtom(ctx, s.Expression, &prelude)
			for i := range s.Cases {
				splitBlock(ctx, &s.Cases[i].Body)
			}
		case *ast.ForLoop:
			splitBlock(ctx, &s.Pre)
			splitBlock(ctx, &s.Post)
			splitBlock(ctx, &s.Body)
		case *ast.FunctionDefinition:
			splitBlock(ctx, &s.Body)
		case *ast.Block:
			splitBlock(ctx, s)
		}
		out = append(out, prelude...)
		out = append(out, stmt)
	}
	b.Statements = out
}

// splitArguments rewrites a call so all its arguments are atomic, hoisting
// nested calls into fresh declarations appended to prelude. The call itself
// stays in place.
func splitArguments(ctx *Context, expr ast.Expression, prelude *[]ast.Statement) ast.Expression {
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		return expr
	}
	for i := len(call.Arguments) - 1; i >= 0; i-- {
		call.Arguments[i] = splitToAtom(ctx, call.Arguments[i], prelude)
	}
	return call
}

// splitToAtom reduces expr to an identifier or literal, hoisting any call
// into a fresh single-variable declaration.
func splitToAtom(ctx *Context, expr ast.Expression, prelude *[]ast.Statement) ast.Expression {
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		return expr
	}
	splitArguments(ctx, call, prelude)
	name := ctx.Dispenser.NewName("expr")
	*prelude = append(*prelude, &ast.VariableDeclaration{
		Variables: []string{name},
		Value:     call,
	})
	return &ast.Identifier{Name: name}
}

// ExpressionJoiner is the inverse of ExpressionSplitter: a movable
// declaration whose variable is read exactly once, in the directly following
// statement, is folded into that use and removed.
type ExpressionJoiner struct{}

func (*ExpressionJoiner) Name() string       { return "ExpressionJoiner" }
func (*ExpressionJoiner) Abbreviation() byte { return 'j' }

func (*ExpressionJoiner) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		for joinOnce(ctx, block, b) {
		}
	})
}

// joinOnce performs a single join in b and reports whether it did. The root
// block is consulted for the global reference count, since names are unique
// across the whole tree.
func joinOnce(ctx *Context, root, b *ast.Block) bool {
	for i := 0; i+1 < len(b.Statements); i++ {
		decl, ok := b.Statements[i].(*ast.VariableDeclaration)
		if !ok || len(decl.Variables) != 1 || decl.Value == nil {
			continue
		}
		if !isMovable(ctx, decl.Value) {
			continue
		}
		name := decl.Variables[0]
		if ctx.ReservedIdentifiers[name] || countReferences(root, name) != 1 {
			continue
		}
		if !joinIntoStatement(b.Statements[i+1], name, decl.Value) {
			continue
		}
		b.Statements = append(b.Statements[:i], b.Statements[i+1:]...)
		return true
	}
	return false
}

// joinIntoStatement substitutes value for the sole read of name inside the
// statement's own expression slot. Nested blocks are not entered: the read
// must be in straight-line position right after the declaration.
func joinIntoStatement(stmt ast.Statement, name string, value ast.Expression) bool {
	repl := map[string]ast.Expression{name: value}
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.Value == nil || !expressionReads(s.Value, name) {
			return false
		}
		s.Value = substituteVariables(s.Value, repl)
		return true
	case *ast.Assignment:
		if !expressionReads(s.Value, name) {
			return false
		}
		s.Value = substituteVariables(s.Value, repl)
		return true
	case *ast.ExpressionStatement:
		if !expressionReads(s.Expression, name) {
			return false
		}
		s.Expression = substituteVariables(s.Expression, repl)
		return true
	case *ast.If:
		if !expressionReads(s.Condition, name) {
			return false
		}
		s.Condition = substituteVariables(s.Condition, repl)
		return true
	case *ast.Switch:
		if !expressionReads(s.Expression, name) {
			return false
		}
		s.Expression = substituteVariables(s.Expression, repl)
		return true
	default:
		return false
	}
}

func expressionReads(expr ast.Expression, name string) bool {
	reads := map[string]bool{}
	referencedNames(expr, reads)
	return reads[name]
}
