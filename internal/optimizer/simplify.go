package optimizer

import (
	"math/big"

	"ashlar/internal/ast"
)

// ExpressionSimplifier folds constant expressions and applies arithmetic
// identities. All arithmetic wraps modulo 2**256, division and modulo by
// zero yield zero, and comparisons produce 0 or 1, matching both backends.
type ExpressionSimplifier struct{}

func (*ExpressionSimplifier) Name() string       { return "ExpressionSimplifier" }
func (*ExpressionSimplifier) Abbreviation() byte { return 's' }

func (*ExpressionSimplifier) Run(ctx *Context, block *ast.Block) {
	ast.MapExpressions(block, func(expr ast.Expression) ast.Expression {
		return simplifyExpression(ctx, expr)
	})
}

var wordModulus = new(big.Int).Lsh(big.NewInt(1), 256)

func simplifyExpression(ctx *Context, expr ast.Expression) ast.Expression {
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		return expr
	}
	builtin, known := ctx.Dialect.Builtin(call.FunctionName)
	if !known || !builtin.Movable {
		return expr
	}

	if folded := foldConstantCall(call); folded != nil {
		return folded
	}
	if reduced := applyIdentity(ctx, call); reduced != nil {
		return reduced
	}
	return expr
}

// foldConstantCall evaluates a builtin whose arguments are all literals.
func foldConstantCall(call *ast.FunctionCall) ast.Expression {
	args := make([]*big.Int, len(call.Arguments))
	for i, arg := range call.Arguments {
		lit, ok := arg.(*ast.Literal)
		if !ok {
			return nil
		}
		if args[i] = literalValue(lit); args[i] == nil {
			return nil
		}
	}

	boolResult := func(b bool) ast.Expression {
		if b {
			return numberLiteral(big.NewInt(1))
		}
		return numberLiteral(big.NewInt(0))
	}
	wrap := func(v *big.Int) ast.Expression {
		return numberLiteral(v.Mod(v, wordModulus))
	}

	switch call.FunctionName {
	case "add":
		return wrap(new(big.Int).Add(args[0], args[1]))
	case "sub":
		return wrap(new(big.Int).Sub(args[0], args[1]))
	case "mul":
		return wrap(new(big.Int).Mul(args[0], args[1]))
	case "div":
		if args[1].Sign() == 0 {
			return numberLiteral(big.NewInt(0))
		}
		return wrap(new(big.Int).Div(args[0], args[1]))
	case "mod":
		if args[1].Sign() == 0 {
			return numberLiteral(big.NewInt(0))
		}
		return wrap(new(big.Int).Mod(args[0], args[1]))
	case "exp":
		return wrap(new(big.Int).Exp(args[0], args[1], wordModulus))
	case "lt":
		return boolResult(args[0].Cmp(args[1]) < 0)
	case "gt":
		return boolResult(args[0].Cmp(args[1]) > 0)
	case "eq":
		return boolResult(args[0].Cmp(args[1]) == 0)
	case "iszero":
		return boolResult(args[0].Sign() == 0)
	case "and":
		return wrap(new(big.Int).And(args[0], args[1]))
	case "or":
		return wrap(new(big.Int).Or(args[0], args[1]))
	case "xor":
		return wrap(new(big.Int).Xor(args[0], args[1]))
	case "not":
		allOnes := new(big.Int).Sub(wordModulus, big.NewInt(1))
		return wrap(new(big.Int).Xor(args[0], allOnes))
	case "shl":
		if args[0].Cmp(big.NewInt(256)) >= 0 {
			return numberLiteral(big.NewInt(0))
		}
		return wrap(new(big.Int).Lsh(args[1], uint(args[0].Uint64())))
	case "shr":
		if args[0].Cmp(big.NewInt(256)) >= 0 {
			return numberLiteral(big.NewInt(0))
		}
		return wrap(new(big.Int).Rsh(args[1], uint(args[0].Uint64())))
	default:
		return nil
	}
}

// applyIdentity reduces calls with one constant operand: x+0, x*1, x*0 and
// friends. Dropping an operand is only allowed when it is movable.
func applyIdentity(ctx *Context, call *ast.FunctionCall) ast.Expression {
	if len(call.Arguments) != 2 {
		return nil
	}
	left, right := call.Arguments[0], call.Arguments[1]

	switch call.FunctionName {
	case "add", "or", "xor":
		if isZeroLiteral(right) {
			return left
		}
		if isZeroLiteral(left) {
			return right
		}
	case "sub", "shl", "shr":
		if call.FunctionName == "sub" && isZeroLiteral(right) {
			return left
		}
		if call.FunctionName != "sub" && isZeroLiteral(left) {
			return right
		}
	case "mul":
		if isOneLiteral(right) {
			return left
		}
		if isOneLiteral(left) {
			return right
		}
		if isZeroLiteral(right) && isMovable(ctx, left) {
			return zeroLiteral()
		}
		if isZeroLiteral(left) && isMovable(ctx, right) {
			return zeroLiteral()
		}
	case "div":
		if isOneLiteral(right) {
			return left
		}
	}
	return nil
}

func isOneLiteral(expr ast.Expression) bool {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return false
	}
	v := literalValue(lit)
	return v != nil && v.Cmp(big.NewInt(1)) == 0
}

// StructuralSimplifier resolves control flow with known conditions:
// constant ifs, constant switches and loops that never run.
type StructuralSimplifier struct{}

func (*StructuralSimplifier) Name() string       { return "StructuralSimplifier" }
func (*StructuralSimplifier) Abbreviation() byte { return 't' }

func (*StructuralSimplifier) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for _, stmt := range b.Statements {
			out = append(out, simplifyStructure(ctx, stmt)...)
		}
		b.Statements = out
	})
}

func simplifyStructure(ctx *Context, stmt ast.Statement) []ast.Statement {
	switch s := stmt.(type) {
	case *ast.If:
		if isNonZeroLiteral(s.Condition) {
			body := s.Body
			return []ast.Statement{&body}
		}
		if isZeroLiteral(s.Condition) {
			return nil
		}
	case *ast.Switch:
		lit, ok := s.Expression.(*ast.Literal)
		if !ok {
			break
		}
		value := literalValue(lit)
		if value == nil {
			break
		}
		var fallback *ast.Block
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value == nil {
				fallback = &c.Body
				continue
			}
			caseValue := literalValue(c.Value)
			if caseValue != nil && caseValue.Cmp(value) == 0 {
				body := c.Body
				return []ast.Statement{&body}
			}
		}
		if fallback != nil {
			body := *fallback
			return []ast.Statement{&body}
		}
		return nil
	case *ast.ForLoop:
		if isZeroLiteral(s.Condition) {
			pre := s.Pre
			return []ast.Statement{&pre}
		}
	}
	return []ast.Statement{stmt}
}

// ControlFlowSimplifier removes control flow that does nothing: empty
// blocks, ifs with empty bodies, degenerate switches and a trailing leave at
// the end of a function body.
type ControlFlowSimplifier struct{}

func (*ControlFlowSimplifier) Name() string       { return "ControlFlowSimplifier" }
func (*ControlFlowSimplifier) Abbreviation() byte { return 'n' }

func (*ControlFlowSimplifier) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for _, stmt := range b.Statements {
			switch s := stmt.(type) {
			case *ast.Block:
				if len(s.Statements) == 0 {
					continue
				}
			case *ast.If:
				if len(s.Body.Statements) == 0 && isMovable(ctx, s.Condition) {
					continue
				}
			case *ast.Switch:
				if replacement, drop := simplifySwitch(ctx, s); drop {
					continue
				} else if replacement != nil {
					out = append(out, replacement)
					continue
				}
			}
			out = append(out, stmt)
		}
		b.Statements = out
	})

	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		n := len(fn.Body.Statements)
		if n == 0 {
			return
		}
		if _, ok := fn.Body.Statements[n-1].(*ast.Leave); ok {
			fn.Body.Statements = fn.Body.Statements[:n-1]
		}
	})
}

func simplifySwitch(ctx *Context, s *ast.Switch) (ast.Statement, bool) {
	if !isMovable(ctx, s.Expression) {
		return nil, false
	}
	switch len(s.Cases) {
	case 0:
		return nil, true
	case 1:
		if s.Cases[0].Value == nil {
			body := s.Cases[0].Body
			return &body, false
		}
	}
	return nil, false
}
