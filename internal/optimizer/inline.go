package optimizer

import (
	"fmt"

	"ashlar/internal/ast"
)

// ExpressionInliner inlines calls to trivial functions: a single return
// variable assigned exactly once from a movable expression. The call is
// replaced by the body expression with arguments substituted for parameters,
// which is sound only when the arguments themselves are movable, since
// substitution can duplicate or reorder them.
type ExpressionInliner struct{}

func (*ExpressionInliner) Name() string       { return "ExpressionInliner" }
func (*ExpressionInliner) Abbreviation() byte { return 'e' }

func (*ExpressionInliner) Run(ctx *Context, block *ast.Block) {
	inlinable := map[string]*ast.FunctionDefinition{}
	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		if isExpressionFunction(ctx, fn) {
			inlinable[fn.Name] = fn
		}
	})
	if len(inlinable) == 0 {
		return
	}

	ast.MapExpressions(block, func(expr ast.Expression) ast.Expression {
		call, ok := expr.(*ast.FunctionCall)
		if !ok {
			return expr
		}
		fn, ok := inlinable[call.FunctionName]
		if !ok || len(call.Arguments) != len(fn.Parameters) {
			return expr
		}
		for _, arg := range call.Arguments {
			if !isMovable(ctx, arg) {
				return expr
			}
		}
		body := fn.Body.Statements[0].(*ast.Assignment)
		repl := make(map[string]ast.Expression, len(fn.Parameters))
		for i, param := range fn.Parameters {
			repl[param] = call.Arguments[i]
		}
		return substituteVariables(ast.CopyExpression(body.Value), repl)
	})
}

// isExpressionFunction reports whether fn consists of exactly one movable
// assignment to its single return variable.
func isExpressionFunction(ctx *Context, fn *ast.FunctionDefinition) bool {
	if len(fn.ReturnVariables) != 1 || len(fn.Body.Statements) != 1 {
		return false
	}
	assign, ok := fn.Body.Statements[0].(*ast.Assignment)
	if !ok || len(assign.Variables) != 1 || assign.Variables[0] != fn.ReturnVariables[0] {
		return false
	}
	// Movability excludes user calls, so the body cannot be recursive.
	return isMovable(ctx, assign.Value)
}

// fullInlineSizeLimit bounds the body size of functions considered for
// statement-level inlining. Larger bodies tend to grow code without paying
// for the saved call overhead.
const fullInlineSizeLimit = 20

// FullInliner inlines function calls in statement position by splicing a
// renamed copy of the callee body into the caller. Candidates must be
// non-recursive, free of leave statements and of nested function
// definitions, and small. Call sites must be expression statements or
// single-variable declarations whose value is a direct call with atomic
// arguments; ExpressionSplitter produces exactly this shape.
type FullInliner struct{}

func (*FullInliner) Name() string       { return "FullInliner" }
func (*FullInliner) Abbreviation() byte { return 'i' }

func (*FullInliner) Run(ctx *Context, block *ast.Block) {
	candidates := map[string]*ast.FunctionDefinition{}
	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		if isFullInlinable(ctx, fn) {
			candidates[fn.Name] = fn
		}
	})
	if len(candidates) == 0 {
		return
	}

	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for _, stmt := range b.Statements {
			if inlined, ok := tryInlineStatement(ctx, candidates, stmt); ok {
				out = append(out, inlined...)
				continue
			}
			out = append(out, stmt)
		}
		b.Statements = out
	})
}

func isFullInlinable(ctx *Context, fn *ast.FunctionDefinition) bool {
	if len(fn.ReturnVariables) > 1 {
		return false
	}
	if CodeSize(&fn.Body) > fullInlineSizeLimit {
		return false
	}
	recursive := false
	hasLeave := false
	hasNestedFunction := false
	ast.VisitStatements(&fn.Body, func(stmt ast.Statement) {
		switch stmt.(type) {
		case *ast.Leave:
			hasLeave = true
		case *ast.FunctionDefinition:
			hasNestedFunction = true
		}
	})
	ast.VisitExpressions(&fn.Body, func(expr ast.Expression) {
		if call, ok := expr.(*ast.FunctionCall); ok && call.FunctionName == fn.Name {
			recursive = true
		}
	})
	return !recursive && !hasLeave && !hasNestedFunction
}

// tryInlineStatement expands stmt into the inlined callee body when stmt is
// a plain call or a single-variable declaration from a call.
func tryInlineStatement(ctx *Context, candidates map[string]*ast.FunctionDefinition, stmt ast.Statement) ([]ast.Statement, bool) {
	var call *ast.FunctionCall
	var resultVar string

	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		c, ok := s.Expression.(*ast.FunctionCall)
		if !ok {
			return nil, false
		}
		call = c
	case *ast.VariableDeclaration:
		if len(s.Variables) != 1 || s.Value == nil {
			return nil, false
		}
		c, ok := s.Value.(*ast.FunctionCall)
		if !ok {
			return nil, false
		}
		call = c
		resultVar = s.Variables[0]
	default:
		return nil, false
	}

	fn, ok := candidates[call.FunctionName]
	if !ok || len(call.Arguments) != len(fn.Parameters) {
		return nil, false
	}
	if resultVar == "" && len(fn.ReturnVariables) != 0 {
		return nil, false
	}
	if resultVar != "" && len(fn.ReturnVariables) != 1 {
		return nil, false
	}
	for _, arg := range call.Arguments {
		if !isAtomic(arg) {
			return nil, false
		}
	}

	rename := freshNamesFor(ctx, fn)

	var out []ast.Statement
	for i, param := range fn.Parameters {
		out = append(out, &ast.VariableDeclaration{
			Variables: []string{rename[param]},
			Value:     ast.CopyExpression(call.Arguments[i]),
		})
	}
	for _, ret := range fn.ReturnVariables {
		out = append(out, &ast.VariableDeclaration{
			Variables: []string{rename[ret]},
		})
	}

	body := ast.CopyBlock(&fn.Body)
	applyFlatRename(body, rename)
	out = append(out, body.Statements...)

	if resultVar != "" {
		out = append(out, &ast.VariableDeclaration{
			Variables: []string{resultVar},
			Value:     &ast.Identifier{Name: rename[fn.ReturnVariables[0]]},
		})
	}
	return out, true
}

// freshNamesFor maps every name the callee declares to a fresh one, keeping
// the global-uniqueness property across the spliced copy.
func freshNamesFor(ctx *Context, fn *ast.FunctionDefinition) map[string]string {
	rename := map[string]string{}
	fresh := func(name string) {
		if _, done := rename[name]; !done {
			rename[name] = ctx.Dispenser.NewName(name)
		}
	}
	for _, p := range fn.Parameters {
		fresh(p)
	}
	for _, r := range fn.ReturnVariables {
		fresh(r)
	}
	ast.VisitStatements(&fn.Body, func(stmt ast.Statement) {
		if d, ok := stmt.(*ast.VariableDeclaration); ok {
			for _, name := range d.Variables {
				fresh(name)
			}
		}
	})
	return rename
}

// EquivalentFunctionCombiner detects functions with structurally identical
// bodies and redirects all calls to a single representative. The duplicates
// become unreachable and are removed by the pruning steps.
type EquivalentFunctionCombiner struct{}

func (*EquivalentFunctionCombiner) Name() string       { return "EquivalentFunctionCombiner" }
func (*EquivalentFunctionCombiner) Abbreviation() byte { return 'v' }

func (*EquivalentFunctionCombiner) Run(ctx *Context, block *ast.Block) {
	representative := map[string]string{} // canonical body -> function name
	redirect := map[string]string{}       // duplicate name -> representative

	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		key := canonicalFunctionKey(fn)
		if first, seen := representative[key]; seen {
			if !ctx.ReservedIdentifiers[fn.Name] {
				redirect[fn.Name] = first
			}
			return
		}
		representative[key] = fn.Name
	})
	if len(redirect) == 0 {
		return
	}

	ast.VisitExpressions(block, func(expr ast.Expression) {
		if call, ok := expr.(*ast.FunctionCall); ok {
			if target, dup := redirect[call.FunctionName]; dup {
				call.FunctionName = target
			}
		}
	})
}

// canonicalFunctionKey renders fn with all declared names replaced by
// positional placeholders, so two functions differing only in naming
// produce the same key. Recursive self-calls canonicalize too, since the
// function name itself is renamed.
func canonicalFunctionKey(fn *ast.FunctionDefinition) string {
	clone := &ast.FunctionDefinition{
		Name:            fn.Name,
		Parameters:      append([]string(nil), fn.Parameters...),
		ReturnVariables: append([]string(nil), fn.ReturnVariables...),
		Body:            *ast.CopyBlock(&fn.Body),
	}
	wrapper := &ast.Block{Statements: []ast.Statement{clone}}

	rename := map[string]string{fn.Name: "_f"}
	next := 0
	assign := func(name string) {
		if _, done := rename[name]; !done {
			rename[name] = fmt.Sprintf("_c%d", next)
			next++
		}
	}
	for _, p := range clone.Parameters {
		assign(p)
	}
	for _, r := range clone.ReturnVariables {
		assign(r)
	}
	ast.VisitStatements(&clone.Body, func(stmt ast.Statement) {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			for _, name := range s.Variables {
				assign(name)
			}
		case *ast.FunctionDefinition:
			assign(s.Name)
			for _, name := range s.Parameters {
				assign(name)
			}
			for _, name := range s.ReturnVariables {
				assign(name)
			}
		}
	})
	applyFlatRename(wrapper, rename)
	return ast.Print(wrapper)
}
