package optimizer

import "ashlar/internal/ast"

// Pruning steps: unreachable code, unused declarations and functions that
// are only reachable through themselves.

// DeadCodeEliminator drops everything after a statement that never returns
// control: break, continue, leave or a call to a terminating builtin.
// Function definitions are declarations and survive regardless of position.
type DeadCodeEliminator struct{}

func (*DeadCodeEliminator) Name() string       { return "DeadCodeEliminator" }
func (*DeadCodeEliminator) Abbreviation() byte { return 'D' }

func (*DeadCodeEliminator) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		terminated := false
		var out []ast.Statement
		for _, stmt := range b.Statements {
			if terminated {
				if _, ok := stmt.(*ast.FunctionDefinition); ok {
					out = append(out, stmt)
				}
				continue
			}
			out = append(out, stmt)
			if isTerminating(ctx, stmt) {
				terminated = true
			}
		}
		b.Statements = out
	})
}

// UnusedPruner removes declarations whose variables are never read and
// functions that are never called, repeating until nothing changes.
// Declarations with non-movable values are kept for their effects. Reserved
// functions are pinned: callers outside this tree may depend on them.
type UnusedPruner struct{}

func (*UnusedPruner) Name() string       { return "UnusedPruner" }
func (*UnusedPruner) Abbreviation() byte { return 'u' }

func (p *UnusedPruner) Run(ctx *Context, block *ast.Block) {
	for p.pruneOnce(ctx, block) {
	}
}

func (*UnusedPruner) pruneOnce(ctx *Context, block *ast.Block) bool {
	references := map[string]int{}
	ast.VisitExpressions(block, func(expr ast.Expression) {
		switch e := expr.(type) {
		case *ast.Identifier:
			references[e.Name]++
		case *ast.FunctionCall:
			references[e.FunctionName]++
		}
	})

	changed := false
	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for _, stmt := range b.Statements {
			switch s := stmt.(type) {
			case *ast.FunctionDefinition:
				if references[s.Name] == 0 && !ctx.ReservedIdentifiers[s.Name] {
					changed = true
					continue
				}
			case *ast.VariableDeclaration:
				unused := true
				for _, name := range s.Variables {
					if references[name] > 0 {
						unused = false
						break
					}
				}
				if unused && (s.Value == nil || isMovable(ctx, s.Value)) {
					changed = true
					continue
				}
			}
			out = append(out, stmt)
		}
		b.Statements = out
	})
	return changed
}

// CircularReferencesPruner removes functions that are only reachable from
// each other, never from the main code or a reserved entry point.
type CircularReferencesPruner struct{}

func (*CircularReferencesPruner) Name() string       { return "CircularReferencesPruner" }
func (*CircularReferencesPruner) Abbreviation() byte { return 'l' }

func (*CircularReferencesPruner) Run(ctx *Context, block *ast.Block) {
	// Call edges per function, plus the calls made outside any function.
	callsOf := map[string]map[string]bool{}
	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		callsOf[fn.Name] = calledFunctions(&fn.Body)
	})

	roots := calledFunctions(block)
	for name := range callsOf {
		if ctx.ReservedIdentifiers[name] {
			roots[name] = true
		}
	}

	reachable := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		reachable[name] = true
		for callee := range callsOf[name] {
			visit(callee)
		}
	}
	for name := range roots {
		visit(name)
	}

	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for _, stmt := range b.Statements {
			if fn, ok := stmt.(*ast.FunctionDefinition); ok && !reachable[fn.Name] {
				continue
			}
			out = append(out, stmt)
		}
		b.Statements = out
	})
}

// calledFunctions collects functions called anywhere in the block, nested
// definitions excluded: a call inside a nested function belongs to that
// function's edges.
func calledFunctions(block *ast.Block) map[string]bool {
	called := map[string]bool{}
	visitOwnCode(block, func(expr ast.Expression) {
		if call, ok := expr.(*ast.FunctionCall); ok {
			called[call.FunctionName] = true
		}
	})
	return called
}

// visitOwnCode visits expressions in the block without descending into
// function definitions.
func visitOwnCode(block *ast.Block, f func(ast.Expression)) {
	var visitExpr func(expr ast.Expression)
	visitExpr = func(expr ast.Expression) {
		f(expr)
		if call, ok := expr.(*ast.FunctionCall); ok {
			for _, arg := range call.Arguments {
				visitExpr(arg)
			}
		}
	}
	var visitBlock func(b *ast.Block)
	visitBlock = func(b *ast.Block) {
		for _, stmt := range b.Statements {
			switch s := stmt.(type) {
			case *ast.Block:
				visitBlock(s)
			case *ast.VariableDeclaration:
				if s.Value != nil {
					visitExpr(s.Value)
				}
			case *ast.Assignment:
				visitExpr(s.Value)
			case *ast.ExpressionStatement:
				visitExpr(s.Expression)
			case *ast.If:
				visitExpr(s.Condition)
				visitBlock(&s.Body)
			case *ast.Switch:
				visitExpr(s.Expression)
				for i := range s.Cases {
					visitBlock(&s.Cases[i].Body)
				}
			case *ast.ForLoop:
				visitBlock(&s.Pre)
				visitExpr(s.Condition)
				visitBlock(&s.Post)
				visitBlock(&s.Body)
			}
		}
	}
	visitBlock(block)
}
