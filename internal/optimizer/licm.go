package optimizer

import (
	"ashlar/internal/ast"
)

// LoopInvariantCodeMotion hoists movable variable declarations out of loop
// bodies when their value cannot change between iterations. Only the
// straight-line prefix of the body is considered; hoisting is safe for
// movable values even when the loop runs zero times, since evaluating them
// has no effects.
type LoopInvariantCodeMotion struct{}

func (*LoopInvariantCodeMotion) Name() string       { return "LoopInvariantCodeMotion" }
func (*LoopInvariantCodeMotion) Abbreviation() byte { return 'M' }

func (*LoopInvariantCodeMotion) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		for _, stmt := range b.Statements {
			if loop, ok := stmt.(*ast.ForLoop); ok {
				hoistInvariants(ctx, loop)
			}
		}
	})
}

// hoistInvariants moves hoistable declarations from the front of the loop
// body to the end of the init block. The init block is the hoist target, not
// the enclosing block: names declared there stay in scope for the hoisted
// values even when the initializer has not been rewritten away yet.
func hoistInvariants(ctx *Context, loop *ast.ForLoop) {
	mutated := map[string]bool{}
	for _, b := range []*ast.Block{&loop.Body, &loop.Post} {
		assignedNames(b, mutated)
		ast.VisitStatements(b, func(stmt ast.Statement) {
			if d, ok := stmt.(*ast.VariableDeclaration); ok {
				for _, name := range d.Variables {
					mutated[name] = true
				}
			}
		})
	}

	for len(loop.Body.Statements) > 0 {
		decl, ok := loop.Body.Statements[0].(*ast.VariableDeclaration)
		if !ok || decl.Value == nil || !isMovable(ctx, decl.Value) {
			break
		}
		reads := map[string]bool{}
		referencedNames(decl.Value, reads)
		invariant := true
		for name := range reads {
			if mutated[name] {
				invariant = false
				break
			}
		}
		if !invariant {
			break
		}
		loop.Pre.Statements = append(loop.Pre.Statements, decl)
		loop.Body.Statements = loop.Body.Statements[1:]
		// The hoisted variable itself was counted as declared in the body;
		// it no longer is, so later declarations may depend on it.
		for _, name := range decl.Variables {
			delete(mutated, name)
		}
	}
}
