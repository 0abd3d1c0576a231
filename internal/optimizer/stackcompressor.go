package optimizer

import "ashlar/internal/ast"

// stackSlotLimit is the number of stack slots the bytecode interpreter can
// reach with its dup and swap instructions.
const stackSlotLimit = 16

// RunStackCompressor tries to reduce the number of simultaneously live
// variables per scope below the reachable stack depth by rematerializing
// cheap values and pruning what becomes unused. It reports whether every
// scope fits; the orchestrator ignores the result because the code generator
// gives a far better diagnostic when the limit is still exceeded.
func RunStackCompressor(ctx *Context, object *Object, optimizeStackAllocation bool, maxRounds int) bool {
	if !optimizeStackAllocation {
		// Without stack-allocation tuning only a single cheap attempt is
		// made; the iteration bound exists to stop runaway loops, not to
		// express useful work.
		maxRounds = 1
	}
	code := object.Code
	for round := 0; round < maxRounds; round++ {
		if maxScopeVariables(code) <= stackSlotLimit {
			return true
		}
		before := CodeSize(code)
		(&Rematerialiser{}).Run(ctx, code)
		(&UnusedPruner{}).Run(ctx, code)
		if CodeSize(code) == before {
			break
		}
	}
	return maxScopeVariables(code) <= stackSlotLimit
}

// maxScopeVariables measures the worst-case variable pressure: the largest
// number of variables any single function (or the top-level code) keeps
// alive, parameters and returns included.
func maxScopeVariables(block *ast.Block) int {
	worst := countScopeVariables(block)
	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		n := len(fn.Parameters) + len(fn.ReturnVariables) + countScopeVariables(&fn.Body)
		if n > worst {
			worst = n
		}
	})
	return worst
}

// countScopeVariables counts declarations in the block excluding nested
// function bodies, which get their own stack frame.
func countScopeVariables(block *ast.Block) int {
	count := 0
	var walk func(b *ast.Block)
	walk = func(b *ast.Block) {
		for _, stmt := range b.Statements {
			switch s := stmt.(type) {
			case *ast.VariableDeclaration:
				count += len(s.Variables)
			case *ast.Block:
				walk(s)
			case *ast.If:
				walk(&s.Body)
			case *ast.Switch:
				for i := range s.Cases {
					walk(&s.Cases[i].Body)
				}
			case *ast.ForLoop:
				walk(&s.Pre)
				walk(&s.Post)
				walk(&s.Body)
			}
		}
	}
	walk(block)
	return count
}
