package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ashlar/internal/ast"
	"ashlar/internal/dialect"
)

func TestDeadCodeAfterTerminatingCall(t *testing.T) {
	block := runStep(t, &DeadCodeEliminator{}, `{
		revert(0, 0)
		sstore(0, 1)
	}`)
	assertTree(t, `{ revert(0, 0) }`, block)
}

func TestDeadCodeAfterBreak(t *testing.T) {
	block := runStep(t, &DeadCodeEliminator{}, `{
		for { } 1 { } {
			break
			sstore(0, 1)
		}
	}`)
	assertTree(t, `{
		for { } 1 { } { break }
	}`, block)
}

func TestDeadCodeKeepsFunctionDefinitions(t *testing.T) {
	block := runStep(t, &DeadCodeEliminator{}, `{
		function f() {
			leave
			sstore(0, 1)
		}
		stop()
		function g() { }
		sstore(0, 2)
	}`)
	assertTree(t, `{
		function f() { leave }
		stop()
		function g() { }
	}`, block)
}

func TestUnusedPrunerDropsUnreadDeclarations(t *testing.T) {
	block := runStep(t, &UnusedPruner{}, `{
		let unused := add(1, 2)
		let used := 3
		sstore(0, used)
	}`)
	assertTree(t, `{
		let used := 3
		sstore(0, used)
	}`, block)
}

func TestUnusedPrunerKeepsEffectfulValues(t *testing.T) {
	block := runStep(t, &UnusedPruner{}, `{
		let unread := mload(0)
	}`)
	assertTree(t, `{
		let unread := mload(0)
	}`, block)
}

func TestUnusedPrunerCascades(t *testing.T) {
	// Dropping b makes a unused too; pruning must iterate.
	block := runStep(t, &UnusedPruner{}, `{
		let a := 1
		let b := add(a, 1)
	}`)
	assertTree(t, `{ }`, block)
}

func TestUnusedPrunerDropsUncalledFunctions(t *testing.T) {
	block := runStep(t, &UnusedPruner{}, `{
		function unused() -> r { r := 1 }
		sstore(0, 1)
	}`)
	assertTree(t, `{ sstore(0, 1) }`, block)
}

func TestUnusedPrunerKeepsReservedFunctions(t *testing.T) {
	block := parseBlock(t, `{
		function entry() -> r { r := 1 }
	}`)
	ctx := NewContext(dialect.EVM(), map[string]bool{"entry": true}, block)
	(&UnusedPruner{}).Run(ctx, block)

	assert.Len(t, block.Statements, 1)
}

func TestCircularReferencesPruner(t *testing.T) {
	block := runStep(t, &CircularReferencesPruner{}, `{
		function ping() { pong() }
		function pong() { ping() }
		function live() -> r { r := 1 }
		sstore(0, live())
	}`)
	assertTree(t, `{
		function live() -> r { r := 1 }
		sstore(0, live())
	}`, block)
}

func TestCircularReferencesPrunerKeepsReservedCycles(t *testing.T) {
	block := parseBlock(t, `{
		function ping() { pong() }
		function pong() { ping() }
	}`)
	ctx := NewContext(dialect.EVM(), map[string]bool{"ping": true}, block)
	(&CircularReferencesPruner{}).Run(ctx, block)

	var names []string
	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		names = append(names, fn.Name)
	})
	assert.ElementsMatch(t, []string{"ping", "pong"}, names,
		"a reserved root keeps its whole call cycle alive")
}
