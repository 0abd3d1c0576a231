package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ashlar/internal/ast"
)

func TestForLoopInitRewriterMovesPre(t *testing.T) {
	block := runStep(t, &ForLoopInitRewriter{}, `{
		for { let i := 0 } lt(i, 10) { i := add(i, 1) } {
			sstore(i, i)
		}
	}`)
	assertTree(t, `{
		let i := 0
		for { } lt(i, 10) { i := add(i, 1) } {
			sstore(i, i)
		}
	}`, block)
}

func TestForLoopConditionIntoBody(t *testing.T) {
	block := runStep(t, &ForLoopConditionIntoBody{}, `{
		let i := 0
		for { } lt(i, 10) { } {
			i := add(i, 1)
		}
	}`)
	assertTree(t, `{
		let i := 0
		for { } 1 { } {
			if iszero(lt(i, 10)) { break }
			i := add(i, 1)
		}
	}`, block)
}

func TestForLoopConditionIntoBodySkipsLiterals(t *testing.T) {
	block := runStep(t, &ForLoopConditionIntoBody{}, `{
		for { } 1 { } { break }
	}`)
	assertTree(t, `{
		for { } 1 { } { break }
	}`, block)
}

func TestForLoopConditionRoundTrip(t *testing.T) {
	src := `{
		let i := 0
		for { } lt(i, 10) { } {
			i := add(i, 1)
		}
	}`
	block := parseBlock(t, src)
	ctx := evmContext(block)

	(&ForLoopConditionIntoBody{}).Run(ctx, block)
	(&ForLoopConditionOutOfBody{}).Run(ctx, block)

	want := parseBlock(t, src)
	assert.True(t, ast.EqualBlocks(want, block),
		"out-of-body must exactly undo into-body:\n%s", ast.Print(block))
}

func TestForLoopConditionOutOfBodyIgnoresOtherGuards(t *testing.T) {
	// The leading if is a real guard, not the canonical iszero pattern.
	src := `{
		let i := 0
		for { } 1 { } {
			if eq(i, 3) { break }
		}
	}`
	block := runStep(t, &ForLoopConditionOutOfBody{}, src)
	assertTree(t, src, block)
}
