package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ashlar/internal/ast"
	"ashlar/internal/dialect"
	"ashlar/internal/parser"
)

func parseBlock(t *testing.T, source string) *ast.Block {
	t.Helper()
	block, err := parser.ParseSource("test.air", source)
	require.NoError(t, err, "test source must parse")
	return block
}

func evmContext(block *ast.Block) *Context {
	return NewContext(dialect.EVM(), map[string]bool{}, block)
}

// runStep parses the source, runs one step over it with an EVM context and
// returns the mutated tree.
func runStep(t *testing.T, step Step, source string) *ast.Block {
	t.Helper()
	block := parseBlock(t, source)
	step.Run(evmContext(block), block)
	return block
}

// assertTree compares the tree against expected source, structurally.
func assertTree(t *testing.T, expected string, block *ast.Block) {
	t.Helper()
	want := parseBlock(t, expected)
	require.True(t, ast.EqualBlocks(want, block),
		"want:\n%s\ngot:\n%s", ast.Print(want), ast.Print(block))
}
