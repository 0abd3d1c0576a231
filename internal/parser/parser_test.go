// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashlar/internal/ast"
)

func TestParseVariableDeclaration(t *testing.T) {
	block, err := ParseSource("test.air", `{ let x := 42 }`)
	require.NoError(t, err)
	require.Len(t, block.Statements, 1)

	decl, ok := block.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, decl.Variables)

	lit, ok := decl.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.NumberLiteral, lit.Kind)
	assert.Equal(t, "42", lit.Value)
}

func TestParseDeclarationWithoutValue(t *testing.T) {
	block, err := ParseSource("test.air", `{ let a, b }`)
	require.NoError(t, err)

	decl := block.Statements[0].(*ast.VariableDeclaration)
	assert.Equal(t, []string{"a", "b"}, decl.Variables)
	assert.Nil(t, decl.Value)
}

func TestParseHexNumber(t *testing.T) {
	block, err := ParseSource("test.air", `{ let x := 0xfF10 }`)
	require.NoError(t, err)

	lit := block.Statements[0].(*ast.VariableDeclaration).Value.(*ast.Literal)
	assert.Equal(t, "0xfF10", lit.Value)
}

func TestParseNestedCalls(t *testing.T) {
	block, err := ParseSource("test.air", `{ sstore(0, add(mload(0x40), 1)) }`)
	require.NoError(t, err)

	stmt := block.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.FunctionCall)
	assert.Equal(t, "sstore", call.FunctionName)
	require.Len(t, call.Arguments, 2)

	inner := call.Arguments[1].(*ast.FunctionCall)
	assert.Equal(t, "add", inner.FunctionName)
}

func TestParseFunctionDefinition(t *testing.T) {
	src := `{
		function max(a, b) -> r {
			r := a
			if lt(a, b) { r := b }
		}
	}`
	block, err := ParseSource("test.air", src)
	require.NoError(t, err)

	fn, ok := block.Statements[0].(*ast.FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "max", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Parameters)
	assert.Equal(t, []string{"r"}, fn.ReturnVariables)
	assert.Len(t, fn.Body.Statements, 2)
}

func TestParseSwitchWithDefault(t *testing.T) {
	src := `{
		switch x
		case 0 { leave }
		case 1 { break }
		default { continue }
	}`
	block, err := ParseSource("test.air", src)
	require.NoError(t, err)

	sw := block.Statements[0].(*ast.Switch)
	require.Len(t, sw.Cases, 3)
	assert.Equal(t, "0", sw.Cases[0].Value.Value)
	assert.Equal(t, "1", sw.Cases[1].Value.Value)
	assert.Nil(t, sw.Cases[2].Value, "default case has no value")
}

func TestParseForLoop(t *testing.T) {
	src := `{
		for { let i := 0 } lt(i, 10) { i := add(i, 1) } {
			sstore(i, i)
		}
	}`
	block, err := ParseSource("test.air", src)
	require.NoError(t, err)

	loop := block.Statements[0].(*ast.ForLoop)
	assert.Len(t, loop.Pre.Statements, 1)
	assert.Len(t, loop.Post.Statements, 1)
	assert.Len(t, loop.Body.Statements, 1)
}

func TestParseDottedBuiltinName(t *testing.T) {
	block, err := ParseSource("test.air", `{ i64.store(0, 1) }`)
	require.NoError(t, err)

	call := block.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.FunctionCall)
	assert.Equal(t, "i64.store", call.FunctionName)
}

func TestParseStringLiteral(t *testing.T) {
	block, err := ParseSource("test.air", `{ log(0, "overflow") }`)
	require.NoError(t, err)

	call := block.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.FunctionCall)
	lit := call.Arguments[1].(*ast.Literal)
	assert.Equal(t, ast.StringLiteral, lit.Kind)
	assert.Equal(t, "overflow", lit.Value)
}

func TestParseIgnoresComments(t *testing.T) {
	src := `{
		// set up the counter
		let i := 0
	}`
	block, err := ParseSource("test.air", src)
	require.NoError(t, err)
	assert.Len(t, block.Statements, 1)
}

func TestParseMalformedInput(t *testing.T) {
	_, err := ParseSource("test.air", `{ let := 1 }`)
	assert.Error(t, err)

	_, err = ParseSource("test.air", `{ if { } }`)
	assert.Error(t, err)

	_, err = ParseSource("test.air", `let x := 1`)
	assert.Error(t, err, "top level must be a block")
}

func TestParseRoundTrip(t *testing.T) {
	src := `{
		let x := 0x20
		function double(v) -> r {
			r := add(v, v)
		}
		for { let i := 0 } lt(i, x) { i := add(i, 1) } {
			if eq(i, 3) { break }
		}
		sstore(0, double(x))
	}`
	first, err := ParseSource("test.air", src)
	require.NoError(t, err)

	second, err := ParseSource("test.air", ast.Print(first))
	require.NoError(t, err)
	assert.True(t, ast.EqualBlocks(first, second), "print then reparse must preserve structure")
}
