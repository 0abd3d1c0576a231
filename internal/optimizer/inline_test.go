package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashlar/internal/ast"
)

func TestExpressionInlinerInlinesTrivialFunctions(t *testing.T) {
	block := runStep(t, &ExpressionInliner{}, `{
		function double(v) -> r { r := add(v, v) }
		sstore(0, double(5))
	}`)

	stmt := block.Statements[1].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.FunctionCall)
	assert.Equal(t, "add(5, 5)", ast.PrintExpression(call.Arguments[1]))
}

func TestExpressionInlinerSkipsEffectfulArguments(t *testing.T) {
	// v occurs twice in the body; duplicating mload(0) would double the read.
	block := runStep(t, &ExpressionInliner{}, `{
		function double(v) -> r { r := add(v, v) }
		sstore(0, double(mload(0)))
	}`)

	stmt := block.Statements[1].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.FunctionCall)
	inner := call.Arguments[1].(*ast.FunctionCall)
	assert.Equal(t, "double", inner.FunctionName)
}

func TestExpressionInlinerSkipsMultiStatementBodies(t *testing.T) {
	src := `{
		function f(v) -> r {
			r := v
			r := add(r, 1)
		}
		sstore(0, f(5))
	}`
	block := runStep(t, &ExpressionInliner{}, src)
	assertTree(t, src, block)
}

func TestFullInlinerSplicesBody(t *testing.T) {
	block := runStep(t, &FullInliner{}, `{
		function store(k, v) {
			sstore(k, v)
		}
		store(1, 2)
	}`)

	out := ast.Print(block)
	assert.Contains(t, out, "sstore", "the body lands at the call site")

	// The original call statement is gone.
	for _, stmt := range block.Statements {
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			call := es.Expression.(*ast.FunctionCall)
			assert.NotEqual(t, "store", call.FunctionName)
		}
	}
}

func TestFullInlinerBindsResult(t *testing.T) {
	block := runStep(t, &FullInliner{}, `{
		function one() -> r {
			r := 1
		}
		let x := one()
		sstore(0, x)
	}`)

	// x must still be declared and feed the store.
	out := ast.Print(block)
	assert.Contains(t, out, "let x")
	assert.Contains(t, out, "sstore(0, x)")
	assert.NotContains(t, out, "x := one()")
}

func TestFullInlinerSkipsRecursiveFunctions(t *testing.T) {
	src := `{
		function count(n) {
			if n { count(sub(n, 1)) }
		}
		count(3)
	}`
	block := runStep(t, &FullInliner{}, src)

	stmt := block.Statements[1].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.FunctionCall)
	assert.Equal(t, "count", call.FunctionName, "recursive callees stay calls")
}

func TestFullInlinerSkipsLeave(t *testing.T) {
	src := `{
		function f() {
			leave
		}
		f()
	}`
	block := runStep(t, &FullInliner{}, src)

	stmt := block.Statements[1].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.FunctionCall)
	assert.Equal(t, "f", call.FunctionName, "a spliced leave would exit the wrong function")
}

func TestFullInlinerRenamesCalleeLocals(t *testing.T) {
	block := runStep(t, &FullInliner{}, `{
		let tmp := 9
		function f(a) {
			let tmp_1 := add(a, 1)
			sstore(0, tmp_1)
		}
		f(tmp)
	}`)

	// Every declaration must still be unique after splicing.
	seen := map[string]int{}
	ast.VisitStatements(block, func(stmt ast.Statement) {
		if d, ok := stmt.(*ast.VariableDeclaration); ok {
			for _, name := range d.Variables {
				seen[name]++
			}
		}
	})
	for name, count := range seen {
		assert.Equal(t, 1, count, "name %q declared more than once", name)
	}
}

func TestEquivalentFunctionCombinerRedirectsCalls(t *testing.T) {
	block := runStep(t, &EquivalentFunctionCombiner{}, `{
		function inc(a) -> r { r := add(a, 1) }
		function bump(b) -> s { s := add(b, 1) }
		sstore(0, inc(1))
		sstore(1, bump(2))
	}`)

	var called []string
	ast.VisitExpressions(block, func(expr ast.Expression) {
		if call, ok := expr.(*ast.FunctionCall); ok && call.FunctionName != "sstore" && call.FunctionName != "add" {
			called = append(called, call.FunctionName)
		}
	})
	assert.Equal(t, []string{"inc", "inc"}, called,
		"all calls converge on the first equivalent definition")
}

func TestEquivalentFunctionCombinerDistinguishesBodies(t *testing.T) {
	block := runStep(t, &EquivalentFunctionCombiner{}, `{
		function inc(a) -> r { r := add(a, 1) }
		function dec(b) -> s { s := sub(b, 1) }
		sstore(0, inc(1))
		sstore(1, dec(2))
	}`)

	require.Len(t, block.Statements, 4)
	var called []string
	ast.VisitExpressions(block, func(expr ast.Expression) {
		if call, ok := expr.(*ast.FunctionCall); ok && (call.FunctionName == "inc" || call.FunctionName == "dec") {
			called = append(called, call.FunctionName)
		}
	})
	assert.Equal(t, []string{"inc", "dec"}, called)
}
