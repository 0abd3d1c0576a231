package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashlar/internal/dialect"
	"ashlar/internal/errors"
	"ashlar/internal/parser"
)

func analyze(t *testing.T, source string) []errors.CompilerError {
	t.Helper()
	block, err := parser.ParseSource("test.air", source)
	require.NoError(t, err, "source must parse")
	return NewAnalyzer(dialect.EVM()).Analyze(block)
}

func firstCode(errs []errors.CompilerError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Code
}

func TestAnalyzeValidProgram(t *testing.T) {
	errs := analyze(t, `{
		let x := 1
		function double(v) -> r {
			r := add(v, v)
		}
		sstore(0, double(x))
	}`)
	assert.Empty(t, errs)
}

func TestUndeclaredVariable(t *testing.T) {
	errs := analyze(t, `{ sstore(0, x) }`)
	assert.Equal(t, errors.ErrorUndeclaredVariable, firstCode(errs))
}

func TestUseBeforeDeclaration(t *testing.T) {
	errs := analyze(t, `{
		sstore(0, x)
		let x := 1
	}`)
	assert.Equal(t, errors.ErrorUndeclaredVariable, firstCode(errs))
}

func TestFunctionVisibleBeforeDefinition(t *testing.T) {
	errs := analyze(t, `{
		sstore(0, f())
		function f() -> r { r := 1 }
	}`)
	assert.Empty(t, errs, "functions are visible in the whole block")
}

func TestUndefinedFunction(t *testing.T) {
	errs := analyze(t, `{ missing() }`)
	assert.Equal(t, errors.ErrorUndefinedFunction, firstCode(errs))
}

func TestArgumentCountMismatch(t *testing.T) {
	errs := analyze(t, `{ let x := add(1) }`)
	assert.Equal(t, errors.ErrorArgumentCount, firstCode(errs))
}

func TestValueArityMismatch(t *testing.T) {
	// sstore returns no values, so it cannot initialize a variable.
	errs := analyze(t, `{ let x := sstore(0, 1) }`)
	assert.Equal(t, errors.ErrorValueArity, firstCode(errs))
}

func TestAssignmentToUndeclared(t *testing.T) {
	errs := analyze(t, `{ x := 1 }`)
	assert.Equal(t, errors.ErrorInvalidAssignment, firstCode(errs))
}

func TestDuplicateDeclarationInScope(t *testing.T) {
	errs := analyze(t, `{
		let x := 1
		let x := 2
	}`)
	assert.Equal(t, errors.ErrorDuplicateDeclaration, firstCode(errs))
}

func TestShadowingInNestedBlockAllowed(t *testing.T) {
	errs := analyze(t, `{
		let x := 1
		{
			let x := 2
			sstore(0, x)
		}
	}`)
	assert.Empty(t, errs, "nested blocks open a fresh scope")
}

func TestBreakOutsideLoop(t *testing.T) {
	errs := analyze(t, `{ break }`)
	assert.Equal(t, errors.ErrorLoopControlOutsideLoop, firstCode(errs))
}

func TestLeaveOutsideFunction(t *testing.T) {
	errs := analyze(t, `{ leave }`)
	assert.Equal(t, errors.ErrorLeaveOutsideFunction, firstCode(errs))
}

func TestLeaveInsideFunction(t *testing.T) {
	errs := analyze(t, `{
		function f() {
			leave
		}
	}`)
	assert.Empty(t, errs)
}

func TestFunctionBodyIsVariableBarrier(t *testing.T) {
	errs := analyze(t, `{
		let outer := 1
		function f() -> r {
			r := outer
		}
	}`)
	assert.Equal(t, errors.ErrorUndeclaredVariable, firstCode(errs),
		"function bodies must not see outer variables")
}

func TestForLoopPreScopeSpansLoop(t *testing.T) {
	errs := analyze(t, `{
		for { let i := 0 } lt(i, 10) { i := add(i, 1) } {
			sstore(i, i)
		}
	}`)
	assert.Empty(t, errs)
}

func TestForLoopVariableNotVisibleAfter(t *testing.T) {
	errs := analyze(t, `{
		for { let i := 0 } lt(i, 10) { i := add(i, 1) } { }
		sstore(0, i)
	}`)
	assert.Equal(t, errors.ErrorUndeclaredVariable, firstCode(errs))
}

func TestWasmDialectBuiltins(t *testing.T) {
	block, err := parser.ParseSource("test.air", `{ i64.store(0, 1) }`)
	require.NoError(t, err)

	errs := NewAnalyzer(dialect.Wasm()).Analyze(block)
	assert.Empty(t, errs)

	errs = NewAnalyzer(dialect.EVM()).Analyze(block)
	assert.Equal(t, errors.ErrorUndefinedFunction, firstCode(errs))
}

func TestAnalyzeStrictFoldsErrors(t *testing.T) {
	block, err := parser.ParseSource("test.air", `{ sstore(0, x) }`)
	require.NoError(t, err)

	_, err = AnalyzeStrict(dialect.EVM(), block)
	assert.Error(t, err)

	block, err = parser.ParseSource("test.air", `{
		function f(a) -> r { r := a }
		sstore(0, f(1))
	}`)
	require.NoError(t, err)

	info, err := AnalyzeStrict(dialect.EVM(), block)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Functions["f"].Parameters)
	assert.Equal(t, 1, info.Functions["f"].Returns)
}
