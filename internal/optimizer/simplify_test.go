package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ashlar/internal/ast"
)

func TestFoldArithmetic(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`add(2, 3)`, `5`},
		{`sub(2, 3)`, `115792089237316195423570985008687907853269984665640564039457584007913129639935`},
		{`mul(4, 5)`, `20`},
		{`div(7, 2)`, `3`},
		{`div(1, 0)`, `0`},
		{`mod(7, 3)`, `1`},
		{`mod(7, 0)`, `0`},
		{`exp(2, 8)`, `256`},
		{`lt(1, 2)`, `1`},
		{`gt(1, 2)`, `0`},
		{`eq(5, 5)`, `1`},
		{`iszero(0)`, `1`},
		{`iszero(9)`, `0`},
		{`and(12, 10)`, `8`},
		{`or(12, 10)`, `14`},
		{`xor(12, 10)`, `6`},
		{`shl(4, 1)`, `16`},
		{`shr(4, 16)`, `1`},
		{`shl(256, 1)`, `0`},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			block := runStep(t, &ExpressionSimplifier{}, `{ let x := `+tc.source+` }`)
			assertTree(t, `{ let x := `+tc.want+` }`, block)
		})
	}
}

func TestFoldWrapsAround(t *testing.T) {
	block := runStep(t, &ExpressionSimplifier{}, `{
		let x := add(0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff, 1)
	}`)
	assertTree(t, `{ let x := 0 }`, block)
}

func TestFoldHexLiterals(t *testing.T) {
	block := runStep(t, &ExpressionSimplifier{}, `{ let x := add(0x10, 0x01) }`)
	assertTree(t, `{ let x := 17 }`, block)
}

// A leading zero never makes a decimal literal octal.
func TestFoldLeadingZeroDecimalLiterals(t *testing.T) {
	block := runStep(t, &ExpressionSimplifier{}, `{ sstore(0, eq(010, 10)) }`)
	assertTree(t, `{ sstore(0, 1) }`, block)
}

func TestIdentities(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`add(y, 0)`, `y`},
		{`add(0, y)`, `y`},
		{`sub(y, 0)`, `y`},
		{`mul(y, 1)`, `y`},
		{`mul(1, y)`, `y`},
		{`mul(y, 0)`, `0`},
		{`div(y, 1)`, `y`},
		{`or(y, 0)`, `y`},
		{`xor(0, y)`, `y`},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			block := runStep(t, &ExpressionSimplifier{},
				`{ let y := caller() let x := `+tc.source+` }`)
			assertTree(t, `{ let y := caller() let x := `+tc.want+` }`, block)
		})
	}
}

func TestNoIdentityForEffectfulOperand(t *testing.T) {
	// Dropping the operand would drop a state read; mload is not movable.
	src := `{ let x := mul(mload(0), 0) }`
	block := runStep(t, &ExpressionSimplifier{}, src)
	assertTree(t, src, block)
}

func TestFoldNestedExpressionBottomUp(t *testing.T) {
	block := runStep(t, &ExpressionSimplifier{}, `{ let x := add(mul(2, 3), 4) }`)
	assertTree(t, `{ let x := 10 }`, block)
}

func TestStructuralSimplifierConstantIf(t *testing.T) {
	block := runStep(t, &StructuralSimplifier{}, `{
		if 1 { sstore(0, 1) }
		if 0 { sstore(0, 2) }
	}`)
	assertTree(t, `{
		{ sstore(0, 1) }
	}`, block)
}

func TestStructuralSimplifierConstantSwitch(t *testing.T) {
	block := runStep(t, &StructuralSimplifier{}, `{
		switch 1
		case 0 { sstore(0, 0) }
		case 1 { sstore(0, 1) }
		default { sstore(0, 2) }
	}`)
	assertTree(t, `{
		{ sstore(0, 1) }
	}`, block)
}

func TestStructuralSimplifierSwitchDefault(t *testing.T) {
	block := runStep(t, &StructuralSimplifier{}, `{
		switch 9
		case 0 { sstore(0, 0) }
		default { sstore(0, 2) }
	}`)
	assertTree(t, `{
		{ sstore(0, 2) }
	}`, block)
}

func TestStructuralSimplifierDeadLoop(t *testing.T) {
	block := runStep(t, &StructuralSimplifier{}, `{
		for { let i := 0 } 0 { } { sstore(0, 1) }
	}`)
	assertTree(t, `{
		{ let i := 0 }
	}`, block)
}

func TestControlFlowSimplifierRemovesEmptyConstructs(t *testing.T) {
	block := runStep(t, &ControlFlowSimplifier{}, `{
		{ }
		if eq(1, 2) { }
		sstore(0, 1)
	}`)
	assertTree(t, `{ sstore(0, 1) }`, block)
}

func TestControlFlowSimplifierKeepsEffectfulCondition(t *testing.T) {
	src := `{ if mload(0) { } }`
	block := runStep(t, &ControlFlowSimplifier{}, src)
	assertTree(t, src, block)
}

func TestControlFlowSimplifierDefaultOnlySwitch(t *testing.T) {
	block := runStep(t, &ControlFlowSimplifier{}, `{
		switch x
		default { sstore(0, 1) }
	}`)
	assertTree(t, `{
		{ sstore(0, 1) }
	}`, block)
}

func TestControlFlowSimplifierTrailingLeave(t *testing.T) {
	block := runStep(t, &ControlFlowSimplifier{}, `{
		function f() {
			sstore(0, 1)
			leave
		}
	}`)
	assertTree(t, `{
		function f() { sstore(0, 1) }
	}`, block)
}

func TestControlFlowSimplifierKeepsGuardedLeave(t *testing.T) {
	src := `{
		function f(a) {
			if a { leave }
			sstore(0, 1)
		}
	}`
	block := runStep(t, &ControlFlowSimplifier{}, src)
	want := parseBlock(t, src)
	assert.True(t, ast.EqualBlocks(want, block), "only a trailing leave may go")
}
