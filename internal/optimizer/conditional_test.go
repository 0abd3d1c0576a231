package optimizer

import (
	"testing"
)

func TestConditionalSimplifierPropagatesCaseValue(t *testing.T) {
	block := runStep(t, &ConditionalSimplifier{}, `{
		switch x
		case 3 { sstore(0, x) }
		default { sstore(0, x) }
	}`)
	assertTree(t, `{
		switch x
		case 3 { sstore(0, 3) }
		default { sstore(0, x) }
	}`, block)
}

func TestConditionalSimplifierSkipsAssignedSelector(t *testing.T) {
	src := `{
		switch x
		case 3 {
			x := 4
			sstore(0, x)
		}
	}`
	block := runStep(t, &ConditionalSimplifier{}, src)
	assertTree(t, src, block)
}

func TestConditionalSimplifierNeedsIdentifierSelector(t *testing.T) {
	src := `{
		switch mload(0)
		case 3 { sstore(0, 1) }
	}`
	block := runStep(t, &ConditionalSimplifier{}, src)
	assertTree(t, src, block)
}

func TestConditionalUnsimplifierReplacesLiteralWithSelector(t *testing.T) {
	block := runStep(t, &ConditionalUnsimplifier{}, `{
		switch x
		case 0x1234 { sstore(0, 0x1234) }
	}`)
	assertTree(t, `{
		switch x
		case 0x1234 { sstore(0, x) }
	}`, block)
}

func TestConditionalUnsimplifierLeavesOtherLiterals(t *testing.T) {
	src := `{
		switch x
		case 3 { sstore(0, 4) }
	}`
	block := runStep(t, &ConditionalUnsimplifier{}, src)
	assertTree(t, src, block)
}

func TestConditionalRoundTrip(t *testing.T) {
	src := `{
		switch x
		case 7 { sstore(0, x) }
	}`
	block := parseBlock(t, src)
	ctx := evmContext(block)

	(&ConditionalSimplifier{}).Run(ctx, block)
	(&ConditionalUnsimplifier{}).Run(ctx, block)

	assertTree(t, src, block)
}
