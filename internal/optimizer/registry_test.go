package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryContainsAllSteps(t *testing.T) {
	assert.Len(t, AllSteps(), 28)
}

func TestRegistryBijection(t *testing.T) {
	nameToChar := StepNameToAbbreviation()
	charToName := StepAbbreviationToName()

	require.Equal(t, len(nameToChar), len(charToName),
		"every abbreviation must be unique")

	for name, c := range nameToChar {
		assert.Equal(t, name, charToName[c], "round trip for %q", name)
	}
	for c, name := range charToName {
		assert.Equal(t, c, nameToChar[name], "round trip for %q", string(c))
	}
}

func TestRegistryAbbreviations(t *testing.T) {
	expected := map[string]byte{
		"BlockFlattener":                'f',
		"CircularReferencesPruner":      'l',
		"CommonSubexpressionEliminator": 'c',
		"ConditionalSimplifier":         'C',
		"ConditionalUnsimplifier":       'U',
		"ControlFlowSimplifier":         'n',
		"DeadCodeEliminator":            'D',
		"EquivalentFunctionCombiner":    'v',
		"ExpressionInliner":             'e',
		"ExpressionJoiner":              'j',
		"ExpressionSimplifier":          's',
		"ExpressionSplitter":            'x',
		"ForLoopConditionIntoBody":      'I',
		"ForLoopConditionOutOfBody":     'O',
		"ForLoopInitRewriter":           'o',
		"FullInliner":                   'i',
		"FunctionGrouper":               'g',
		"FunctionHoister":               'h',
		"LiteralRematerialiser":         'T',
		"LoadResolver":                  'L',
		"LoopInvariantCodeMotion":       'M',
		"RedundantAssignEliminator":     'r',
		"Rematerialiser":                'm',
		"SSAReverser":                   'V',
		"SSATransform":                  'a',
		"StructuralSimplifier":          't',
		"UnusedPruner":                  'u',
		"VarDeclInitializer":            'd',
	}
	assert.Equal(t, expected, StepNameToAbbreviation())
}

func TestRegistryExcludesVarNameCleaner(t *testing.T) {
	_, present := AllSteps()["VarNameCleaner"]
	assert.False(t, present, "name cleanup must not be schedulable mid-run")
}

func TestStepNamesMatchRegistration(t *testing.T) {
	for name, step := range AllSteps() {
		assert.Equal(t, name, step.Name())
	}
}
