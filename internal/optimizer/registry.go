package optimizer

import (
	"fmt"
	"sync"
)

// The step catalogue is closed and known at build time. It is built lazily
// exactly once and treated as immutable afterwards, so concurrent
// optimization runs on separate trees can share it safely.
//
// VarNameCleaner is deliberately not in the catalogue: running it
// mid-pipeline would destroy the unique-names property the other steps rely
// on. The orchestrator invokes it directly at the very end of a run.

var (
	registryOnce       sync.Once
	registrySteps      map[string]Step
	registryNameToChar map[string]byte
	registryCharToName map[byte]string
)

func buildRegistry() {
	catalogue := []Step{
		&BlockFlattener{},
		&CircularReferencesPruner{},
		&CommonSubexpressionEliminator{},
		&ConditionalSimplifier{},
		&ConditionalUnsimplifier{},
		&ControlFlowSimplifier{},
		&DeadCodeEliminator{},
		&EquivalentFunctionCombiner{},
		&ExpressionInliner{},
		&ExpressionJoiner{},
		&ExpressionSimplifier{},
		&ExpressionSplitter{},
		&ForLoopConditionIntoBody{},
		&ForLoopConditionOutOfBody{},
		&ForLoopInitRewriter{},
		&FullInliner{},
		&FunctionGrouper{},
		&FunctionHoister{},
		&LiteralRematerialiser{},
		&LoadResolver{},
		&LoopInvariantCodeMotion{},
		&RedundantAssignEliminator{},
		&Rematerialiser{},
		&SSAReverser{},
		&SSATransform{},
		&StructuralSimplifier{},
		&UnusedPruner{},
		&VarDeclInitializer{},
	}

	registrySteps = make(map[string]Step, len(catalogue))
	registryNameToChar = make(map[string]byte, len(catalogue))
	registryCharToName = make(map[byte]string, len(catalogue))

	for _, step := range catalogue {
		if _, dup := registrySteps[step.Name()]; dup {
			panic(fmt.Sprintf("optimizer: step %q registered twice", step.Name()))
		}
		registrySteps[step.Name()] = step
		registryNameToChar[step.Name()] = step.Abbreviation()
		registryCharToName[step.Abbreviation()] = step.Name()
	}

	// The two lookup tables must form a bijection; a size mismatch means a
	// step is missing one side of the mapping or shares an abbreviation.
	if len(registryNameToChar) != len(registrySteps) || len(registryCharToName) != len(registrySteps) {
		panic("optimizer: step registry is inconsistent")
	}
}

// AllSteps returns the catalogue of every registered optimization step,
// keyed by name.
func AllSteps() map[string]Step {
	registryOnce.Do(buildRegistry)
	return registrySteps
}

// StepNameToAbbreviation maps step names to their one-character
// abbreviations. Exact inverse of StepAbbreviationToName.
func StepNameToAbbreviation() map[string]byte {
	registryOnce.Do(buildRegistry)
	return registryNameToChar
}

// StepAbbreviationToName maps abbreviation characters to step names. Exact
// inverse of StepNameToAbbreviation.
func StepAbbreviationToName() map[byte]string {
	registryOnce.Do(buildRegistry)
	return registryCharToName
}
