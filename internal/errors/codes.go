package errors

// Error codes for the Ashlar optimizer toolchain.
// These codes are used in error messages and documentation to provide
// consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: Semantic analysis errors
// E0100-E0199: Optimizer sequence errors
// E0200-E0299: Reserved for future use

const (
	// E0001: Variable referenced before declaration
	ErrorUndeclaredVariable = "E0001"

	// E0002: Call to a function that is neither a builtin nor defined
	ErrorUndefinedFunction = "E0002"

	// E0003: Function call argument count mismatch
	ErrorArgumentCount = "E0003"

	// E0004: Assignment to an undeclared variable
	ErrorInvalidAssignment = "E0004"

	// E0005: Value arity mismatch in declaration or assignment
	ErrorValueArity = "E0005"

	// E0006: break or continue outside a loop body
	ErrorLoopControlOutsideLoop = "E0006"

	// E0007: leave outside a function body
	ErrorLeaveOutsideFunction = "E0007"

	// E0008: Duplicate declaration in the same scope
	ErrorDuplicateDeclaration = "E0008"

	// Optimizer sequence errors (E0100-E0199)

	// E0100: Unknown step abbreviation in a sequence string
	ErrorInvalidStepAbbreviation = "E0100"

	// E0101: Unbalanced parenthesis in a sequence string
	ErrorUnbalancedGrouping = "E0101"

	// E0102: Nested parentheses in a sequence string
	ErrorNestedGrouping = "E0102"
)
