package optimizer

import "errors"

// All sequence-string and precondition failures are fatal to the current
// optimization run; there is no partial recovery.
var (
	// ErrInvalidStepAbbreviation reports an unknown character in a sequence
	// string.
	ErrInvalidStepAbbreviation = errors.New("invalid optimization step abbreviation")

	// ErrUnbalancedGrouping reports an unmatched parenthesis in a sequence
	// string.
	ErrUnbalancedGrouping = errors.New("unbalanced parenthesis")

	// ErrNestedGrouping reports a second opening parenthesis inside a group;
	// fixpoint groups cannot nest.
	ErrNestedGrouping = errors.New("nested parentheses not supported")

	// ErrMissingGasMeter reports that the bytecode interpreter backend was
	// selected without a gas meter.
	ErrMissingGasMeter = errors.New("gas meter required for the EVM backend")
)
