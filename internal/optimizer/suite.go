package optimizer

import (
	"fmt"
	"io"
	"os"

	"ashlar/internal/ast"
	"ashlar/internal/dialect"
	"ashlar/internal/semantic"
)

const (
	// DefaultMaxRounds caps the fixpoint iteration of a parenthesized group.
	// Reaching the cap is not an error; the driver just stops.
	DefaultMaxRounds = 16

	// StackCompressorMaxRounds caps the stack compressor's improvement loop.
	// Kept separate from DefaultMaxRounds so the two bounds stay
	// independently tunable.
	StackCompressorMaxRounds = 16
)

// DefaultSequence is the hand-tuned canonical pipeline. Spaces and newlines
// are ignored by the sequence parser, so the string is laid out in phases.
const DefaultSequence = "dhfoDgvulfnTUtnIf" + // none of these can make stack problems worse
	"(" +
	"xarrscLM" + // turn into SSA and simplify
	"cCTUtTOntnfDIul" + // perform structural simplification
	"Lcul" + // simplify again
	"Vcul jj" + // reverse SSA

	// should have good "compilability" property here.

	"eul" + // run functional expression inliner
	"xarulrul" + // prune a bit more in SSA
	"xarrcL" + // turn into SSA again and simplify
	"gvif" + // run full inliner
	"CTUcarrLsTOtfDncarrIulc" + // SSA plus simplify
	")" +
	"jmuljuljul VcTOcul jmul" // make source short and pretty

// PrerequisiteSequence runs before any user-supplied custom sequence. Later
// arbitrary sequences assume functions are hoisted and grouped and loop
// initializers are rewritten, so these three steps are unconditional.
const PrerequisiteSequence = "fgo"

// Suite schedules optimization steps over one tree. One suite serves exactly
// one optimization run; the step registry behind it is shared by all runs.
type Suite struct {
	context *Context
	tracer  *tracer
}

// NewSuite creates a suite for one run over the given block.
func NewSuite(d *dialect.Dialect, reserved map[string]bool, debug Debug, block *ast.Block) *Suite {
	return &Suite{
		context: NewContext(d, reserved, block),
		tracer:  newTracer(debug, os.Stdout),
	}
}

// SetTraceWriter redirects the debug tracer's output.
func (s *Suite) SetTraceWriter(w io.Writer) {
	s.tracer.out = w
}

// Context exposes the run's shared optimization context.
func (s *Suite) Context() *Context {
	return s.context
}

// sequenceGroup is one entry of a parsed plan: a run of steps executed once,
// or repeated to a code-size fixpoint.
type sequenceGroup struct {
	fixpoint bool
	steps    []string
}

// parseSequence turns an abbreviation string into an executable plan. The
// whole string is validated here, before any step runs, so a malformed
// sequence never leaves a tree half-optimized.
func parseSequence(abbreviations string) ([]sequenceGroup, error) {
	var (
		groups      []sequenceGroup
		pending     []string
		insideGroup bool
	)
	flush := func(fixpoint bool) {
		if len(pending) > 0 {
			groups = append(groups, sequenceGroup{fixpoint: fixpoint, steps: pending})
			pending = nil
		}
	}
	for i := 0; i < len(abbreviations); i++ {
		c := abbreviations[i]
		if name, ok := StepAbbreviationToName()[c]; ok {
			pending = append(pending, name)
			continue
		}
		switch c {
		case ' ', '\n':
			// cosmetic only
		case '(':
			if insideGroup {
				return nil, fmt.Errorf("%w at position %d", ErrNestedGrouping, i)
			}
			flush(false)
			insideGroup = true
		case ')':
			if !insideGroup {
				return nil, fmt.Errorf("%w at position %d", ErrUnbalancedGrouping, i)
			}
			flush(true)
			insideGroup = false
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidStepAbbreviation, c)
		}
	}
	if insideGroup {
		return nil, fmt.Errorf("%w: unterminated group", ErrUnbalancedGrouping)
	}
	flush(false)
	return groups, nil
}

// ValidateSequence checks an abbreviation string without executing anything.
func ValidateSequence(abbreviations string) error {
	_, err := parseSequence(abbreviations)
	return err
}

// RunSequence parses an abbreviation string and executes the resulting plan
// against the block. Parenthesized groups repeat until the code-size metric
// stops changing or DefaultMaxRounds is hit.
func (s *Suite) RunSequence(abbreviations string, block *ast.Block) error {
	groups, err := parseSequence(abbreviations)
	if err != nil {
		return err
	}
	for _, group := range groups {
		if group.fixpoint {
			s.runStepsUntilStable(group.steps, block, DefaultMaxRounds)
		} else {
			s.runSteps(group.steps, block)
		}
	}
	return nil
}

// runSteps executes each named step exactly once, in order.
func (s *Suite) runSteps(names []string, block *ast.Block) {
	s.tracer.beforeRun(block)
	for _, name := range names {
		s.tracer.beforeStep(name)
		AllSteps()[name].Run(s.context, block)
		s.tracer.afterStep(name, block)
	}
}

// runStepsUntilStable repeats the step list until the code-size metric stops
// changing, up to maxRounds rounds. Stability of the metric is a local
// fixpoint only; it does not guarantee no step would ever act again.
func (s *Suite) runStepsUntilStable(names []string, block *ast.Block, maxRounds int) {
	codeSize := 0
	for rounds := 0; rounds < maxRounds; rounds++ {
		newSize := CodeSize(block)
		if newSize == codeSize {
			break
		}
		codeSize = newSize
		s.runSteps(names, block)
	}
}

// Run drives the full optimization pipeline over an object:
// disambiguation, the default or custom sequence, function grouping, stack
// compression, cleanup, backend-specific finishing, name cleanup, and a
// final re-validation of the result.
func Run(
	d *dialect.Dialect,
	meter dialect.GasMeter,
	object *Object,
	optimizeStackAllocation bool,
	externallyUsedIdentifiers []string,
	customSequence *string,
	debug Debug,
) error {
	if d.Backend == dialect.BackendEVM && meter == nil {
		return ErrMissingGasMeter
	}
	// A malformed custom sequence is a configuration error; reject it before
	// touching the tree.
	if customSequence != nil {
		if err := ValidateSequence(*customSequence); err != nil {
			return err
		}
	}

	reserved := make(map[string]bool, len(externallyUsedIdentifiers))
	for _, name := range externallyUsedIdentifiers {
		reserved[name] = true
	}
	for _, name := range d.FixedFunctionNames() {
		reserved[name] = true
	}

	code := object.Code

	// Globally unique names are a precondition for every later step: steps
	// that reason about a single name's single meaning would be unsound on a
	// tree with shadowing.
	Disambiguate(d, code, reserved)

	suite := NewSuite(d, reserved, debug, code)

	if customSequence != nil {
		if err := suite.RunSequence(PrerequisiteSequence, code); err != nil {
			return err
		}
		if err := suite.RunSequence(*customSequence, code); err != nil {
			return err
		}
	} else {
		if err := suite.RunSequence(DefaultSequence, code); err != nil {
			return err
		}
	}

	if err := suite.RunSequence("g", code); err != nil {
		return err
	}

	// The result is ignored on purpose: if stack constraints are still
	// violated, code generation produces a far better diagnostic than we
	// could here.
	RunStackCompressor(suite.Context(), object, optimizeStackAllocation, StackCompressorMaxRounds)

	if err := suite.RunSequence("fDnTOc g", code); err != nil {
		return err
	}

	switch d.Backend {
	case dialect.BackendEVM:
		OptimizeConstants(d, meter, code)
	case dialect.BackendWasm:
		// An empty leading block is an artifact of hoisting; only function
		// definitions should follow it.
		if len(code.Statements) > 1 {
			if first, ok := code.Statements[0].(*ast.Block); ok && len(first.Statements) == 0 {
				code.Statements = code.Statements[1:]
			}
		}
	}

	CleanVarNames(suite.Context(), code)

	info, err := semantic.AnalyzeStrict(d, code)
	if err != nil {
		// Any inconsistency at this point is an optimizer defect, never an
		// input error.
		return fmt.Errorf("post-optimization re-validation failed: %w", err)
	}
	object.AnalysisInfo = info
	return nil
}
