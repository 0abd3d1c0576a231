package optimizer

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"ashlar/internal/ast"
)

// Debug selects the tracer's verbosity for one run.
type Debug int

const (
	// DebugNone runs silently.
	DebugNone Debug = iota
	// DebugPrintStep logs each step as it starts.
	DebugPrintStep
	// DebugPrintChanges compares the tree against a snapshot after every
	// step and prints the new tree whenever a step changed it.
	DebugPrintChanges
)

// tracer observes step execution without ever influencing scheduling.
type tracer struct {
	mode     Debug
	out      io.Writer
	snapshot *ast.Block
}

func newTracer(mode Debug, out io.Writer) *tracer {
	return &tracer{mode: mode, out: out}
}

func (t *tracer) beforeRun(block *ast.Block) {
	if t.mode == DebugPrintChanges {
		t.snapshot = ast.CopyBlock(block)
	}
}

func (t *tracer) beforeStep(name string) {
	if t.mode == DebugPrintStep {
		fmt.Fprintf(t.out, "Running %s\n", name)
	}
}

func (t *tracer) afterStep(name string, block *ast.Block) {
	if t.mode != DebugPrintChanges {
		return
	}
	if ast.EqualBlocks(block, t.snapshot) {
		fmt.Fprintln(t.out, color.YellowString("== Running %s did not cause changes.", name))
		return
	}
	fmt.Fprintln(t.out, color.GreenString("== Running %s changed the AST.", name))
	fmt.Fprintln(t.out, ast.Print(block))
	t.snapshot = ast.CopyBlock(block)
}
