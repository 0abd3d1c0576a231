package optimizer

import (
	"ashlar/internal/ast"
	"ashlar/internal/semantic"
)

// Object bundles the code being optimized with its analysis result. The
// optimizer mutates both in place; after a successful run AnalysisInfo
// reflects the optimized code.
type Object struct {
	Name         string
	Code         *ast.Block
	AnalysisInfo *semantic.AnalysisInfo
}
