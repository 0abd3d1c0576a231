package optimizer

import "ashlar/internal/ast"

// CodeSize is the structural cost metric the fixpoint driver watches. It
// counts statements and expressions, including everything nested inside
// function bodies. Plain blocks cost nothing; they only group.
func CodeSize(block *ast.Block) int {
	size := 0
	ast.VisitStatements(block, func(stmt ast.Statement) {
		if _, isBlock := stmt.(*ast.Block); !isBlock {
			size++
		}
	})
	ast.VisitExpressions(block, func(ast.Expression) {
		size++
	})
	return size
}
