package optimizer

import "ashlar/internal/ast"

// Structural normalization steps: block flattening, function hoisting and
// function grouping. Between them they establish the canonical shape most
// other steps assume: functions at the top level, grouped after a single
// block of regular code, with no gratuitous nesting.

// BlockFlattener splices nested blocks into their parents. Safe because
// names are globally unique, so lifting declarations out of a block can
// never shadow anything.
type BlockFlattener struct{}

func (*BlockFlattener) Name() string       { return "BlockFlattener" }
func (*BlockFlattener) Abbreviation() byte { return 'f' }

func (*BlockFlattener) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		flattened := make([]ast.Statement, 0, len(b.Statements))
		for _, stmt := range b.Statements {
			if inner, ok := stmt.(*ast.Block); ok {
				flattened = append(flattened, inner.Statements...)
			} else {
				flattened = append(flattened, stmt)
			}
		}
		b.Statements = flattened
	})
}

// FunctionHoister moves every function definition to the top-level block.
// Afterwards no function definition is nested inside another statement.
type FunctionHoister struct{}

func (*FunctionHoister) Name() string       { return "FunctionHoister" }
func (*FunctionHoister) Abbreviation() byte { return 'h' }

func (*FunctionHoister) Run(ctx *Context, block *ast.Block) {
	var hoisted []ast.Statement
	ast.VisitBlocks(block, func(b *ast.Block) {
		if b == block {
			return
		}
		kept := b.Statements[:0]
		for _, stmt := range b.Statements {
			if _, ok := stmt.(*ast.FunctionDefinition); ok {
				hoisted = append(hoisted, stmt)
			} else {
				kept = append(kept, stmt)
			}
		}
		b.Statements = kept
	})
	block.Statements = append(block.Statements, hoisted...)
}

// FunctionGrouper rewrites the top-level block into a single inner block of
// regular code followed by all function definitions. Idempotent.
type FunctionGrouper struct{}

func (*FunctionGrouper) Name() string       { return "FunctionGrouper" }
func (*FunctionGrouper) Abbreviation() byte { return 'g' }

func (*FunctionGrouper) Run(ctx *Context, block *ast.Block) {
	if alreadyGrouped(block) {
		return
	}
	inner := &ast.Block{}
	var functions []ast.Statement
	for _, stmt := range block.Statements {
		if _, ok := stmt.(*ast.FunctionDefinition); ok {
			functions = append(functions, stmt)
		} else {
			inner.Statements = append(inner.Statements, stmt)
		}
	}
	block.Statements = append([]ast.Statement{inner}, functions...)
}

func alreadyGrouped(block *ast.Block) bool {
	if len(block.Statements) == 0 {
		return false
	}
	if _, ok := block.Statements[0].(*ast.Block); !ok {
		return false
	}
	for _, stmt := range block.Statements[1:] {
		if _, ok := stmt.(*ast.FunctionDefinition); !ok {
			return false
		}
	}
	return true
}

// VarDeclInitializer gives every declaration an explicit value, splitting
// multi-variable declarations without one so each variable gets its own
// zero.
type VarDeclInitializer struct{}

func (*VarDeclInitializer) Name() string       { return "VarDeclInitializer" }
func (*VarDeclInitializer) Abbreviation() byte { return 'd' }

func (*VarDeclInitializer) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for _, stmt := range b.Statements {
			decl, ok := stmt.(*ast.VariableDeclaration)
			if !ok || decl.Value != nil {
				out = append(out, stmt)
				continue
			}
			for _, name := range decl.Variables {
				out = append(out, &ast.VariableDeclaration{
					Variables: []string{name},
					Value:     zeroLiteral(),
				})
			}
		}
		b.Statements = out
	})
}
