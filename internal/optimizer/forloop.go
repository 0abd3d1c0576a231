package optimizer

import "ashlar/internal/ast"

// Loop canonicalization steps.

// ForLoopInitRewriter moves every loop's init block in front of the loop,
// leaving the init empty. Later steps assume loop initializers sit in this
// canonical position; the rewrite is safe because names are globally unique.
type ForLoopInitRewriter struct{}

func (*ForLoopInitRewriter) Name() string       { return "ForLoopInitRewriter" }
func (*ForLoopInitRewriter) Abbreviation() byte { return 'o' }

func (*ForLoopInitRewriter) Run(ctx *Context, block *ast.Block) {
	ast.VisitBlocks(block, func(b *ast.Block) {
		var out []ast.Statement
		for _, stmt := range b.Statements {
			if loop, ok := stmt.(*ast.ForLoop); ok && len(loop.Pre.Statements) > 0 {
				out = append(out, loop.Pre.Statements...)
				loop.Pre.Statements = nil
			}
			out = append(out, stmt)
		}
		b.Statements = out
	})
}

// ForLoopConditionIntoBody replaces a loop's condition with the literal 1
// and prepends "if iszero(condition) { break }" to the body. This prepares
// the condition for steps that only look at statement positions, such as the
// expression splitter.
type ForLoopConditionIntoBody struct{}

func (*ForLoopConditionIntoBody) Name() string       { return "ForLoopConditionIntoBody" }
func (*ForLoopConditionIntoBody) Abbreviation() byte { return 'I' }

func (*ForLoopConditionIntoBody) Run(ctx *Context, block *ast.Block) {
	ast.VisitStatements(block, func(stmt ast.Statement) {
		loop, ok := stmt.(*ast.ForLoop)
		if !ok {
			return
		}
		if _, isLiteral := loop.Condition.(*ast.Literal); isLiteral {
			return
		}
		guard := &ast.If{
			Condition: &ast.FunctionCall{
				FunctionName: "iszero",
				Arguments:    []ast.Expression{loop.Condition},
			},
			Body: ast.Block{Statements: []ast.Statement{&ast.Break{}}},
		}
		loop.Condition = &ast.Literal{Kind: ast.NumberLiteral, Value: "1"}
		loop.Body.Statements = append([]ast.Statement{guard}, loop.Body.Statements...)
	})
}

// ForLoopConditionOutOfBody undoes ForLoopConditionIntoBody: a loop running
// on a constant-true condition whose body starts with
// "if iszero(c) { break }" gets c back as its condition.
type ForLoopConditionOutOfBody struct{}

func (*ForLoopConditionOutOfBody) Name() string       { return "ForLoopConditionOutOfBody" }
func (*ForLoopConditionOutOfBody) Abbreviation() byte { return 'O' }

func (*ForLoopConditionOutOfBody) Run(ctx *Context, block *ast.Block) {
	ast.VisitStatements(block, func(stmt ast.Statement) {
		loop, ok := stmt.(*ast.ForLoop)
		if !ok || !isNonZeroLiteral(loop.Condition) || len(loop.Body.Statements) == 0 {
			return
		}
		guard, ok := loop.Body.Statements[0].(*ast.If)
		if !ok || len(guard.Body.Statements) != 1 {
			return
		}
		if _, isBreak := guard.Body.Statements[0].(*ast.Break); !isBreak {
			return
		}
		call, ok := guard.Condition.(*ast.FunctionCall)
		if !ok || call.FunctionName != "iszero" || len(call.Arguments) != 1 {
			return
		}
		loop.Condition = call.Arguments[0]
		loop.Body.Statements = loop.Body.Statements[1:]
	})
}
