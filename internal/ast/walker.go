package ast

// Traversal helpers shared by the optimization steps. All of them visit
// function bodies too, since steps must see code nested inside definitions.

// VisitBlocks calls f for every block in the tree, children before parents.
// Visiting bottom-up lets rewrites inside a child settle before the parent is
// inspected, which block-splicing steps depend on.
func VisitBlocks(block *Block, f func(*Block)) {
	for _, stmt := range block.Statements {
		visitStatementBlocks(stmt, f)
	}
	f(block)
}

func visitStatementBlocks(stmt Statement, f func(*Block)) {
	switch s := stmt.(type) {
	case *Block:
		VisitBlocks(s, f)
	case *If:
		VisitBlocks(&s.Body, f)
	case *Switch:
		for i := range s.Cases {
			VisitBlocks(&s.Cases[i].Body, f)
		}
	case *ForLoop:
		VisitBlocks(&s.Pre, f)
		VisitBlocks(&s.Post, f)
		VisitBlocks(&s.Body, f)
	case *FunctionDefinition:
		VisitBlocks(&s.Body, f)
	}
}

// VisitStatements calls f for every statement in the tree, parents before
// children.
func VisitStatements(block *Block, f func(Statement)) {
	for _, stmt := range block.Statements {
		f(stmt)
		switch s := stmt.(type) {
		case *Block:
			VisitStatements(s, f)
		case *If:
			VisitStatements(&s.Body, f)
		case *Switch:
			for i := range s.Cases {
				VisitStatements(&s.Cases[i].Body, f)
			}
		case *ForLoop:
			VisitStatements(&s.Pre, f)
			VisitStatements(&s.Post, f)
			VisitStatements(&s.Body, f)
		case *FunctionDefinition:
			VisitStatements(&s.Body, f)
		}
	}
}

// VisitFunctions calls f for every function definition in the tree.
func VisitFunctions(block *Block, f func(*FunctionDefinition)) {
	VisitStatements(block, func(stmt Statement) {
		if fn, ok := stmt.(*FunctionDefinition); ok {
			f(fn)
		}
	})
}

// VisitExpressions calls f for every expression in the tree, operands before
// the calls that consume them.
func VisitExpressions(block *Block, f func(Expression)) {
	MapExpressions(block, func(expr Expression) Expression {
		f(expr)
		return expr
	})
}

// MapExpressions rewrites every expression slot in the tree. The arguments of
// a call are mapped before the call itself, so a rewrite sees its operands in
// final form.
func MapExpressions(block *Block, f func(Expression) Expression) {
	for _, stmt := range block.Statements {
		mapStatementExpressions(stmt, f)
	}
}

func mapStatementExpressions(stmt Statement, f func(Expression) Expression) {
	switch s := stmt.(type) {
	case *Block:
		MapExpressions(s, f)
	case *VariableDeclaration:
		if s.Value != nil {
			s.Value = mapExpression(s.Value, f)
		}
	case *Assignment:
		s.Value = mapExpression(s.Value, f)
	case *ExpressionStatement:
		s.Expression = mapExpression(s.Expression, f)
	case *If:
		s.Condition = mapExpression(s.Condition, f)
		MapExpressions(&s.Body, f)
	case *Switch:
		s.Expression = mapExpression(s.Expression, f)
		for i := range s.Cases {
			MapExpressions(&s.Cases[i].Body, f)
		}
	case *ForLoop:
		MapExpressions(&s.Pre, f)
		s.Condition = mapExpression(s.Condition, f)
		MapExpressions(&s.Post, f)
		MapExpressions(&s.Body, f)
	case *FunctionDefinition:
		MapExpressions(&s.Body, f)
	}
}

// MapExpression rewrites a single expression tree, innermost slots first.
func MapExpression(expr Expression, f func(Expression) Expression) Expression {
	return mapExpression(expr, f)
}

func mapExpression(expr Expression, f func(Expression) Expression) Expression {
	if call, ok := expr.(*FunctionCall); ok {
		for i, arg := range call.Arguments {
			call.Arguments[i] = mapExpression(arg, f)
		}
	}
	return f(expr)
}
