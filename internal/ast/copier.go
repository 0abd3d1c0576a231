package ast

// CopyBlock returns a deep copy of a block. The copy shares nothing with the
// original, so mutating one never affects the other. The debug tracer uses
// this to snapshot the tree between steps.
func CopyBlock(block *Block) *Block {
	cp := &Block{Statements: make([]Statement, len(block.Statements))}
	for i, stmt := range block.Statements {
		cp.Statements[i] = CopyStatement(stmt)
	}
	return cp
}

// CopyStatement returns a deep copy of a single statement.
func CopyStatement(stmt Statement) Statement {
	switch s := stmt.(type) {
	case *Block:
		return CopyBlock(s)
	case *VariableDeclaration:
		return &VariableDeclaration{
			Variables: copyStrings(s.Variables),
			Value:     CopyExpression(s.Value),
		}
	case *Assignment:
		return &Assignment{
			Variables: copyStrings(s.Variables),
			Value:     CopyExpression(s.Value),
		}
	case *ExpressionStatement:
		return &ExpressionStatement{Expression: CopyExpression(s.Expression)}
	case *If:
		return &If{
			Condition: CopyExpression(s.Condition),
			Body:      *CopyBlock(&s.Body),
		}
	case *Switch:
		cp := &Switch{Expression: CopyExpression(s.Expression)}
		cp.Cases = make([]Case, len(s.Cases))
		for i := range s.Cases {
			cp.Cases[i].Body = *CopyBlock(&s.Cases[i].Body)
			if s.Cases[i].Value != nil {
				lit := *s.Cases[i].Value
				cp.Cases[i].Value = &lit
			}
		}
		return cp
	case *ForLoop:
		return &ForLoop{
			Pre:       *CopyBlock(&s.Pre),
			Condition: CopyExpression(s.Condition),
			Post:      *CopyBlock(&s.Post),
			Body:      *CopyBlock(&s.Body),
		}
	case *FunctionDefinition:
		return &FunctionDefinition{
			Name:            s.Name,
			Parameters:      copyStrings(s.Parameters),
			ReturnVariables: copyStrings(s.ReturnVariables),
			Body:            *CopyBlock(&s.Body),
		}
	case *Break:
		return &Break{}
	case *Continue:
		return &Continue{}
	case *Leave:
		return &Leave{}
	default:
		panic("ast: cannot copy unknown statement")
	}
}

// CopyExpression returns a deep copy of an expression. Copying nil yields nil.
func CopyExpression(expr Expression) Expression {
	switch e := expr.(type) {
	case nil:
		return nil
	case *Literal:
		lit := *e
		return &lit
	case *Identifier:
		id := *e
		return &id
	case *FunctionCall:
		cp := &FunctionCall{FunctionName: e.FunctionName}
		cp.Arguments = make([]Expression, len(e.Arguments))
		for i, arg := range e.Arguments {
			cp.Arguments[i] = CopyExpression(arg)
		}
		return cp
	default:
		panic("ast: cannot copy unknown expression")
	}
}

func copyStrings(s []string) []string {
	cp := make([]string, len(s))
	copy(cp, s)
	return cp
}
