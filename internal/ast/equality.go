package ast

// EqualBlocks reports whether two blocks are structurally identical,
// variable names included.
func EqualBlocks(a, b *Block) bool {
	if len(a.Statements) != len(b.Statements) {
		return false
	}
	for i := range a.Statements {
		if !EqualStatements(a.Statements[i], b.Statements[i]) {
			return false
		}
	}
	return true
}

// EqualStatements reports whether two statements are structurally identical.
func EqualStatements(a, b Statement) bool {
	switch sa := a.(type) {
	case *Block:
		sb, ok := b.(*Block)
		return ok && EqualBlocks(sa, sb)
	case *VariableDeclaration:
		sb, ok := b.(*VariableDeclaration)
		return ok && equalStrings(sa.Variables, sb.Variables) && EqualExpressions(sa.Value, sb.Value)
	case *Assignment:
		sb, ok := b.(*Assignment)
		return ok && equalStrings(sa.Variables, sb.Variables) && EqualExpressions(sa.Value, sb.Value)
	case *ExpressionStatement:
		sb, ok := b.(*ExpressionStatement)
		return ok && EqualExpressions(sa.Expression, sb.Expression)
	case *If:
		sb, ok := b.(*If)
		return ok && EqualExpressions(sa.Condition, sb.Condition) && EqualBlocks(&sa.Body, &sb.Body)
	case *Switch:
		sb, ok := b.(*Switch)
		if !ok || !EqualExpressions(sa.Expression, sb.Expression) || len(sa.Cases) != len(sb.Cases) {
			return false
		}
		for i := range sa.Cases {
			ca, cb := &sa.Cases[i], &sb.Cases[i]
			if (ca.Value == nil) != (cb.Value == nil) {
				return false
			}
			if ca.Value != nil && *ca.Value != *cb.Value {
				return false
			}
			if !EqualBlocks(&ca.Body, &cb.Body) {
				return false
			}
		}
		return true
	case *ForLoop:
		sb, ok := b.(*ForLoop)
		return ok &&
			EqualBlocks(&sa.Pre, &sb.Pre) &&
			EqualExpressions(sa.Condition, sb.Condition) &&
			EqualBlocks(&sa.Post, &sb.Post) &&
			EqualBlocks(&sa.Body, &sb.Body)
	case *FunctionDefinition:
		sb, ok := b.(*FunctionDefinition)
		return ok &&
			sa.Name == sb.Name &&
			equalStrings(sa.Parameters, sb.Parameters) &&
			equalStrings(sa.ReturnVariables, sb.ReturnVariables) &&
			EqualBlocks(&sa.Body, &sb.Body)
	case *Break:
		_, ok := b.(*Break)
		return ok
	case *Continue:
		_, ok := b.(*Continue)
		return ok
	case *Leave:
		_, ok := b.(*Leave)
		return ok
	default:
		return false
	}
}

// EqualExpressions reports whether two expressions are structurally
// identical. Two nil expressions are equal.
func EqualExpressions(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch ea := a.(type) {
	case *Literal:
		eb, ok := b.(*Literal)
		return ok && *ea == *eb
	case *Identifier:
		eb, ok := b.(*Identifier)
		return ok && ea.Name == eb.Name
	case *FunctionCall:
		eb, ok := b.(*FunctionCall)
		if !ok || ea.FunctionName != eb.FunctionName || len(ea.Arguments) != len(eb.Arguments) {
			return false
		}
		for i := range ea.Arguments {
			if !EqualExpressions(ea.Arguments[i], eb.Arguments[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
