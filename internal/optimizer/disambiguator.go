package optimizer

import (
	"ashlar/internal/ast"
	"ashlar/internal/dialect"
)

// Disambiguate renames every identifier in the block so that all names are
// globally unique. Reserved identifiers keep their names; everything else is
// renamed on collision. Every optimization step relies on the resulting
// no-shadowing property.
func Disambiguate(d *dialect.Dialect, block *ast.Block, reserved map[string]bool) {
	dis := &disambiguator{
		dispenser: NewNameDispenser(nil, reserved),
		reserved:  reserved,
	}
	dis.walkBlock(block, nil)
}

type disambiguator struct {
	dispenser *NameDispenser
	reserved  map[string]bool
}

type renameScope struct {
	parent *renameScope
	names  map[string]string
}

func (s *renameScope) lookup(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if n, ok := cur.names[name]; ok {
			return n, true
		}
	}
	return "", false
}

// declare records a declaration in the scope and returns the (possibly
// fresh) name it should carry from now on.
func (dis *disambiguator) declare(name string, s *renameScope) string {
	if dis.reserved[name] {
		s.names[name] = name
		return name
	}
	if !dis.dispenser.Used(name) {
		dis.dispenser.MarkUsed(name)
		s.names[name] = name
		return name
	}
	fresh := dis.dispenser.NewName(name)
	s.names[name] = fresh
	return fresh
}

func (dis *disambiguator) walkBlock(block *ast.Block, parent *renameScope) {
	s := &renameScope{parent: parent, names: map[string]string{}}

	// Function names are visible throughout the whole block, including
	// before their definition, so register them first.
	for _, stmt := range block.Statements {
		if fn, ok := stmt.(*ast.FunctionDefinition); ok {
			fn.Name = dis.declare(fn.Name, s)
		}
	}

	for _, stmt := range block.Statements {
		dis.walkStatement(stmt, s)
	}
}

func (dis *disambiguator) walkStatement(stmt ast.Statement, s *renameScope) {
	switch st := stmt.(type) {
	case *ast.Block:
		dis.walkBlock(st, s)
	case *ast.VariableDeclaration:
		// The value is evaluated before the new names come into scope.
		if st.Value != nil {
			dis.walkExpression(st.Value, s)
		}
		for i, name := range st.Variables {
			st.Variables[i] = dis.declare(name, s)
		}
	case *ast.Assignment:
		dis.walkExpression(st.Value, s)
		for i, name := range st.Variables {
			if renamed, ok := s.lookup(name); ok {
				st.Variables[i] = renamed
			}
		}
	case *ast.ExpressionStatement:
		dis.walkExpression(st.Expression, s)
	case *ast.If:
		dis.walkExpression(st.Condition, s)
		dis.walkBlock(&st.Body, s)
	case *ast.Switch:
		dis.walkExpression(st.Expression, s)
		for i := range st.Cases {
			dis.walkBlock(&st.Cases[i].Body, s)
		}
	case *ast.ForLoop:
		// The pre block's declarations stay visible in the condition, post
		// and body.
		pre := &renameScope{parent: s, names: map[string]string{}}
		for _, preStmt := range st.Pre.Statements {
			dis.walkStatement(preStmt, pre)
		}
		dis.walkExpression(st.Condition, pre)
		dis.walkBlock(&st.Post, pre)
		dis.walkBlock(&st.Body, pre)
	case *ast.FunctionDefinition:
		// The name itself was declared with the enclosing block.
		body := &renameScope{parent: s, names: map[string]string{}}
		for i, name := range st.Parameters {
			st.Parameters[i] = dis.declare(name, body)
		}
		for i, name := range st.ReturnVariables {
			st.ReturnVariables[i] = dis.declare(name, body)
		}
		dis.walkBlock(&st.Body, body)
	}
}

func (dis *disambiguator) walkExpression(expr ast.Expression, s *renameScope) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if renamed, ok := s.lookup(e.Name); ok {
			e.Name = renamed
		}
	case *ast.FunctionCall:
		if renamed, ok := s.lookup(e.FunctionName); ok {
			e.FunctionName = renamed
		}
		for _, arg := range e.Arguments {
			dis.walkExpression(arg, s)
		}
	}
}
