package optimizer

import (
	"fmt"

	"ashlar/internal/ast"
)

// CleanVarNames shortens the generated numeric-suffix names back to the
// smallest free spelling. It is safe only at the very end of a run: it
// destroys the global-uniqueness property, so it lives outside the step
// registry and is invoked directly by the orchestrator.
func CleanVarNames(ctx *Context, block *ast.Block) {
	declared := declaredNamesInOrder(block)

	taken := map[string]bool{}
	for name := range ctx.ReservedIdentifiers {
		taken[name] = true
	}

	rename := map[string]string{}
	for _, name := range declared {
		if ctx.ReservedIdentifiers[name] {
			taken[name] = true
			continue
		}
		candidate := stripSuffix(name)
		if candidate == "" {
			candidate = "v"
		}
		base := candidate
		for i := 1; taken[candidate] || isBuiltinName(ctx, candidate); i++ {
			candidate = fmt.Sprintf("%s_%d", base, i)
		}
		taken[candidate] = true
		if candidate != name {
			rename[name] = candidate
		}
	}
	if len(rename) == 0 {
		return
	}

	applyFlatRename(block, rename)
}

func isBuiltinName(ctx *Context, name string) bool {
	_, ok := ctx.Dialect.Builtin(name)
	return ok
}

// declaredNamesInOrder walks the tree and returns every declared name in
// encounter order; names are globally unique when this runs.
func declaredNamesInOrder(block *ast.Block) []string {
	var names []string
	ast.VisitStatements(block, func(stmt ast.Statement) {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			names = append(names, s.Variables...)
		case *ast.FunctionDefinition:
			names = append(names, s.Name)
			names = append(names, s.Parameters...)
			names = append(names, s.ReturnVariables...)
		}
	})
	return names
}

// applyFlatRename rewrites every declaration and reference per the mapping.
// A flat map suffices because all names are unique before cleanup.
func applyFlatRename(block *ast.Block, rename map[string]string) {
	mapName := func(name string) string {
		if n, ok := rename[name]; ok {
			return n
		}
		return name
	}
	ast.VisitStatements(block, func(stmt ast.Statement) {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			for i := range s.Variables {
				s.Variables[i] = mapName(s.Variables[i])
			}
		case *ast.Assignment:
			for i := range s.Variables {
				s.Variables[i] = mapName(s.Variables[i])
			}
		case *ast.FunctionDefinition:
			s.Name = mapName(s.Name)
			for i := range s.Parameters {
				s.Parameters[i] = mapName(s.Parameters[i])
			}
			for i := range s.ReturnVariables {
				s.ReturnVariables[i] = mapName(s.ReturnVariables[i])
			}
		}
	})
	ast.VisitExpressions(block, func(expr ast.Expression) {
		switch e := expr.(type) {
		case *ast.Identifier:
			e.Name = mapName(e.Name)
		case *ast.FunctionCall:
			e.FunctionName = mapName(e.FunctionName)
		}
	})
}
