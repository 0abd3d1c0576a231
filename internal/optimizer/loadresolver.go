package optimizer

import (
	"ashlar/internal/ast"
	"ashlar/internal/dialect"
)

// LoadResolver replaces mload and sload calls with the value most recently
// stored at the same key. It keeps a single known slot per storage kind,
// tracked over straight-line code; any other state-changing call, any
// control flow and any write to a different key drop the knowledge. The step
// only applies to the EVM backend, where the memory builtins exist.
type LoadResolver struct{}

func (*LoadResolver) Name() string       { return "LoadResolver" }
func (*LoadResolver) Abbreviation() byte { return 'L' }

func (*LoadResolver) Run(ctx *Context, block *ast.Block) {
	if ctx.Dialect.Backend != dialect.BackendEVM {
		return
	}
	ast.VisitBlocks(block, func(b *ast.Block) {
		resolveLoadsInBlock(ctx, b)
	})
}

// storeKinds pairs each load builtin with its store counterpart.
var storeKinds = map[string]string{
	"mstore": "mload",
	"sstore": "sload",
}

type knownSlot struct {
	key   string // canonical rendering of the key expression
	value ast.Expression
	names map[string]bool // variables the key and value depend on
}

func resolveLoadsInBlock(ctx *Context, b *ast.Block) {
	slots := map[string]*knownSlot{} // load builtin name -> slot

	invalidate := func(name string) {
		for kind, slot := range slots {
			if slot.names[name] {
				delete(slots, kind)
			}
		}
	}

	resolve := func(expr ast.Expression) ast.Expression {
		return ast.MapExpression(expr, func(e ast.Expression) ast.Expression {
			call, ok := e.(*ast.FunctionCall)
			if !ok || len(call.Arguments) != 1 {
				return e
			}
			slot, tracked := slots[call.FunctionName]
			if !tracked || ast.PrintExpression(call.Arguments[0]) != slot.key {
				return e
			}
			return ast.CopyExpression(slot.value)
		})
	}

	recordStore := func(expr ast.Expression) {
		call, ok := expr.(*ast.FunctionCall)
		if !ok {
			return
		}
		loadName, isStore := storeKinds[call.FunctionName]
		if !isStore || len(call.Arguments) != 2 {
			if hasSideEffects(ctx, expr) {
				slots = map[string]*knownSlot{}
			}
			return
		}
		key, value := call.Arguments[0], call.Arguments[1]
		if !isAtomic(key) || !isAtomic(value) {
			delete(slots, loadName)
			return
		}
		names := map[string]bool{}
		referencedNames(key, names)
		referencedNames(value, names)
		slots[loadName] = &knownSlot{
			key:   ast.PrintExpression(key),
			value: value,
			names: names,
		}
	}

	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			if s.Value != nil {
				s.Value = resolve(s.Value)
				if hasSideEffects(ctx, s.Value) {
					slots = map[string]*knownSlot{}
				}
			}
			for _, name := range s.Variables {
				invalidate(name)
			}
		case *ast.Assignment:
			s.Value = resolve(s.Value)
			if hasSideEffects(ctx, s.Value) {
				slots = map[string]*knownSlot{}
			}
			for _, name := range s.Variables {
				invalidate(name)
			}
		case *ast.ExpressionStatement:
			s.Expression = resolve(s.Expression)
			recordStore(s.Expression)
		default:
			slots = map[string]*knownSlot{}
		}
	}
}

func isAtomic(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.Literal:
		return true
	default:
		return false
	}
}
