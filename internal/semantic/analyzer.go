package semantic

import (
	"fmt"

	"ashlar/internal/ast"
	"ashlar/internal/dialect"
	"ashlar/internal/errors"
)

// Analyzer validates an IR block against the scoping and arity rules of the
// language: variables must be declared before use, function calls must match
// a builtin or a visible definition, break/continue belong inside loops and
// leave inside functions.
type Analyzer struct {
	dialect *dialect.Dialect
	errs    []errors.CompilerError
}

// NewAnalyzer creates an analyzer for the given dialect.
func NewAnalyzer(d *dialect.Dialect) *Analyzer {
	return &Analyzer{dialect: d}
}

// Analyze checks a whole block and returns the diagnostics found.
func (a *Analyzer) Analyze(block *ast.Block) []errors.CompilerError {
	a.errs = nil
	scope := newScope(nil)
	a.checkBlock(block, scope, checkContext{context: "top-level code"})
	return a.errs
}

// GetErrors returns the diagnostics from the last Analyze call.
func (a *Analyzer) GetErrors() []errors.CompilerError {
	return a.errs
}

// GetInfo summarizes the analyzed block. The optimizer stores this on the
// object after re-validation.
func (a *Analyzer) GetInfo(block *ast.Block) *AnalysisInfo {
	info := &AnalysisInfo{Functions: map[string]FunctionInfo{}}
	ast.VisitFunctions(block, func(fn *ast.FunctionDefinition) {
		info.Functions[fn.Name] = FunctionInfo{
			Parameters: len(fn.Parameters),
			Returns:    len(fn.ReturnVariables),
		}
	})
	return info
}

// AnalysisInfo is the analysis result attached to an optimized object.
type AnalysisInfo struct {
	Functions map[string]FunctionInfo
}

// FunctionInfo records the signature of one function.
type FunctionInfo struct {
	Parameters int
	Returns    int
}

// AnalyzeStrict runs the analyzer and folds any diagnostics into a single
// error. The optimizer treats a failure here as proof of a defect in a
// transformation, not as an input error.
func AnalyzeStrict(d *dialect.Dialect, block *ast.Block) (*AnalysisInfo, error) {
	analyzer := NewAnalyzer(d)
	if errs := analyzer.Analyze(block); len(errs) > 0 {
		return nil, fmt.Errorf("analysis failed with %d error(s), first: %w", len(errs), errs[0])
	}
	return analyzer.GetInfo(block), nil
}

type checkContext struct {
	context    string // enclosing function name or "top-level code"
	inLoop     bool
	inFunction bool
}

type scope struct {
	parent    *scope
	variables map[string]bool
	functions map[string]*ast.FunctionDefinition
	// function bodies open a fresh variable namespace but keep seeing
	// functions from enclosing scopes
	barrier bool
}

func newScope(parent *scope) *scope {
	return &scope{
		parent:    parent,
		variables: map[string]bool{},
		functions: map[string]*ast.FunctionDefinition{},
	}
}

func (s *scope) declareVariable(name string) bool {
	if s.variables[name] {
		return false
	}
	s.variables[name] = true
	return true
}

func (s *scope) lookupVariable(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.variables[name] {
			return true
		}
		if cur.barrier {
			return false
		}
	}
	return false
}

func (s *scope) lookupFunction(name string) *ast.FunctionDefinition {
	for cur := s; cur != nil; cur = cur.parent {
		if fn, ok := cur.functions[name]; ok {
			return fn
		}
	}
	return nil
}

func (a *Analyzer) report(code, message string, ctx checkContext) {
	a.errs = append(a.errs, errors.CompilerError{
		Level:   errors.Error,
		Code:    code,
		Message: message,
		Context: ctx.context,
	})
}

func (a *Analyzer) checkBlock(block *ast.Block, parent *scope, ctx checkContext) {
	s := newScope(parent)

	// Functions are visible in the whole block, including before their
	// definition and inside sibling functions.
	for _, stmt := range block.Statements {
		if fn, ok := stmt.(*ast.FunctionDefinition); ok {
			if _, dup := s.functions[fn.Name]; dup {
				a.report(errors.ErrorDuplicateDeclaration,
					fmt.Sprintf("function %q declared twice in the same block", fn.Name), ctx)
				continue
			}
			s.functions[fn.Name] = fn
		}
	}

	for _, stmt := range block.Statements {
		a.checkStatement(stmt, s, ctx)
	}
}

func (a *Analyzer) checkStatement(stmt ast.Statement, s *scope, ctx checkContext) {
	switch st := stmt.(type) {
	case *ast.Block:
		a.checkBlock(st, s, ctx)
	case *ast.VariableDeclaration:
		if st.Value != nil {
			a.checkExpression(st.Value, s, ctx, len(st.Variables))
		}
		for _, name := range st.Variables {
			if !s.declareVariable(name) {
				a.report(errors.ErrorDuplicateDeclaration,
					fmt.Sprintf("variable %q declared twice in the same scope", name), ctx)
			}
		}
	case *ast.Assignment:
		a.checkExpression(st.Value, s, ctx, len(st.Variables))
		for _, name := range st.Variables {
			if !s.lookupVariable(name) {
				a.report(errors.ErrorInvalidAssignment,
					fmt.Sprintf("assignment to undeclared variable %q", name), ctx)
			}
		}
	case *ast.ExpressionStatement:
		a.checkExpression(st.Expression, s, ctx, 0)
	case *ast.If:
		a.checkExpression(st.Condition, s, ctx, 1)
		a.checkBlock(&st.Body, s, ctx)
	case *ast.Switch:
		a.checkExpression(st.Expression, s, ctx, 1)
		for i := range st.Cases {
			a.checkBlock(&st.Cases[i].Body, s, ctx)
		}
	case *ast.ForLoop:
		// The pre block's scope extends over the condition, post and body.
		pre := newScope(s)
		for _, preStmt := range st.Pre.Statements {
			a.checkStatement(preStmt, pre, ctx)
		}
		a.checkExpression(st.Condition, pre, ctx, 1)
		loopCtx := ctx
		loopCtx.inLoop = true
		a.checkBlock(&st.Body, pre, loopCtx)
		a.checkBlock(&st.Post, pre, loopCtx)
	case *ast.FunctionDefinition:
		body := newScope(s)
		body.barrier = true
		for _, name := range append(append([]string{}, st.Parameters...), st.ReturnVariables...) {
			if !body.declareVariable(name) {
				a.report(errors.ErrorDuplicateDeclaration,
					fmt.Sprintf("parameter %q declared twice in function %q", name, st.Name), ctx)
			}
		}
		fnCtx := checkContext{context: "function " + st.Name, inFunction: true}
		a.checkBlock(&st.Body, body, fnCtx)
	case *ast.Break, *ast.Continue:
		if !ctx.inLoop {
			a.report(errors.ErrorLoopControlOutsideLoop, "break/continue outside a loop body", ctx)
		}
	case *ast.Leave:
		if !ctx.inFunction {
			a.report(errors.ErrorLeaveOutsideFunction, "leave outside a function body", ctx)
		}
	}
}

func (a *Analyzer) checkExpression(expr ast.Expression, s *scope, ctx checkContext, expectedValues int) {
	switch e := expr.(type) {
	case *ast.Literal:
		if expectedValues != 1 {
			a.report(errors.ErrorValueArity,
				fmt.Sprintf("literal produces 1 value, %d expected", expectedValues), ctx)
		}
	case *ast.Identifier:
		if !s.lookupVariable(e.Name) {
			a.report(errors.ErrorUndeclaredVariable,
				fmt.Sprintf("variable %q used before declaration", e.Name), ctx)
		}
		if expectedValues != 1 {
			a.report(errors.ErrorValueArity,
				fmt.Sprintf("identifier produces 1 value, %d expected", expectedValues), ctx)
		}
	case *ast.FunctionCall:
		params, returns, known := a.signature(e.FunctionName, s)
		if !known {
			a.report(errors.ErrorUndefinedFunction,
				fmt.Sprintf("call to undefined function %q", e.FunctionName), ctx)
		} else {
			if len(e.Arguments) != params {
				a.report(errors.ErrorArgumentCount,
					fmt.Sprintf("function %q takes %d argument(s), got %d",
						e.FunctionName, params, len(e.Arguments)), ctx)
			}
			if returns != expectedValues {
				a.report(errors.ErrorValueArity,
					fmt.Sprintf("function %q returns %d value(s), %d expected",
						e.FunctionName, returns, expectedValues), ctx)
			}
		}
		for _, arg := range e.Arguments {
			a.checkExpression(arg, s, ctx, 1)
		}
	}
}

func (a *Analyzer) signature(name string, s *scope) (params, returns int, known bool) {
	if fn := s.lookupFunction(name); fn != nil {
		return len(fn.Parameters), len(fn.ReturnVariables), true
	}
	if builtin, ok := a.dialect.Builtin(name); ok {
		return builtin.Parameters, builtin.Returns, true
	}
	return 0, 0, false
}
