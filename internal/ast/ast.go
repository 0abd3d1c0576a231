package ast

// The optimizer works on a block-structured intermediate representation.
// Every node is mutated in place by optimization steps; ownership of the
// whole tree belongs to the caller of the optimizer for the duration of a run.

// Statement is implemented by every statement-level node.
type Statement interface {
	stmtNode()
}

// Expression is implemented by every expression-level node.
type Expression interface {
	exprNode()
}

// Block is a sequence of statements with its own scope. The top-level code of
// an object is a Block, and blocks nest as statements.
type Block struct {
	Statements []Statement
}

// VariableDeclaration introduces one or more variables, optionally with an
// initial value. A nil Value means the variables start out zero-initialized.
type VariableDeclaration struct {
	Variables []string
	Value     Expression
}

// Assignment assigns the value of an expression to existing variables.
type Assignment struct {
	Variables []string
	Value     Expression
}

// ExpressionStatement evaluates an expression for its effects only.
type ExpressionStatement struct {
	Expression Expression
}

// If runs Body when Condition evaluates to a nonzero value.
type If struct {
	Condition Expression
	Body      Block
}

// Switch dispatches on the value of Expression. A case with a nil Value is
// the default case.
type Switch struct {
	Expression Expression
	Cases      []Case
}

// Case is a single arm of a Switch.
type Case struct {
	Value *Literal
	Body  Block
}

// ForLoop is the generic loop form: Pre runs once, Condition is checked
// before each iteration, Post runs after each iteration.
type ForLoop struct {
	Pre       Block
	Condition Expression
	Post      Block
	Body      Block
}

// FunctionDefinition declares a function. Return variables are implicitly
// zero-initialized and hold the result when the function leaves.
type FunctionDefinition struct {
	Name            string
	Parameters      []string
	ReturnVariables []string
	Body            Block
}

// Break exits the innermost loop.
type Break struct{}

// Continue skips to the Post block of the innermost loop.
type Continue struct{}

// Leave returns from the enclosing function.
type Leave struct{}

func (*Block) stmtNode()               {}
func (*VariableDeclaration) stmtNode() {}
func (*Assignment) stmtNode()          {}
func (*ExpressionStatement) stmtNode() {}
func (*If) stmtNode()                  {}
func (*Switch) stmtNode()              {}
func (*ForLoop) stmtNode()             {}
func (*FunctionDefinition) stmtNode()  {}
func (*Break) stmtNode()               {}
func (*Continue) stmtNode()            {}
func (*Leave) stmtNode()               {}

// LiteralKind distinguishes the literal forms the IR supports.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	BoolLiteral
	StringLiteral
)

// Literal is a constant value. Numbers keep their source spelling (decimal or
// 0x-prefixed hex) in Value.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// Identifier references a variable.
type Identifier struct {
	Name string
}

// FunctionCall invokes a builtin or user-defined function.
type FunctionCall struct {
	FunctionName string
	Arguments    []Expression
}

func (*Literal) exprNode()      {}
func (*Identifier) exprNode()   {}
func (*FunctionCall) exprNode() {}
