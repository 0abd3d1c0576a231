package parser

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"

	"ashlar/internal/ast"
)

var irParser = participle.MustBuild[sourceBlock](
	participle.Lexer(irLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseSource parses IR source text into an AST block. The filename only
// labels positions in error messages.
func ParseSource(filename, source string) (*ast.Block, error) {
	parsed, err := irParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return lowerBlock(parsed), nil
}

func lowerBlock(src *sourceBlock) *ast.Block {
	block := &ast.Block{}
	for _, stmt := range src.Statements {
		block.Statements = append(block.Statements, lowerStatement(stmt))
	}
	return block
}

func lowerStatement(src *sourceStatement) ast.Statement {
	switch {
	case src.Block != nil:
		return lowerBlock(src.Block)
	case src.Function != nil:
		return &ast.FunctionDefinition{
			Name:            src.Function.Name,
			Parameters:      src.Function.Params,
			ReturnVariables: src.Function.Returns,
			Body:            *lowerBlock(src.Function.Body),
		}
	case src.VarDecl != nil:
		decl := &ast.VariableDeclaration{Variables: src.VarDecl.Variables}
		if src.VarDecl.Value != nil {
			decl.Value = lowerExpression(src.VarDecl.Value)
		}
		return decl
	case src.If != nil:
		return &ast.If{
			Condition: lowerExpression(src.If.Condition),
			Body:      *lowerBlock(src.If.Body),
		}
	case src.Switch != nil:
		sw := &ast.Switch{Expression: lowerExpression(src.Switch.Expression)}
		for _, c := range src.Switch.Cases {
			sw.Cases = append(sw.Cases, ast.Case{
				Value: lowerLiteral(c.Value),
				Body:  *lowerBlock(c.Body),
			})
		}
		if src.Switch.Default != nil {
			sw.Cases = append(sw.Cases, ast.Case{Body: *lowerBlock(src.Switch.Default.Body)})
		}
		return sw
	case src.For != nil:
		return &ast.ForLoop{
			Pre:       *lowerBlock(src.For.Pre),
			Condition: lowerExpression(src.For.Condition),
			Post:      *lowerBlock(src.For.Post),
			Body:      *lowerBlock(src.For.Body),
		}
	case src.Break:
		return &ast.Break{}
	case src.Continue:
		return &ast.Continue{}
	case src.Leave:
		return &ast.Leave{}
	case src.Call != nil:
		return &ast.ExpressionStatement{Expression: lowerCall(src.Call)}
	case src.Assign != nil:
		return &ast.Assignment{
			Variables: src.Assign.Variables,
			Value:     lowerExpression(src.Assign.Value),
		}
	default:
		panic("parser: empty statement alternative")
	}
}

func lowerExpression(src *sourceExpression) ast.Expression {
	switch {
	case src.Call != nil:
		return lowerCall(src.Call)
	case src.Literal != nil:
		return lowerLiteral(src.Literal)
	default:
		return &ast.Identifier{Name: src.Ident}
	}
}

func lowerCall(src *sourceCall) *ast.FunctionCall {
	call := &ast.FunctionCall{FunctionName: src.Name}
	for _, arg := range src.Args {
		call.Arguments = append(call.Arguments, lowerExpression(arg))
	}
	return call
}

func lowerLiteral(src *sourceLiteral) *ast.Literal {
	if src == nil {
		return nil
	}
	switch {
	case src.Number != nil:
		return &ast.Literal{Kind: ast.NumberLiteral, Value: *src.Number}
	case src.String != nil:
		unquoted, err := strconv.Unquote(*src.String)
		if err != nil {
			// The lexer only produces well-formed string tokens.
			panic(fmt.Sprintf("parser: bad string token %s", *src.String))
		}
		return &ast.Literal{Kind: ast.StringLiteral, Value: unquoted}
	case src.True:
		return &ast.Literal{Kind: ast.BoolLiteral, Value: "true"}
	default:
		return &ast.Literal{Kind: ast.BoolLiteral, Value: "false"}
	}
}
