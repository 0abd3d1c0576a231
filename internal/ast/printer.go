package ast

import (
	"fmt"
	"strings"
)

// Print renders a block as canonical IR source text. Parsing the output
// yields a structurally equal tree, which the tests rely on.
func Print(block *Block) string {
	var b strings.Builder
	printBlock(&b, block, 0)
	return b.String()
}

func indent(level int) string {
	return strings.Repeat("    ", level)
}

func printBlock(b *strings.Builder, block *Block, level int) {
	if len(block.Statements) == 0 {
		b.WriteString("{ }")
		return
	}
	b.WriteString("{\n")
	for _, stmt := range block.Statements {
		b.WriteString(indent(level + 1))
		printStatement(b, stmt, level+1)
		b.WriteString("\n")
	}
	b.WriteString(indent(level) + "}")
}

func printStatement(b *strings.Builder, stmt Statement, level int) {
	switch s := stmt.(type) {
	case *Block:
		printBlock(b, s, level)
	case *VariableDeclaration:
		b.WriteString("let " + strings.Join(s.Variables, ", "))
		if s.Value != nil {
			b.WriteString(" := " + PrintExpression(s.Value))
		}
	case *Assignment:
		b.WriteString(strings.Join(s.Variables, ", ") + " := " + PrintExpression(s.Value))
	case *ExpressionStatement:
		b.WriteString(PrintExpression(s.Expression))
	case *If:
		b.WriteString("if " + PrintExpression(s.Condition) + " ")
		printBlock(b, &s.Body, level)
	case *Switch:
		b.WriteString("switch " + PrintExpression(s.Expression))
		for i := range s.Cases {
			c := &s.Cases[i]
			b.WriteString("\n" + indent(level))
			if c.Value == nil {
				b.WriteString("default ")
			} else {
				b.WriteString("case " + PrintExpression(c.Value) + " ")
			}
			printBlock(b, &c.Body, level)
		}
	case *ForLoop:
		b.WriteString("for ")
		printBlock(b, &s.Pre, level)
		b.WriteString(" " + PrintExpression(s.Condition) + " ")
		printBlock(b, &s.Post, level)
		b.WriteString(" ")
		printBlock(b, &s.Body, level)
	case *FunctionDefinition:
		b.WriteString("function " + s.Name + "(" + strings.Join(s.Parameters, ", ") + ")")
		if len(s.ReturnVariables) > 0 {
			b.WriteString(" -> " + strings.Join(s.ReturnVariables, ", "))
		}
		b.WriteString(" ")
		printBlock(b, &s.Body, level)
	case *Break:
		b.WriteString("break")
	case *Continue:
		b.WriteString("continue")
	case *Leave:
		b.WriteString("leave")
	default:
		panic(fmt.Sprintf("ast: unknown statement %T", stmt))
	}
}

// PrintExpression renders a single expression.
func PrintExpression(expr Expression) string {
	switch e := expr.(type) {
	case *Literal:
		if e.Kind == StringLiteral {
			return fmt.Sprintf("%q", e.Value)
		}
		return e.Value
	case *Identifier:
		return e.Name
	case *FunctionCall:
		args := make([]string, len(e.Arguments))
		for i, arg := range e.Arguments {
			args[i] = PrintExpression(arg)
		}
		return e.FunctionName + "(" + strings.Join(args, ", ") + ")"
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", expr))
	}
}
