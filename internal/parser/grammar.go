package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer and grammar for the textual IR. The grammar structs are private to
// the parser; they are lowered into internal/ast nodes before anyone else
// sees them.

var irLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`},

		// String literals
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},

		// Number literals (hex must come before decimal)
		{Name: "Number", Pattern: `0x[0-9a-fA-F]+|[0-9]+`},

		// Identifiers; dots are legal so backend builtins like i64.load lex
		// as a single token
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$.]*`},

		// Multi-character operators before punctuation
		{Name: "Assign", Pattern: `:=`},
		{Name: "Arrow", Pattern: `->`},

		// Punctuation
		{Name: "Punct", Pattern: `[{}(),]`},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})

type sourceBlock struct {
	Statements []*sourceStatement `parser:"'{' @@* '}'"`
}

type sourceStatement struct {
	Block    *sourceBlock    `parser:"  @@"`
	Function *sourceFunction `parser:"| @@"`
	VarDecl  *sourceVarDecl  `parser:"| @@"`
	If       *sourceIf       `parser:"| @@"`
	Switch   *sourceSwitch   `parser:"| @@"`
	For      *sourceFor      `parser:"| @@"`
	Break    bool            `parser:"| @'break'"`
	Continue bool            `parser:"| @'continue'"`
	Leave    bool            `parser:"| @'leave'"`
	Call     *sourceCall     `parser:"| @@"`
	Assign   *sourceAssign   `parser:"| @@"`
}

type sourceFunction struct {
	Name    string       `parser:"'function' @Ident"`
	Params  []string     `parser:"'(' ( @Ident ( ',' @Ident )* )? ')'"`
	Returns []string     `parser:"( Arrow @Ident ( ',' @Ident )* )?"`
	Body    *sourceBlock `parser:"@@"`
}

type sourceVarDecl struct {
	Variables []string          `parser:"'let' @Ident ( ',' @Ident )*"`
	Value     *sourceExpression `parser:"( Assign @@ )?"`
}

type sourceAssign struct {
	Variables []string          `parser:"@Ident ( ',' @Ident )*"`
	Value     *sourceExpression `parser:"Assign @@"`
}

type sourceIf struct {
	Condition *sourceExpression `parser:"'if' @@"`
	Body      *sourceBlock      `parser:"@@"`
}

type sourceSwitch struct {
	Expression *sourceExpression `parser:"'switch' @@"`
	Cases      []*sourceCase     `parser:"@@*"`
	Default    *sourceDefault    `parser:"@@?"`
}

type sourceCase struct {
	Value *sourceLiteral `parser:"'case' @@"`
	Body  *sourceBlock   `parser:"@@"`
}

type sourceDefault struct {
	Body *sourceBlock `parser:"'default' @@"`
}

type sourceFor struct {
	Pre       *sourceBlock      `parser:"'for' @@"`
	Condition *sourceExpression `parser:"@@"`
	Post      *sourceBlock      `parser:"@@"`
	Body      *sourceBlock      `parser:"@@"`
}

type sourceExpression struct {
	Call    *sourceCall    `parser:"  @@"`
	Literal *sourceLiteral `parser:"| @@"`
	Ident   string         `parser:"| @Ident"`
}

type sourceCall struct {
	Name string              `parser:"@Ident '('"`
	Args []*sourceExpression `parser:"( @@ ( ',' @@ )* )? ')'"`
}

type sourceLiteral struct {
	Number *string `parser:"  @Number"`
	String *string `parser:"| @String"`
	True   bool    `parser:"| @'true'"`
	False  bool    `parser:"| @'false'"`
}
