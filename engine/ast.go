package engine

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Program is a sequence of statements separated by ';'.
type Program struct {
	Pos        lexer.Position
	Statements []*Statement `@@? ( ";" @@? )*`
}

// Statement is an expression, optionally assigned to a row cell or variable.
type Statement struct {
	Pos    lexer.Position
	Target *Expr `@@`
	Value  *Expr `( "=" @@ )?`
}

// Expr is the lowest-precedence expression: a chain of "or".
type Expr struct {
	Pos   lexer.Position
	Left  *AndExpr   `@@`
	Right []*AndExpr `( ( "or" | "||" ) @@ )*`
}

// AndExpr is a chain of "and".
type AndExpr struct {
	Left  *NotExpr   `@@`
	Right []*NotExpr `( ( "and" | "&&" ) @@ )*`
}

// NotExpr is an optionally negated comparison.
type NotExpr struct {
	Negated *NotExpr `  ( "not" | "!" ) @@`
	Cmp     *CmpExpr `| @@`
}

// CmpExpr is a single, non-chained comparison.
type CmpExpr struct {
	Left  *AddExpr `@@`
	Op    string   `( @( "==" | "!=" | "<=" | ">=" | "<" | ">" )`
	Right *AddExpr `  @@ )?`
}

// AddExpr is a chain of additive terms.
type AddExpr struct {
	Left *MulExpr   `@@`
	Rest []*AddTerm `@@*`
}

type AddTerm struct {
	Op    string   `@( "+" | "-" )`
	Right *MulExpr `@@`
}

// MulExpr is a chain of multiplicative terms.
type MulExpr struct {
	Left *Unary     `@@`
	Rest []*MulTerm `@@*`
}

type MulTerm struct {
	Op    string `@( "*" | "//" | "/" | "%" )`
	Right *Unary `@@`
}

// Unary is a signed operand.
type Unary struct {
	Op      string   `( @( "-" | "+" )`
	Operand *Unary   `  @@ )`
	Primary *Primary `| @@`
}

// Primary is an operand.
type Primary struct {
	Pos    lexer.Position
	Float  *Float   `  @Float`
	Int    *Integer `| @Int`
	String *Literal `| @String`
	Bool   *Boolean `| @( "true" | "True" | "false" | "False" )`
	None   bool     `| @( "none" | "None" )`
	Row    *RowRef  `| @@`
	Call   *Call    `| @@`
	Var    *string  `| @Ident`
	Sub    *Expr    `| "(" @@ ")"`
}

// RowRef reads or addresses the current row, optionally through a typed view.
type RowRef struct {
	Pos   lexer.Position
	View  string     `"row" ( "." @Ident )?`
	Index *Subscript `"[" @@ "]"`
}

// Subscript is either a single key or a lo:hi slice.
type Subscript struct {
	Lo    *Expr      `@@?`
	Slice *SliceTail `@@?`
}

type SliceTail struct {
	Colon bool  `@":"`
	Hi    *Expr `@@?`
}

// Call is a builtin function call.
type Call struct {
	Name string  `@Ident "("`
	Args []*Expr `( @@ ( "," @@ )* )? ")"`
}

// Integer is a base-10 integer literal.
type Integer int64

func (i *Integer) Capture(values []string) error {
	v, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return err
	}
	*i = Integer(v)
	return nil
}

// Float is a floating point literal.
type Float float64

func (f *Float) Capture(values []string) error {
	v, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Boolean is true/True or false/False.
type Boolean bool

func (b *Boolean) Capture(values []string) error {
	*b = values[0] == "true" || values[0] == "True"
	return nil
}

// Literal is an unquoted string literal.
type Literal string

func (s *Literal) Capture(values []string) error {
	*s = Literal(unquote(values[0]))
	return nil
}

// unquote strips the quotes of a single or double quoted literal. Double
// quoted literals use Go escapes when they are valid and are otherwise taken
// verbatim, so a header name containing a backslash survives auto-quoting.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	if raw[0] == '"' {
		if s, err := strconv.Unquote(raw); err == nil {
			return s
		}
		return raw[1 : len(raw)-1]
	}
	body := raw[1 : len(raw)-1]
	body = strings.ReplaceAll(body, `\'`, `'`)
	return strings.ReplaceAll(body, `\\`, `\`)
}

// assignable returns the primary of an expression that consists of nothing
// else, or nil.
func (e *Expr) assignable() *Primary {
	if len(e.Right) > 0 {
		return nil
	}
	and := e.Left
	if len(and.Right) > 0 || and.Left.Cmp == nil {
		return nil
	}
	cmp := and.Left.Cmp
	if cmp.Op != "" || len(cmp.Left.Rest) > 0 {
		return nil
	}
	mul := cmp.Left.Left
	if len(mul.Rest) > 0 || mul.Left.Primary == nil {
		return nil
	}
	return mul.Left.Primary
}
