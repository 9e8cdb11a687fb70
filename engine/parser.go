// Package engine parses and evaluates the host language that compiled
// dialect statements are written in, one row at a time.
package engine

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/satishbabariya/csv-eval/internal/debug"
)

var (
	programParser = participle.MustBuild[Program](
		participle.Lexer(HostLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(4),
	)
	exprParser = participle.MustBuild[Expr](
		participle.Lexer(HostLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(4),
	)
)

// Script is a compiled sequence of statements.
type Script struct {
	program *Program
	source  string
}

// Source returns the text the script was compiled from.
func (s *Script) Source() string {
	return s.source
}

// Expression is a compiled single expression.
type Expression struct {
	expr   *Expr
	source string
}

// Source returns the text the expression was compiled from.
func (e *Expression) Source() string {
	return e.source
}

// Compile parses statements separated by ';'. Assignment targets must be a
// row cell or a variable.
func Compile(src string) (*Script, error) {
	program, err := programParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	for _, st := range program.Statements {
		if err := checkStatement(st); err != nil {
			return nil, err
		}
	}
	debug.Debug("Compiled host script", "source", src, "statements", len(program.Statements))
	return &Script{program: program, source: src}, nil
}

// CompileExpr parses a single expression.
func CompileExpr(src string) (*Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	expr, err := exprParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return &Expression{expr: expr, source: src}, nil
}

func checkStatement(st *Statement) error {
	if st.Value == nil {
		return nil
	}
	target := st.Target.assignable()
	switch {
	case target == nil:
		return fmt.Errorf("%w at %s", ErrAssignment, st.Pos)
	case target.Row != nil:
		if target.Row.Index.Slice != nil {
			return fmt.Errorf("%w at %s: cannot assign to a slice", ErrAssignment, st.Pos)
		}
		return nil
	case target.Var != nil:
		return nil
	default:
		return fmt.Errorf("%w at %s", ErrAssignment, st.Pos)
	}
}
