// Package dialect compiles the csv-eval field-access dialect into host
// statements that run once per input line against a row.
package dialect

import "fmt"

// Kind identifies the class of a dialect token.
type Kind int

const (
	// Accessor selects a cell by position, slice or an already quoted key.
	Accessor Kind = iota
	// AccessorAmbiguous has a bare bracket body such as s[name] that is
	// either a header name or an expression.
	AccessorAmbiguous
	// AccessorAppend creates a new column, e.g. s[+] or s[+label].
	AccessorAppend
	// AssignmentOperator is one of =, +=, -=, *=, /=.
	AssignmentOperator
	// StatementSep is ';'.
	StatementSep
	// Passthrough is host text emitted verbatim.
	Passthrough
)

var kindNames = map[Kind]string{
	Accessor:           "Accessor",
	AccessorAmbiguous:  "AccessorAmbiguous",
	AccessorAppend:     "AccessorAppend",
	AssignmentOperator: "AssignmentOperator",
	StatementSep:       "StatementSep",
	Passthrough:        "Passthrough",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a lexeme with its kind and byte offset in the source.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Pos)
}

// IsAccessor reports whether the token references a row cell.
func (t Token) IsAccessor() bool {
	return t.Kind == Accessor || t.Kind == AccessorAmbiguous || t.Kind == AccessorAppend
}
