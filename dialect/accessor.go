package dialect

import (
	"fmt"
	"strings"
)

// RowVar is the name generated code uses for the current row.
const RowVar = "row"

// Cast is the conversion applied when an accessor is read.
type Cast int

const (
	NoOp Cast = iota
	AsString
	AsFloat
	AsInteger
)

func (c Cast) String() string {
	switch c {
	case AsString:
		return "AsString"
	case AsFloat:
		return "AsFloat"
	case AsInteger:
		return "AsInteger"
	default:
		return "NoOp"
	}
}

// View returns the row view name used for reads, empty for NoOp.
func (c Cast) View() string {
	switch c {
	case AsString:
		return "str"
	case AsFloat:
		return "float"
	case AsInteger:
		return "int"
	default:
		return ""
	}
}

func castOf(prefix byte) (Cast, bool) {
	switch prefix {
	case 's':
		return AsString, true
	case 'f':
		return AsFloat, true
	case 'i':
		return AsInteger, true
	case 'x':
		return NoOp, true
	default:
		return NoOp, false
	}
}

// FieldAccess is a resolved accessor: a cast and the bracket content that
// selects the cell.
type FieldAccess struct {
	Cast Cast
	Ref  string
}

// Read renders the cast-qualified read of the field.
func (a FieldAccess) Read() string {
	if view := a.Cast.View(); view != "" {
		return fmt.Sprintf("%s.%s[%s]", RowVar, view, a.Ref)
	}
	return a.Lvalue()
}

// Lvalue renders the raw assignment target of the field.
func (a FieldAccess) Lvalue() string {
	return fmt.Sprintf("%s[%s]", RowVar, a.Ref)
}

// Resolve converts an Accessor or AccessorAmbiguous token into a FieldAccess.
// With autoQuote, an ambiguous bracket body is quoted as a header name.
func Resolve(tok Token, autoQuote bool) (FieldAccess, error) {
	cast, content, err := splitAccessor(tok)
	if err != nil {
		return FieldAccess{}, err
	}
	if tok.Kind == AccessorAmbiguous && autoQuote {
		content = AutoQuote(content)
	}
	return FieldAccess{Cast: cast, Ref: content}, nil
}

// resolveAppend returns the cast and explicit label of an append accessor.
// The label is empty for s[+].
func resolveAppend(tok Token) (Cast, string, error) {
	cast, _, err := splitAccessor(tok)
	if err != nil {
		return NoOp, "", err
	}
	m := appendRe.FindStringSubmatch(tok.Lexeme)
	if m == nil {
		return NoOp, "", newCompileError(tok, "malformed append accessor")
	}
	label := strings.TrimSpace(m[1])
	if strings.ContainsAny(label, `"'`) {
		return NoOp, "", newCompileError(tok, "column label must not contain quotes")
	}
	return cast, label, nil
}

func splitAccessor(tok Token) (Cast, string, error) {
	lex := tok.Lexeme
	if lex == "" {
		return NoOp, "", newCompileError(tok, "empty accessor")
	}
	cast, ok := castOf(lex[0])
	if !ok {
		return NoOp, "", newCompileError(tok, fmt.Sprintf("unknown cast prefix %q", lex[0]))
	}
	if len(lex) < 3 || lex[1] != '[' || lex[len(lex)-1] != ']' {
		return NoOp, "", newCompileError(tok, "malformed bracket")
	}
	content := lex[2 : len(lex)-1]
	if strings.TrimSpace(content) == "" {
		return NoOp, "", newCompileError(tok, "empty bracket")
	}
	return cast, content, nil
}

// AutoQuote wraps content in double quotes unless it is a positional index
// or slice.
func AutoQuote(content string) string {
	if positionalRe.MatchString(content) {
		return content
	}
	return `"` + content + `"`
}

// QuoteSelector auto-quotes an output selector only when it is a bare name;
// selectors that already carry quotes are left alone.
func QuoteSelector(sel string) string {
	if !rawStringRe.MatchString(sel) {
		return sel
	}
	return AutoQuote(sel)
}
