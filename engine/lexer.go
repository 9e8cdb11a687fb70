package engine

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// HostLexer defines the tokens of the generated host language.
var HostLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Literals (Float before Int so 1.5 is not split)
	{Name: "Float", Pattern: `\d+\.\d*(?:[eE][-+]?\d+)?|\.\d+(?:[eE][-+]?\d+)?|\d+[eE][-+]?\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},

	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},

	// Multi-character operators must come before their prefixes
	{Name: "Operator", Pattern: `==|!=|<=|>=|&&|\|\||//|[-+*/%<>=!]`},
	{Name: "Punct", Pattern: `[()\[\]:;.,]`},

	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
