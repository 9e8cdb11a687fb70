package dialect

import (
	"regexp"

	"github.com/satishbabariya/csv-eval/internal/debug"
)

const (
	// positionalPattern matches integer indexes and slices such as 0, -1, 1:3, -2:.
	positionalPattern = `[0-9:-]+`
	// rawStringPattern matches a bracket body that has no quotes, i.e. a bare name.
	rawStringPattern = `[^'"\]]+`
)

var (
	positionalRe = regexp.MustCompile(`^` + positionalPattern + `$`)
	rawStringRe  = regexp.MustCompile(`^` + rawStringPattern + `$`)
	appendRe     = regexp.MustCompile(`^[sfix]\[[ \t]*\+[ \t]*([^\]]*)\]`)
)

// matcher recognises one token kind at the start of the remaining input.
type matcher struct {
	kind     Kind
	re       *regexp.Regexp
	accessor bool
}

// matchers are tried in order at each scan position; the first match wins.
var matchers = []matcher{
	{kind: AccessorAppend, re: appendRe, accessor: true},
	{kind: Accessor, re: regexp.MustCompile(`^[sfix]\[` + positionalPattern + `\]`), accessor: true},
	{kind: AccessorAmbiguous, re: regexp.MustCompile(`^[sfix]\[` + rawStringPattern + `\]`), accessor: true},
	{kind: Accessor, re: regexp.MustCompile(`^[sfix]\[[^\]]+\]`), accessor: true},
	{kind: Passthrough, re: regexp.MustCompile(`^(?:==|!=|<=|>=)`)},
	{kind: AssignmentOperator, re: regexp.MustCompile(`^[-+*/]?=`)},
	{kind: StatementSep, re: regexp.MustCompile(`^;`)},
}

// Tokenize scans dialect source into tokens. Whitespace is dropped; text no
// matcher claims is emitted as Passthrough.
func Tokenize(src string) []Token {
	var tokens []Token
	pos := 0
	for pos < len(src) {
		if isSpace(src[pos]) {
			pos++
			continue
		}
		if tok, ok := matchAt(src, pos); ok {
			tokens = append(tokens, tok)
			pos += len(tok.Lexeme)
			continue
		}
		n := passthroughLen(src, pos)
		tokens = append(tokens, Token{Kind: Passthrough, Lexeme: src[pos : pos+n], Pos: pos})
		pos += n
	}
	debug.Debug("Tokenized dialect source", "input_length", len(src), "tokens", len(tokens))
	return tokens
}

func matchAt(src string, pos int) (Token, bool) {
	rest := src[pos:]
	for _, m := range matchers {
		// s[0] inside an identifier such as xs[0] or obj.s[0] is host text
		if m.accessor && pos > 0 && (isWordByte(src[pos-1]) || src[pos-1] == '.') {
			continue
		}
		if loc := m.re.FindStringIndex(rest); loc != nil && loc[1] > 0 {
			return Token{Kind: m.kind, Lexeme: rest[:loc[1]], Pos: pos}, true
		}
	}
	return Token{}, false
}

// passthroughLen returns the length of the host text run starting at start.
// The run ends at whitespace or where another matcher applies; quoted
// literals are consumed whole.
func passthroughLen(src string, start int) int {
	pos := start
	for pos < len(src) {
		c := src[pos]
		if isSpace(c) {
			break
		}
		if pos > start {
			if _, ok := matchAt(src, pos); ok {
				break
			}
		}
		if c == '"' || c == '\'' {
			pos = skipQuoted(src, pos)
			continue
		}
		pos++
	}
	return pos - start
}

func skipQuoted(src string, pos int) int {
	quote := src[pos]
	pos++
	for pos < len(src) {
		switch src[pos] {
		case '\\':
			pos += 2
			continue
		case quote:
			return pos + 1
		}
		pos++
	}
	return len(src)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
