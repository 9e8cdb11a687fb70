package dialect

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/csv-eval/internal/debug"
)

// Mode selects how accessors are treated by the transform.
type Mode int

const (
	// FullMode resolves accessors as assignment targets or reads depending
	// on the tokens that follow them.
	FullMode Mode = iota
	// FieldOnlyMode turns every accessor into a read. Used for predicates.
	FieldOnlyMode
)

func (m Mode) String() string {
	if m == FieldOnlyMode {
		return "field-only"
	}
	return "full"
}

// Options configures a Compiler.
type Options struct {
	// AutoQuote quotes bare header names inside accessor brackets.
	AutoQuote bool
}

// Result is the output of compiling one statement.
type Result struct {
	Code string
	// NewHeaders lists the columns created by append accessors, in order of
	// first appearance.
	NewHeaders []string
}

// Compiler turns dialect source into host code.
type Compiler struct {
	opts Options
}

// NewCompiler creates a compiler with the given options.
func NewCompiler(opts Options) *Compiler {
	return &Compiler{opts: opts}
}

// Compile transforms a full statement, which may assign to fields and create
// new columns.
func (c *Compiler) Compile(src string) (*Result, error) {
	return c.compile(src, FullMode)
}

// CompileFilter transforms a predicate. Every accessor becomes a read.
func (c *Compiler) CompileFilter(src string) (string, error) {
	res, err := c.compile(src, FieldOnlyMode)
	if err != nil {
		return "", err
	}
	return res.Code, nil
}

func (c *Compiler) compile(src string, mode Mode) (*Result, error) {
	t := &transform{
		mode:      mode,
		autoQuote: c.opts.AutoQuote,
		state:     newAssignmentState(),
	}
	for _, tok := range Tokenize(src) {
		debug.Debug("Visit token", "kind", tok.Kind, "lexeme", tok.Lexeme, "pos", tok.Pos)
		if err := t.visit(tok); err != nil {
			return nil, err
		}
	}
	t.endStatement()

	res := &Result{Code: t.out.String(), NewHeaders: t.newHeaders}
	debug.Debug("Compiled statement", "mode", mode, "source", src, "code", res.Code, "new_headers", res.NewHeaders)
	return res, nil
}

type transform struct {
	mode       Mode
	autoQuote  bool
	state      *assignmentState
	out        emitter
	newHeaders []string
}

func (t *transform) visit(tok Token) error {
	switch tok.Kind {
	case Accessor, AccessorAmbiguous:
		acc, err := Resolve(tok, t.autoQuote)
		if err != nil {
			return err
		}
		t.flush()
		if t.mode == FieldOnlyMode {
			t.out.write(acc.Read())
			return nil
		}
		t.state.set(acc)

	case AccessorAppend:
		if t.mode == FieldOnlyMode {
			return newCompileError(tok, "append accessor is not allowed in a filter")
		}
		cast, label, err := resolveAppend(tok)
		if err != nil {
			return err
		}
		if label == "" {
			label = fmt.Sprintf("_%d", len(t.newHeaders)+1)
		}
		t.newHeaders = append(t.newHeaders, label)
		t.flush()
		t.state.set(FieldAccess{Cast: cast, Ref: `"` + label + `"`})

	case AssignmentOperator:
		if t.mode == FieldOnlyMode || !t.state.atLvalue {
			t.passthrough(tok.Lexeme)
			return nil
		}
		t.assign(tok.Lexeme)

	case StatementSep:
		if t.mode == FieldOnlyMode {
			t.passthrough(tok.Lexeme)
			return nil
		}
		t.endStatement()
		t.out.write(tok.Lexeme)
		t.state.atLvalue = true

	default:
		t.passthrough(tok.Lexeme)
	}
	return nil
}

// assign emits the target of an assignment. Compound operators read the
// target through its cast before the new value is combined with it.
func (t *transform) assign(op string) {
	t.state.atLvalue = false
	target, ok := t.state.peek()
	if !ok {
		t.out.write(op)
		return
	}
	t.out.write(target.Lvalue() + " = ")
	if op == "=" {
		t.state.clear()
		return
	}
	read, _ := t.state.consume()
	t.out.write(read.Read() + " " + strings.TrimSuffix(op, "=") + " (")
	t.state.openGroup = true
}

func (t *transform) passthrough(text string) {
	t.flush()
	t.out.write(text)
}

// flush emits a still pending accessor as a read.
func (t *transform) flush() {
	if acc, ok := t.state.consume(); ok {
		t.out.write(acc.Read())
	}
}

func (t *transform) endStatement() {
	t.flush()
	if t.state.openGroup {
		t.out.write(")")
		t.state.openGroup = false
	}
}

// emitter joins generated fragments, keeping a space between two fragments
// that would otherwise fuse into one word.
type emitter struct {
	b    strings.Builder
	last byte
}

func (e *emitter) write(s string) {
	if s == "" {
		return
	}
	if fuses(e.last) && fuses(s[0]) {
		e.b.WriteByte(' ')
	}
	e.b.WriteString(s)
	e.last = s[len(s)-1]
}

func fuses(c byte) bool {
	return isWordByte(c) || c == '"' || c == '\''
}

func (e *emitter) String() string {
	return e.b.String()
}
