package dialect

import (
	"errors"
	"fmt"
)

// ErrUnsupportedAccessor is returned for an unknown cast prefix or a
// malformed accessor bracket.
var ErrUnsupportedAccessor = errors.New("unsupported accessor")

// CompileError locates a compile failure in the dialect source.
type CompileError struct {
	Pos    int
	Lexeme string
	Reason string
	Err    error
}

func newCompileError(tok Token, reason string) *CompileError {
	return &CompileError{
		Pos:    tok.Pos,
		Lexeme: tok.Lexeme,
		Reason: reason,
		Err:    ErrUnsupportedAccessor,
	}
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v %q at offset %d: %s", e.Err, e.Lexeme, e.Pos, e.Reason)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
