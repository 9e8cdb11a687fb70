package engine

import "errors"

var (
	ErrSyntax         = errors.New("syntax error")
	ErrType           = errors.New("type error")
	ErrUndefined      = errors.New("undefined name")
	ErrDivisionByZero = errors.New("division by zero")
	ErrAssignment     = errors.New("invalid assignment target")
)
