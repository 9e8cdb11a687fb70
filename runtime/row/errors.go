package row

import "errors"

var (
	ErrUnknownHeader     = errors.New("unknown header")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrCast              = errors.New("cast error")
	ErrMissingHeaderMode = errors.New("header mode is disabled")
	ErrHeaderRegistered  = errors.New("header already registered")
)
