package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

type builtin func(args []any) (any, error)

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"len":   builtinLen,
		"str":   builtinStr,
		"int":   builtinInt,
		"float": builtinFloat,
		"abs":   builtinAbs,
		"round": builtinRound,
		"min":   func(args []any) (any, error) { return extreme("min", args, "<") },
		"max":   func(args []any) (any, error) { return extreme("max", args, ">") },
		"upper": stringFunc("upper", strings.ToUpper),
		"lower": stringFunc("lower", strings.ToLower),
		"strip": stringFunc("strip", strings.TrimSpace),
	}
}

func (e *env) call(c *Call) (any, error) {
	fn, ok := builtins[c.Name]
	if !ok {
		return nil, fmt.Errorf("%w: function %s", ErrUndefined, c.Name)
	}
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		v, err := e.expr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", c.Name, err)
	}
	return v, nil
}

func arity(args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: takes %d argument(s), %d given", ErrType, n, len(args))
	}
	return nil
}

func builtinLen(args []any) (any, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case string:
		return int64(len([]rune(v))), nil
	case []any:
		return int64(len(v)), nil
	default:
		return nil, fmt.Errorf("%w: %s has no len", ErrType, typeName(v))
	}
}

func builtinStr(args []any) (any, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	if args[0] == nil {
		return "None", nil
	}
	s, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrType, err)
	}
	return s, nil
}

func builtinInt(args []any) (any, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid literal %q", ErrType, v)
		}
		return i, nil
	default:
		return nil, fmt.Errorf("%w: cannot convert %s to int", ErrType, typeName(v))
	}
}

func builtinFloat(args []any) (any, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid literal %q", ErrType, v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: cannot convert %s to float", ErrType, typeName(v))
	}
}

func builtinAbs(args []any) (any, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	default:
		return nil, fmt.Errorf("%w: bad operand type for abs: %s", ErrType, typeName(v))
	}
}

// builtinRound rounds half to even. With no digits the result is an int.
func builtinRound(args []any) (any, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, fmt.Errorf("%w: takes 1 or 2 arguments, %d given", ErrType, len(args))
	}
	digits := int64(0)
	if len(args) == 2 {
		d, ok := args[1].(int64)
		if !ok {
			return nil, fmt.Errorf("%w: digits must be int, not %s", ErrType, typeName(args[1]))
		}
		digits = d
	}
	switch v := args[0].(type) {
	case int64:
		return v, nil
	case float64:
		if len(args) == 1 {
			return int64(math.RoundToEven(v)), nil
		}
		p := math.Pow(10, float64(digits))
		return math.RoundToEven(v*p) / p, nil
	default:
		return nil, fmt.Errorf("%w: cannot round %s", ErrType, typeName(v))
	}
}

// extreme implements min and max over either several arguments or a single
// list argument.
func extreme(name string, args []any, op string) (any, error) {
	if len(args) == 1 {
		if list, ok := args[0].([]any); ok {
			args = list
		}
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %s of an empty sequence", ErrType, name)
	}
	best := args[0]
	for _, v := range args[1:] {
		better, err := compare(op, v, best)
		if err != nil {
			return nil, err
		}
		if better.(bool) {
			best = v
		}
	}
	return best, nil
}

func stringFunc(name string, fn func(string) string) builtin {
	return func(args []any) (any, error) {
		if err := arity(args, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects str, not %s", ErrType, name, typeName(args[0]))
		}
		return fn(s), nil
	}
}
