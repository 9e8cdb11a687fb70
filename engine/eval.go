package engine

import (
	"fmt"

	"github.com/satishbabariya/csv-eval/runtime/row"
)

// env is the evaluation scope of one row. Variables do not outlive the row.
type env struct {
	row  *row.Row
	vars map[string]any
}

func newEnv(r *row.Row) *env {
	return &env{row: r, vars: map[string]any{}}
}

// Exec runs every statement of the script against r.
func (s *Script) Exec(r *row.Row) error {
	e := newEnv(r)
	for _, st := range s.program.Statements {
		if err := e.exec(st); err != nil {
			return err
		}
	}
	return nil
}

// Eval evaluates the expression against r.
func (x *Expression) Eval(r *row.Row) (any, error) {
	return newEnv(r).expr(x.expr)
}

// Test evaluates the expression as a predicate.
func (x *Expression) Test(r *row.Row) (bool, error) {
	v, err := x.Eval(r)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

func (e *env) exec(st *Statement) error {
	if st.Value == nil {
		_, err := e.expr(st.Target)
		return err
	}
	val, err := e.expr(st.Value)
	if err != nil {
		return err
	}
	target := st.Target.assignable()
	if target.Var != nil {
		e.vars[*target.Var] = val
		return nil
	}
	view, err := e.view(target.Row.View)
	if err != nil {
		return err
	}
	key, err := e.key(target.Row.Index.Lo)
	if err != nil {
		return err
	}
	return view.Set(key, val)
}

func (e *env) expr(x *Expr) (any, error) {
	v, err := e.and(x.Left)
	if err != nil {
		return nil, err
	}
	for _, right := range x.Right {
		if Truthy(v) {
			return v, nil
		}
		if v, err = e.and(right); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (e *env) and(x *AndExpr) (any, error) {
	v, err := e.not(x.Left)
	if err != nil {
		return nil, err
	}
	for _, right := range x.Right {
		if !Truthy(v) {
			return v, nil
		}
		if v, err = e.not(right); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (e *env) not(x *NotExpr) (any, error) {
	if x.Negated != nil {
		v, err := e.not(x.Negated)
		if err != nil {
			return nil, err
		}
		return !Truthy(v), nil
	}
	return e.cmp(x.Cmp)
}

func (e *env) cmp(x *CmpExpr) (any, error) {
	left, err := e.add(x.Left)
	if err != nil || x.Op == "" {
		return left, err
	}
	right, err := e.add(x.Right)
	if err != nil {
		return nil, err
	}
	return compare(x.Op, left, right)
}

func (e *env) add(x *AddExpr) (any, error) {
	v, err := e.mul(x.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range x.Rest {
		right, err := e.mul(term.Right)
		if err != nil {
			return nil, err
		}
		if v, err = arith(term.Op, v, right); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (e *env) mul(x *MulExpr) (any, error) {
	v, err := e.unary(x.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range x.Rest {
		right, err := e.unary(term.Right)
		if err != nil {
			return nil, err
		}
		if v, err = arith(term.Op, v, right); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (e *env) unary(x *Unary) (any, error) {
	if x.Primary != nil {
		return e.primary(x.Primary)
	}
	v, err := e.unary(x.Operand)
	if err != nil {
		return nil, err
	}
	return negate(x.Op, v)
}

func (e *env) primary(p *Primary) (any, error) {
	switch {
	case p.Float != nil:
		return float64(*p.Float), nil
	case p.Int != nil:
		return int64(*p.Int), nil
	case p.String != nil:
		return string(*p.String), nil
	case p.Bool != nil:
		return bool(*p.Bool), nil
	case p.None:
		return nil, nil
	case p.Row != nil:
		return e.rowRef(p.Row)
	case p.Call != nil:
		return e.call(p.Call)
	case p.Var != nil:
		v, ok := e.vars[*p.Var]
		if !ok {
			return nil, fmt.Errorf("%w: %s at %s", ErrUndefined, *p.Var, p.Pos)
		}
		return v, nil
	case p.Sub != nil:
		return e.expr(p.Sub)
	}
	return nil, fmt.Errorf("%w: empty operand at %s", ErrSyntax, p.Pos)
}

func (e *env) rowRef(ref *RowRef) (any, error) {
	view, err := e.view(ref.View)
	if err != nil {
		return nil, err
	}
	if ref.Index.Slice != nil {
		lo, err := e.bound(ref.Index.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := e.bound(ref.Index.Slice.Hi)
		if err != nil {
			return nil, err
		}
		return view.Slice(lo, hi)
	}
	key, err := e.key(ref.Index.Lo)
	if err != nil {
		return nil, err
	}
	return view.Get(key)
}

func (e *env) view(name string) (row.View, error) {
	switch name {
	case "":
		return e.row.Raw(), nil
	case "str":
		return e.row.AsString(), nil
	case "int":
		return e.row.AsInteger(), nil
	case "float":
		return e.row.AsFloat(), nil
	default:
		return row.View{}, fmt.Errorf("%w: row view %q", ErrUndefined, name)
	}
}

func (e *env) key(x *Expr) (row.Key, error) {
	if x == nil {
		return row.Key{}, fmt.Errorf("%w: missing row index", ErrSyntax)
	}
	v, err := e.expr(x)
	if err != nil {
		return row.Key{}, err
	}
	switch k := v.(type) {
	case int64:
		return row.Index(int(k)), nil
	case string:
		return row.Name(k), nil
	default:
		return row.Key{}, fmt.Errorf("%w: row index must be int or str, not %s", ErrType, typeName(v))
	}
}

func (e *env) bound(x *Expr) (*int, error) {
	if x == nil {
		return nil, nil
	}
	v, err := e.expr(x)
	if err != nil {
		return nil, err
	}
	i, ok := v.(int64)
	if !ok {
		return nil, fmt.Errorf("%w: slice bound must be int, not %s", ErrType, typeName(v))
	}
	b := int(i)
	return &b, nil
}
