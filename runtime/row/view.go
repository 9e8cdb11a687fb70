package row

import (
	"fmt"
	"strconv"
	"strings"
)

// View reads a row through a conversion. Writes go to the underlying row
// unchanged, so every view shares the row's resolution and growth rules.
type View struct {
	row  *Row
	read func(string) (any, error)
}

// Raw returns a view that reads cells as strings without conversion.
func (r *Row) Raw() View {
	return View{row: r, read: func(s string) (any, error) { return s, nil }}
}

// AsString returns the string view.
func (r *Row) AsString() View {
	return r.Raw()
}

// AsInteger returns a view that parses cells as base-10 integers.
func (r *Row) AsInteger() View {
	return View{row: r, read: func(s string) (any, error) {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}}
}

// AsFloat returns a view that parses cells as floats.
func (r *Row) AsFloat() View {
	return View{row: r, read: func(s string) (any, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}}
}

// Get reads the cell at k through the view's conversion.
func (v View) Get(k Key) (any, error) {
	s, err := v.row.Get(k)
	if err != nil {
		return nil, err
	}
	return v.convert(k.String(), s)
}

// Set stores the string form of val at k.
func (v View) Set(k Key, val any) error {
	return v.row.Set(k, val)
}

// Slice reads the cells in [lo:hi) through the view's conversion.
func (v View) Slice(lo, hi *int) ([]any, error) {
	cells := v.row.Slice(lo, hi)
	out := make([]any, len(cells))
	for i, s := range cells {
		val, err := v.convert("slice", s)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func (v View) convert(ref, s string) (any, error) {
	val, err := v.read(s)
	if err != nil {
		return nil, fmt.Errorf("%w: cell %s value %q: %v", ErrCast, ref, s, err)
	}
	return val, nil
}
