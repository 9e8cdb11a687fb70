package row

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerRow(t *testing.T, header string, extra ...string) *Row {
	t.Helper()
	r := Parse(header, NewLayout(extra, ","))
	require.NoError(t, r.RegisterHeader())
	return r
}

func TestRegisterHeader(t *testing.T) {
	r := headerRow(t, "a,b,c", "label", "_2")

	assert.Equal(t, []string{"a", "b", "c", "", ""}, r.Cells())
	for name, want := range map[string]int{"a": 0, "b": 1, "c": 2, "label": 3, "_2": 4} {
		pos, ok := r.Layout().Position(name)
		require.True(t, ok, name)
		assert.Equal(t, want, pos, name)
	}

	err := r.RegisterHeader()
	assert.True(t, errors.Is(err, ErrHeaderRegistered))
}

func TestGetByNameMatchesIndex(t *testing.T) {
	header := headerRow(t, "a,b,c")
	r := Parse("1,2,3", header.Layout())

	byName, err := r.Get(Name("b"))
	require.NoError(t, err)
	byIndex, err := r.Get(Index(1))
	require.NoError(t, err)
	assert.Equal(t, byIndex, byName)
	assert.Equal(t, "2", byName)
}

func TestGetErrors(t *testing.T) {
	header := headerRow(t, "a,b,c")
	r := Parse("1,2,3", header.Layout())

	_, err := r.Get(Name("missing"))
	assert.True(t, errors.Is(err, ErrUnknownHeader))

	_, err = r.Get(Index(3))
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = r.Get(Index(-4))
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	last, err := r.Get(Index(-1))
	require.NoError(t, err)
	assert.Equal(t, "3", last)
}

func TestSetIndexAtEndAppendsOneCell(t *testing.T) {
	r := Parse("1,2,3", nil)

	require.NoError(t, r.Set(Index(3), "4"))
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, "1,2,3,4", r.String())

	err := r.Set(Index(5), "x")
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Equal(t, 4, r.Len(), "failed set must not grow the row")
}

func TestSetNamePadsRow(t *testing.T) {
	header := headerRow(t, "a,b,c", "x", "y")
	r := Parse("1,2,3", header.Layout())

	require.NoError(t, r.Set(Name("y"), 9))
	assert.Equal(t, []string{"1", "2", "3", "", "9"}, r.Cells())

	v, err := r.Get(Name("y"))
	require.NoError(t, err)
	assert.Equal(t, "9", v)
}

func TestSetStoresStringCoercion(t *testing.T) {
	r := Parse("a,b,c", nil)
	require.NoError(t, r.AsInteger().Set(Index(0), int64(7)))
	require.NoError(t, r.AsFloat().Set(Index(1), 2.5))
	require.NoError(t, r.Set(Index(2), true))
	assert.Equal(t, "7,2.5,true", r.String())

	err := r.Set(Index(0), []any{"x"})
	assert.True(t, errors.Is(err, ErrCast))
}

func TestTypedViews(t *testing.T) {
	r := Parse("12, 3.5 ,abc", nil)

	v, err := r.AsInteger().Get(Index(0))
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	v, err = r.AsFloat().Get(Index(1))
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = r.AsString().Get(Index(2))
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	_, err = r.AsInteger().Get(Index(2))
	assert.True(t, errors.Is(err, ErrCast))

	_, err = r.AsInteger().Get(Index(1))
	assert.True(t, errors.Is(err, ErrCast), "3.5 is not an integer")
}

func TestCompoundUpdateThroughViews(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{"+=", "12"},
		{"-=", "8"},
		{"*=", "20"},
		{"/=", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			r := Parse("10", nil)
			cur, err := r.AsFloat().Get(Index(0))
			require.NoError(t, err)

			x := cur.(float64)
			switch tt.op {
			case "+=":
				x += 2
			case "-=":
				x -= 2
			case "*=":
				x *= 2
			case "/=":
				x /= 2
			}
			require.NoError(t, r.Set(Index(0), x))
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestSlice(t *testing.T) {
	r := Parse("a,b,c,d", nil)
	ptr := func(i int) *int { return &i }

	assert.Equal(t, []string{"d"}, r.Slice(ptr(-1), nil))
	assert.Equal(t, []string{"b", "c"}, r.Slice(ptr(1), ptr(3)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.Slice(nil, nil))
	assert.Empty(t, r.Slice(ptr(3), ptr(1)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.Slice(ptr(-10), ptr(10)))

	vals, err := Parse("1,2,3", nil).AsInteger().Slice(ptr(1), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(3)}, vals)
}

func TestHeaderlessNames(t *testing.T) {
	layout := NewLayout([]string{"total"}, ",")
	r := Parse("1,2,3", layout)

	require.NoError(t, r.Set(Name("total"), 6))
	assert.Equal(t, "1,2,3,6", r.String())

	v, err := r.AsInteger().Get(Name("total"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), v)

	_, err = r.Get(Name("a"))
	assert.True(t, errors.Is(err, ErrMissingHeaderMode))

	other := Parse("1,2", layout)
	_, err = other.Get(Name("total"))
	assert.True(t, errors.Is(err, ErrIndexOutOfRange), "extra column not yet written")
}

func TestCustomDelimiter(t *testing.T) {
	r := Parse("a|b", NewLayout(nil, "|"))
	assert.Equal(t, 2, r.Len())
	require.NoError(t, r.Set(Index(2), "c"))
	assert.Equal(t, "a|b|c", r.String())
}
