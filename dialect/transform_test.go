package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		autoQuote  bool
		code       string
		newHeaders []string
	}{
		{
			name:      "increment in place",
			input:     "i[0]=i[0]+1",
			autoQuote: true,
			code:      "row[0] = row.int[0]+1",
		},
		{
			name:       "append copies a named column",
			input:      "s[+label]=s[a]",
			autoQuote:  true,
			code:       `row["label"] = row.str["a"]`,
			newHeaders: []string{"label"},
		},
		{
			name:       "unlabeled appends are numbered",
			input:      "s[+]=1; f[+]=2",
			autoQuote:  true,
			code:       `row["_1"] = 1;row["_2"] = 2`,
			newHeaders: []string{"_1", "_2"},
		},
		{
			name:       "numbering counts labeled appends",
			input:      "x[+total]=0; x[+]=1",
			autoQuote:  true,
			code:       `row["total"] = 0;row["_2"] = 1`,
			newHeaders: []string{"total", "_2"},
		},
		{
			name:      "ambiguous name without auto quote",
			input:     "s[0]=i[n]",
			autoQuote: false,
			code:      "row[0] = row.int[n]",
		},
		{
			name:      "trailing accessor is read",
			input:     "x[1] = f[-1]",
			autoQuote: true,
			code:      "row[1] = row.float[-1]",
		},
		{
			name:      "host variable assignment",
			input:     "x = i[0]; s[1] = x",
			autoQuote: true,
			code:      "x=row.int[0];row[1] = x",
		},
		{
			name:      "statement of reads only",
			input:     "s[0] + s[1]",
			autoQuote: true,
			code:      "row.str[0]+row.str[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompiler(Options{AutoQuote: tt.autoQuote})
			res, err := c.Compile(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.newHeaders, res.NewHeaders)
		})
	}
}

func TestCompileCompoundAssignment(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"i[0] += 5", "row[0] = row.int[0] + (5)"},
		{"f[1] -= 2", "row[1] = row.float[1] - (2)"},
		{"i[2] *= 1+1", "row[2] = row.int[2] * (1+1)"},
		{"f[a] /= 4", `row["a"] = row.float["a"] / (4)`},
		{"i[0] += 1; i[1] -= 1", "row[0] = row.int[0] + (1);row[1] = row.int[1] - (1)"},
	}

	c := NewCompiler(Options{AutoQuote: true})
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := c.Compile(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.code, res.Code)
		})
	}
}

func TestCompileFilter(t *testing.T) {
	c := NewCompiler(Options{AutoQuote: true})

	code, err := c.CompileFilter("i[1]>2")
	require.NoError(t, err)
	assert.Equal(t, "row.int[1]>2", code)

	code, err = c.CompileFilter(`s[name] == "bob" and i[0] >= 3`)
	require.NoError(t, err)
	assert.Equal(t, `row.str["name"]=="bob" and row.int[0]>=3`, code)

	_, err = c.CompileFilter("s[+]")
	assert.True(t, errors.Is(err, ErrUnsupportedAccessor))
}

func TestCompileFilterKeepsAssignmentText(t *testing.T) {
	c := NewCompiler(Options{AutoQuote: true})
	code, err := c.CompileFilter("i[0]=1")
	require.NoError(t, err)
	assert.Equal(t, "row.int[0]=1", code)
}

func TestAssignmentState(t *testing.T) {
	s := newAssignmentState()
	assert.True(t, s.atLvalue)

	_, ok := s.consume()
	assert.False(t, ok)

	s.set(FieldAccess{Cast: AsInteger, Ref: "0"})
	got, ok := s.peek()
	require.True(t, ok)
	assert.Equal(t, "0", got.Ref)

	got, ok = s.consume()
	require.True(t, ok)
	assert.Equal(t, AsInteger, got.Cast)

	_, ok = s.consume()
	assert.False(t, ok, "pending accessor must be consumed once")
}
