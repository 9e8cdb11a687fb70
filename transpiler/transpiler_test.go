package transpiler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/csv-eval/dialect"
	"github.com/satishbabariya/csv-eval/engine"
	"github.com/satishbabariya/csv-eval/runtime/row"
)

func run(t *testing.T, opts Options, input string) string {
	t.Helper()
	plan, err := Transpile(opts)
	require.NoError(t, err)
	runner, err := NewRunner(plan)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runner.Run(context.Background(), strings.NewReader(input), &out))
	return out.String()
}

func withOptions(fn func(*Options)) Options {
	opts := DefaultOptions()
	fn(&opts)
	return opts
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		input string
		want  string
	}{
		{
			name:  "increment first column",
			opts:  withOptions(func(o *Options) { o.Statement = "i[0]=i[0]+1" }),
			input: "a,b,c\n1,2,3\n",
			want:  "a,b,c\n2,2,3\n",
		},
		{
			name:  "new labelled column",
			opts:  withOptions(func(o *Options) { o.Statement = "s[+label]=s[a]" }),
			input: "a,b,c\nx,y,z\n",
			want:  "a,b,c,label\nx,y,z,x\n",
		},
		{
			name: "headerless filter",
			opts: withOptions(func(o *Options) {
				o.HasHeader = false
				o.PreFilter = "i[1]>2"
			}),
			input: "1,2,3\n1,5,3\n",
			want:  "1,5,3\n",
		},
		{
			name:  "compound operators",
			opts:  withOptions(func(o *Options) { o.Statement = "f[0] += 2; i[1] *= 3 + 1; f[2] /= 4" }),
			input: "a,b,c\n10,2,10\n",
			want:  "a,b,c\n12,8,2.5\n",
		},
		{
			name:  "unlabelled columns",
			opts:  withOptions(func(o *Options) { o.Statement = "x[+]=i[a]*2; x[+]=s[b]" }),
			input: "a,b\n3,q\n",
			want:  "a,b,_1,_2\n3,q,6,q\n",
		},
		{
			name: "selection with slice",
			opts: withOptions(func(o *Options) {
				o.Select = "c,0:2"
			}),
			input: "a,b,c\n1,2,3\n",
			want:  "c,a,b\n3,1,2\n",
		},
		{
			name: "selection of new column",
			opts: withOptions(func(o *Options) {
				o.Statement = "i[+sum] = i[a] + i[b]"
				o.Select = "sum"
			}),
			input: "a,b\n1,2\n5,5\n",
			want:  "sum\n3\n10\n",
		},
		{
			name: "header not printed",
			opts: withOptions(func(o *Options) {
				o.PrintHeader = false
				o.Statement = "s[b] = 'x'"
			}),
			input: "a,b\n1,2\n",
			want:  "1,x\n",
		},
		{
			name: "filter after statement",
			opts: withOptions(func(o *Options) {
				o.Statement = "i[n] -= 1"
				o.PostFilter = "i[n] > 0"
			}),
			input: "n\n1\n2\n3\n",
			want:  "n\n1\n2\n",
		},
		{
			name: "name filter with header",
			opts: withOptions(func(o *Options) {
				o.PreFilter = `s[name] == "bob" and i[id] >= 3`
			}),
			input: "id,name\n3,bob\n2,bob\n4,al\n",
			want:  "id,name\n3,bob\n",
		},
		{
			name: "custom delimiter",
			opts: withOptions(func(o *Options) {
				o.Delimiter = "|"
				o.Statement = "x[+]=i[0]+i[1]"
			}),
			input: "a|b\r\n1|2\r\n",
			want:  "a|b|_1\n1|2|3\n",
		},
		{
			name: "headerless append by name",
			opts: withOptions(func(o *Options) {
				o.HasHeader = false
				o.Statement = "x[+total] = i[0] + i[1]"
			}),
			input: "1,2\n3,4\n",
			want:  "1,2,3\n3,4,7\n",
		},
		{
			name:  "no statement passes rows through",
			opts:  DefaultOptions(),
			input: "a\n1\n",
			want:  "a\n1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.opts, tt.input))
		})
	}
}

func TestTranspilePlan(t *testing.T) {
	plan, err := Transpile(withOptions(func(o *Options) {
		o.PreFilter = "i[0] > 1"
		o.Statement = "s[+label] = s[a]"
		o.PostFilter = "s[label] != ''"
		o.Select = "a,label,-1"
	}))
	require.NoError(t, err)

	assert.Equal(t, "row.int[0]>1", plan.PreFilter)
	assert.Equal(t, `row["label"] = row.str["a"]`, plan.Body)
	assert.Equal(t, `row.str["label"]!=''`, plan.PostFilter)
	assert.Equal(t, []string{`row["a"]`, `row["label"]`, `row[-1]`}, plan.Projection)
	assert.Equal(t, []string{"label"}, plan.NewHeaders)

	src := plan.Source()
	assert.Contains(t, src, "if not (row.int[0]>1): continue")
	assert.Contains(t, src, "extra columns [label]")
	assert.Contains(t, plan.Markdown(), "```text")
}

func TestProjectionWithoutAutoQuote(t *testing.T) {
	assert.Equal(t, []string{`row[0]`, `row['a']`, `row[name]`}, projection(" 0, 'a' ,name", false))
	assert.Equal(t, []string{`row[0]`, `row['a']`, `row["name"]`}, projection("0,'a',name", true))
	assert.Nil(t, projection("  ", true))
}

func TestTranspileErrors(t *testing.T) {
	_, err := Transpile(withOptions(func(o *Options) { o.Statement = `s[+"x"] = 1` }))
	assert.True(t, errors.Is(err, dialect.ErrUnsupportedAccessor))

	_, err = Transpile(withOptions(func(o *Options) { o.PreFilter = "s[+x] == 1" }))
	assert.True(t, errors.Is(err, dialect.ErrUnsupportedAccessor))

	plan, err := Transpile(withOptions(func(o *Options) { o.Statement = "i[0] = = 1" }))
	require.NoError(t, err)
	_, err = NewRunner(plan)
	assert.True(t, errors.Is(err, engine.ErrSyntax))
}

func TestLineErrors(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		input string
		line  int
		stage Stage
		want  error
	}{
		{
			name:  "cast failure",
			opts:  withOptions(func(o *Options) { o.Statement = "i[0] += 1" }),
			input: "a\n1\nnope\n",
			line:  3,
			stage: StageStatement,
			want:  row.ErrCast,
		},
		{
			name:  "unknown header",
			opts:  withOptions(func(o *Options) { o.PreFilter = "s[missing] == 'x'" }),
			input: "a\n1\n",
			line:  2,
			stage: StagePreFilter,
			want:  row.ErrUnknownHeader,
		},
		{
			name: "headerless name",
			opts: withOptions(func(o *Options) {
				o.HasHeader = false
				o.Select = "a"
			}),
			input: "1\n",
			line:  1,
			stage: StageSelect,
			want:  row.ErrMissingHeaderMode,
		},
		{
			name:  "write past end",
			opts:  withOptions(func(o *Options) { o.Statement = "s[5] = 'x'" }),
			input: "a\n1\n",
			line:  2,
			stage: StageStatement,
			want:  row.ErrIndexOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Transpile(tt.opts)
			require.NoError(t, err)
			runner, err := NewRunner(plan)
			require.NoError(t, err)

			var out bytes.Buffer
			err = runner.Run(context.Background(), strings.NewReader(tt.input), &out)

			var lineErr *LineError
			require.True(t, errors.As(err, &lineErr), "got %v", err)
			assert.Equal(t, tt.line, lineErr.Line)
			assert.Equal(t, tt.stage, lineErr.Stage)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRunKeepsEarlierOutput(t *testing.T) {
	plan, err := Transpile(withOptions(func(o *Options) { o.Statement = "i[0] += 1" }))
	require.NoError(t, err)
	runner, err := NewRunner(plan)
	require.NoError(t, err)

	var out bytes.Buffer
	err = runner.Run(context.Background(), strings.NewReader("a\n1\nx\n3\n"), &out)
	require.Error(t, err)
	assert.Equal(t, "a\n2\n", out.String())
}

func TestRunCancelled(t *testing.T) {
	plan, err := Transpile(DefaultOptions())
	require.NoError(t, err)
	runner, err := NewRunner(plan)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err = runner.Run(ctx, strings.NewReader("a\n1\n"), &out)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, out.String())
}

func TestResetStartsNewStream(t *testing.T) {
	plan, err := Transpile(withOptions(func(o *Options) { o.Statement = "x[+n] = 1" }))
	require.NoError(t, err)
	runner, err := NewRunner(plan)
	require.NoError(t, err)

	for range [2]struct{}{} {
		runner.Reset()
		var out bytes.Buffer
		require.NoError(t, runner.Run(context.Background(), strings.NewReader("a\n5\n"), &out))
		assert.Equal(t, "a,n\n5,1\n", out.String())
	}
}

func TestNextStreamSkipsRepeatedHeader(t *testing.T) {
	plan, err := Transpile(withOptions(func(o *Options) { o.Statement = "i[b] *= 10" }))
	require.NoError(t, err)
	runner, err := NewRunner(plan)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runner.Run(context.Background(), strings.NewReader("a,b\n1,2\n"), &out))
	runner.NextStream()
	require.NoError(t, runner.Run(context.Background(), strings.NewReader("b,a\n3,4\n"), &out))
	assert.Equal(t, "a,b\n1,20\n30,4\n", out.String())
}
