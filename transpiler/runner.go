package transpiler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"

	"github.com/satishbabariya/csv-eval/engine"
	"github.com/satishbabariya/csv-eval/internal/debug"
	"github.com/satishbabariya/csv-eval/runtime/row"
)

// maxLineSize bounds a single input line.
const maxLineSize = 16 * 1024 * 1024

// Runner executes a Plan over lines. A Runner is not safe for concurrent use.
type Runner struct {
	plan       *Plan
	pre        *engine.Expression
	body       *engine.Script
	post       *engine.Expression
	projection []*engine.Expression

	layout *row.Layout
	line   int
	// quiet suppresses header output for streams after the first.
	quiet bool
}

// NewRunner compiles the generated code of plan.
func NewRunner(plan *Plan) (*Runner, error) {
	r := &Runner{plan: plan}

	var err error
	if plan.PreFilter != "" {
		if r.pre, err = engine.CompileExpr(plan.PreFilter); err != nil {
			return nil, stageError(StagePreFilter, err)
		}
	}
	if plan.Body != "" {
		if r.body, err = engine.Compile(plan.Body); err != nil {
			return nil, stageError(StageStatement, err)
		}
	}
	if plan.PostFilter != "" {
		if r.post, err = engine.CompileExpr(plan.PostFilter); err != nil {
			return nil, stageError(StagePostFilter, err)
		}
	}
	for _, code := range plan.Projection {
		x, err := engine.CompileExpr(code)
		if err != nil {
			return nil, stageError(StageSelect, err)
		}
		r.projection = append(r.projection, x)
	}

	r.Reset()
	return r, nil
}

// Reset forgets the registered header so the next line is treated as the
// first line of a new stream.
func (r *Runner) Reset() {
	r.layout = row.NewLayout(r.plan.NewHeaders, r.plan.Options.delimiter())
	r.line = 0
	r.quiet = false
}

// NextStream is Reset for a continuation of the same output: the header of
// the next stream is registered but not printed again.
func (r *Runner) NextStream() {
	r.Reset()
	r.quiet = true
}

// Run processes every line of in and writes the results to out. The context
// is checked between lines. Lines written before a failure stay written.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (err error) {
	w := bufio.NewWriter(out)
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, emit, err := r.Process(scanner.Text())
		if err != nil {
			return err
		}
		if !emit {
			continue
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Process runs the plan on one raw line. It reports the output text and
// whether the line is emitted at all.
func (r *Runner) Process(raw string) (string, bool, error) {
	r.line++
	cur := row.Parse(strings.TrimSuffix(raw, "\r"), r.layout)

	if r.plan.Options.HasHeader && r.line == 1 {
		return r.header(cur)
	}

	if r.pre != nil {
		ok, err := r.pre.Test(cur)
		if err != nil {
			return "", false, r.fail(StagePreFilter, err)
		}
		if !ok {
			debug.Debug("Line dropped", "line", r.line, "stage", StagePreFilter)
			return "", false, nil
		}
	}

	if r.body != nil {
		if err := r.body.Exec(cur); err != nil {
			return "", false, r.fail(StageStatement, err)
		}
	}

	if r.post != nil {
		ok, err := r.post.Test(cur)
		if err != nil {
			return "", false, r.fail(StagePostFilter, err)
		}
		if !ok {
			debug.Debug("Line dropped", "line", r.line, "stage", StagePostFilter)
			return "", false, nil
		}
	}

	text, err := r.output(cur)
	if err != nil {
		return "", false, r.fail(StageSelect, err)
	}
	return text, true, nil
}

func (r *Runner) header(cur *row.Row) (string, bool, error) {
	if err := cur.RegisterHeader(); err != nil {
		return "", false, r.fail(StageHeader, err)
	}
	for _, name := range r.plan.NewHeaders {
		if err := cur.Set(row.Name(name), name); err != nil {
			return "", false, r.fail(StageHeader, err)
		}
	}
	debug.Debug("Registered header", "columns", cur.Cells())

	if !r.plan.Options.PrintHeader || r.quiet {
		return "", false, nil
	}
	text, err := r.output(cur)
	if err != nil {
		return "", false, r.fail(StageSelect, err)
	}
	return text, true, nil
}

// output serializes the whole row, or the projection with slice results
// flattened in place.
func (r *Runner) output(cur *row.Row) (string, error) {
	if len(r.projection) == 0 {
		return cur.String(), nil
	}
	var fields []string
	for _, x := range r.projection {
		v, err := x.Eval(cur)
		if err != nil {
			return "", err
		}
		vals, ok := v.([]any)
		if !ok {
			vals = []any{v}
		}
		for _, val := range vals {
			s, err := cast.ToStringE(val)
			if err != nil {
				return "", fmt.Errorf("%w: %v", engine.ErrType, err)
			}
			fields = append(fields, s)
		}
	}
	return strings.Join(fields, r.layout.Delimiter()), nil
}

func (r *Runner) fail(stage Stage, err error) error {
	return &LineError{Line: r.line, Stage: stage, Err: err}
}
