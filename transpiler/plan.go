package transpiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/csv-eval/dialect"
	"github.com/satishbabariya/csv-eval/internal/debug"
)

// Plan is the generated host code of every stage of a run.
type Plan struct {
	Options Options

	PreFilter  string
	Body       string
	PostFilter string
	// Projection holds one read expression per output selector. Empty means
	// the whole row is printed.
	Projection []string
	// NewHeaders are the columns created by append accessors in Body.
	NewHeaders []string
}

// Transpile compiles the dialect text of every stage in opts.
func Transpile(opts Options) (*Plan, error) {
	compiler := dialect.NewCompiler(dialect.Options{AutoQuote: opts.AutoQuote})
	plan := &Plan{Options: opts}

	if strings.TrimSpace(opts.PreFilter) != "" {
		code, err := compiler.CompileFilter(opts.PreFilter)
		if err != nil {
			return nil, stageError(StagePreFilter, err)
		}
		plan.PreFilter = code
	}

	if strings.TrimSpace(opts.Statement) != "" {
		res, err := compiler.Compile(opts.Statement)
		if err != nil {
			return nil, stageError(StageStatement, err)
		}
		plan.Body = res.Code
		plan.NewHeaders = res.NewHeaders
	}

	if strings.TrimSpace(opts.PostFilter) != "" {
		code, err := compiler.CompileFilter(opts.PostFilter)
		if err != nil {
			return nil, stageError(StagePostFilter, err)
		}
		plan.PostFilter = code
	}

	plan.Projection = projection(opts.Select, opts.AutoQuote)

	debug.Debug("Transpiled plan",
		"pre_filter", plan.PreFilter,
		"body", plan.Body,
		"post_filter", plan.PostFilter,
		"projection", plan.Projection,
		"new_headers", plan.NewHeaders,
	)
	return plan, nil
}

func projection(sel string, autoQuote bool) []string {
	if strings.TrimSpace(sel) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(sel, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if autoQuote {
			s = dialect.QuoteSelector(s)
		}
		out = append(out, fmt.Sprintf("%s[%s]", dialect.RowVar, s))
	}
	return out
}

// Source renders the plan as the program run for every line.
func (p *Plan) Source() string {
	var b strings.Builder
	if p.Options.HasHeader {
		fmt.Fprintf(&b, "# line 1: register header, extra columns %s\n", formatList(p.NewHeaders))
		if p.Options.PrintHeader {
			fmt.Fprintf(&b, "# line 1: emit %s\n", p.output())
		}
	}
	fmt.Fprintf(&b, "%s = split(line, %q)\n", dialect.RowVar, p.Options.delimiter())
	if p.PreFilter != "" {
		fmt.Fprintf(&b, "if not (%s): continue\n", p.PreFilter)
	}
	if p.Body != "" {
		b.WriteString(p.Body)
		b.WriteString("\n")
	}
	if p.PostFilter != "" {
		fmt.Fprintf(&b, "if not (%s): continue\n", p.PostFilter)
	}
	fmt.Fprintf(&b, "emit %s\n", p.output())
	return b.String()
}

// Markdown renders the plan as a markdown document for --explain.
func (p *Plan) Markdown() string {
	var b strings.Builder
	b.WriteString("# csv-eval plan\n\n")
	b.WriteString("| stage | input | generated |\n|---|---|---|\n")
	rows := []struct {
		stage   Stage
		in, out string
	}{
		{StagePreFilter, p.Options.PreFilter, p.PreFilter},
		{StageStatement, p.Options.Statement, p.Body},
		{StagePostFilter, p.Options.PostFilter, p.PostFilter},
		{StageSelect, p.Options.Select, strings.Join(p.Projection, ", ")},
	}
	for _, r := range rows {
		if r.out == "" {
			continue
		}
		fmt.Fprintf(&b, "| %s | `%s` | `%s` |\n", r.stage, cell(r.in), cell(r.out))
	}
	if len(p.NewHeaders) > 0 {
		fmt.Fprintf(&b, "\nNew columns: %s\n", formatList(p.NewHeaders))
	}
	b.WriteString("\n## Program\n\n```text\n")
	b.WriteString(p.Source())
	b.WriteString("```\n")
	return b.String()
}

func (p *Plan) output() string {
	if len(p.Projection) == 0 {
		return dialect.RowVar
	}
	return strings.Join(p.Projection, ", ")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
