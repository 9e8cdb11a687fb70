package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/csv-eval/cli/internal/config"
	"github.com/satishbabariya/csv-eval/cli/internal/ui"
	"github.com/satishbabariya/csv-eval/cli/internal/watch"
	"github.com/satishbabariya/csv-eval/internal/debug"
	"github.com/satishbabariya/csv-eval/transpiler"
)

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	opts := o.transpilerOptions(cmd, args)
	debug.Debug("Input statement", "statement", opts.Statement, "filter", opts.PreFilter,
		"after_filter", opts.PostFilter, "select", opts.Select)

	plan, err := transpiler.Transpile(opts)
	if err != nil {
		return err
	}
	runner, err := transpiler.NewRunner(plan)
	if err != nil {
		return err
	}

	if o.explain {
		return ui.PrintMarkdown(cmd.OutOrStdout(), plan.Markdown())
	}
	if o.watch {
		return o.runWatch(cmd, runner)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if len(o.inputs) == 0 {
		in := cmd.InOrStdin()
		if ui.IsTerminal(in) {
			_ = cmd.Usage()
			return ErrNoInput
		}
		return runner.Run(ctx, in, out)
	}

	for i, path := range o.inputs {
		if i > 0 {
			runner.NextStream()
		}
		if err := runFile(ctx, runner, path, out); err != nil {
			return err
		}
	}
	return nil
}

// transpilerOptions merges the loaded config with the flags given on the
// command line.
func (o *rootOptions) transpilerOptions(cmd *cobra.Command, args []string) transpiler.Options {
	cfg := o.cfg
	if cfg == nil {
		cfg = config.Default()
	}

	opts := transpiler.Options{
		PreFilter:   o.filter,
		PostFilter:  o.afterFilter,
		Select:      o.selection,
		AutoQuote:   cfg.AutoQuote && !o.noAutoQuote,
		HasHeader:   cfg.HasHeader && !o.noHeader,
		PrintHeader: cfg.PrintHeader && !o.noPrintHeader,
		Delimiter:   cfg.Delimiter,
	}
	if len(args) > 0 {
		opts.Statement = args[0]
	}
	if cmd.Flags().Changed("delimiter") {
		opts.Delimiter = o.delimiter
	}
	opts.Delimiter = unescapeDelimiter(opts.Delimiter)
	return opts
}

func unescapeDelimiter(d string) string {
	switch d {
	case `\t`, "tab":
		return "\t"
	case "":
		return ","
	}
	return d
}

func runFile(ctx context.Context, runner *transpiler.Runner, path string, out io.Writer) error {
	f, err := config.AppFs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	if err := runner.Run(ctx, f, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (o *rootOptions) runWatch(cmd *cobra.Command, runner *transpiler.Runner) error {
	if len(o.inputs) != 1 {
		return ErrWatchInput
	}
	path := o.inputs[0]
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	callback := func() error {
		runner.Reset()
		return runFile(ctx, runner, path, cmd.OutOrStdout())
	}

	w, err := watch.NewWatcher(path, callback)
	if err != nil {
		return err
	}
	w.OnError = func(err error) {
		ui.PrintError(stderr, "%v", err)
	}

	ui.PrintInfo(stderr, "Watching %s for changes... (Press Ctrl+C to stop)", path)
	return w.Run(ctx)
}
