// Package commands implements the csv-eval command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/csv-eval/cli/internal/config"
	"github.com/satishbabariya/csv-eval/cli/internal/ui"
	"github.com/satishbabariya/csv-eval/cli/internal/version"
	"github.com/satishbabariya/csv-eval/internal/debug"
)

var (
	// ErrNoInput is returned when stdin is a terminal and no input file is given.
	ErrNoInput = errors.New("there was no stdin for input")
	// ErrWatchInput is returned when --watch is used without exactly one input file.
	ErrWatchInput = errors.New("--watch needs exactly one --input file")
)

// rootOptions holds the flags of the root command and the loaded config.
type rootOptions struct {
	configFile string
	debug      bool

	selection     string
	filter        string
	afterFilter   string
	delimiter     string
	inputs        []string
	noHeader      bool
	noAutoQuote   bool
	noPrintHeader bool
	explain       bool
	watch         bool

	cfg *config.Config
}

// NewRootCommand builds the csv-eval command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "csv-eval [statement]",
		Short: "Evaluate statements against every line of a CSV stream",
		Long: `csv-eval runs a small statement language over each line of a
delimited text stream and prints the updated lines.

Fields are addressed with a cast prefix and a bracket:
  s[...]  string     i[...]  integer
  f[...]  float      x[...]  raw value
The bracket holds a position (0, -1), a slice (1:3) or a header name.
s[+name] or s[+] appends a new column.`,
		Example: `  cat data.csv | csv-eval 'i[0] = i[0] + 1'
  cat data.csv | csv-eval 's[+label] = s[name]' -s label,0
  cat data.csv | csv-eval -n -f 'i[1] > 2'
  csv-eval -i data.csv --explain 'f[price] *= 1.2'`,
		Args:              cobra.MaximumNArgs(1),
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
		RunE:              o.run,
	}
	cmd.SetVersionTemplate(version.Get().String() + "\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "Config file (default searches ./.csv-eval.yaml, ~/.csv-eval.yaml, ~/.config/csv-eval)")
	pf.BoolVar(&o.debug, "debug", false, "Write debug logs to stderr")

	f := cmd.Flags()
	f.StringVarP(&o.selection, "select", "s", "", "Comma separated fields to print instead of the whole line")
	f.BoolVarP(&o.noHeader, "no-header", "n", false, "Input has no header line")
	f.StringVarP(&o.filter, "filter", "f", "", "Only process lines matching this condition")
	f.StringVar(&o.afterFilter, "after-filter", "", "Only print lines matching this condition after the statement ran")
	f.BoolVarP(&o.explain, "explain", "e", false, "Print the generated program instead of running it")
	f.BoolVar(&o.noAutoQuote, "no-auto-quote", false, "Do not quote bare header names inside brackets")
	f.BoolVar(&o.noPrintHeader, "no-print-header", false, "Do not print the header line")
	f.StringVarP(&o.delimiter, "delimiter", "d", ",", "Field delimiter")
	f.StringSliceVarP(&o.inputs, "input", "i", nil, "Input file (repeatable, default stdin)")
	f.BoolVar(&o.watch, "watch", false, "Re-run whenever the input file changes")

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newTokensCommand(o))
	cmd.AddCommand(newConfigCommand(o))

	return cmd
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(cmd.ErrOrStderr(), "%v", err)
		return err
	}
	return nil
}

// setup loads the config and applies the ambient settings shared by every
// subcommand.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	debug.InitWriter(o.debug, cmd.ErrOrStderr())

	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	if cfg.Debug && !o.debug {
		debug.InitWriter(true, cmd.ErrOrStderr())
	}
	if err := version.CheckRequired(cfg.RequiredVersion); err != nil {
		if cfg.File != "" {
			return fmt.Errorf("%s: %w", cfg.File, err)
		}
		return err
	}
	return nil
}
