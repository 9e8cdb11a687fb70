package commands

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/csv-eval/cli/internal/config"
	"github.com/satishbabariya/csv-eval/cli/internal/ui"
)

func newConfigCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage csv-eval defaults",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(o))
	return cmd
}

type configInitOptions struct {
	yes    bool
	global bool
	force  bool
	path   string
}

func newConfigInitCommand() *cobra.Command {
	o := &configInitOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file",
		Long: `Create a .csv-eval.yaml config file in the current directory, or in
~/.config/csv-eval with --global. Without --yes the values are asked for
interactively.`,
		Args: cobra.NoArgs,
		RunE: o.run,
	}
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Write the defaults without asking")
	cmd.Flags().BoolVar(&o.global, "global", false, "Write the per-user config file")
	cmd.Flags().BoolVar(&o.force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&o.path, "path", "", "Write the config file to this path")
	return cmd
}

func (o *configInitOptions) target() (string, error) {
	switch {
	case o.path != "":
		return o.path, nil
	case o.global:
		return config.DefaultPath()
	default:
		return config.FileName + ".yaml", nil
	}
}

func (o *configInitOptions) run(cmd *cobra.Command, _ []string) error {
	path, err := o.target()
	if err != nil {
		return err
	}
	exists, err := afero.Exists(config.AppFs, path)
	if err != nil {
		return err
	}
	if exists && !o.force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	cfg := config.Default()
	if !o.yes {
		if err := askConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	ui.PrintSuccess(cmd.OutOrStdout(), "Wrote %s", path)
	return nil
}

func askConfig(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name:   "has_header",
			Prompt: &survey.Confirm{Message: "Does input start with a header line?", Default: cfg.HasHeader},
		},
		{
			Name:   "print_header",
			Prompt: &survey.Confirm{Message: "Print the header line?", Default: cfg.PrintHeader},
		},
		{
			Name:   "auto_quote",
			Prompt: &survey.Confirm{Message: "Treat bare names in brackets as header names?", Default: cfg.AutoQuote},
		},
		{
			Name:     "delimiter",
			Prompt:   &survey.Input{Message: "Field delimiter:", Default: cfg.Delimiter},
			Validate: survey.Required,
		},
	}

	answers := struct {
		HasHeader   bool   `survey:"has_header"`
		PrintHeader bool   `survey:"print_header"`
		AutoQuote   bool   `survey:"auto_quote"`
		Delimiter   string `survey:"delimiter"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.HasHeader = answers.HasHeader
	cfg.PrintHeader = answers.PrintHeader
	cfg.AutoQuote = answers.AutoQuote
	cfg.Delimiter = answers.Delimiter
	return nil
}

func newConfigShowCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := o.cfg
			if cfg == nil {
				cfg = config.Default()
			}
			file := cfg.File
			if file == "" {
				file = "(none)"
			}

			out := cmd.OutOrStdout()
			ui.PrintSection(out, "Config: "+file)
			return ui.PrintTable(out, []string{"Key", "Value"}, [][]string{
				{"auto_quote", strconv.FormatBool(cfg.AutoQuote)},
				{"has_header", strconv.FormatBool(cfg.HasHeader)},
				{"print_header", strconv.FormatBool(cfg.PrintHeader)},
				{"delimiter", strconv.Quote(cfg.Delimiter)},
				{"debug", strconv.FormatBool(cfg.Debug)},
				{"required_version", cfg.RequiredVersion},
			})
		},
	}
}
