package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/csv-eval/cli/internal/ui"
	"github.com/satishbabariya/csv-eval/dialect"
)

func newTokensCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <statement>",
		Short: "Show how a statement is tokenized",
		Long: `Tokenize a statement and print one row per token with the code each
accessor resolves to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			autoQuote := o.cfg == nil || o.cfg.AutoQuote
			return printTokens(cmd, args[0], autoQuote)
		},
	}
}

func printTokens(cmd *cobra.Command, src string, autoQuote bool) error {
	var rows [][]string
	for _, tok := range dialect.Tokenize(src) {
		rows = append(rows, []string{
			strconv.Itoa(tok.Pos),
			tok.Kind.String(),
			tok.Lexeme,
			resolvesTo(tok, autoQuote),
		})
	}
	if len(rows) == 0 {
		ui.PrintInfo(cmd.OutOrStdout(), "no tokens")
		return nil
	}
	return ui.PrintTable(cmd.OutOrStdout(), []string{"Pos", "Kind", "Lexeme", "Read"}, rows)
}

func resolvesTo(tok dialect.Token, autoQuote bool) string {
	switch tok.Kind {
	case dialect.Accessor, dialect.AccessorAmbiguous:
		acc, err := dialect.Resolve(tok, autoQuote)
		if err != nil {
			return err.Error()
		}
		return acc.Read()
	default:
		return ""
	}
}
