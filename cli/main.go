package main

import (
	"os"

	"github.com/satishbabariya/csv-eval/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
