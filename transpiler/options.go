// Package transpiler compiles the filter, statement and selection stages of a
// run into one per-line program and drives it over a stream of lines.
package transpiler

import "github.com/satishbabariya/csv-eval/runtime/row"

// Options describes one run.
type Options struct {
	// Statement is the main dialect statement. Empty means rows pass through
	// unchanged.
	Statement string
	// PreFilter drops lines before Statement runs.
	PreFilter string
	// PostFilter drops lines after Statement has run.
	PostFilter string
	// Select is a comma separated list of output selectors. Empty prints the
	// whole row.
	Select string

	AutoQuote   bool
	HasHeader   bool
	PrintHeader bool
	Delimiter   string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		AutoQuote:   true,
		HasHeader:   true,
		PrintHeader: true,
		Delimiter:   row.DefaultDelimiter,
	}
}

func (o Options) delimiter() string {
	if o.Delimiter == "" {
		return row.DefaultDelimiter
	}
	return o.Delimiter
}
