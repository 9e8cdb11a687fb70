package row

import (
	"fmt"
	"slices"
)

// DefaultDelimiter separates cells on input and output lines.
const DefaultDelimiter = ","

// Layout is the column description shared by every row of a run: the
// compile-time extra headers and, once line 1 has been registered, the
// name to position mapping. It is written once and read-only afterwards.
type Layout struct {
	index     map[string]int
	extra     []string
	delimiter string
}

// NewLayout creates a layout for the columns a compiled statement appends.
func NewLayout(extra []string, delimiter string) *Layout {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &Layout{
		extra:     slices.Clone(extra),
		delimiter: delimiter,
	}
}

// HasHeader reports whether a header row has been registered.
func (l *Layout) HasHeader() bool {
	return l.index != nil
}

// Extra returns the appended column names in order.
func (l *Layout) Extra() []string {
	return slices.Clone(l.extra)
}

// Delimiter returns the cell separator.
func (l *Layout) Delimiter() string {
	return l.delimiter
}

// Position returns the registered position of a header name.
func (l *Layout) Position(name string) (int, bool) {
	pos, ok := l.index[name]
	return pos, ok
}

func (l *Layout) register(names []string) error {
	if l.index != nil {
		return ErrHeaderRegistered
	}
	index := make(map[string]int, len(names)+len(l.extra))
	for i, name := range names {
		index[name] = i
	}
	for i, name := range l.extra {
		index[name] = len(names) + i
	}
	l.index = index
	return nil
}

// resolve maps a header name to a position. Without a registered header only
// extra columns can be named; they follow the row's original base cells.
func (l *Layout) resolve(name string, base int) (int, error) {
	if l.index != nil {
		pos, ok := l.index[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownHeader, name)
		}
		return pos, nil
	}
	if i := slices.Index(l.extra, name); i >= 0 {
		return base + i, nil
	}
	return 0, fmt.Errorf("%w: column %q cannot be referenced by name", ErrMissingHeaderMode, name)
}
