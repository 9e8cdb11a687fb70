// Package row implements the per-line cell buffer that generated statements
// read and write. Cells are addressed by position or, once a header has been
// registered, by column name.
package row

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Row is the mutable cell buffer of one input line.
type Row struct {
	cells  []string
	layout *Layout
	// base is the number of cells the line had when it was read.
	base int
}

// New creates a row over cells. A nil layout means no header and no extra
// columns.
func New(cells []string, layout *Layout) *Row {
	if layout == nil {
		layout = NewLayout(nil, "")
	}
	return &Row{
		cells:  cells,
		layout: layout,
		base:   len(cells),
	}
}

// Parse splits a raw line on the layout delimiter.
func Parse(line string, layout *Layout) *Row {
	if layout == nil {
		layout = NewLayout(nil, "")
	}
	return New(strings.Split(line, layout.Delimiter()), layout)
}

// RegisterHeader records this row's cells as the header names of the run,
// followed by the layout's extra columns, and appends one empty cell per
// extra column.
func (r *Row) RegisterHeader() error {
	if err := r.layout.register(r.cells[:r.base]); err != nil {
		return err
	}
	for range r.layout.extra {
		r.cells = append(r.cells, "")
	}
	return nil
}

// Layout returns the layout shared with the other rows of the run.
func (r *Row) Layout() *Layout {
	return r.layout
}

// Len returns the number of cells.
func (r *Row) Len() int {
	return len(r.cells)
}

// Cells returns a copy of the cells.
func (r *Row) Cells() []string {
	return slices.Clone(r.cells)
}

// Get returns the raw cell at k.
func (r *Row) Get(k Key) (string, error) {
	pos, err := r.readPosition(k)
	if err != nil {
		return "", err
	}
	return r.cells[pos], nil
}

// Set stores the string form of v at k. A positional key equal to the row
// length appends a cell; a name key pads the row up to its position.
func (r *Row) Set(k Key, v any) error {
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Errorf("%w: cannot store %T at %s", ErrCast, v, k)
	}
	pos, err := r.writePosition(k)
	if err != nil {
		return err
	}
	r.cells[pos] = s
	return nil
}

// Slice returns the cells in [lo:hi). Nil bounds mean the start or end of
// the row; negative bounds count from the end; bounds are clamped.
func (r *Row) Slice(lo, hi *int) []string {
	start, end := sliceBounds(len(r.cells), lo, hi)
	return slices.Clone(r.cells[start:end])
}

// String serializes the row with the layout delimiter.
func (r *Row) String() string {
	return strings.Join(r.cells, r.layout.delimiter)
}

func (r *Row) readPosition(k Key) (int, error) {
	if k.named {
		pos, err := r.layout.resolve(k.name, r.base)
		if err != nil {
			return 0, err
		}
		if pos >= len(r.cells) {
			return 0, fmt.Errorf("%w: column %s is at %d but the row has %d cells", ErrIndexOutOfRange, k, pos, len(r.cells))
		}
		return pos, nil
	}
	i := k.index
	if i < 0 {
		i += len(r.cells)
	}
	if i < 0 || i >= len(r.cells) {
		return 0, fmt.Errorf("%w: %s (row has %d cells)", ErrIndexOutOfRange, k, len(r.cells))
	}
	return i, nil
}

func (r *Row) writePosition(k Key) (int, error) {
	if k.named {
		pos, err := r.layout.resolve(k.name, r.base)
		if err != nil {
			return 0, err
		}
		for pos >= len(r.cells) {
			r.cells = append(r.cells, "")
		}
		return pos, nil
	}
	i := k.index
	if i < 0 {
		i += len(r.cells)
		if i < 0 {
			return 0, fmt.Errorf("%w: %s (row has %d cells)", ErrIndexOutOfRange, k, len(r.cells))
		}
	}
	if i == len(r.cells) {
		r.cells = append(r.cells, "")
	}
	if i > len(r.cells)-1 {
		return 0, fmt.Errorf("%w: %s (row has %d cells, only the next position can be appended)", ErrIndexOutOfRange, k, len(r.cells))
	}
	return i, nil
}

func sliceBounds(n int, lo, hi *int) (int, int) {
	start, end := 0, n
	if lo != nil {
		start = clampBound(*lo, n)
	}
	if hi != nil {
		end = clampBound(*hi, n)
	}
	if end < start {
		end = start
	}
	return start, end
}

func clampBound(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}
