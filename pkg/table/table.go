// Package table renders column-oriented data as a framed terminal table.
//
// A Table is built once and rendered once per command: declare columns,
// optionally choose a view and group-by columns, add rows, then call Show.
// Rendering honors column colors and per-cell overrides, groups and
// collapses rows, sizes columns to their content and fits the result into
// the terminal width (or a fixed width in pastable mode).
package table

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/maruel/natural"

	"github.com/oakwood-commons/ctltable/pkg/terminal"
)

// MaxAutoWidth caps the width derived from the terminal.
const MaxAutoWidth = 110

// PastableWidth is the fixed width used in pastable mode.
const PastableWidth = 78

// LessFunc orders two group-key texts.
type LessFunc func(a, b string) bool

// NaturalLess orders embedded numbers by value, so "node2" sorts before "node10".
func NaturalLess(a, b string) bool { return natural.Less(a, b) }

// LexicalLess is plain byte-wise string ordering.
func LexicalLess(a, b string) bool { return a < b }

// Options configures a Table. The zero value renders ASCII without colors,
// sized to the terminal, to os.Stdout.
type Options struct {
	// Colors enables column colors and cell overrides.
	Colors bool

	// Unicode selects box-drawing glyphs. The host decides this from its
	// locale and output stream; the table never inspects the environment.
	Unicode bool

	// Pastable forces ASCII glyphs, no colors and PastableWidth.
	Pastable bool

	// Width fixes the render width. 0 derives it from Size, capped at MaxAutoWidth.
	Width int

	// Out receives the rendered lines. Defaults to os.Stdout; never closed.
	Out io.Writer

	// Size reports the terminal geometry. Defaults to terminal.NewProbe().
	Size terminal.SizeProvider

	// Less orders text group keys. Defaults to NaturalLess.
	Less LessFunc

	// Log receives render decisions at V(1). Defaults to logr.Discard().
	Log logr.Logger
}

// ShowOptions controls post-processing of a single render.
type ShowOptions struct {
	// MachineReadable suppresses every visual post-processing step (Overwrite).
	MachineReadable bool

	// Overwrite blanks repeated group-by values in consecutive rows.
	Overwrite bool
}

type state int

const (
	stateEmpty state = iota
	stateColumns
	stateRows
	stateRendered
)

type row struct {
	cells []Cell
	sep   bool
}

// Table accumulates columns and rows and renders them.
type Table struct {
	opts     Options
	state    state
	columns  []Column
	filler   int
	rows     []row
	view     []string
	groupBy  []string
	showSeps bool
}

// New returns an empty Table.
func New(opts Options) *Table {
	if opts.Pastable {
		opts.Colors = false
		opts.Unicode = false
		opts.Width = PastableWidth
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Size == nil {
		opts.Size = terminal.NewProbe()
	}
	if opts.Less == nil {
		opts.Less = NaturalLess
	}
	if opts.Log.GetSink() == nil {
		opts.Log = logr.Discard()
	}
	return &Table{opts: opts, filler: -1}
}

// AddColumn declares a column. Columns must all be declared before the
// first row is offered, and at most one may use right column alignment.
func (t *Table) AddColumn(name string, color Color, columnAlign, textAlign Align) error {
	const op = "add column"
	switch t.state {
	case stateRows:
		return configError(op, "columns must be defined before rows (column %q)", name)
	case stateRendered:
		return configError(op, "table already rendered")
	}
	if columnAlign == AlignRight {
		if t.filler >= 0 {
			return configError(op, "column %q: only one column may be right aligned, %q already is", name, t.columns[t.filler].Name)
		}
		t.filler = len(t.columns)
	}
	if !t.opts.Colors {
		color = NoColor
	}
	t.columns = append(t.columns, Column{Name: name, Color: color, ColumnAlign: columnAlign, TextAlign: textAlign})
	t.state = stateColumns
	return nil
}

// AddHeader declares a column from a header descriptor.
func (t *Table) AddHeader(h Header) error {
	return t.AddColumn(h.Name, h.Color, h.ColumnAlign, h.TextAlign)
}

// AddRow appends a data row with exactly one cell per column. A Colored
// cell is only allowed in a column that has a base color; when the table
// renders without colors, overrides are dropped.
func (t *Table) AddRow(cells ...Cell) error {
	const op = "add row"
	if err := t.checkRowState(op); err != nil {
		return err
	}
	if len(cells) != len(t.columns) {
		return configError(op, "row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	r := make([]Cell, len(cells))
	for i, c := range cells {
		if c.colored {
			if !t.opts.Colors {
				c = Plain(c.value)
			} else if t.columns[i].Color == NoColor {
				return configError(op, "column %q has no color, cell overrides are not allowed", t.columns[i].Name)
			}
		}
		r[i] = c
	}
	t.rows = append(t.rows, row{cells: r})
	return nil
}

// AddValues appends a row of plain values. Values that already are a Cell
// are kept as they are.
func (t *Table) AddValues(values ...any) error {
	cells := make([]Cell, len(values))
	for i, v := range values {
		if c, ok := v.(Cell); ok {
			cells[i] = c
			continue
		}
		cells[i] = Plain(v)
	}
	return t.AddRow(cells...)
}

// AddSeparator appends a horizontal rule.
func (t *Table) AddSeparator() error {
	if err := t.checkRowState("add separator"); err != nil {
		return err
	}
	t.rows = append(t.rows, row{sep: true})
	return nil
}

// checkRowState closes the column declaration phase: once a row has been
// offered, accepted or not, no further columns may be declared.
func (t *Table) checkRowState(op string) error {
	if t.state == stateRendered {
		return configError(op, "table already rendered")
	}
	t.state = stateRows
	if len(t.columns) == 0 {
		return configError(op, "rows require at least one column")
	}
	return nil
}

// ColorCell returns a cell colored with c when the table renders colors,
// and a plain cell otherwise.
func (t *Table) ColorCell(v any, c Color) Cell {
	if !t.opts.Colors {
		return Plain(v)
	}
	return Colored(c, v)
}

// SetShowSeparators inserts a separator between groups when enabled.
func (t *Table) SetShowSeparators(show bool) error {
	if t.state == stateRendered {
		return configError("set separators", "table already rendered")
	}
	t.showSeps = show
	return nil
}

// SetView restricts and reorders the displayed columns. Names that match no
// column are ignored at render time.
func (t *Table) SetView(names []string) error {
	if t.state == stateRendered {
		return configError("set view", "table already rendered")
	}
	t.view = append([]string(nil), names...)
	return nil
}

// SetGroupBy sorts and clusters rows by the named columns. An empty list
// leaves the current grouping untouched.
func (t *Table) SetGroupBy(names []string) error {
	if t.state == stateRendered {
		return configError("set group by", "table already rendered")
	}
	if len(names) == 0 {
		return nil
	}
	t.groupBy = append([]string(nil), names...)
	return nil
}

// Columns returns the declared columns in declaration order.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Column returns the i-th declared column.
func (t *Table) Column(i int) Column { return t.columns[i] }

// Len returns the number of rows added so far, separators included.
func (t *Table) Len() int { return len(t.rows) }
