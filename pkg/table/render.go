package table

import (
	"errors"
	"io"
	"syscall"

	"github.com/oakwood-commons/ctltable/pkg/terminal"
)

// Render lays the table out in memory and returns its lines without
// trailing newlines. The builder itself is not modified, but the table
// counts as rendered afterwards and rejects further columns and rows.
func (t *Table) Render(so ShowOptions) []string {
	t.state = stateRendered
	if len(t.columns) == 0 {
		return nil
	}
	overwrite := so.Overwrite && !so.MachineReadable

	cols, rows := t.resolveView()
	if len(cols) == 0 {
		t.opts.Log.V(1).Info("view matches no column, nothing to render", "view", t.view)
		return nil
	}
	if keyIdx := groupIndexes(cols, t.groupBy); len(keyIdx) > 0 && hasData(rows) {
		rows = groupRows(rows, keyIdx, t.opts.Less, overwrite, t.showSeps)
	}

	g := asciiGlyphs
	if t.opts.Unicode {
		g = unicodeGlyphs
	}
	budget := t.widthBudget()
	t.opts.Log.V(1).Info("rendering table",
		"columns", len(cols),
		"rows", len(rows),
		"budget", budget,
		"unicode", t.opts.Unicode,
		"colors", t.opts.Colors,
		"overwrite", overwrite)
	return newLayout(cols, rows, budget, g).render()
}

// Show renders the table and writes it to the configured output, one line
// at a time. A reader that went away (EPIPE) ends output silently; any
// other write error is returned unchanged.
func (t *Table) Show(so ShowOptions) error {
	for _, line := range t.Render(so) {
		if _, err := io.WriteString(t.opts.Out, line+"\n"); err != nil {
			if errors.Is(err, syscall.EPIPE) {
				t.opts.Log.V(1).Info("output closed by reader, stopping")
				return nil
			}
			return err
		}
	}
	return nil
}

// widthBudget is the fixed width, or the terminal width capped at MaxAutoWidth.
func (t *Table) widthBudget() int {
	if t.opts.Width > 0 {
		return t.opts.Width
	}
	w, _ := t.opts.Size.Size()
	if w <= 0 {
		w = terminal.DefaultWidth
	}
	if w > MaxAutoWidth {
		w = MaxAutoWidth
	}
	return w
}

// resolveView returns the displayed columns and rows. Without a view every
// column is shown in declaration order; group-by columns are always shown.
func (t *Table) resolveView() ([]Column, []row) {
	names := t.view
	if len(names) == 0 {
		names = make([]string, len(t.columns))
		for i, c := range t.columns {
			names[i] = c.Name
		}
	}
	names = append([]string(nil), names...)
	for _, g := range t.groupBy {
		if !contains(names, g) {
			names = append(names, g)
		}
	}

	byName := make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		if _, dup := byName[c.Name]; !dup {
			byName[c.Name] = i
		}
	}
	idx := make([]int, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		i, ok := byName[n]
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		idx = append(idx, i)
	}

	cols := make([]Column, len(idx))
	for j, i := range idx {
		cols[j] = t.columns[i]
	}
	rows := make([]row, len(t.rows))
	for r, src := range t.rows {
		if src.sep {
			rows[r] = row{sep: true}
			continue
		}
		cells := make([]Cell, len(idx))
		for j, i := range idx {
			cells[j] = src.cells[i]
		}
		rows[r] = row{cells: cells}
	}
	return cols, rows
}

// groupIndexes maps group-by names to positions in cols, skipping unknown
// and repeated names.
func groupIndexes(cols []Column, groupBy []string) []int {
	var idx []int
	seen := make(map[string]bool, len(groupBy))
	for _, g := range groupBy {
		if seen[g] {
			continue
		}
		seen[g] = true
		for i, c := range cols {
			if c.Name == g {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

func hasData(rows []row) bool {
	for _, r := range rows {
		if !r.sep {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
