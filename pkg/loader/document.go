package loader

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/ctltable/pkg/table"
)

// separatorMarker in place of a row draws a horizontal rule.
const separatorMarker = "---"

// Document is a parsed table description.
type Document struct {
	Columns        []ColumnSpec
	Rows           []RowSpec
	View           []string
	GroupBy        []string
	ShowSeparators bool
}

// ColumnSpec declares one column. Color and alignments are kept as written
// and resolved by Build.
type ColumnSpec struct {
	Name      string
	Color     string
	Align     string
	TextAlign string
}

// RowSpec is either a separator or one cell per column.
type RowSpec struct {
	Separator bool
	Cells     []CellSpec
}

// CellSpec is a value with an optional color override.
type CellSpec struct {
	Value any
	Color string
}

// Build declares the document's columns on t, applies its view, grouping
// and separator options, and adds its rows. Unknown colors and alignments
// are errors, as is anything t itself rejects.
func (d *Document) Build(t *table.Table) error {
	for _, c := range d.Columns {
		color, err := table.ParseColor(c.Color)
		if err != nil {
			return fmt.Errorf("column %q: %w", c.Name, err)
		}
		align, err := table.ParseAlign(c.Align)
		if err != nil {
			return fmt.Errorf("column %q: %w", c.Name, err)
		}
		textAlign, err := table.ParseAlign(c.TextAlign)
		if err != nil {
			return fmt.Errorf("column %q: %w", c.Name, err)
		}
		if err := t.AddColumn(c.Name, color, align, textAlign); err != nil {
			return err
		}
	}
	if len(d.View) > 0 {
		if err := t.SetView(d.View); err != nil {
			return err
		}
	}
	if err := t.SetGroupBy(d.GroupBy); err != nil {
		return err
	}
	if d.ShowSeparators {
		if err := t.SetShowSeparators(true); err != nil {
			return err
		}
	}

	for i, r := range d.Rows {
		if r.Separator {
			if err := t.AddSeparator(); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			continue
		}
		cells := make([]table.Cell, len(r.Cells))
		for j, c := range r.Cells {
			if c.Color == "" {
				cells[j] = table.Plain(c.Value)
				continue
			}
			color, err := table.ParseColor(c.Color)
			if err != nil {
				return fmt.Errorf("row %d, cell %d: %w", i+1, j+1, err)
			}
			cells[j] = t.ColorCell(c.Value, color)
		}
		if err := t.AddRow(cells...); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// fromTree converts a decoded YAML, JSON or TOML tree into a Document.
func fromTree(tree any) (*Document, error) {
	root, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("table document must be a mapping, got %T", tree)
	}

	doc := &Document{}
	var err error
	if doc.Columns, err = columnsOf(root["columns"]); err != nil {
		return nil, err
	}
	if len(doc.Columns) == 0 {
		return nil, fmt.Errorf("table document declares no columns")
	}
	if doc.View, err = stringList("view", root["view"]); err != nil {
		return nil, err
	}
	if doc.GroupBy, err = stringList("groupBy", root["groupBy"]); err != nil {
		return nil, err
	}
	if v, ok := root["showSeparators"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("showSeparators: expected a boolean, got %T", v)
		}
		doc.ShowSeparators = b
	}

	rows, ok := root["rows"]
	if !ok || rows == nil {
		return doc, nil
	}
	list, ok := rows.([]any)
	if !ok {
		return nil, fmt.Errorf("rows: expected a list, got %T", rows)
	}
	for i, r := range list {
		row, err := rowOf(r, doc.Columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

func columnsOf(v any) ([]ColumnSpec, error) {
	list, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("columns: expected a list, got %T", v)
	}
	cols := make([]ColumnSpec, 0, len(list))
	for i, item := range list {
		switch c := item.(type) {
		case string:
			cols = append(cols, ColumnSpec{Name: c})
		case map[string]any:
			spec := ColumnSpec{}
			for key, dst := range map[string]*string{"name": &spec.Name, "color": &spec.Color, "align": &spec.Align, "textAlign": &spec.TextAlign} {
				if raw, ok := c[key]; ok && raw != nil {
					s, ok := raw.(string)
					if !ok {
						return nil, fmt.Errorf("column %d: %s: expected a string, got %T", i+1, key, raw)
					}
					*dst = s
				}
			}
			if spec.Name == "" {
				return nil, fmt.Errorf("column %d: missing name", i+1)
			}
			cols = append(cols, spec)
		default:
			return nil, fmt.Errorf("column %d: expected a name or a mapping, got %T", i+1, item)
		}
	}
	return cols, nil
}

func stringList(field string, v any) ([]string, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case string:
		return splitNames(l), nil
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected column names, got %T", field, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: expected a list, got %T", field, v)
}

// splitNames splits a comma or space separated list of column names.
func splitNames(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

// rowOf accepts a list of cells in column order, or a mapping from column
// name to cell. null and "---" are separators.
func rowOf(v any, cols []ColumnSpec) (RowSpec, error) {
	switch r := v.(type) {
	case nil:
		return RowSpec{Separator: true}, nil
	case string:
		if strings.TrimSpace(r) == separatorMarker {
			return RowSpec{Separator: true}, nil
		}
		return RowSpec{}, fmt.Errorf("expected a list or mapping, got %q", r)
	case []any:
		cells := make([]CellSpec, len(r))
		for i, c := range r {
			cell, err := cellOf(c)
			if err != nil {
				return RowSpec{}, fmt.Errorf("cell %d: %w", i+1, err)
			}
			cells[i] = cell
		}
		return RowSpec{Cells: cells}, nil
	case map[string]any:
		cells := make([]CellSpec, len(cols))
		for i, col := range cols {
			cell, err := cellOf(r[col.Name])
			if err != nil {
				return RowSpec{}, fmt.Errorf("column %q: %w", col.Name, err)
			}
			cells[i] = cell
		}
		for name := range r {
			if !hasColumn(cols, name) {
				return RowSpec{}, fmt.Errorf("unknown column %q", name)
			}
		}
		return RowSpec{Cells: cells}, nil
	}
	return RowSpec{}, fmt.Errorf("expected a list or mapping, got %T", v)
}

// cellOf reads a scalar or a {value, color} mapping.
func cellOf(v any) (CellSpec, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return CellSpec{Value: v}, nil
	}
	cell := CellSpec{Value: m["value"]}
	if raw, ok := m["color"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return CellSpec{}, fmt.Errorf("color: expected a string, got %T", raw)
		}
		cell.Color = s
	}
	for key := range m {
		if key != "value" && key != "color" {
			return CellSpec{}, fmt.Errorf("unexpected cell key %q", key)
		}
	}
	return cell, nil
}

func hasColumn(cols []ColumnSpec, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}
