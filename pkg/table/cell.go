package table

import (
	"fmt"
	"strconv"
)

// Cell is one value of a row: either plain, or colored with an override
// that replaces the column's base color for this cell only.
type Cell struct {
	value   any
	color   Color
	colored bool
}

// Plain returns an uncolored cell.
func Plain(v any) Cell { return Cell{value: v} }

// Colored returns a cell rendered in c instead of its column's color.
// A NoColor override is the same as Plain.
func Colored(c Color, v any) Cell {
	return Cell{value: v, color: c, colored: c != NoColor}
}

// Value returns the cell's raw value.
func (c Cell) Value() any { return c.value }

// Override returns the cell's color override, if any.
func (c Cell) Override() (Color, bool) { return c.color, c.colored }

// Text returns the cell's display text.
func (c Cell) Text() string { return stringify(c.value) }

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
