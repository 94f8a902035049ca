package table

import (
	"fmt"
	"strings"
)

// Align places text (or a column) on the left or right.
type Align int

// Column and text alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// ParseAlign accepts "<", ">", "left", "right" and "" (left).
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "<", "left":
		return AlignLeft, nil
	case ">", "right":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("invalid alignment %q (expected left|right)", s)
	}
}

func (a Align) String() string {
	if a == AlignRight {
		return "right"
	}
	return "left"
}

// Column describes one declared column.
//
// ColumnAlign right marks the filler column: the leftover horizontal budget
// is inserted in front of it so it sits against the right edge. TextAlign
// positions the text inside the column's cells.
type Column struct {
	Name        string
	Color       Color
	ColumnAlign Align
	TextAlign   Align
}

// Header is a reusable column descriptor, typically declared once per
// command and passed to AddHeader.
type Header = Column
