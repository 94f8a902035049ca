package table

import (
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// glyphs is one line-drawing character set.
type glyphs struct {
	topLeft, topRight       string
	bottomLeft, bottomRight string
	midLeft, midRight       string
	dotted, solid           string
	pipe                    string
	ellipsis                string
}

var unicodeGlyphs = glyphs{
	topLeft: "╭", topRight: "╮",
	bottomLeft: "╰", bottomRight: "╯",
	midLeft: "╞", midRight: "╡",
	dotted: "┄", solid: "─",
	pipe:     "┊",
	ellipsis: "…",
}

var asciiGlyphs = glyphs{
	topLeft: "+", topRight: "+",
	bottomLeft: "+", bottomRight: "+",
	midLeft: "|", midRight: "|",
	dotted: "-", solid: "-",
	pipe:     "|",
	ellipsis: "~",
}

// minColWidth is the narrowest a column is shrunk to when the table does
// not fit its budget. A column this narrow shows only the ellipsis.
const minColWidth = 1

// cellOverhead is the space, text padding and pipe each column adds.
const cellOverhead = 3

type lineKind int

const (
	lineTop lineKind = iota
	lineSeparator
	lineBottom
	lineText
)

// layoutLine is one output line before drawing. Text lines carry their
// cells' plain text and the color to wrap each one in.
type layoutLine struct {
	kind   lineKind
	texts  []string
	colors []Color
}

type layout struct {
	cols   []Column
	lines  []layoutLine
	widths []int
	budget int
	filler int
	g      glyphs
}

// newLayout stringifies rows, frames them with borders and the header, and
// measures every column. Widths are measured on plain text so color
// sequences never count.
func newLayout(cols []Column, rows []row, budget int, g glyphs) *layout {
	l := &layout{cols: cols, widths: make([]int, len(cols)), budget: budget, filler: -1, g: g}
	for i, c := range cols {
		if c.ColumnAlign == AlignRight {
			l.filler = i
		}
	}

	header := layoutLine{kind: lineText, texts: make([]string, len(cols)), colors: make([]Color, len(cols))}
	for i, c := range cols {
		header.texts[i] = strings.ReplaceAll(c.Name, "_", " ")
		header.colors[i] = c.Color
	}
	l.lines = append(l.lines, layoutLine{kind: lineTop}, header, layoutLine{kind: lineSeparator})

	for _, r := range rows {
		if r.sep {
			l.lines = append(l.lines, layoutLine{kind: lineSeparator})
			continue
		}
		ln := layoutLine{kind: lineText, texts: make([]string, len(cols)), colors: make([]Color, len(cols))}
		for i, c := range r.cells {
			ln.texts[i] = c.Text()
			ln.colors[i] = cols[i].Color
			if cols[i].Color != NoColor && c.colored {
				ln.colors[i] = c.color
			}
		}
		l.lines = append(l.lines, ln)
	}
	l.lines = append(l.lines, layoutLine{kind: lineBottom})

	for _, ln := range l.lines {
		for i, s := range ln.texts {
			if w := runewidth.StringWidth(s); w > l.widths[i] {
				l.widths[i] = w
			}
		}
	}
	l.fit()
	return l
}

// naturalWidth is the width of a line without filler padding.
func (l *layout) naturalWidth() int {
	total := 1
	for _, w := range l.widths {
		total += w + cellOverhead
	}
	return total
}

// fillerSpace is the padding inserted in front of the filler column, or -1
// when there is no filler or no room for it.
func (l *layout) fillerSpace() int {
	if l.filler < 0 {
		return -1
	}
	space := l.budget - l.naturalWidth() - 1
	if space < 0 {
		return -1
	}
	return space
}

// fit shrinks the widest columns one cell at a time until the table fits
// the budget. When every column is at minColWidth and the table is still too
// wide, trailing columns are dropped, keeping at least one.
func (l *layout) fit() {
	if l.budget <= 0 {
		return
	}
	for l.naturalWidth() > l.budget {
		widest := 0
		for i := range l.widths {
			if l.widths[i] > l.widths[widest] {
				widest = i
			}
		}
		if l.widths[widest] <= minColWidth {
			break
		}
		l.widths[widest]--
	}
	for l.naturalWidth() > l.budget && len(l.widths) > 1 {
		l.widths = l.widths[:len(l.widths)-1]
	}
	if len(l.widths) < len(l.cols) {
		l.cols = l.cols[:len(l.widths)]
		if l.filler >= len(l.cols) {
			l.filler = -1
		}
	}
}

// render draws every line.
func (l *layout) render() []string {
	out := make([]string, 0, len(l.lines))
	for _, ln := range l.lines {
		if ln.kind == lineText {
			out = append(out, l.drawText(ln))
			continue
		}
		out = append(out, l.drawRule(ln.kind))
	}
	return out
}

func (l *layout) drawRule(kind lineKind) string {
	left, fill, right := l.g.midLeft, l.g.dotted, l.g.midRight
	switch kind {
	case lineTop:
		left, fill, right = l.g.topLeft, l.g.solid, l.g.topRight
	case lineBottom:
		left, fill, right = l.g.bottomLeft, l.g.solid, l.g.bottomRight
	}
	width := l.naturalWidth()
	if l.filler >= 0 && width < l.budget {
		width = l.budget
	}
	return left + strings.Repeat(fill, max(width-2, 0)) + right
}

func (l *layout) drawText(ln layoutLine) string {
	var b strings.Builder
	b.WriteString(l.g.pipe)
	space := l.fillerSpace()
	for i, w := range l.widths {
		s := ln.texts[i]
		if i == l.filler && space >= 0 {
			b.WriteString(strings.Repeat(" ", space))
			b.WriteString(l.g.pipe)
		}
		s = runewidth.Truncate(s, w, l.g.ellipsis)
		pad := strings.Repeat(" ", w-runewidth.StringWidth(s))
		b.WriteByte(' ')
		if l.cols[i].TextAlign == AlignRight {
			b.WriteString(pad)
			b.WriteString(ln.colors[i].wrap(s))
		} else {
			b.WriteString(ln.colors[i].wrap(s))
			b.WriteString(pad)
		}
		b.WriteByte(' ')
		b.WriteString(l.g.pipe)
	}
	return b.String()
}
