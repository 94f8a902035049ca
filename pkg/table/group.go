package table

import (
	"math"
	"sort"
	"strconv"
)

// groupKey is the sort key of one group-by cell: an integer when the value
// is one, its display text otherwise.
type groupKey struct {
	num   int64
	isNum bool
	text  string
}

// keyOf coerces v to an integer key where possible. Text only counts as an
// integer when it is the canonical decimal form, so coercion never changes
// what the cell displays.
func keyOf(v any) groupKey {
	switch n := v.(type) {
	case int:
		return groupKey{num: int64(n), isNum: true}
	case int8:
		return groupKey{num: int64(n), isNum: true}
	case int16:
		return groupKey{num: int64(n), isNum: true}
	case int32:
		return groupKey{num: int64(n), isNum: true}
	case int64:
		return groupKey{num: n, isNum: true}
	case uint8:
		return groupKey{num: int64(n), isNum: true}
	case uint16:
		return groupKey{num: int64(n), isNum: true}
	case uint32:
		return groupKey{num: int64(n), isNum: true}
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return groupKey{num: int64(n), isNum: true}
		}
	case uint64:
		if n <= math.MaxInt64 {
			return groupKey{num: int64(n), isNum: true}
		}
	}
	s := stringify(v)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return groupKey{num: n, isNum: true}
	}
	return groupKey{text: s}
}

// compare orders integers before text. Text uses less, with byte order as
// the tie-break so distinct keys never compare equal.
func (k groupKey) compare(o groupKey, less LessFunc) int {
	switch {
	case k.isNum && o.isNum:
		switch {
		case k.num < o.num:
			return -1
		case k.num > o.num:
			return 1
		}
		return 0
	case k.isNum:
		return -1
	case o.isNum:
		return 1
	}
	if k.text == o.text {
		return 0
	}
	switch {
	case less(k.text, o.text):
		return -1
	case less(o.text, k.text):
		return 1
	case k.text < o.text:
		return -1
	}
	return 1
}

type keyedRow struct {
	row  row
	keys []groupKey
}

// groupRows sorts each run of data rows between caller separators by the
// group-by columns at keyIdx, collapses repeated values when overwrite is
// set and, when seps is set, inserts a separator where a group changes.
func groupRows(rows []row, keyIdx []int, less LessFunc, overwrite, seps bool) []row {
	if len(keyIdx) == 0 {
		return rows
	}
	out := make([]row, 0, len(rows))
	start := 0
	for i := 0; i <= len(rows); i++ {
		if i < len(rows) && !rows[i].sep {
			continue
		}
		out = append(out, groupSegment(rows[start:i], keyIdx, less, overwrite, seps)...)
		if i < len(rows) {
			out = append(out, rows[i])
		}
		start = i + 1
	}
	return out
}

func groupSegment(seg []row, keyIdx []int, less LessFunc, overwrite, seps bool) []row {
	if len(seg) == 0 {
		return nil
	}
	items := make([]keyedRow, len(seg))
	for i, r := range seg {
		cells := append([]Cell(nil), r.cells...)
		keys := make([]groupKey, len(keyIdx))
		for k, c := range keyIdx {
			keys[k] = keyOf(cells[c].value)
		}
		items[i] = keyedRow{row: row{cells: cells}, keys: keys}
	}

	sort.SliceStable(items, func(a, b int) bool {
		for k := range keyIdx {
			if c := items[a].keys[k].compare(items[b].keys[k], less); c != 0 {
				return c < 0
			}
		}
		return false
	})

	boundaries := make(map[int]bool)
	for k, c := range keyIdx {
		cur := items[0].keys[k]
		for i := 1; i < len(items); i++ {
			if items[i].keys[k] == cur {
				if overwrite {
					items[i].row.cells[c].value = " "
				}
				continue
			}
			cur = items[i].keys[k]
			boundaries[i] = true
		}
	}

	out := make([]row, 0, len(items)+len(boundaries))
	for i, it := range items {
		if seps && boundaries[i] {
			out = append(out, row{sep: true})
		}
		out = append(out, it.row)
	}
	return out
}
