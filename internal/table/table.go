// Package table holds the in-memory tabular model shared by the splitting and
// RML paths, plus loaders for CSV/TSV/XLSX inputs and a CSV writer.
//
// A Table is row-major: Rows[i][j] is the cell of column Columns[j] in the i-th
// observation. Every row is padded to len(Columns); an empty string is a null
// cell. Methods never mutate the receiver, they return fresh copies so that a
// table handed across package boundaries survives for comparison/debugging.
package table

import (
	"strings"
)

// Table is an ordered set of named columns sharing row count and row order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a Table from columns and rows, copying both and padding or
// truncating each row to the column count.
func New(columns []string, rows [][]string) *Table {
	cols := append([]string(nil), columns...)
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = fitRow(r, len(cols))
	}
	return &Table{Columns: cols, Rows: out}
}

func fitRow(r []string, n int) []string {
	row := make([]string, n)
	copy(row, r)
	return row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the column with exactly this name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// IndexFold returns the position of the first column equal to name under
// case-insensitive comparison, or -1.
func (t *Table) IndexFold(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Has reports whether a column with exactly this name exists.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns a copy of the named column's values, or nil if absent.
func (t *Table) Column(name string) []string {
	i := t.Index(name)
	if i < 0 {
		return nil
	}
	return t.ColumnAt(i)
}

// ColumnAt returns a copy of the values of column i.
func (t *Table) ColumnAt(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return New(t.Columns, t.Rows)
}

// WithColumn returns a copy in which the named column holds values. An existing
// column keeps its position; a new one is appended. values shorter than the
// table are padded with empty cells.
func (t *Table) WithColumn(name string, values []string) *Table {
	out := t.Clone()
	idx := out.Index(name)
	if idx < 0 {
		out.Columns = append(out.Columns, name)
		idx = len(out.Columns) - 1
		for r := range out.Rows {
			out.Rows[r] = append(out.Rows[r], "")
		}
	}
	for r := range out.Rows {
		if r < len(values) {
			out.Rows[r][idx] = values[r]
		} else {
			out.Rows[r][idx] = ""
		}
	}
	return out
}

// SelectColumns returns a table made of the source columns at idx, renamed to
// names (names[i] labels idx[i]). Rows keep their order.
func (t *Table) SelectColumns(idx []int, names []string) *Table {
	cols := append([]string(nil), names...)
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		nr := make([]string, len(idx))
		for j, i := range idx {
			nr[j] = row[i]
		}
		rows[r] = nr
	}
	return &Table{Columns: cols, Rows: rows}
}

// FilterRows returns a copy containing only rows for which keep returns true,
// in their original order.
func (t *Table) FilterRows(keep func(row []string) bool) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}
