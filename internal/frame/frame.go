// Package frame is the in-memory tabular dataset the pipeline moves between
// stages. Cells are kept as strings; numeric interpretation happens on demand.
package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Frame is a rectangular table of string cells over named columns.
// A Frame is never mutated after construction.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

func New(columns []string, rows [][]string) (*Frame, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	cols := append([]string(nil), columns...)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		// duplicate names resolve to the first occurrence
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	return &Frame{columns: cols, index: index, rows: rows}, nil
}

func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

func (f *Frame) Len() int {
	return len(f.rows)
}

func (f *Frame) Empty() bool {
	return len(f.rows) == 0
}

func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns a copy of the named column's cells.
func (f *Frame) Column(name string) ([]string, bool) {
	idx, ok := f.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[idx]
	}
	return out, true
}

// IsMissing reports whether a cell holds no observation. Markers match
// case-insensitively.
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan", "+nan", "-nan", "null":
		return true
	}
	return false
}

// Floats parses the named column as float64 values, skipping missing cells
// and any cell that parses to NaN.
func (f *Frame) Floats(name string) ([]float64, error) {
	idx, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]float64, 0, len(f.rows))
	for i, row := range f.rows {
		cell := row[idx]
		if IsMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: non-numeric value %q", name, i, cell)
		}
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	var keep []int
	var cols []string
	for i, c := range f.columns {
		if _, ok := drop[c]; ok {
			continue
		}
		keep = append(keep, i)
		cols = append(cols, c)
	}
	if len(keep) == len(f.columns) {
		return f
	}
	rows := make([][]string, len(f.rows))
	for r, row := range f.rows {
		out := make([]string, len(keep))
		for j, idx := range keep {
			out[j] = row[idx]
		}
		rows[r] = out
	}
	nf, _ := New(cols, rows)
	return nf
}

func (f *Frame) subset(indices []int) *Frame {
	rows := make([][]string, len(indices))
	for i, idx := range indices {
		rows[i] = f.rows[idx]
	}
	return &Frame{columns: f.columns, index: f.index, rows: rows}
}
