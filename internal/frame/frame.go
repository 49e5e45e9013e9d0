// Package frame holds a fully loaded source file in memory and hands out
// row ranges of it as sources for COPY.
package frame

import (
	"fmt"

	"github.com/taxiload/taxiload/pkg/taxiload"
)

// Frame is an in-memory table.
type Frame interface {
	// Columns returns the column list in source order.
	Columns() []taxiload.Column

	// NumRows returns the total number of rows.
	NumRows() int64

	// Rows iterates rows [start, end).
	Rows(start, end int64) taxiload.RowSource
}

// RowFrame is a Frame over already materialized rows.
type RowFrame struct {
	columns []taxiload.Column
	rows    [][]any
}

// NewRowFrame creates a RowFrame. Every row must have len(columns) values.
func NewRowFrame(columns []taxiload.Column, rows [][]any) *RowFrame {
	return &RowFrame{columns: columns, rows: rows}
}

func (f *RowFrame) Columns() []taxiload.Column { return f.columns }

func (f *RowFrame) NumRows() int64 { return int64(len(f.rows)) }

func (f *RowFrame) Rows(start, end int64) taxiload.RowSource {
	if err := checkRange(start, end, f.NumRows()); err != nil {
		return &errRows{err: err}
	}
	return &sliceRows{rows: f.rows[start:end], pos: -1}
}

type sliceRows struct {
	rows [][]any
	pos  int
}

func (s *sliceRows) Next() bool {
	s.pos++
	return s.pos < len(s.rows)
}

func (s *sliceRows) Values() ([]any, error) {
	return s.rows[s.pos], nil
}

func (s *sliceRows) Err() error { return nil }

// errRows is an empty source that reports err.
type errRows struct {
	err error
}

func (e *errRows) Next() bool             { return false }
func (e *errRows) Values() ([]any, error) { return nil, e.err }
func (e *errRows) Err() error             { return e.err }

func checkRange(start, end, total int64) error {
	if start < 0 || end < start || end > total {
		return fmt.Errorf("row range [%d, %d) outside [0, %d)", start, end, total)
	}
	return nil
}

// IndexedColumns prepends the index column to cols.
func IndexedColumns(cols []taxiload.Column) []taxiload.Column {
	out := make([]taxiload.Column, 0, len(cols)+1)
	out = append(out, taxiload.Column{Name: taxiload.IndexColumn, Type: taxiload.TypeBigInt})
	return append(out, cols...)
}

// WithIndex prepends the global row position to every row of src.
// start is the position of the first row src yields.
func WithIndex(src taxiload.RowSource, start int64) taxiload.RowSource {
	return &indexedRows{src: src, next: start}
}

type indexedRows struct {
	src     taxiload.RowSource
	next    int64
	current int64
}

func (r *indexedRows) Next() bool {
	if !r.src.Next() {
		return false
	}
	r.current = r.next
	r.next++
	return true
}

func (r *indexedRows) Values() ([]any, error) {
	values, err := r.src.Values()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(values)+1)
	out = append(out, r.current)
	return append(out, values...), nil
}

func (r *indexedRows) Err() error { return r.src.Err() }
