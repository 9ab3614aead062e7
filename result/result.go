// Package result wraps rows returned by a select.
//
// A select yields Empty, Single or Many. All three iterate the same way, so
// callers can range over any result without checking its arity.
package result

import (
	"iter"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/schema"
)

// Result is the value returned by a select: Empty, Single or Many.
type Result interface {
	// Len returns the number of rows.
	Len() int
	// Rows returns the rows in adapter order.
	Rows() []Row
	// All iterates the rows in adapter order.
	All() iter.Seq[Row]
	// First returns the first row, if any.
	First() (Row, bool)
	// Columns returns the selected columns.
	Columns() []*schema.Column

	sealed()
}

// Empty is a result without rows.
type Empty struct {
	columns []*schema.Column
}

// Single is a result with exactly one row.
type Single struct {
	Row
}

// Many is a result with two or more rows.
type Many struct {
	columns []*schema.Column
	rows    []Row
}

func (Empty) sealed()  {}
func (Single) sealed() {}
func (Many) sealed()   {}

// Len returns 0.
func (Empty) Len() int { return 0 }

// Rows returns nil.
func (Empty) Rows() []Row { return nil }

// All yields nothing.
func (Empty) All() iter.Seq[Row] { return func(func(Row) bool) {} }

// First returns false.
func (Empty) First() (Row, bool) { return Row{}, false }

// Columns returns the selected columns.
func (e Empty) Columns() []*schema.Column { return e.columns }

// Len returns 1.
func (Single) Len() int { return 1 }

// Rows returns the row.
func (s Single) Rows() []Row { return []Row{s.Row} }

// All yields the row.
func (s Single) All() iter.Seq[Row] {
	return func(yield func(Row) bool) { yield(s.Row) }
}

// First returns the row.
func (s Single) First() (Row, bool) { return s.Row, true }

// Len returns the number of rows.
func (m Many) Len() int { return len(m.rows) }

// Rows returns a copy of the rows.
func (m Many) Rows() []Row { return append([]Row(nil), m.rows...) }

// All iterates the rows.
func (m Many) All() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, r := range m.rows {
			if !yield(r) {
				return
			}
		}
	}
}

// First returns the first row.
func (m Many) First() (Row, bool) { return m.rows[0], true }

// Columns returns the selected columns.
func (m Many) Columns() []*schema.Column { return m.columns }

// New decodes raw rows for columns and picks the result arity.
func New(columns []*schema.Column, raw []adapter.Row) (Result, error) {
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		row, err := NewRow(columns, r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	switch len(rows) {
	case 0:
		return Empty{columns: columns}, nil
	case 1:
		return Single{Row: rows[0]}, nil
	default:
		return Many{columns: columns, rows: rows}, nil
	}
}

// Map converts every row with fn, stopping at the first error.
func Map[T any](res Result, fn func(Row) (T, error)) ([]T, error) {
	out := make([]T, 0, res.Len())
	for row := range res.All() {
		v, err := fn(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ScanAll scans every row into a new T using Row.Scan.
func ScanAll[T any](res Result) ([]T, error) {
	return Map(res, func(r Row) (T, error) {
		var v T
		err := r.Scan(&v)
		return v, err
	})
}
