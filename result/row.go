package result

import (
	"fmt"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// Row is one decoded row. It holds only the selected columns, in selection
// order.
type Row struct {
	columns []*schema.Column
	values  []any
}

// NewRow decodes raw using the column types.
func NewRow(columns []*schema.Column, raw adapter.Row) (Row, error) {
	values := make([]any, len(columns))
	for i, c := range columns {
		v, ok := raw[c.Name()]
		if !ok {
			return Row{}, &sqlerr.Error{Kind: sqlerr.ErrExecution, Op: "select", Table: tableName(c), Column: c.Name(),
				Message: "column missing from returned row"}
		}
		decoded, err := c.Decode(v)
		if err != nil {
			return Row{}, err
		}
		values[i] = decoded
	}
	return Row{columns: columns, values: values}, nil
}

func tableName(c *schema.Column) string {
	if c.Table() == nil {
		return ""
	}
	return c.Table().Name()
}

// Columns returns the selected columns.
func (r Row) Columns() []*schema.Column { return r.columns }

// Values returns the values in selection order.
func (r Row) Values() []any { return append([]any(nil), r.values...) }

// Len returns the number of values.
func (r Row) Len() int { return len(r.values) }

// Get returns the value of a selected column. ref is a *schema.Column or a
// column name.
func (r Row) Get(ref any) (any, error) {
	i, err := r.index(ref)
	if err != nil {
		return nil, err
	}
	return r.values[i], nil
}

func (r Row) index(ref any) (int, error) {
	for i, c := range r.columns {
		switch x := ref.(type) {
		case *schema.Column:
			if c == x {
				return i, nil
			}
		case string:
			if c.Name() == x {
				return i, nil
			}
		default:
			return -1, sqlerr.Schema("column reference must be a *schema.Column or a name, got %T", ref)
		}
	}
	table := ""
	if len(r.columns) > 0 {
		table = tableName(r.columns[0])
	}
	return -1, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: table, Column: refName(ref), Message: "column was not selected"}
}

func refName(ref any) string {
	switch x := ref.(type) {
	case *schema.Column:
		if x == nil {
			return ""
		}
		return x.Name()
	case string:
		return x
	default:
		return fmt.Sprint(ref)
	}
}

// Map returns the row keyed by column name.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c.Name()] = r.values[i]
	}
	return m
}

// Get returns the value of a selected column as T. A NULL value yields the
// zero T.
func Get[T any](r Row, ref any) (T, error) {
	var zero T
	v, err := r.Get(ref)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &sqlerr.Error{Kind: sqlerr.ErrTypeMismatch, Column: refName(ref),
			Message: fmt.Sprintf("value is %T, not %T", v, zero)}
	}
	return t, nil
}
