package schema

import (
	"fmt"

	"github.com/ashenguard/easysql/sqlerr"
	"github.com/ashenguard/easysql/types"
)

// Column is a named, typed attribute of a table. A Column belongs to exactly
// one Table once registered; its pointer is its identity.
type Column struct {
	name       string
	typ        types.ColumnType
	tags       Tag
	def        any
	hasDefault bool

	table *Table
	index int
}

// ColumnOption configures a Column.
type ColumnOption func(*Column)

// Default declares a default value. It is validated at registration.
func Default(v any) ColumnOption {
	return func(c *Column) {
		c.def = v
		c.hasDefault = true
	}
}

// NewColumn declares a column. Tags are combined with |, e.g. Primary|AutoIncrement.
func NewColumn(name string, typ types.ColumnType, tags Tag, opts ...ColumnOption) *Column {
	c := &Column{name: name, typ: typ, tags: tags, index: -1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column type.
func (c *Column) Type() types.ColumnType { return c.typ }

// Tags returns the constraint flags.
func (c *Column) Tags() Tag { return c.tags }

// Table returns the owning table, or nil before registration.
func (c *Column) Table() *Table { return c.table }

// Index returns the position of the column in its table, or -1.
func (c *Column) Index() int { return c.index }

// Default returns the declared default and whether one exists.
func (c *Column) Default() (any, bool) { return c.def, c.hasDefault }

// Required reports whether an insert must supply a value for the column
// because it has no default and the database cannot fill it in.
func (c *Column) Required() bool {
	if c.hasDefault || c.tags.Has(AutoIncrement) {
		return false
	}
	return c.tags.Has(NotNull) || c.tags.Has(Primary)
}

// String returns "table.column" once registered.
func (c *Column) String() string {
	if c.table == nil {
		return c.name
	}
	return fmt.Sprintf("%s.%s", c.table.name, c.name)
}

// Validate checks a value bound to the column. nil is accepted for nullable
// and auto-increment columns.
func (c *Column) Validate(v any) (any, error) {
	if v == nil {
		if c.tags.Has(AutoIncrement) || !(c.tags.Has(NotNull) || c.tags.Has(Primary)) {
			return nil, nil
		}
		return nil, c.annotate(sqlerr.Schema("NULL is not allowed"))
	}
	out, err := c.typ.Validate(v)
	if err != nil {
		return nil, c.annotate(err)
	}
	return out, nil
}

// Decode converts a raw adapter value using the column type.
func (c *Column) Decode(raw any) (any, error) {
	out, err := c.typ.Decode(raw)
	if err != nil {
		return nil, c.annotate(err)
	}
	return out, nil
}

func (c *Column) annotate(err error) error {
	table := ""
	if c.table != nil {
		table = c.table.name
	}
	return sqlerr.Annotate(err, table, c.name)
}
