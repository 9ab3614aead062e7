package query

import (
	"context"
	"strings"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/result"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// singleProbeLimit is the LIMIT of a single-result select without an
// explicit limit: two rows are enough to detect an ambiguous match.
const singleProbeLimit = 2

// SelectBuilder builds a SELECT statement.
type SelectBuilder struct {
	base
	columns []*schema.Column
	cond    *condition.Condition
	order   *schema.Column
	desc    bool
	limit   *int
	offset  *int
	single  bool
}

// Select starts a SELECT on t.
func Select(t *schema.Table, a adapter.Adapter) *SelectBuilder {
	return &SelectBuilder{base: newBase("select", t, a)}
}

// Columns restricts the selection to refs, in the given order. Without it
// every column is selected in table order.
func (b *SelectBuilder) Columns(refs ...any) *SelectBuilder {
	if b.table == nil {
		return b
	}
	for _, ref := range refs {
		c, err := b.table.Resolve(ref)
		if err != nil {
			b.fail(err)
			return b
		}
		if !contains(b.columns, c) {
			b.columns = append(b.columns, c)
		}
	}
	return b
}

// Where adds a condition. Several calls are combined with AND.
func (b *SelectBuilder) Where(c *condition.Condition) *SelectBuilder {
	b.cond = b.addCondition(b.cond, c)
	return b
}

// OrderBy orders the rows by ref, ascending unless Descending is called.
func (b *SelectBuilder) OrderBy(ref any) *SelectBuilder {
	if b.table == nil {
		return b
	}
	c, err := b.table.Resolve(ref)
	if err != nil {
		b.fail(err)
		return b
	}
	b.order = c
	return b
}

// Descending reverses the order set by OrderBy.
func (b *SelectBuilder) Descending() *SelectBuilder {
	b.desc = true
	return b
}

// Limit caps the number of rows.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	if n < 0 {
		b.fail(sqlerr.Range("limit %d is negative", n))
		return b
	}
	b.limit = &n
	return b
}

// Offset skips the first n rows.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	if n < 0 {
		b.fail(sqlerr.Range("offset %d is negative", n))
		return b
	}
	b.offset = &n
	return b
}

// JustOne expects at most one row. Execute fails with a CardinalityError
// when more rows match.
func (b *SelectBuilder) JustOne() *SelectBuilder {
	b.single = true
	return b
}

// selected returns the columns the result exposes.
func (b *SelectBuilder) selected() []*schema.Column {
	if len(b.columns) == 0 {
		return b.table.Columns()
	}
	return b.columns
}

// Compile renders the statement.
func (b *SelectBuilder) Compile() (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}

	var sql strings.Builder
	sql.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sql.WriteString("*")
	} else {
		for i, c := range b.columns {
			if i > 0 {
				sql.WriteString(", ")
			}
			sql.WriteString(b.quote(c.Name()))
		}
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.quote(b.table.Name()))

	args, err := b.where(&sql, nil, b.cond)
	if err != nil {
		return Statement{}, b.compileError(err)
	}

	if b.order != nil {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(b.quote(b.order.Name()))
		if b.desc {
			sql.WriteString(" DESC")
		}
	}

	limit := b.limit
	if b.single && limit == nil {
		n := singleProbeLimit
		limit = &n
	}
	sql.WriteString(b.dialect.LimitOffset(limit, b.offset))

	return Statement{SQL: sql.String(), Args: args}, nil
}

// Execute runs the select and shapes the rows into Empty, Single or Many.
func (b *SelectBuilder) Execute(ctx context.Context) (result.Result, error) {
	if err := b.consume(); err != nil {
		return nil, err
	}
	st, err := b.Compile()
	if err != nil {
		return nil, err
	}

	rows, err := b.query(ctx, st)
	if err != nil {
		return nil, err
	}
	if b.single && len(rows) > 1 {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrCardinality, Op: b.op, Table: b.table.Name(),
			Message: "more than one row matches a single-result select; add a unique condition or Limit(1)"}
	}

	res, err := result.New(b.selected(), rows)
	if err != nil {
		return nil, b.compileError(err)
	}
	return res, nil
}

func contains(cols []*schema.Column, c *schema.Column) bool {
	for _, x := range cols {
		if x == c {
			return true
		}
	}
	return false
}
