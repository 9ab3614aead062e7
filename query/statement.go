// Package query implements the statement builders.
//
// A builder is bound to one table and one adapter, collects its
// configuration through chained calls and is consumed by Execute. Build
// errors are recorded on the builder and returned by Compile or Execute, so
// nothing reaches the adapter unless the whole statement is valid. Compile
// has no side effects and may be called any number of times.
package query

import (
	"context"
	"strings"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/internal/debug"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// Statement is a compiled SQL statement with its bound parameters.
type Statement struct {
	SQL  string
	Args []any
}

// String returns the SQL text.
func (s Statement) String() string { return s.SQL }

type base struct {
	op      string
	table   *schema.Table
	adapter adapter.Adapter
	dialect dialect.Dialect

	err      error
	executed bool
}

func newBase(op string, t *schema.Table, a adapter.Adapter) base {
	b := base{op: op, table: t, adapter: a, dialect: dialect.MySQL}
	if a != nil {
		b.dialect = a.Dialect()
	}
	if t == nil {
		b.err = &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: op, Message: "no table"}
	}
	return b
}

// fail records the first build error.
func (b *base) fail(err error) {
	if b.err != nil || err == nil {
		return
	}
	if e, ok := err.(*sqlerr.Error); ok {
		err = e.WithOp(b.op)
	}
	b.err = err
}

// consume marks the builder as executed.
func (b *base) consume() error {
	if b.executed {
		return &sqlerr.Error{Kind: sqlerr.ErrState, Op: b.op, Table: b.tableName(), Message: "builder already executed"}
	}
	b.executed = true
	if b.adapter == nil {
		return &sqlerr.Error{Kind: sqlerr.ErrState, Op: b.op, Table: b.tableName(), Message: "no execution adapter"}
	}
	return nil
}

func (b *base) tableName() string {
	if b.table == nil {
		return ""
	}
	return b.table.Name()
}

func (b *base) quote(name string) string { return b.dialect.Quote(name) }

// placeholders returns n placeholders numbered from offset+1.
func (b *base) placeholders(offset, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = b.dialect.Placeholder(offset + i + 1)
	}
	return out
}

// where appends " WHERE <fragment>" for c, numbering placeholders after
// the args already collected.
func (b *base) where(sql *strings.Builder, args []any, c *condition.Condition) ([]any, error) {
	if c == nil {
		return args, nil
	}
	if err := c.CheckTable(b.table); err != nil {
		return nil, err
	}
	fragment, params, err := condition.Compile(c, b.dialect, len(args))
	if err != nil {
		return nil, err
	}
	sql.WriteString(" WHERE ")
	sql.WriteString(fragment)
	return append(args, params...), nil
}

func (b *base) compileError(err error) error {
	if e, ok := err.(*sqlerr.Error); ok {
		return sqlerr.Annotate(e.WithOp(b.op), b.tableName(), "")
	}
	return err
}

func (b *base) query(ctx context.Context, st Statement) ([]adapter.Row, error) {
	logStatement(b.op, b.table, st)
	rows, err := b.adapter.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, sqlerr.Execution(b.op, b.table.Name(), err)
	}
	return rows, nil
}

func (b *base) exec(ctx context.Context, st Statement) (adapter.ExecResult, error) {
	logStatement(b.op, b.table, st)
	res, err := b.adapter.Exec(ctx, st.SQL, st.Args...)
	if err != nil {
		return adapter.ExecResult{}, sqlerr.Execution(b.op, b.table.Name(), err)
	}
	return res, nil
}

func logStatement(op string, t *schema.Table, st Statement) {
	if !debug.Enabled() {
		return
	}
	debug.Debug("statement", "op", op, "table", t.Name(), "sql", st.SQL, "args", st.Args)
}

// assignment is a column with its validated value.
type assignment struct {
	column *schema.Column
	value  any
}

func (b *base) assign(list []assignment, ref any, value any) []assignment {
	if b.table == nil {
		return list
	}
	c, err := b.table.Resolve(ref)
	if err != nil {
		b.fail(err)
		return list
	}
	for _, a := range list {
		if a.column == c {
			b.fail(&sqlerr.Error{Kind: sqlerr.ErrSchema, Table: b.table.Name(), Column: c.Name(), Message: "column assigned twice"})
			return list
		}
	}
	v, err := c.Validate(value)
	if err != nil {
		b.fail(err)
		return list
	}
	return append(list, assignment{column: c, value: v})
}

func (b *base) addCondition(current, c *condition.Condition) *condition.Condition {
	if c == nil {
		b.fail(&sqlerr.Error{Kind: sqlerr.ErrSchema, Table: b.tableName(), Message: "nil condition"})
		return current
	}
	if current == nil {
		return c
	}
	return condition.And(current, c)
}
