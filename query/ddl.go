package query

import (
	"context"
	"strings"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
	"github.com/ashenguard/easysql/types"
)

// CreateTable returns CREATE TABLE IF NOT EXISTS for t in dialect d.
func CreateTable(d dialect.Dialect, t *schema.Table) Statement {
	return Statement{SQL: dialect.CreateTable(d, t)}
}

// Prepare creates t unless it already exists.
func Prepare(ctx context.Context, a adapter.Adapter, t *schema.Table) error {
	b := newBase("prepare", t, a)
	if b.err != nil {
		return b.err
	}
	if a == nil {
		return &sqlerr.Error{Kind: sqlerr.ErrState, Op: b.op, Table: t.Name(), Message: "no execution adapter"}
	}
	_, err := b.exec(ctx, CreateTable(b.dialect, t))
	return err
}

// Count returns the number of rows of t matching where, or of all rows
// when where is nil.
func Count(ctx context.Context, a adapter.Adapter, t *schema.Table, where *condition.Condition) (int64, error) {
	b := newBase("count", t, a)
	if b.err != nil {
		return 0, b.err
	}
	if a == nil {
		return 0, &sqlerr.Error{Kind: sqlerr.ErrState, Op: b.op, Table: t.Name(), Message: "no execution adapter"}
	}

	var sql strings.Builder
	sql.WriteString("SELECT COUNT(*) AS ")
	sql.WriteString(b.quote("count"))
	sql.WriteString(" FROM ")
	sql.WriteString(b.quote(t.Name()))
	args, err := b.where(&sql, nil, where)
	if err != nil {
		return 0, b.compileError(err)
	}

	rows, err := b.query(ctx, Statement{SQL: sql.String(), Args: args})
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 {
		return 0, sqlerr.Execution(b.op, t.Name(), sqlerr.Cardinality("count returned %d rows", len(rows)))
	}
	n, err := types.BigInt.Decode(rows[0]["count"])
	if err != nil {
		return 0, sqlerr.Execution(b.op, t.Name(), err)
	}
	count, _ := n.(int64)
	return count, nil
}
