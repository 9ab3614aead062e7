package query

import (
	"context"
	"strings"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/schema"
)

// DeleteBuilder builds a DELETE. Without a condition it is rejected while
// the table's safety lock is armed.
type DeleteBuilder struct {
	base
	cond *condition.Condition
}

// Delete starts a DELETE from t.
func Delete(t *schema.Table, a adapter.Adapter) *DeleteBuilder {
	return &DeleteBuilder{base: newBase("delete", t, a)}
}

// Where adds a condition. Several calls are combined with AND.
func (b *DeleteBuilder) Where(c *condition.Condition) *DeleteBuilder {
	b.cond = b.addCondition(b.cond, c)
	return b
}

// Compile renders the statement.
func (b *DeleteBuilder) Compile() (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}
	if err := b.table.CheckMutation(b.op, b.cond != nil); err != nil {
		return Statement{}, err
	}

	var sql strings.Builder
	sql.WriteString("DELETE FROM ")
	sql.WriteString(b.quote(b.table.Name()))
	args, err := b.where(&sql, nil, b.cond)
	if err != nil {
		return Statement{}, b.compileError(err)
	}
	return Statement{SQL: sql.String(), Args: args}, nil
}

// Execute runs the delete.
func (b *DeleteBuilder) Execute(ctx context.Context) (adapter.ExecResult, error) {
	if err := b.consume(); err != nil {
		return adapter.ExecResult{}, err
	}
	st, err := b.Compile()
	if err != nil {
		return adapter.ExecResult{}, err
	}
	return b.exec(ctx, st)
}
