package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// UpdateBuilder builds an UPDATE. Without a condition it is rejected while
// the table's safety lock is armed.
type UpdateBuilder struct {
	base
	values []assignment
	cond   *condition.Condition
}

// Update starts an UPDATE of t.
func Update(t *schema.Table, a adapter.Adapter) *UpdateBuilder {
	return &UpdateBuilder{base: newBase("update", t, a)}
}

// Set assigns a new value to the column ref.
func (b *UpdateBuilder) Set(ref any, value any) *UpdateBuilder {
	b.values = b.assign(b.values, ref, value)
	return b
}

// Where adds a condition. Several calls are combined with AND.
func (b *UpdateBuilder) Where(c *condition.Condition) *UpdateBuilder {
	b.cond = b.addCondition(b.cond, c)
	return b
}

// Compile renders the statement.
func (b *UpdateBuilder) Compile() (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}
	return compileUpdate(&b.base, b.values, b.cond)
}

func compileUpdate(b *base, values []assignment, cond *condition.Condition) (Statement, error) {
	if len(values) == 0 {
		return Statement{}, b.compileError(sqlerr.Schema("update sets no columns"))
	}
	if err := b.table.CheckMutation(b.op, cond != nil); err != nil {
		return Statement{}, err
	}

	sets := make([]string, len(values))
	args := make([]any, len(values))
	for i, a := range values {
		sets[i] = fmt.Sprintf("%s = %s", b.quote(a.column.Name()), b.dialect.Placeholder(i+1))
		args[i] = a.value
	}

	var sql strings.Builder
	fmt.Fprintf(&sql, "UPDATE %s SET %s", b.quote(b.table.Name()), strings.Join(sets, ", "))
	args, err := b.where(&sql, args, cond)
	if err != nil {
		return Statement{}, b.compileError(err)
	}
	return Statement{SQL: sql.String(), Args: args}, nil
}

// Execute runs the update.
func (b *UpdateBuilder) Execute(ctx context.Context) (adapter.ExecResult, error) {
	if err := b.consume(); err != nil {
		return adapter.ExecResult{}, err
	}
	st, err := b.Compile()
	if err != nil {
		return adapter.ExecResult{}, err
	}
	return b.exec(ctx, st)
}
