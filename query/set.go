package query

import (
	"context"
	"strings"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/schema"
)

// SetBuilder updates the rows matching its condition, or inserts a new row
// when none match.
//
// The existence probe and the write are two statements. Two Set calls
// racing on the same condition can both find no row and both insert; only a
// primary key or unique constraint on the table rejects the second row.
type SetBuilder struct {
	base
	values []assignment
	cond   *condition.Condition
}

// SetPlan holds the three statements of a Set. Update runs when Probe
// returns a row, Insert otherwise.
type SetPlan struct {
	Probe  Statement
	Update Statement
	Insert Statement

	insertErr error
}

// SetResult reports which write a Set performed.
type SetResult struct {
	adapter.ExecResult
	Inserted bool
}

// Set starts an insert-or-update on t.
func Set(t *schema.Table, a adapter.Adapter) *SetBuilder {
	return &SetBuilder{base: newBase("set", t, a)}
}

// Value assigns value to the column ref, for both the update and the insert.
func (b *SetBuilder) Value(ref any, value any) *SetBuilder {
	b.values = b.assign(b.values, ref, value)
	return b
}

// Where adds a condition. Several calls are combined with AND.
func (b *SetBuilder) Where(c *condition.Condition) *SetBuilder {
	b.cond = b.addCondition(b.cond, c)
	return b
}

// Compile renders the probe and both writes. It fails if either write
// cannot be built.
func (b *SetBuilder) Compile() (SetPlan, error) {
	plan, err := b.plan()
	if err != nil {
		return SetPlan{}, err
	}
	if plan.insertErr != nil {
		return SetPlan{}, plan.insertErr
	}
	return plan, nil
}

// plan builds the statements. An insert that cannot be built is reported
// separately: it only matters when the probe finds no row.
func (b *SetBuilder) plan() (SetPlan, error) {
	if b.err != nil {
		return SetPlan{}, b.err
	}

	update, err := compileUpdate(&b.base, b.values, b.cond)
	if err != nil {
		return SetPlan{}, err
	}

	var sql strings.Builder
	sql.WriteString("SELECT 1 FROM ")
	sql.WriteString(b.quote(b.table.Name()))
	args, err := b.where(&sql, nil, b.cond)
	if err != nil {
		return SetPlan{}, b.compileError(err)
	}
	one := 1
	sql.WriteString(b.dialect.LimitOffset(&one, nil))

	ins := &InsertBuilder{base: newBase(b.op, b.table, b.adapter), values: b.values}
	insert, insertErr := ins.Compile()

	return SetPlan{
		Probe:     Statement{SQL: sql.String(), Args: args},
		Update:    update,
		Insert:    insert,
		insertErr: insertErr,
	}, nil
}

// Execute probes for a matching row, then updates or inserts.
func (b *SetBuilder) Execute(ctx context.Context) (SetResult, error) {
	if err := b.consume(); err != nil {
		return SetResult{}, err
	}
	plan, err := b.plan()
	if err != nil {
		return SetResult{}, err
	}

	rows, err := b.query(ctx, plan.Probe)
	if err != nil {
		return SetResult{}, err
	}
	if len(rows) > 0 {
		res, err := b.exec(ctx, plan.Update)
		return SetResult{ExecResult: res}, err
	}
	if plan.insertErr != nil {
		return SetResult{}, plan.insertErr
	}
	res, err := b.exec(ctx, plan.Insert)
	return SetResult{ExecResult: res, Inserted: true}, err
}
