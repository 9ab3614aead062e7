package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// InsertBuilder builds an INSERT, optionally turned into an upsert.
type InsertBuilder struct {
	base
	values  []assignment
	targets []*schema.Column
	upsert  bool
}

// Insert starts an INSERT into t.
func Insert(t *schema.Table, a adapter.Adapter) *InsertBuilder {
	return &InsertBuilder{base: newBase("insert", t, a)}
}

// Set assigns value to the column ref.
func (b *InsertBuilder) Set(ref any, value any) *InsertBuilder {
	b.values = b.assign(b.values, ref, value)
	return b
}

// Into names the columns the next Values call fills.
func (b *InsertBuilder) Into(refs ...any) *InsertBuilder {
	if b.table == nil {
		return b
	}
	cols, err := b.table.ResolveAll(refs...)
	if err != nil {
		b.fail(err)
		return b
	}
	b.targets = cols
	return b
}

// Values assigns values positionally, to the columns named by Into or to
// every column in table order.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	if b.table == nil {
		return b
	}
	targets := b.targets
	if targets == nil {
		targets = b.table.Columns()
	}
	if len(values) != len(targets) {
		b.fail(&sqlerr.Error{Kind: sqlerr.ErrTypeMismatch, Table: b.table.Name(),
			Message: fmt.Sprintf("%d values for %d columns", len(values), len(targets))})
		return b
	}
	for i, c := range targets {
		b.values = b.assign(b.values, c, values[i])
	}
	b.targets = nil
	return b
}

// OnDuplicateUpdate turns the insert into an upsert: on a primary key or
// unique group conflict, the explicitly set non-key columns of the existing
// row are overwritten. The conflict target is the primary key when the insert
// supplies all of it, else the first unique group it fully supplies.
func (b *InsertBuilder) OnDuplicateUpdate() *InsertBuilder {
	b.upsert = true
	return b
}

// row returns the columns and values to insert: explicit values in call
// order, then defaults of unset columns in table order. nil values of
// AUTO_INCREMENT columns are left to the database.
func (b *InsertBuilder) row() ([]assignment, error) {
	row := make([]assignment, 0, len(b.table.Columns()))
	set := make(map[*schema.Column]bool, len(b.values))
	for _, a := range b.values {
		set[a.column] = true
		if a.value == nil && a.column.Tags().Has(schema.AutoIncrement) {
			continue
		}
		row = append(row, a)
	}

	for _, c := range b.table.Columns() {
		if set[c] {
			continue
		}
		if def, ok := c.Default(); ok {
			row = append(row, assignment{column: c, value: def})
			continue
		}
		if c.Required() {
			return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: b.table.Name(), Column: c.Name(),
				Message: "no value and no default for a required column"}
		}
	}

	if len(row) == 0 {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: b.table.Name(), Message: "insert has no values"}
	}
	return row, nil
}

func (b *InsertBuilder) explicit(c *schema.Column) bool {
	for _, a := range b.values {
		if a.column == c {
			return true
		}
	}
	return false
}

// Compile renders the statement.
func (b *InsertBuilder) Compile() (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}

	row, err := b.row()
	if err != nil {
		return Statement{}, b.compileError(err)
	}

	names := make([]string, len(row))
	args := make([]any, len(row))
	for i, a := range row {
		names[i] = b.quote(a.column.Name())
		args[i] = a.value
	}

	var sql strings.Builder
	fmt.Fprintf(&sql, "INSERT INTO %s (%s) VALUES (%s)",
		b.quote(b.table.Name()),
		strings.Join(names, ", "),
		strings.Join(b.placeholders(0, len(args)), ", "),
	)

	if b.upsert {
		supplied := make([]*schema.Column, len(row))
		for i, a := range row {
			supplied[i] = a.column
		}
		target, err := b.table.ConflictTargetFor(supplied)
		if err != nil {
			return Statement{}, b.compileError(err)
		}
		conflict := make([]string, len(target))
		for i, c := range target {
			conflict[i] = c.Name()
		}
		var update []string
		for _, a := range row {
			if b.explicit(a.column) && !contains(target, a.column) {
				update = append(update, a.column.Name())
			}
		}
		sql.WriteString(b.dialect.Upsert(conflict, update))
	}

	return Statement{SQL: sql.String(), Args: args}, nil
}

// Execute runs the insert.
func (b *InsertBuilder) Execute(ctx context.Context) (adapter.ExecResult, error) {
	if err := b.consume(); err != nil {
		return adapter.ExecResult{}, err
	}
	st, err := b.Compile()
	if err != nil {
		return adapter.ExecResult{}, err
	}
	return b.exec(ctx, st)
}
