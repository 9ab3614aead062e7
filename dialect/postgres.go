package dialect

import (
	"fmt"
	"strings"

	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/types"
)

type postgres struct{}

func (postgres) Name() string { return NamePostgres }

func (postgres) Quote(ident string) string { return quoteWith(`"`, ident) }

func (postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgres) LimitOffset(limit, offset *int) string {
	var b strings.Builder
	if limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *limit)
	}
	if offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *offset)
	}
	return b.String()
}

func (d postgres) Upsert(conflict, update []string) string {
	return sqlite{}.Upsert(conflict, update)
}

// ColumnType widens unsigned integers to the next signed type, since
// PostgreSQL has no unsigned or one-byte integers.
func (postgres) ColumnType(t types.ColumnType) string {
	switch x := t.(type) {
	case types.Integer:
		bits := x.Width
		if !x.Signed {
			bits++
		}
		switch {
		case bits <= 16:
			return "SMALLINT"
		case bits <= 32:
			return "INTEGER"
		case bits <= 64:
			return "BIGINT"
		default:
			return "NUMERIC(20)"
		}
	case types.Boolean:
		return "BOOLEAN"
	default:
		return t.Name()
	}
}

func (d postgres) ColumnDefinition(c *schema.Column, _ bool) (string, bool) {
	typ := d.ColumnType(c.Type())
	if c.Tags().Has(schema.AutoIncrement) {
		typ += " GENERATED BY DEFAULT AS IDENTITY"
	}
	return definition(d.Quote(c.Name()), typ, c), false
}

func (postgres) MinUpsertVersion() string { return "9.5.0" }
