package dialect

import (
	"fmt"
	"strings"

	"github.com/ashenguard/easysql/internal/debug"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/types"
)

type sqlite struct{}

func (sqlite) Name() string { return NameSQLite }

func (sqlite) Quote(ident string) string { return quoteWith(`"`, ident) }

func (sqlite) Placeholder(int) string { return "?" }

func (sqlite) LimitOffset(limit, offset *int) string {
	switch {
	case limit != nil && offset != nil:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", *limit, *offset)
	case limit != nil:
		return fmt.Sprintf(" LIMIT %d", *limit)
	case offset != nil:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", *offset)
	}
	return ""
}

func (d sqlite) Upsert(conflict, update []string) string {
	target := strings.Join(QuoteAll(d, conflict), ", ")
	if len(update) == 0 {
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", target)
	}
	sets := make([]string, len(update))
	for i, c := range update {
		q := d.Quote(c)
		sets[i] = fmt.Sprintf("%s = excluded.%s", q, q)
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", target, strings.Join(sets, ", "))
}

func (sqlite) ColumnType(t types.ColumnType) string { return t.Name() }

// ColumnDefinition declares an AUTO_INCREMENT sole key as
// INTEGER PRIMARY KEY AUTOINCREMENT, the only form SQLite accepts.
func (d sqlite) ColumnDefinition(c *schema.Column, soleKey bool) (string, bool) {
	if c.Tags().Has(schema.AutoIncrement) {
		if soleKey {
			return d.Quote(c.Name()) + " INTEGER PRIMARY KEY AUTOINCREMENT", true
		}
		debug.Warn("sqlite ignores AUTO_INCREMENT outside a single-column primary key",
			"table", c.Table().Name(), "column", c.Name())
	}
	return definition(d.Quote(c.Name()), d.ColumnType(c.Type()), c), false
}

func (sqlite) MinUpsertVersion() string { return "3.24.0" }
