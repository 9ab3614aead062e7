package dialect

import (
	"fmt"
	"strings"

	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/types"
)

// mysqlMaxLimit is the documented way to express an OFFSET without a LIMIT.
const mysqlMaxLimit = "18446744073709551615"

type mysql struct{}

func (mysql) Name() string { return NameMySQL }

func (mysql) Quote(ident string) string { return quoteWith("`", ident) }

func (mysql) Placeholder(int) string { return "?" }

func (mysql) LimitOffset(limit, offset *int) string {
	switch {
	case limit != nil && offset != nil:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", *limit, *offset)
	case limit != nil:
		return fmt.Sprintf(" LIMIT %d", *limit)
	case offset != nil:
		return fmt.Sprintf(" LIMIT %s OFFSET %d", mysqlMaxLimit, *offset)
	}
	return ""
}

func (d mysql) Upsert(conflict, update []string) string {
	if len(update) == 0 {
		// self-assignment keeps the existing row
		k := d.Quote(conflict[0])
		return fmt.Sprintf(" ON DUPLICATE KEY UPDATE %s = %s", k, k)
	}
	sets := make([]string, len(update))
	for i, c := range update {
		q := d.Quote(c)
		sets[i] = fmt.Sprintf("%s = VALUES(%s)", q, q)
	}
	return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

func (mysql) ColumnType(t types.ColumnType) string { return t.Name() }

func (d mysql) ColumnDefinition(c *schema.Column, _ bool) (string, bool) {
	def := definition(d.Quote(c.Name()), d.ColumnType(c.Type()), c)
	if c.Tags().Has(schema.AutoIncrement) {
		def += " AUTO_INCREMENT"
	}
	return def, false
}

func (mysql) MinUpsertVersion() string { return "4.1.0" }
