// Package dialect renders the dialect-specific parts of generated SQL.
package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/types"
)

// Dialect renders identifiers, placeholders and clauses for one database.
type Dialect interface {
	// Name returns the dialect name.
	Name() string
	// Quote quotes a table or column name.
	Quote(ident string) string
	// Placeholder returns the n-th (1-based) parameter placeholder.
	Placeholder(n int) string
	// LimitOffset renders the LIMIT/OFFSET suffix, with a leading space, or "".
	LimitOffset(limit, offset *int) string
	// Upsert renders the conflict clause appended to an INSERT. update holds
	// the columns overwritten on conflict.
	Upsert(conflict, update []string) string
	// ColumnType returns the DDL type of t.
	ColumnType(t types.ColumnType) string
	// ColumnDefinition renders one column of a CREATE TABLE statement.
	// soleKey is set when c is the only primary key column. inlinePK reports
	// whether the definition already declares the primary key.
	ColumnDefinition(c *schema.Column, soleKey bool) (def string, inlinePK bool)
	// MinUpsertVersion is the oldest server version that accepts Upsert.
	MinUpsertVersion() string
}

// Name constants.
const (
	NameMySQL    = "mysql"
	NameSQLite   = "sqlite"
	NamePostgres = "postgres"
)

var (
	// MySQL is the default dialect.
	MySQL Dialect = mysql{}
	// SQLite is the dialect used by mattn/go-sqlite3.
	SQLite Dialect = sqlite{}
	// Postgres is the dialect used by lib/pq and pgx.
	Postgres Dialect = postgres{}
)

// ForProvider returns the dialect for a provider name.
func ForProvider(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "", "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", provider)
	}
}

// QuoteAll quotes every name.
func QuoteAll(d Dialect, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.Quote(n)
	}
	return out
}

// Literal renders v as a SQL literal. It is used for DDL defaults only;
// statement values are always bound parameters.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func quoteWith(q, ident string) string {
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// definition renders the parts shared by every dialect: type, NOT NULL and DEFAULT.
func definition(name, typ string, c *schema.Column) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" ")
	b.WriteString(typ)
	if c.Tags().Has(schema.NotNull) || c.Tags().Has(schema.Primary) {
		b.WriteString(" NOT NULL")
	}
	if def, ok := c.Default(); ok {
		b.WriteString(" DEFAULT ")
		b.WriteString(Literal(def))
	}
	return b.String()
}

// CreateTable renders CREATE TABLE IF NOT EXISTS for t.
func CreateTable(d Dialect, t *schema.Table) string {
	pk := t.PrimaryKey()

	var defs []string
	inlined := false
	for _, c := range t.Columns() {
		def, inline := d.ColumnDefinition(c, len(pk) == 1 && pk[0] == c)
		inlined = inlined || inline
		defs = append(defs, def)
	}
	if len(pk) > 0 && !inlined {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(QuoteAll(d, columnNames(pk)), ", ")))
	}
	for _, g := range t.UniqueGroups() {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", strings.Join(QuoteAll(d, columnNames(g)), ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.Quote(t.Name()), strings.Join(defs, ", "))
}

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}
