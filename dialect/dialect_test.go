package dialect_test

import (
	"testing"

	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func registerUsers(t *testing.T) *schema.Table {
	t.Helper()
	users, err := schema.NewRegistry().Register("Users", []*schema.Column{
		schema.NewColumn("ID", types.Int, schema.Primary|schema.AutoIncrement),
		schema.NewColumn("Name", types.String(255), schema.NotNull, schema.Default("Missing")),
		schema.NewColumn("Balance", types.Int, schema.NotNull),
		schema.NewColumn("Premium", types.Bool, schema.NotNull, schema.Default(false)),
	})
	require.NoError(t, err)
	return users
}

func TestForProvider(t *testing.T) {
	for provider, want := range map[string]string{
		"":           dialect.NameMySQL,
		"mysql":      dialect.NameMySQL,
		"MariaDB":    dialect.NameMySQL,
		"sqlite3":    dialect.NameSQLite,
		"postgresql": dialect.NamePostgres,
		"pgx":        dialect.NamePostgres,
	} {
		d, err := dialect.ForProvider(provider)
		require.NoError(t, err, provider)
		assert.Equal(t, want, d.Name(), provider)
	}

	_, err := dialect.ForProvider("oracle")
	assert.Error(t, err)
}

func TestQuoteAndPlaceholder(t *testing.T) {
	assert.Equal(t, "`Users`", dialect.MySQL.Quote("Users"))
	assert.Equal(t, "`we``ird`", dialect.MySQL.Quote("we`ird"))
	assert.Equal(t, `"Users"`, dialect.SQLite.Quote("Users"))
	assert.Equal(t, `"a""b"`, dialect.Postgres.Quote(`a"b`))

	assert.Equal(t, "?", dialect.MySQL.Placeholder(3))
	assert.Equal(t, "?", dialect.SQLite.Placeholder(3))
	assert.Equal(t, "$3", dialect.Postgres.Placeholder(3))
}

func TestLimitOffset(t *testing.T) {
	tests := []struct {
		name          string
		d             dialect.Dialect
		limit, offset *int
		want          string
	}{
		{"mysql none", dialect.MySQL, nil, nil, ""},
		{"mysql limit", dialect.MySQL, intPtr(5), nil, " LIMIT 5"},
		{"mysql both", dialect.MySQL, intPtr(5), intPtr(10), " LIMIT 5 OFFSET 10"},
		{"mysql offset", dialect.MySQL, nil, intPtr(10), " LIMIT 18446744073709551615 OFFSET 10"},
		{"sqlite offset", dialect.SQLite, nil, intPtr(10), " LIMIT -1 OFFSET 10"},
		{"postgres offset", dialect.Postgres, nil, intPtr(10), " OFFSET 10"},
		{"postgres both", dialect.Postgres, intPtr(0), intPtr(1), " LIMIT 0 OFFSET 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.LimitOffset(tt.limit, tt.offset))
		})
	}
}

func TestUpsert(t *testing.T) {
	assert.Equal(t, " ON DUPLICATE KEY UPDATE `Name` = VALUES(`Name`), `Balance` = VALUES(`Balance`)",
		dialect.MySQL.Upsert([]string{"ID"}, []string{"Name", "Balance"}))
	assert.Equal(t, " ON DUPLICATE KEY UPDATE `ID` = `ID`",
		dialect.MySQL.Upsert([]string{"ID"}, nil))
	assert.Equal(t, ` ON CONFLICT ("ID") DO UPDATE SET "Name" = excluded."Name"`,
		dialect.SQLite.Upsert([]string{"ID"}, []string{"Name"}))
	assert.Equal(t, ` ON CONFLICT ("A", "B") DO NOTHING`,
		dialect.Postgres.Upsert([]string{"A", "B"}, nil))
}

func TestPostgresColumnType(t *testing.T) {
	tests := map[types.ColumnType]string{
		types.TinyInt:           "SMALLINT",
		types.UnsignedTinyInt:   "SMALLINT",
		types.UnsignedSmallInt:  "INTEGER",
		types.MediumInt:         "INTEGER",
		types.UnsignedInt:       "BIGINT",
		types.BigInt:            "BIGINT",
		types.UnsignedBigInt:    "NUMERIC(20)",
		types.Bool:              "BOOLEAN",
		types.String(12):        "VARCHAR(12)",
		types.UnsignedMediumInt: "INTEGER",
	}
	for typ, want := range tests {
		assert.Equal(t, want, dialect.Postgres.ColumnType(typ), typ.Name())
	}
}

func TestCreateTable(t *testing.T) {
	users := registerUsers(t)

	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS `Users` (`ID` INT NOT NULL AUTO_INCREMENT, "+
			"`Name` VARCHAR(255) NOT NULL DEFAULT 'Missing', `Balance` INT NOT NULL, "+
			"`Premium` BOOL NOT NULL DEFAULT FALSE, PRIMARY KEY (`ID`))",
		dialect.CreateTable(dialect.MySQL, users))

	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "Users" ("ID" INTEGER PRIMARY KEY AUTOINCREMENT, `+
			`"Name" VARCHAR(255) NOT NULL DEFAULT 'Missing', "Balance" INT NOT NULL, `+
			`"Premium" BOOL NOT NULL DEFAULT FALSE)`,
		dialect.CreateTable(dialect.SQLite, users))

	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "Users" ("ID" INTEGER GENERATED BY DEFAULT AS IDENTITY NOT NULL, `+
			`"Name" VARCHAR(255) NOT NULL DEFAULT 'Missing', "Balance" INTEGER NOT NULL, `+
			`"Premium" BOOLEAN NOT NULL DEFAULT FALSE, PRIMARY KEY ("ID"))`,
		dialect.CreateTable(dialect.Postgres, users))
}

func TestCreateTableCompositeKeyAndUniqueGroups(t *testing.T) {
	scores, err := schema.NewRegistry().Register("Scores", []*schema.Column{
		schema.NewColumn("Player", types.String(32), schema.Primary),
		schema.NewColumn("Level", types.UnsignedTinyInt, schema.Primary),
		schema.NewColumn("Tag", types.String(8), schema.Unique),
		schema.NewColumn("A", types.Int, schema.NoTags),
		schema.NewColumn("B", types.Int, schema.NoTags),
	}, schema.UniqueGroup("A", "B"))
	require.NoError(t, err)

	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "Scores" ("Player" VARCHAR(32) NOT NULL, "Level" TINYINT UNSIGNED NOT NULL, `+
			`"Tag" VARCHAR(8), "A" INT, "B" INT, PRIMARY KEY ("Player", "Level"), UNIQUE ("Tag"), UNIQUE ("A", "B"))`,
		dialect.CreateTable(dialect.SQLite, scores))
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "NULL", dialect.Literal(nil))
	assert.Equal(t, "TRUE", dialect.Literal(true))
	assert.Equal(t, "'it''s'", dialect.Literal("it's"))
	assert.Equal(t, "-5", dialect.Literal(int64(-5)))
	assert.Equal(t, "18446744073709551615", dialect.Literal(uint64(18446744073709551615)))
}
