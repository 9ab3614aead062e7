package query_test

import (
	"context"
	"testing"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/adapter/sqldb"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/query"
	"github.com/ashenguard/easysql/result"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteUsers(t *testing.T) (*sqldb.Adapter, *schema.Table) {
	t.Helper()
	a, err := sqldb.New(adapter.Config{Provider: "sqlite", URL: "file::memory:", ConnectTimeout: 5})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, a.Connect(ctx))
	t.Cleanup(func() { _ = a.Disconnect(ctx) })

	users := usersTable(t)
	require.NoError(t, query.Prepare(ctx, a, users))
	// Prepare is idempotent.
	require.NoError(t, query.Prepare(ctx, a, users))
	return a, users
}

func insertUser(t *testing.T, a adapter.Adapter, users *schema.Table, name string, balance int, premium bool) {
	t.Helper()
	_, err := query.Insert(users, a).Set("Name", name).Set("Balance", balance).Set("Premium", premium).
		Execute(context.Background())
	require.NoError(t, err)
}

func TestUsersScenario(t *testing.T) {
	a, users := sqliteUsers(t)
	ctx := context.Background()
	name := users.MustColumn("Name")

	res, err := query.Insert(users, a).Set("Name", "Ashenguard").Set("Premium", true).Set("Balance", 10).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LastInsertID)

	t.Run("single select", func(t *testing.T) {
		got, err := query.Select(users, a).Where(eq(t, name, "Ashenguard")).JustOne().Execute(ctx)
		require.NoError(t, err)
		require.IsType(t, result.Single{}, got)
		row, _ := got.First()

		balance, err := row.Get(users.MustColumn("Balance"))
		require.NoError(t, err)
		assert.Equal(t, int64(10), balance)
		premium, err := result.Get[bool](row, "Premium")
		require.NoError(t, err)
		assert.True(t, premium)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := query.Select(users, a).Where(eq(t, name, "NO-ONE")).Execute(ctx)
		require.NoError(t, err)
		assert.IsType(t, result.Empty{}, got)
		assert.Equal(t, 0, got.Len())
		for range got.All() {
			t.Fatal("empty result yielded a row")
		}
	})

	t.Run("conditioned update on a locked table", func(t *testing.T) {
		insertUser(t, a, users, "Sam", 0, false)
		require.True(t, users.Locked())

		cond := eq(t, users.MustColumn("ID"), 3).Or(eq(t, name, "Sam"))
		res, err := query.Update(users, a).Set("Premium", true).Where(cond).Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.RowsAffected)

		n, err := query.Count(ctx, a, users, eq(t, users.MustColumn("Premium"), true))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestResultArity(t *testing.T) {
	a, users := sqliteUsers(t)
	ctx := context.Background()

	got, err := query.Select(users, a).Execute(ctx)
	require.NoError(t, err)
	assert.IsType(t, result.Empty{}, got)

	insertUser(t, a, users, "one", 1, false)
	got, err = query.Select(users, a).Execute(ctx)
	require.NoError(t, err)
	assert.IsType(t, result.Single{}, got)

	insertUser(t, a, users, "two", 2, false)
	insertUser(t, a, users, "three", 3, true)
	got, err = query.Select(users, a).Columns("Name").OrderBy("ID").Execute(ctx)
	require.NoError(t, err)
	require.IsType(t, result.Many{}, got)
	assert.Equal(t, 3, got.Len())

	var names []string
	for row := range got.All() {
		n, err := result.Get[string](row, "Name")
		require.NoError(t, err)
		names = append(names, n)

		_, err = row.Get("Balance")
		assert.True(t, sqlerr.IsSchema(err), "unselected column")
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)

	_, err = query.Select(users, a).JustOne().Execute(ctx)
	assert.True(t, sqlerr.IsCardinality(err))

	got, err = query.Select(users, a).OrderBy("Balance").Descending().Limit(1).JustOne().Execute(ctx)
	require.NoError(t, err)
	row, ok := got.First()
	require.True(t, ok)
	top, err := result.Get[string](row, "Name")
	require.NoError(t, err)
	assert.Equal(t, "three", top)

	got, err = query.Select(users, a).OrderBy("ID").Offset(2).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestSafetyLockDelete(t *testing.T) {
	a, users := sqliteUsers(t)
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c"} {
		insertUser(t, a, users, n, 1, false)
	}

	_, err := query.Delete(users, a).Execute(ctx)
	assert.True(t, sqlerr.IsSafety(err))
	n, err := query.Count(ctx, a, users, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	res, err := query.Delete(users, a).Where(eq(t, users.MustColumn("Name"), "a")).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)

	require.NoError(t, users.Unlock(true))
	res, err = query.Delete(users, a).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)

	n, err = query.Count(ctx, a, users, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSetIsIdempotent(t *testing.T) {
	a, users := sqliteUsers(t)
	ctx := context.Background()
	cond := eq(t, users.MustColumn("Name"), "Sam")

	set := func() query.SetResult {
		res, err := query.Set(users, a).Value("Name", "Sam").Value("Balance", 42).Where(cond).Execute(ctx)
		require.NoError(t, err)
		return res
	}

	assert.True(t, set().Inserted)
	assert.False(t, set().Inserted)

	n, err := query.Count(ctx, a, users, cond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := query.Select(users, a).Where(cond).JustOne().Execute(ctx)
	require.NoError(t, err)
	row, _ := got.First()
	balance, err := result.Get[int64](row, "Balance")
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance)
}

func TestUpsertOnUniqueColumnSQLite(t *testing.T) {
	a, err := sqldb.New(adapter.Config{Provider: "sqlite", URL: "file::memory:", ConnectTimeout: 5})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, a.Connect(ctx))
	t.Cleanup(func() { _ = a.Disconnect(ctx) })

	accounts := accountsTable(t)
	require.NoError(t, query.Prepare(ctx, a, accounts))

	res, err := query.Insert(accounts, a).Set("Email", "a@x").Set("Balance", 1).Execute(ctx)
	require.NoError(t, err)
	id := res.LastInsertID

	_, err = query.Insert(accounts, a).Set("Email", "a@x").Set("Balance", 50).OnDuplicateUpdate().Execute(ctx)
	require.NoError(t, err)

	email, err := condition.Equal(accounts.MustColumn("Email"), "a@x")
	require.NoError(t, err)
	got, err := query.Select(accounts, a).Where(email).JustOne().Execute(ctx)
	require.NoError(t, err)
	row, ok := got.First()
	require.True(t, ok)

	balance, err := result.Get[int64](row, "Balance")
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)
	gotID, err := result.Get[int64](row, "ID")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	n, err := query.Count(ctx, a, accounts, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpsertOnSQLite(t *testing.T) {
	a, users := sqliteUsers(t)
	ctx := context.Background()

	ok, err := query.UpsertSupport(ctx, a, a.Dialect())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = query.Insert(users, a).Set("ID", 7).Set("Name", "Kim").Set("Balance", 1).Execute(ctx)
	require.NoError(t, err)

	_, err = query.Insert(users, a).Set("ID", 7).Set("Name", "Kim").Set("Balance", 1).Execute(ctx)
	require.True(t, sqlerr.IsExecution(err))
	assert.True(t, sqldb.IsConstraint(err))

	_, err = query.Insert(users, a).Set("ID", 7).Set("Balance", 99).OnDuplicateUpdate().Execute(ctx)
	require.NoError(t, err)

	id, err := condition.Equal(users.MustColumn("ID"), 7)
	require.NoError(t, err)
	got, err := query.Select(users, a).Where(id).JustOne().Execute(ctx)
	require.NoError(t, err)

	type user struct {
		ID      int64
		Name    string
		Balance int
		Premium bool
	}
	rows, err := result.ScanAll[user](got)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, user{ID: 7, Name: "Kim", Balance: 99}, rows[0])
}

func TestRoundTrip(t *testing.T) {
	a, users := sqliteUsers(t)
	ctx := context.Background()

	_, err := query.Insert(users, a).Set("Name", "héllo wörld").Set("Balance", -2147483648).Execute(ctx)
	require.NoError(t, err)

	got, err := query.Select(users, a).Execute(ctx)
	require.NoError(t, err)
	row, ok := got.First()
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"ID":      int64(1),
		"Name":    "héllo wörld",
		"Balance": int64(-2147483648),
		"Premium": false,
	}, row.Map())
}
