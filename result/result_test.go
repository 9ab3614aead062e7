package result_test

import (
	"errors"
	"testing"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/result"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
	"github.com/ashenguard/easysql/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func users(t *testing.T) *schema.Table {
	t.Helper()
	tbl, err := schema.NewRegistry().Register("Users", []*schema.Column{
		schema.NewColumn("ID", types.Int, schema.Primary|schema.AutoIncrement),
		schema.NewColumn("Name", types.String(255), schema.NotNull, schema.Default("Missing")),
		schema.NewColumn("Balance", types.Int, schema.NotNull),
		schema.NewColumn("Premium", types.Bool, schema.NotNull, schema.Default(false)),
	})
	require.NoError(t, err)
	return tbl
}

func rawUser(id int64, name string, balance int64, premium int64) adapter.Row {
	return adapter.Row{"ID": id, "Name": name, "Balance": balance, "Premium": premium}
}

func TestArity(t *testing.T) {
	tbl := users(t)
	cols := tbl.Columns()

	res, err := result.New(cols, nil)
	require.NoError(t, err)
	assert.IsType(t, result.Empty{}, res)
	assert.Equal(t, 0, res.Len())
	_, ok := res.First()
	assert.False(t, ok)
	count := 0
	for range res.All() {
		count++
	}
	assert.Zero(t, count)

	res, err = result.New(cols, []adapter.Row{rawUser(1, "Ashenguard", 10, 1)})
	require.NoError(t, err)
	single, ok := res.(result.Single)
	require.True(t, ok)
	assert.Equal(t, 1, single.Len())
	balance, err := single.Get(tbl.MustColumn("Balance"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
	premium, err := single.Get("Premium")
	require.NoError(t, err)
	assert.Equal(t, true, premium)

	res, err = result.New(cols, []adapter.Row{
		rawUser(3, "C", 0, 0),
		rawUser(1, "A", 0, 0),
		rawUser(2, "B", 0, 1),
	})
	require.NoError(t, err)
	assert.IsType(t, result.Many{}, res)
	require.Equal(t, 3, res.Len())
	var names []string
	for row := range res.All() {
		name, err := result.Get[string](row, "Name")
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
	first, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, []any{int64(3), "C", int64(0), false}, first.Values())
}

func TestAllStopsEarly(t *testing.T) {
	tbl := users(t)
	res, err := result.New(tbl.Columns(), []adapter.Row{rawUser(1, "A", 0, 0), rawUser(2, "B", 0, 0)})
	require.NoError(t, err)

	seen := 0
	for range res.All() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestGetUnselectedColumn(t *testing.T) {
	tbl := users(t)
	cols := []*schema.Column{tbl.MustColumn("Name")}

	res, err := result.New(cols, []adapter.Row{{"Name": "Sam"}})
	require.NoError(t, err)
	row, _ := res.First()

	_, err = row.Get(tbl.MustColumn("Balance"))
	assert.True(t, sqlerr.IsSchema(err))
	_, err = row.Get("Balance")
	assert.True(t, sqlerr.IsSchema(err))
	_, err = row.Get(12)
	assert.True(t, sqlerr.IsSchema(err))
	assert.Equal(t, map[string]any{"Name": "Sam"}, row.Map())
}

func TestMissingColumnInReturnedRow(t *testing.T) {
	tbl := users(t)
	_, err := result.New(tbl.Columns(), []adapter.Row{{"ID": int64(1)}})
	assert.True(t, sqlerr.IsExecution(err))
}

func TestTypedGet(t *testing.T) {
	tbl := users(t)
	res, err := result.New(tbl.Columns(), []adapter.Row{rawUser(7, "Sam", 3, 0)})
	require.NoError(t, err)
	row, _ := res.First()

	id, err := result.Get[int64](row, "ID")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = result.Get[string](row, "ID")
	assert.True(t, sqlerr.IsTypeMismatch(err))

	nullable, err := result.New([]*schema.Column{tbl.MustColumn("ID")}, []adapter.Row{{"ID": nil}})
	require.NoError(t, err)
	row, _ = nullable.First()
	id, err = result.Get[int64](row, "ID")
	require.NoError(t, err)
	assert.Zero(t, id)
}

type user struct {
	ID      int
	Name    string
	Funds   int32 `db:"Balance"`
	Premium bool
	Skipped string `db:"-"`
}

func TestScan(t *testing.T) {
	tbl := users(t)
	res, err := result.New(tbl.Columns(), []adapter.Row{rawUser(1, "Ashenguard", 10, 1), rawUser(2, "Sam", -4, 0)})
	require.NoError(t, err)

	all, err := result.ScanAll[user](res)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, user{ID: 1, Name: "Ashenguard", Funds: 10, Premium: true}, all[0])
	assert.Equal(t, user{ID: 2, Name: "Sam", Funds: -4}, all[1])

	type small struct {
		Balance uint8
	}
	row, _ := res.First()
	var s small
	require.NoError(t, row.Scan(&s))
	assert.Equal(t, uint8(10), s.Balance)

	last := res.Rows()[1]
	assert.True(t, sqlerr.IsTypeMismatch(last.Scan(&s)), "negative balance overflows uint8")

	type wrong struct {
		Name int
	}
	assert.True(t, sqlerr.IsTypeMismatch(row.Scan(&wrong{})))
	assert.True(t, sqlerr.IsTypeMismatch(row.Scan(s)))

	type pointers struct {
		Name *string
	}
	var p pointers
	require.NoError(t, row.Scan(&p))
	require.NotNil(t, p.Name)
	assert.Equal(t, "Ashenguard", *p.Name)
}

func TestScanIntegerSign(t *testing.T) {
	tbl, err := schema.NewRegistry().Register("Counters", []*schema.Column{
		schema.NewColumn("Hits", types.UnsignedBigInt, schema.NotNull),
		schema.NewColumn("Delta", types.BigInt, schema.NotNull),
	})
	require.NoError(t, err)

	res, err := result.New(tbl.Columns(), []adapter.Row{{"Hits": []byte("9223372036854775813"), "Delta": int64(-1)}})
	require.NoError(t, err)
	row, _ := res.First()

	var signed struct {
		Hits int64
	}
	assert.True(t, sqlerr.IsTypeMismatch(row.Scan(&signed)), "hits above MaxInt64 must not turn negative")

	var unsigned struct {
		Hits  uint64
		Delta uint64
	}
	assert.True(t, sqlerr.IsTypeMismatch(row.Scan(&unsigned)), "negative delta must not wrap")

	var ok struct {
		Hits  uint64
		Delta int64
	}
	require.NoError(t, row.Scan(&ok))
	assert.Equal(t, uint64(1<<63+5), ok.Hits)
	assert.Equal(t, int64(-1), ok.Delta)
}

func TestMap(t *testing.T) {
	tbl := users(t)
	res, err := result.New(tbl.Columns(), []adapter.Row{rawUser(1, "A", 1, 0), rawUser(2, "B", 2, 0)})
	require.NoError(t, err)

	names, err := result.Map(res, func(r result.Row) (string, error) {
		return result.Get[string](r, "Name")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	boom := errors.New("boom")
	_, err = result.Map(res, func(result.Row) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
