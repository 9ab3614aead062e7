package types_test

import (
	"math"
	"testing"

	"github.com/ashenguard/easysql/sqlerr"
	"github.com/ashenguard/easysql/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerBoundaries(t *testing.T) {
	tests := []struct {
		typ      types.Integer
		min, max int64
	}{
		{types.TinyInt, -128, 127},
		{types.UnsignedTinyInt, 0, 255},
		{types.SmallInt, -32768, 32767},
		{types.UnsignedSmallInt, 0, 65535},
		{types.MediumInt, -8388608, 8388607},
		{types.UnsignedMediumInt, 0, 16777215},
		{types.Int, math.MinInt32, math.MaxInt32},
		{types.UnsignedInt, 0, math.MaxUint32},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			got, err := tt.typ.Validate(tt.min)
			require.NoError(t, err)
			assert.Equal(t, tt.min, got)

			got, err = tt.typ.Validate(tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.max, got)

			_, err = tt.typ.Validate(tt.min - 1)
			assert.True(t, sqlerr.IsRange(err), "min-1 should be out of range")

			_, err = tt.typ.Validate(tt.max + 1)
			assert.True(t, sqlerr.IsRange(err), "max+1 should be out of range")
		})
	}
}

func TestBigIntBoundaries(t *testing.T) {
	got, err := types.BigInt.Validate(int64(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), got)

	got, err = types.BigInt.Validate(int64(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)

	_, err = types.BigInt.Validate(uint64(math.MaxInt64) + 1)
	assert.True(t, sqlerr.IsRange(err))

	got, err = types.UnsignedBigInt.Validate(uint64(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)

	_, err = types.UnsignedBigInt.Validate(-1)
	assert.True(t, sqlerr.IsRange(err))
}

func TestIntegerAcceptsEveryGoIntegerKind(t *testing.T) {
	for _, v := range []any{int(7), int8(7), int16(7), int32(7), int64(7), uint(7), uint8(7), uint16(7), uint32(7), uint64(7)} {
		got, err := types.TinyInt.Validate(v)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got)
	}
}

func TestIntegerRejectsOtherKinds(t *testing.T) {
	for _, v := range []any{"7", 7.0, true, nil} {
		_, err := types.Int.Validate(v)
		assert.True(t, sqlerr.IsTypeMismatch(err), "%T", v)
	}
}

func TestTextLength(t *testing.T) {
	typ := types.String(5)

	got, err := typ.Validate("héllo")
	require.NoError(t, err)
	assert.Equal(t, "héllo", got)

	_, err = typ.Validate("toolong")
	assert.True(t, sqlerr.IsRange(err))

	_, err = typ.Validate(12)
	assert.True(t, sqlerr.IsTypeMismatch(err))
}

func TestBooleanValidate(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{int64(-3), true},
	}
	for _, tt := range tests {
		got, err := types.Bool.Validate(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := types.Bool.Validate("yes")
	assert.True(t, sqlerr.IsTypeMismatch(err))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		typ  types.ColumnType
		raw  any
		want any
	}{
		{"int64", types.Int, int64(10), int64(10)},
		{"int bytes", types.Int, []byte("-42"), int64(-42)},
		{"unsigned bigint", types.UnsignedBigInt, []byte("18446744073709551615"), uint64(math.MaxUint64)},
		{"text bytes", types.String(10), []byte("Sam"), "Sam"},
		{"bool from one", types.Bool, int64(1), true},
		{"bool from zero", types.Bool, int64(0), false},
		{"bool from bytes", types.Bool, []byte("1"), true},
		{"bool passthrough", types.Bool, false, false},
		{"null", types.Int, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := types.Bool.Decode("maybe")
	assert.True(t, sqlerr.IsTypeMismatch(err))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "BIGINT", types.BigInt.Name())
	assert.Equal(t, "TINYINT UNSIGNED", types.UnsignedTinyInt.Name())
	assert.Equal(t, "VARCHAR(255)", types.String(255).Name())
	assert.Equal(t, "BOOL", types.Bool.Name())
}

func TestCheck(t *testing.T) {
	assert.NoError(t, types.Check(types.Int))
	assert.True(t, sqlerr.IsSchema(types.Check(types.Integer{Width: 12})))
	assert.True(t, sqlerr.IsSchema(types.Check(types.String(0))))
	assert.True(t, sqlerr.IsSchema(types.Check(nil)))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want types.ColumnType
	}{
		{"bigint", types.BigInt},
		{"INT  unsigned", types.UnsignedInt},
		{"INTEGER", types.Int},
		{"TINYINT UNSIGNED", types.UnsignedTinyInt},
		{"VARCHAR(64)", types.String(64)},
		{"string( 12 )", types.String(12)},
		{"BOOLEAN", types.Bool},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := types.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := types.Parse("FLOAT")
	assert.True(t, sqlerr.IsSchema(err))
	_, err = types.Parse("VARCHAR(0)")
	assert.True(t, sqlerr.IsSchema(err))
}
