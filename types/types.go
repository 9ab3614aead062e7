// Package types implements the column type system: a closed set of column
// types with value validation and decoding of raw adapter values.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ashenguard/easysql/sqlerr"
)

// Kind identifies the variant of a ColumnType.
type Kind int

const (
	// KindInteger is a bounded signed or unsigned integer.
	KindInteger Kind = iota
	// KindText is text with a maximum length.
	KindText
	// KindBoolean is a two-state value.
	KindBoolean
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ColumnType describes the data type of a column. The set of implementations
// is closed: Integer, Text and Boolean.
type ColumnType interface {
	// Kind returns the variant.
	Kind() Kind
	// Name returns the canonical declaration name, e.g. "INT UNSIGNED".
	Name() string
	// Validate checks v against the type and returns its normalized form.
	Validate(v any) (any, error)
	// Decode converts a raw adapter value into the type's Go representation.
	Decode(raw any) (any, error)

	sealed()
}

// Integer is an integer column of Width bits.
type Integer struct {
	Width  int
	Signed bool
}

// Text is a text column holding at most MaxLength characters.
type Text struct {
	MaxLength int
}

// Boolean is a two-state column.
type Boolean struct{}

// Predeclared column types.
var (
	TinyInt   = Integer{Width: 8, Signed: true}
	SmallInt  = Integer{Width: 16, Signed: true}
	MediumInt = Integer{Width: 24, Signed: true}
	Int       = Integer{Width: 32, Signed: true}
	BigInt    = Integer{Width: 64, Signed: true}

	UnsignedTinyInt   = Integer{Width: 8}
	UnsignedSmallInt  = Integer{Width: 16}
	UnsignedMediumInt = Integer{Width: 24}
	UnsignedInt       = Integer{Width: 32}
	UnsignedBigInt    = Integer{Width: 64}

	Bool = Boolean{}
)

// String returns a Text type of the given maximum length.
func String(maxLength int) Text {
	return Text{MaxLength: maxLength}
}

func (Integer) sealed() {}
func (Text) sealed()    {}
func (Boolean) sealed() {}

// Kind implements ColumnType.
func (Integer) Kind() Kind { return KindInteger }

// Kind implements ColumnType.
func (Text) Kind() Kind { return KindText }

// Kind implements ColumnType.
func (Boolean) Kind() Kind { return KindBoolean }

var integerNames = map[int]string{
	8:  "TINYINT",
	16: "SMALLINT",
	24: "MEDIUMINT",
	32: "INT",
	64: "BIGINT",
}

// Name implements ColumnType.
func (t Integer) Name() string {
	name, ok := integerNames[t.Width]
	if !ok {
		name = fmt.Sprintf("INT%d", t.Width)
	}
	if !t.Signed {
		name += " UNSIGNED"
	}
	return name
}

// Name implements ColumnType.
func (t Text) Name() string { return fmt.Sprintf("VARCHAR(%d)", t.MaxLength) }

// Name implements ColumnType.
func (Boolean) Name() string { return "BOOL" }

// Check reports whether the type declaration itself is usable.
func Check(t ColumnType) error {
	switch t := t.(type) {
	case Integer:
		if _, ok := integerNames[t.Width]; !ok {
			return sqlerr.Schema("unsupported integer width %d", t.Width)
		}
	case Text:
		if t.MaxLength <= 0 {
			return sqlerr.Schema("text length must be positive, got %d", t.MaxLength)
		}
	case Boolean:
	case nil:
		return sqlerr.Schema("missing column type")
	}
	return nil
}

// Bounds returns the closed interval accepted by t. For unsigned types min is 0
// and max is returned in umax; for signed types max fits in an int64 and umax
// equals it.
func (t Integer) Bounds() (min int64, umax uint64) {
	if t.Signed {
		return -(1 << (t.Width - 1)), uint64(1)<<(t.Width-1) - 1
	}
	if t.Width >= 64 {
		return 0, math.MaxUint64
	}
	return 0, uint64(1)<<t.Width - 1
}

// Validate implements ColumnType. Any Go integer kind is accepted; the result
// is an int64, or a uint64 when it does not fit in one.
func (t Integer) Validate(v any) (any, error) {
	neg, mag, ok := integerParts(v)
	if !ok {
		return nil, sqlerr.TypeMismatch("%s expects an integer, got %T", t.Name(), v)
	}
	min, max := t.Bounds()
	if neg {
		n := -int64(mag)
		if mag > 1<<63 || n < min {
			return nil, sqlerr.Range("%s does not fit %s [%d, %d]", formatInt(neg, mag), t.Name(), min, max)
		}
		return n, nil
	}
	if mag > max {
		return nil, sqlerr.Range("%s does not fit %s [%d, %d]", formatInt(neg, mag), t.Name(), min, max)
	}
	if mag > math.MaxInt64 {
		return mag, nil
	}
	return int64(mag), nil
}

// integerParts splits any Go integer into sign and magnitude.
func integerParts(v any) (neg bool, mag uint64, ok bool) {
	var s int64
	switch n := v.(type) {
	case int:
		s = int64(n)
	case int8:
		s = int64(n)
	case int16:
		s = int64(n)
	case int32:
		s = int64(n)
	case int64:
		s = n
	case uint:
		return false, uint64(n), true
	case uint8:
		return false, uint64(n), true
	case uint16:
		return false, uint64(n), true
	case uint32:
		return false, uint64(n), true
	case uint64:
		return false, n, true
	default:
		return false, 0, false
	}
	if s < 0 {
		return true, uint64(-(s + 1)) + 1, true
	}
	return false, uint64(s), true
}

func formatInt(neg bool, mag uint64) string {
	if neg {
		return "-" + strconv.FormatUint(mag, 10)
	}
	return strconv.FormatUint(mag, 10)
}

// Validate implements ColumnType. Length is counted in characters.
func (t Text) Validate(v any) (any, error) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return nil, sqlerr.TypeMismatch("%s expects a string, got %T", t.Name(), v)
	}
	if n := utf8.RuneCountInString(s); n > t.MaxLength {
		return nil, sqlerr.Range("%d characters exceed %s", n, t.Name())
	}
	return s, nil
}

// Validate implements ColumnType. Integers are accepted as zero/non-zero.
func (b Boolean) Validate(v any) (any, error) {
	if x, ok := v.(bool); ok {
		return x, nil
	}
	if _, mag, ok := integerParts(v); ok {
		return mag != 0, nil
	}
	return nil, sqlerr.TypeMismatch("%s expects a bool, got %T", b.Name(), v)
}

// Decode implements ColumnType.
func (t Integer) Decode(raw any) (any, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		if x != math.Trunc(x) {
			return nil, sqlerr.TypeMismatch("%s cannot hold %v", t.Name(), x)
		}
		if x < 0 {
			return t.Validate(int64(x))
		}
		return t.Validate(uint64(x))
	}
	return t.Validate(raw)
}

func (t Integer) parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, sqlerr.TypeMismatch("%s cannot decode %q", t.Name(), s)
		}
		return t.Validate(n)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, sqlerr.TypeMismatch("%s cannot decode %q", t.Name(), s)
	}
	return t.Validate(n)
}

// Decode implements ColumnType. The declared length is not enforced on
// values coming back from the database.
func (t Text) Decode(raw any) (any, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// Decode implements ColumnType. Raw 0/1 integers become false/true.
func (b Boolean) Decode(raw any) (any, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case []byte:
		return b.parse(string(x))
	case string:
		return b.parse(x)
	}
	if _, mag, ok := integerParts(raw); ok {
		return mag != 0, nil
	}
	return nil, sqlerr.TypeMismatch("%s cannot decode %T", b.Name(), raw)
}

func (b Boolean) parse(s string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true":
		return true, nil
	case "0", "f", "false":
		return false, nil
	}
	return nil, sqlerr.TypeMismatch("%s cannot decode %q", b.Name(), s)
}
