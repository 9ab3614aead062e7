package types

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ashenguard/easysql/sqlerr"
)

var textPattern = regexp.MustCompile(`^(VARCHAR|STRING|CHAR|TEXT)\s*\(\s*(\d+)\s*\)$`)

// Parse converts a declaration name such as "INT UNSIGNED", "VARCHAR(255)" or
// "BOOL" into a ColumnType.
func Parse(name string) (ColumnType, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(name), " "))

	if m := textPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, sqlerr.Schema("invalid text length in %q", name)
		}
		t := String(n)
		return t, Check(t)
	}

	switch s {
	case "BOOL", "BOOLEAN":
		return Bool, nil
	case "VARCHAR", "STRING", "CHAR":
		return String(255), nil
	}

	signed := true
	if rest, ok := strings.CutSuffix(s, " UNSIGNED"); ok {
		s, signed = rest, false
	}
	switch s {
	case "TINYINT":
		return Integer{Width: 8, Signed: signed}, nil
	case "SMALLINT":
		return Integer{Width: 16, Signed: signed}, nil
	case "MEDIUMINT":
		return Integer{Width: 24, Signed: signed}, nil
	case "INT", "INTEGER":
		return Integer{Width: 32, Signed: signed}, nil
	case "BIGINT":
		return Integer{Width: 64, Signed: signed}, nil
	}
	return nil, sqlerr.Schema("unknown column type %q", name)
}
