// Package condition builds and compiles WHERE predicates.
//
// A Condition is an immutable tree: leaves compare a column with a bound
// value, inner nodes combine conditions with AND, OR and NOT. Every composed
// subtree is parenthesized when compiled, so the tree shape always survives
// regardless of operator precedence.
package condition

import (
	"fmt"
	"strings"

	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// Operator is a comparison operator.
type Operator int

// Comparison operators.
const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLesser
	OpLesserEqual
	OpLike
)

var operatorSQL = [...]string{
	OpEqual:        "=",
	OpNotEqual:     "<>",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpLesser:       "<",
	OpLesserEqual:  "<=",
	OpLike:         "LIKE",
}

// String returns the SQL form of the operator.
func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorSQL) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorSQL[o]
}

type kind uint8

const (
	kindLeaf kind = iota
	kindAnd
	kindOr
	kindNot
)

// Condition is a node of a predicate tree.
type Condition struct {
	kind   kind
	column *schema.Column
	op     Operator
	value  any

	left, right *Condition
}

// New builds a leaf comparing column with value. The value is validated
// against the column type immediately.
func New(column *schema.Column, op Operator, value any) (*Condition, error) {
	if column == nil {
		return nil, sqlerr.Schema("condition on a nil column")
	}
	if op < OpEqual || op > OpLike {
		return nil, sqlerr.Schema("unknown operator %d", int(op))
	}
	if value == nil {
		return nil, annotate(sqlerr.TypeMismatch("cannot compare with NULL using %s", op), column)
	}

	if op == OpLike {
		if _, ok := value.(string); !ok {
			return nil, annotate(sqlerr.TypeMismatch("LIKE pattern must be a string, got %T", value), column)
		}
		return &Condition{kind: kindLeaf, column: column, op: op, value: value}, nil
	}

	v, err := column.Type().Validate(value)
	if err != nil {
		return nil, annotate(err, column)
	}
	return &Condition{kind: kindLeaf, column: column, op: op, value: v}, nil
}

func annotate(err error, c *schema.Column) error {
	table := ""
	if c.Table() != nil {
		table = c.Table().Name()
	}
	return sqlerr.Annotate(err, table, c.Name())
}

// Equal builds column = value.
func Equal(column *schema.Column, value any) (*Condition, error) {
	return New(column, OpEqual, value)
}

// NotEqual builds column <> value.
func NotEqual(column *schema.Column, value any) (*Condition, error) {
	return New(column, OpNotEqual, value)
}

// Greater builds column > value.
func Greater(column *schema.Column, value any) (*Condition, error) {
	return New(column, OpGreater, value)
}

// GreaterEqual builds column >= value.
func GreaterEqual(column *schema.Column, value any) (*Condition, error) {
	return New(column, OpGreaterEqual, value)
}

// Lesser builds column < value.
func Lesser(column *schema.Column, value any) (*Condition, error) {
	return New(column, OpLesser, value)
}

// LesserEqual builds column <= value.
func LesserEqual(column *schema.Column, value any) (*Condition, error) {
	return New(column, OpLesserEqual, value)
}

// Like builds column LIKE pattern.
func Like(column *schema.Column, pattern string) (*Condition, error) {
	return New(column, OpLike, pattern)
}

// In builds column = v1 OR column = v2 ..., folded to the left. Every value
// is validated like an Equal leaf. At least one value is required.
func In(column *schema.Column, values ...any) (*Condition, error) {
	if len(values) == 0 {
		if column == nil {
			return nil, sqlerr.Schema("condition on a nil column")
		}
		return nil, annotate(sqlerr.Schema("IN needs at least one value"), column)
	}
	var out *Condition
	for _, v := range values {
		leaf, err := Equal(column, v)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = leaf
			continue
		}
		out = Or(out, leaf)
	}
	return out, nil
}

// Between builds (column >= lo AND column <= hi), both bounds inclusive.
func Between(column *schema.Column, lo, hi any) (*Condition, error) {
	low, err := GreaterEqual(column, lo)
	if err != nil {
		return nil, err
	}
	high, err := LesserEqual(column, hi)
	if err != nil {
		return nil, err
	}
	return And(low, high), nil
}

// Must returns c and panics if err is not nil. It is meant for conditions
// built from constants.
func Must(c *Condition, err error) *Condition {
	if err != nil {
		panic(err)
	}
	return c
}

// And returns (left AND right).
func And(left, right *Condition) *Condition {
	return &Condition{kind: kindAnd, left: left, right: right}
}

// Or returns (left OR right).
func Or(left, right *Condition) *Condition {
	return &Condition{kind: kindOr, left: left, right: right}
}

// Not returns (NOT child).
func Not(child *Condition) *Condition {
	return &Condition{kind: kindNot, left: child}
}

// And returns (c AND other).
func (c *Condition) And(other *Condition) *Condition { return And(c, other) }

// Or returns (c OR other).
func (c *Condition) Or(other *Condition) *Condition { return Or(c, other) }

// Not returns (NOT c).
func (c *Condition) Not() *Condition { return Not(c) }

// IsLeaf reports whether c is a single comparison.
func (c *Condition) IsLeaf() bool { return c.kind == kindLeaf }

// Columns returns the columns referenced by the tree, left to right.
func (c *Condition) Columns() []*schema.Column {
	var out []*schema.Column
	c.walk(func(leaf *Condition) {
		out = append(out, leaf.column)
	})
	return out
}

func (c *Condition) walk(fn func(*Condition)) {
	if c == nil {
		return
	}
	if c.kind == kindLeaf {
		fn(c)
		return
	}
	c.left.walk(fn)
	c.right.walk(fn)
}

// CheckTable fails with a SchemaError when the tree references a column that
// is not owned by t.
func (c *Condition) CheckTable(t *schema.Table) error {
	for _, col := range c.Columns() {
		if col.Table() != t {
			return &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: t.Name(), Column: col.Name(),
				Message: "condition references column " + col.String() + " of another table"}
		}
	}
	return nil
}

// Compile renders the tree for d. offset is the number of parameters that
// precede the fragment in the final statement; placeholders are numbered
// from offset+1.
func Compile(c *Condition, d dialect.Dialect, offset int) (string, []any, error) {
	var b strings.Builder
	var params []any
	if err := c.compile(&b, &params, d, offset); err != nil {
		return "", nil, err
	}
	return b.String(), params, nil
}

func (c *Condition) compile(b *strings.Builder, params *[]any, d dialect.Dialect, offset int) error {
	if c == nil {
		return sqlerr.Schema("incomplete condition: missing operand")
	}
	switch c.kind {
	case kindLeaf:
		*params = append(*params, c.value)
		fmt.Fprintf(b, "%s %s %s", d.Quote(c.column.Name()), c.op, d.Placeholder(offset+len(*params)))
	case kindAnd, kindOr:
		keyword := " AND "
		if c.kind == kindOr {
			keyword = " OR "
		}
		b.WriteString("(")
		if err := c.left.compile(b, params, d, offset); err != nil {
			return err
		}
		b.WriteString(keyword)
		if err := c.right.compile(b, params, d, offset); err != nil {
			return err
		}
		b.WriteString(")")
	case kindNot:
		b.WriteString("(NOT ")
		if c.left != nil && c.left.kind == kindLeaf {
			b.WriteString("(")
			if err := c.left.compile(b, params, d, offset); err != nil {
				return err
			}
			b.WriteString(")")
		} else if err := c.left.compile(b, params, d, offset); err != nil {
			return err
		}
		b.WriteString(")")
	}
	return nil
}

// String renders the tree with ? placeholders.
func (c *Condition) String() string {
	s, _, err := Compile(c, dialect.MySQL, 0)
	if err != nil {
		return "<invalid condition: " + err.Error() + ">"
	}
	return s
}
