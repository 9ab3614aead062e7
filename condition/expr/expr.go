// Package expr parses textual WHERE expressions into conditions.
//
//	Name LIKE 'Ash%' AND (ID <= 5 OR NOT Premium = TRUE)
//	ID IN (1, 2, 3) OR Balance BETWEEN 10 AND 20
//
// AND binds tighter than OR, chains fold to the left and keywords are case
// insensitive. Column names resolve against the table passed to Parse.
package expr

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// whereLexer tokenizes WHERE expressions.
var whereLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|LIKE|IN|BETWEEN|TRUE|FALSE)\b`},
	{Name: "String", Pattern: `'(?:''|[^'])*'|"(?:\\.|[^"\\])*"`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Op", Pattern: `<>|!=|>=|<=|=|>|<`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Ident", Pattern: "`[^`]+`|[\\p{L}_][\\p{L}\\p{N}_]*"},
	{Name: "Whitespace", Pattern: `\s+`},
})

type orExpr struct {
	Left  *andExpr   `parser:"@@"`
	Right []*andExpr `parser:"( \"OR\" @@ )*"`
}

type andExpr struct {
	Left  *unary   `parser:"@@"`
	Right []*unary `parser:"( \"AND\" @@ )*"`
}

type unary struct {
	Not   *unary      `parser:"  \"NOT\" @@"`
	Group *orExpr     `parser:"| \"(\" @@ \")\""`
	Cmp   *comparison `parser:"| @@"`
}

type comparison struct {
	Pos       lexer.Position
	Column    string     `parser:"@Ident"`
	Predicate *predicate `parser:"@@"`
}

type predicate struct {
	Between *bounds `parser:"  \"BETWEEN\" @@"`
	In      *list   `parser:"| \"IN\" \"(\" @@ \")\""`
	Binary  *binary `parser:"| @@"`
}

type bounds struct {
	Lo *value `parser:"@@"`
	Hi *value `parser:"\"AND\" @@"`
}

type list struct {
	Values []*value `parser:"@@ ( \",\" @@ )*"`
}

type binary struct {
	Op    string `parser:"@( Op | \"LIKE\" )"`
	Value *value `parser:"@@"`
}

type value struct {
	String *string `parser:"  @String"`
	Int    *string `parser:"| @Int"`
	Bool   *string `parser:"| @( \"TRUE\" | \"FALSE\" )"`
}

var parser = participle.MustBuild[orExpr](
	participle.Lexer(whereLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)

// Parse parses input into a condition on t.
func Parse(t *schema.Table, input string) (*condition.Condition, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "where", Table: t.Name(), Message: "empty expression"}
	}
	raw, err := parser.ParseString("where", input)
	if err != nil {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "where", Table: t.Name(), Message: "invalid expression", Cause: err}
	}
	return raw.build(t)
}

func (e *orExpr) build(t *schema.Table) (*condition.Condition, error) {
	c, err := e.Left.build(t)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Right {
		right, err := r.build(t)
		if err != nil {
			return nil, err
		}
		c = condition.Or(c, right)
	}
	return c, nil
}

func (e *andExpr) build(t *schema.Table) (*condition.Condition, error) {
	c, err := e.Left.build(t)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Right {
		right, err := r.build(t)
		if err != nil {
			return nil, err
		}
		c = condition.And(c, right)
	}
	return c, nil
}

func (u *unary) build(t *schema.Table) (*condition.Condition, error) {
	switch {
	case u.Not != nil:
		c, err := u.Not.build(t)
		if err != nil {
			return nil, err
		}
		return condition.Not(c), nil
	case u.Group != nil:
		return u.Group.build(t)
	default:
		return u.Cmp.build(t)
	}
}

var operators = map[string]condition.Operator{
	"=":    condition.OpEqual,
	"<>":   condition.OpNotEqual,
	"!=":   condition.OpNotEqual,
	">":    condition.OpGreater,
	">=":   condition.OpGreaterEqual,
	"<":    condition.OpLesser,
	"<=":   condition.OpLesserEqual,
	"LIKE": condition.OpLike,
}

func (c *comparison) build(t *schema.Table) (*condition.Condition, error) {
	col, err := t.Resolve(strings.Trim(c.Column, "`"))
	if err != nil {
		return nil, err
	}
	return c.Predicate.build(t, col)
}

func (p *predicate) build(t *schema.Table, col *schema.Column) (*condition.Condition, error) {
	literal := func(v *value) (any, error) {
		out, err := v.literal()
		if err != nil {
			return nil, sqlerr.Annotate(err, t.Name(), col.Name())
		}
		return out, nil
	}

	switch {
	case p.Between != nil:
		lo, err := literal(p.Between.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := literal(p.Between.Hi)
		if err != nil {
			return nil, err
		}
		return condition.Between(col, lo, hi)
	case p.In != nil:
		values := make([]any, len(p.In.Values))
		for i, raw := range p.In.Values {
			v, err := literal(raw)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return condition.In(col, values...)
	default:
		v, err := literal(p.Binary.Value)
		if err != nil {
			return nil, err
		}
		return condition.New(col, operators[strings.ToUpper(p.Binary.Op)], v)
	}
}

func (v *value) literal() (any, error) {
	switch {
	case v.String != nil:
		s := *v.String
		if strings.HasPrefix(s, "'") {
			return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
		}
		u, err := strconv.Unquote(s)
		if err != nil {
			return nil, sqlerr.TypeMismatch("invalid string literal %s", s)
		}
		return u, nil
	case v.Int != nil:
		if i, err := strconv.ParseInt(*v.Int, 10, 64); err == nil {
			return i, nil
		}
		u, err := strconv.ParseUint(*v.Int, 10, 64)
		if err != nil {
			return nil, sqlerr.Range("integer literal %s does not fit 64 bits", *v.Int)
		}
		return u, nil
	default:
		return strings.EqualFold(*v.Bool, "TRUE"), nil
	}
}
