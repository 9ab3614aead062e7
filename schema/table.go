package schema

import (
	"github.com/ashenguard/easysql/sqlerr"
)

// Table is a registered table. It owns its columns; their order is the
// default order for untargeted operations.
type Table struct {
	name    string
	columns []*Column
	byName  map[string]*Column
	primary []*Column
	unique  [][]*Column

	lock safetyLock
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the column called name, or nil.
func (t *Table) Column(name string) *Column {
	return t.byName[name]
}

// MustColumn returns the column called name and panics if it does not exist.
// It is meant for package-level column handles next to a Register call.
func (t *Table) MustColumn(name string) *Column {
	c := t.byName[name]
	if c == nil {
		panic(sqlerr.Schema("column %s is not declared", name).WithOp(t.name))
	}
	return c
}

// Resolve turns a column reference into one of the table's columns. A
// reference is either a *Column owned by the table or a column name.
func (t *Table) Resolve(ref any) (*Column, error) {
	switch r := ref.(type) {
	case *Column:
		if r == nil {
			return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: t.name, Message: "nil column"}
		}
		if r.table != t {
			return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: t.name, Column: r.name,
				Message: "column belongs to another table"}
		}
		return r, nil
	case string:
		c := t.byName[r]
		if c == nil {
			return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: t.name, Column: r, Message: "column is not declared"}
		}
		return c, nil
	default:
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: t.name,
			Message: "column reference must be a *schema.Column or a name"}
	}
}

// ResolveAll resolves every reference in order.
func (t *Table) ResolveAll(refs ...any) ([]*Column, error) {
	out := make([]*Column, 0, len(refs))
	for _, ref := range refs {
		c, err := t.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// PrimaryKey returns the columns tagged Primary, in declaration order.
func (t *Table) PrimaryKey() []*Column {
	out := make([]*Column, len(t.primary))
	copy(out, t.primary)
	return out
}

// UniqueGroups returns the jointly unique column groups, including one
// single-column group per column tagged Unique.
func (t *Table) UniqueGroups() [][]*Column {
	out := make([][]*Column, len(t.unique))
	for i, g := range t.unique {
		out[i] = append([]*Column(nil), g...)
	}
	return out
}

// ConflictTarget returns the columns an upsert conflicts on: the primary key,
// or the first unique group when the table has no primary key.
func (t *Table) ConflictTarget() ([]*Column, error) {
	if len(t.primary) > 0 {
		return t.PrimaryKey(), nil
	}
	if len(t.unique) > 0 {
		return append([]*Column(nil), t.unique[0]...), nil
	}
	return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: t.name,
		Message: "table has no primary key or unique group to serve as a conflict target"}
}

// ConflictTargetFor returns the first conflict candidate whose columns are
// all in supplied: the primary key, then each unique group in declaration
// order. An upsert can only conflict on a key whose values it writes.
func (t *Table) ConflictTargetFor(supplied []*Column) ([]*Column, error) {
	candidates := t.unique
	if len(t.primary) > 0 {
		candidates = append([][]*Column{t.primary}, t.unique...)
	}
	if len(candidates) == 0 {
		return t.ConflictTarget()
	}
	for _, g := range candidates {
		if covers(supplied, g) {
			return append([]*Column(nil), g...), nil
		}
	}
	return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: t.name,
		Message: "upsert supplies no value set covering the primary key or a unique group"}
}

func covers(supplied, group []*Column) bool {
	for _, c := range group {
		found := false
		for _, s := range supplied {
			if s == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsKey reports whether c is part of the conflict target.
func (t *Table) IsKey(c *Column) bool {
	target, err := t.ConflictTarget()
	if err != nil {
		return false
	}
	for _, k := range target {
		if k == c {
			return true
		}
	}
	return false
}

// String returns the table name.
func (t *Table) String() string { return t.name }
