// Package schema provides the table registry used by every statement builder.
package schema

import (
	"sync"

	"github.com/ashenguard/easysql/internal/debug"
	"github.com/ashenguard/easysql/sqlerr"
	"github.com/ashenguard/easysql/types"
)

// Registry stores registered tables by name.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
	order  []*Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*Table),
	}
}

type tableConfig struct {
	unique [][]any
}

// TableOption configures a table at registration.
type TableOption func(*tableConfig)

// UniqueGroup declares a set of columns that are jointly unique. References
// are column names or the *Column values passed to Register.
func UniqueGroup(refs ...any) TableOption {
	return func(cfg *tableConfig) {
		cfg.unique = append(cfg.unique, refs)
	}
}

// Register validates a table declaration and adds it to the registry. On
// failure nothing is registered and the columns stay unowned.
func (r *Registry) Register(name string, columns []*Column, opts ...TableOption) (*Table, error) {
	cfg := &tableConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	t, err := build(name, columns, cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[name]; exists {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "register", Table: name, Message: "table is already registered"}
	}
	for _, c := range t.columns {
		if c.table != nil {
			return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "register", Table: name, Column: c.name,
				Message: "column already belongs to table " + c.table.name}
		}
	}
	for i, c := range t.columns {
		c.table = t
		c.index = i
	}
	r.tables[name] = t
	r.order = append(r.order, t)

	debug.Debug("table registered", "table", name, "columns", len(t.columns),
		"primary", len(t.primary), "unique_groups", len(t.unique))
	return t, nil
}

func build(name string, columns []*Column, cfg *tableConfig) (*Table, error) {
	fail := func(column, format string, args ...any) error {
		e := sqlerr.Schema(format, args...)
		e.Op, e.Table, e.Column = "register", name, column
		return e
	}

	if name == "" {
		return nil, fail("", "table name is empty")
	}
	if len(columns) == 0 {
		return nil, fail("", "table declares no columns")
	}

	t := &Table{
		name:    name,
		columns: make([]*Column, 0, len(columns)),
		byName:  make(map[string]*Column, len(columns)),
	}

	var autoIncrement *Column
	for _, c := range columns {
		if c == nil {
			return nil, fail("", "nil column")
		}
		if c.name == "" {
			return nil, fail("", "column name is empty")
		}
		if _, dup := t.byName[c.name]; dup {
			return nil, fail(c.name, "duplicate column name")
		}
		if err := types.Check(c.typ); err != nil {
			return nil, sqlerr.Annotate(withOp(err, "register"), name, c.name)
		}
		if c.tags.Has(AutoIncrement) {
			if c.typ.Kind() != types.KindInteger {
				return nil, fail(c.name, "AUTO_INCREMENT requires an integer column, got %s", c.typ.Name())
			}
			if autoIncrement != nil {
				return nil, fail(c.name, "only one AUTO_INCREMENT column is allowed, %s is already one", autoIncrement.name)
			}
			autoIncrement = c
			if !c.tags.Has(Primary) {
				debug.Warn("auto increment column outside the primary key", "table", name, "column", c.name)
			}
		}
		if c.hasDefault {
			v, err := c.Validate(c.def)
			if err != nil {
				return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Op: "register", Table: name, Column: c.name,
					Message: "invalid default", Cause: err}
			}
			c.def = v
		}

		t.columns = append(t.columns, c)
		t.byName[c.name] = c
		if c.tags.Has(Primary) {
			t.primary = append(t.primary, c)
		}
		if c.tags.Has(Unique) {
			t.unique = append(t.unique, []*Column{c})
		}
	}

	for _, refs := range cfg.unique {
		if len(refs) == 0 {
			return nil, fail("", "empty unique group")
		}
		group := make([]*Column, 0, len(refs))
		for _, ref := range refs {
			var c *Column
			switch v := ref.(type) {
			case string:
				c = t.byName[v]
				if c == nil {
					return nil, fail(v, "unique group references an undeclared column")
				}
			case *Column:
				if v == nil || t.byName[v.name] != v {
					return nil, fail(nameOf(v), "unique group references an undeclared column")
				}
				c = v
			default:
				return nil, fail("", "unique group reference %v is not a column", ref)
			}
			group = append(group, c)
		}
		t.unique = append(t.unique, group)
	}

	return t, nil
}

func nameOf(c *Column) string {
	if c == nil {
		return ""
	}
	return c.name
}

func withOp(err error, op string) error {
	if e, ok := err.(*sqlerr.Error); ok {
		return e.WithOp(op)
	}
	return err
}

// Table returns the registered table called name.
func (r *Registry) Table(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tables[name]
	if !exists {
		return nil, &sqlerr.Error{Kind: sqlerr.ErrSchema, Table: name, Message: "table is not registered"}
	}
	return t, nil
}

// Tables returns every registered table in registration order.
func (r *Registry) Tables() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Table, len(r.order))
	copy(out, r.order)
	return out
}

// UnlockAll disarms the safety lock of every registered table.
func (r *Registry) UnlockAll(confirm bool) error {
	for _, t := range r.Tables() {
		if err := t.Unlock(confirm); err != nil {
			return err
		}
	}
	return nil
}
