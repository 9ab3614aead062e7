// Package easysql builds and runs schema-checked SQL statements against
// declared tables.
//
// Tables are registered once, either in code or from a YAML declaration
// file, and every statement is built through a fluent, type-checked builder:
//
//	db, err := easysql.Open(ctx, adapter.Config{Provider: "mysql", URL: dsn})
//	users, err := db.Register("Users", []*schema.Column{
//		schema.NewColumn("ID", types.Int, schema.Primary|schema.AutoIncrement),
//		schema.NewColumn("Name", types.String(255), schema.NotNull, schema.Default("Missing")),
//	})
//	err = db.Prepare(ctx, users)
//	_, err = db.Insert(users).Set("Name", "Ashenguard").Execute(ctx)
//
// Unconditioned Delete, Update and Set statements are rejected until the
// table's safety lock is disarmed with Unlock.
package easysql

import (
	"context"
	"io"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/adapter/sqldb"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/config"
	"github.com/ashenguard/easysql/internal/debug"
	"github.com/ashenguard/easysql/query"
	"github.com/ashenguard/easysql/schema"
	"github.com/ashenguard/easysql/sqlerr"
)

// DB binds a schema registry to an execution adapter.
type DB struct {
	registry *schema.Registry
	adapter  *hooked
	conn     *sqldb.Adapter
	unlocked bool
}

// New returns a DB executing through a. An existing *sql.DB pool is
// adapted with sqldb.Wrap.
func New(a adapter.Adapter) *DB {
	return &DB{registry: schema.NewRegistry(), adapter: &hooked{inner: a}}
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg adapter.Config) (*DB, error) {
	conn, err := sqldb.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}
	db := New(conn)
	db.conn = conn
	return db, nil
}

// OpenConfig applies cfg and connects. With Safety off, every table
// registered on the returned DB starts unlocked.
func OpenConfig(ctx context.Context, cfg *config.Config) (*DB, error) {
	debug.Init(cfg.Debug)
	db, err := Open(ctx, cfg.Adapter())
	if err != nil {
		return nil, err
	}
	if !cfg.Safety {
		db.unlocked = true
		debug.Warn("safety lock disabled by configuration")
	}
	return db, nil
}

// Close disconnects an adapter opened by Open. It does nothing for a DB
// built with New.
func (db *DB) Close(ctx context.Context) error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Disconnect(ctx)
}

// Adapter returns the adapter statements are executed through.
func (db *DB) Adapter() adapter.Adapter { return db.adapter }

// Use appends a middleware around every statement.
func (db *DB) Use(m Middleware) { db.adapter.use(m) }

// Registry returns the schema registry.
func (db *DB) Registry() *schema.Registry { return db.registry }

// Register declares a table. See schema.Registry.Register.
func (db *DB) Register(name string, columns []*schema.Column, opts ...schema.TableOption) (*schema.Table, error) {
	t, err := db.registry.Register(name, columns, opts...)
	if err != nil {
		return nil, err
	}
	return t, db.applySafety(t)
}

// LoadDeclarations registers every table declared in the YAML document r.
func (db *DB) LoadDeclarations(r io.Reader) ([]*schema.Table, error) {
	tables, err := db.registry.LoadDeclarations(r)
	for _, t := range tables {
		if err := db.applySafety(t); err != nil {
			return tables, err
		}
	}
	return tables, err
}

func (db *DB) applySafety(t *schema.Table) error {
	if !db.unlocked {
		return nil
	}
	return t.Unlock(true)
}

// Table returns a registered table.
func (db *DB) Table(name string) (*schema.Table, error) {
	return db.registry.Table(name)
}

// Select starts a SELECT on t.
func (db *DB) Select(t *schema.Table) *query.SelectBuilder { return query.Select(t, db.adapter) }

// Insert starts an INSERT into t.
func (db *DB) Insert(t *schema.Table) *query.InsertBuilder { return query.Insert(t, db.adapter) }

// Update starts an UPDATE of t.
func (db *DB) Update(t *schema.Table) *query.UpdateBuilder { return query.Update(t, db.adapter) }

// Delete starts a DELETE from t.
func (db *DB) Delete(t *schema.Table) *query.DeleteBuilder { return query.Delete(t, db.adapter) }

// Set starts an insert-or-update on t.
func (db *DB) Set(t *schema.Table) *query.SetBuilder { return query.Set(t, db.adapter) }

// Prepare creates the given tables, or every registered table when none are
// given, unless they already exist.
func (db *DB) Prepare(ctx context.Context, tables ...*schema.Table) error {
	if len(tables) == 0 {
		tables = db.registry.Tables()
	}
	for _, t := range tables {
		if err := query.Prepare(ctx, db.adapter, t); err != nil {
			return err
		}
		debug.Debug("table prepared", "table", t.Name())
	}
	return nil
}

// CreateStatements returns the CREATE TABLE statement of every registered
// table, in registration order.
func (db *DB) CreateStatements() []query.Statement {
	var out []query.Statement
	for _, t := range db.registry.Tables() {
		out = append(out, query.CreateTable(db.adapter.Dialect(), t))
	}
	return out
}

// Count returns the number of rows of t matching where, or of all rows when
// where is nil.
func (db *DB) Count(ctx context.Context, t *schema.Table, where *condition.Condition) (int64, error) {
	return query.Count(ctx, db.adapter, t, where)
}

// Unlock disarms the safety lock of every registered table.
func (db *DB) Unlock(confirm bool) error {
	return db.registry.UnlockAll(confirm)
}

// ServerVersion returns the server version banner.
func (db *DB) ServerVersion(ctx context.Context) (string, error) {
	r, ok := db.adapter.inner.(query.VersionReporter)
	if !ok {
		return "", sqlerr.State("adapter does not report a server version")
	}
	return r.ServerVersion(ctx)
}

// UpsertSupported reports whether the server accepts the upsert clause of
// the adapter's dialect.
func (db *DB) UpsertSupported(ctx context.Context) (bool, error) {
	r, ok := db.adapter.inner.(query.VersionReporter)
	if !ok {
		return false, sqlerr.State("adapter does not report a server version")
	}
	return query.UpsertSupport(ctx, r, db.adapter.Dialect())
}
