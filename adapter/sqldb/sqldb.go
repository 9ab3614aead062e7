// Package sqldb implements the Execution Adapter on top of database/sql.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver "pgx"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/internal/debug"
)

// ErrNotConnected is returned when the adapter is used before Connect.
var ErrNotConnected = errors.New("database not connected")

// Adapter implements adapter.Adapter for MySQL, SQLite and PostgreSQL.
type Adapter struct {
	db      *sql.DB
	config  adapter.Config
	driver  string
	dialect dialect.Dialect
}

// New creates an adapter for config. Call Connect before use.
func New(config adapter.Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	d, err := dialect.ForProvider(config.Provider)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		config:  config,
		driver:  driverName(config.Provider),
		dialect: d,
	}, nil
}

// Wrap creates a connected adapter around an existing pool.
func Wrap(db *sql.DB, d dialect.Dialect) *Adapter {
	return &Adapter{db: db, dialect: d}
}

func driverName(provider string) string {
	switch strings.ToLower(provider) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "postgres", "postgresql":
		return "postgres"
	case "pgx":
		return "pgx"
	default:
		return "mysql"
	}
}

// dsn applies the connect timeout to MySQL DSNs; other drivers take the URL
// as is.
func (a *Adapter) dsn() (string, error) {
	if a.driver != "mysql" {
		return a.config.URL, nil
	}
	cfg, err := gomysql.ParseDSN(a.config.URL)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	if a.config.ConnectTimeout > 0 && cfg.Timeout == 0 {
		cfg.Timeout = time.Duration(a.config.ConnectTimeout) * time.Second
	}
	return cfg.FormatDSN(), nil
}

func (a *Adapter) inMemory() bool {
	return a.driver == "sqlite3" && strings.Contains(a.config.URL, ":memory:")
}

// Connect opens the pool and pings the server.
func (a *Adapter) Connect(ctx context.Context) error {
	dsn, err := a.dsn()
	if err != nil {
		return err
	}
	db, err := sql.Open(a.driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if a.inMemory() {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(a.config.MaxConnections)
		db.SetMaxIdleConns(a.config.MaxConnections / 2)
		db.SetConnMaxIdleTime(time.Duration(a.config.MaxIdleTime) * time.Second)
	}

	if a.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.config.ConnectTimeout)*time.Second)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db
	debug.Info("connected", "driver", a.driver, "dialect", a.dialect.Name())
	return nil
}

// Disconnect closes the pool.
func (a *Adapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Ping checks that the server is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// DB returns the underlying pool, or nil before Connect.
func (a *Adapter) DB() *sql.DB { return a.db }

// Dialect returns the SQL dialect of the provider.
func (a *Adapter) Dialect() dialect.Dialect { return a.dialect }

// Query runs a statement and collects every row.
func (a *Adapter) Query(ctx context.Context, query string, args ...any) ([]adapter.Row, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []adapter.Row
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(adapter.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}

// Exec runs a statement without rows. LastInsertID is 0 when the driver
// does not report one, as with PostgreSQL.
func (a *Adapter) Exec(ctx context.Context, query string, args ...any) (adapter.ExecResult, error) {
	if a.db == nil {
		return adapter.ExecResult{}, ErrNotConnected
	}

	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return adapter.ExecResult{}, fmt.Errorf("failed to execute statement: %w", err)
	}

	var out adapter.ExecResult
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out, nil
}

// ServerVersion returns the version string reported by the server.
func (a *Adapter) ServerVersion(ctx context.Context) (string, error) {
	if a.db == nil {
		return "", ErrNotConnected
	}

	var query string
	switch a.dialect.Name() {
	case dialect.NameSQLite:
		query = "SELECT sqlite_version()"
	case dialect.NamePostgres:
		query = "SHOW server_version"
	default:
		query = "SELECT VERSION()"
	}

	var version string
	if err := a.db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return version, nil
}

// Ensure Adapter implements adapter.Adapter.
var _ adapter.Adapter = (*Adapter)(nil)
