// Package adapter defines the Execution Adapter contract.
//
// An Adapter runs a finished SQL string with ordered parameters. It owns
// connections, pooling and timeouts; builders never see any of that.
package adapter

import (
	"context"
	"fmt"

	"github.com/ashenguard/easysql/dialect"
)

// Row is one returned row, keyed by column name. Values are raw driver
// scalars with []byte already converted to string.
type Row map[string]any

// ExecResult is the outcome of a statement that returns no rows.
type ExecResult struct {
	LastInsertID int64
	RowsAffected int64
}

// Adapter executes compiled statements.
type Adapter interface {
	// Query runs a statement that returns rows, in the order the server
	// returned them.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) (ExecResult, error)

	// Dialect returns the SQL dialect statements must be compiled for.
	Dialect() dialect.Dialect
}

// Config holds connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// Validate checks the configuration before connecting.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database url is empty")
	}
	if _, err := dialect.ForProvider(c.Provider); err != nil {
		return err
	}
	if c.MaxConnections < 0 || c.MaxIdleTime < 0 || c.ConnectTimeout < 0 {
		return fmt.Errorf("connection limits must not be negative")
	}
	return nil
}
