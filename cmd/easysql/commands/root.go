// Package commands implements the easysql CLI.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ashenguard/easysql"
	"github.com/ashenguard/easysql/config"
	"github.com/ashenguard/easysql/internal/debug"
	"github.com/ashenguard/easysql/schema"
)

// app is the state shared by every command.
type app struct {
	cfg *config.Config

	provider   string
	url        string
	schemaPath string
	debug      bool
}

// NewRootCommand builds the easysql command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "easysql",
		Short:         "Schema-checked table access from the command line",
		Long:          "easysql reads table declarations from a YAML file and creates, queries and counts those tables.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.provider, "provider", "", "database provider (mysql, sqlite, postgres, pgx)")
	flags.StringVar(&a.url, "url", "", "database connection URL")
	flags.StringVarP(&a.schemaPath, "schema", "s", "", "table declaration file")
	flags.BoolVar(&a.debug, "debug", false, "log every statement")

	cmd.AddCommand(
		NewVersionCommand(),
		newDDLCommand(a),
		newDescribeCommand(a),
		newPrepareCommand(a),
		newPingCommand(a),
		newSelectCommand(a),
		newCountCommand(a),
		newTruncateCommand(a),
	)
	return cmd
}

// load reads the configuration and applies the flags given on the command line.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = a.provider
	}
	if flags.Changed("url") {
		cfg.URL = a.url
	}
	if flags.Changed("schema") {
		cfg.SchemaPath = a.schemaPath
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	debug.Init(cfg.Debug)

	a.cfg = cfg
	return nil
}

// declarations reads the declaration file and hands it to register.
func (a *app) declarations(register func(io.Reader) ([]*schema.Table, error)) ([]*schema.Table, error) {
	f, err := config.AppFs.Open(a.cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open declarations: %w", err)
	}
	defer f.Close()
	return register(f)
}

// open connects to the configured database and registers the declared tables.
func (a *app) open(ctx context.Context) (*easysql.DB, error) {
	if a.cfg.URL == "" {
		return nil, fmt.Errorf("no database URL: set url in .easysql.yaml, EASYSQL_URL, DATABASE_URL or --url")
	}
	db, err := easysql.OpenConfig(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	if _, err := a.declarations(db.LoadDeclarations); err != nil {
		_ = db.Close(ctx)
		return nil, err
	}
	return db, nil
}

// table opens the database and returns the declared table name.
func (a *app) table(ctx context.Context, name string) (*easysql.DB, *schema.Table, error) {
	db, err := a.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	t, err := db.Table(name)
	if err != nil {
		_ = db.Close(ctx)
		return nil, nil, err
	}
	return db, t, nil
}
