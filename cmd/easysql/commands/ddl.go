package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ashenguard/easysql/cmd/easysql/internal/ui"
	"github.com/ashenguard/easysql/cmd/easysql/internal/watch"
	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/query"
	"github.com/ashenguard/easysql/schema"
)

func newDDLCommand(a *app) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print CREATE TABLE statements for the declared tables",
		Long:  "Print the CREATE TABLE IF NOT EXISTS statement of every declared table in the configured provider's dialect.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !watchFile {
				return a.printDDL(out)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watchDDL(ctx, out)
		},
	}

	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "print again whenever the declaration file changes")
	return cmd
}

func (a *app) printDDL(out io.Writer) error {
	d, err := dialect.ForProvider(a.cfg.Provider)
	if err != nil {
		return err
	}
	tables, err := a.declarations(schema.NewRegistry().LoadDeclarations)
	if err != nil {
		return err
	}
	for _, t := range tables {
		fmt.Fprintf(out, "%s;\n", query.CreateTable(d, t))
	}
	return nil
}

func (a *app) watchDDL(ctx context.Context, out io.Writer) error {
	w, err := watch.New(a.cfg.SchemaPath, watch.DefaultDebounce, func() error {
		if err := a.printDDL(out); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ui.PrintWarning("watching %s, press Ctrl+C to stop", a.cfg.SchemaPath)
	return w.Run(ctx)
}
