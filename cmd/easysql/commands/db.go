package commands

import (
	"github.com/spf13/cobra"

	"github.com/ashenguard/easysql/cmd/easysql/internal/ui"
	"github.com/ashenguard/easysql/query"
)

func newPrepareCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Create the declared tables that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			for _, t := range db.Registry().Tables() {
				if err := db.Prepare(ctx, t); err != nil {
					return err
				}
				ui.PrintSuccess("%s ready", t.Name())
			}
			return nil
		},
	}
}

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the connection and the server's upsert support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			banner, err := db.ServerVersion(ctx)
			if err != nil {
				return err
			}
			upsert, err := db.UpsertSupported(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			d := db.Adapter().Dialect()
			ui.PrintHeader(out, "easysql", "connected to "+d.Name())
			ui.PrintKeyValue(out, "Dialect", d.Name())
			ui.PrintKeyValue(out, "Server version", banner)
			if v, err := query.ParseServerVersion(banner); err == nil {
				ui.PrintKeyValue(out, "Parsed version", v.String())
			}
			ui.PrintKeyValue(out, "Upsert support", upsert)
			if !upsert {
				ui.PrintWarning("OnDuplicateUpdate needs %s %s or newer", d.Name(), d.MinUpsertVersion())
			}
			return nil
		},
	}
}
