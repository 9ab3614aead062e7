package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/ashenguard/easysql/cmd/easysql/internal/ui"
	"github.com/ashenguard/easysql/condition"
	"github.com/ashenguard/easysql/condition/expr"
	"github.com/ashenguard/easysql/result"
	"github.com/ashenguard/easysql/schema"
)

// whereFlag parses a --where expression against t. An empty expression
// means no condition.
func whereFlag(t *schema.Table, where string) (*condition.Condition, error) {
	if where == "" {
		return nil, nil
	}
	return expr.Parse(t, where)
}

func newSelectCommand(a *app) *cobra.Command {
	var (
		columns []string
		where   string
		order   string
		desc    bool
		limit   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: "Print rows of a declared table",
		Example: `  easysql select Users --where "Name LIKE 'Ash%' AND Premium = TRUE"
  easysql select Users --columns Name,Balance --order Balance --desc --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, t, err := a.table(ctx, args[0])
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			b := db.Select(t)
			if len(columns) > 0 {
				refs := make([]any, len(columns))
				for i, c := range columns {
					refs[i] = c
				}
				b.Columns(refs...)
			}
			cond, err := whereFlag(t, where)
			if err != nil {
				return err
			}
			if cond != nil {
				b.Where(cond)
			}
			if order != "" {
				b.OrderBy(order)
				if desc {
					b.Descending()
				}
			}
			if cmd.Flags().Changed("limit") {
				b.Limit(limit)
			}
			if cmd.Flags().Changed("offset") {
				b.Offset(offset)
			}

			res, err := b.Execute(ctx)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&columns, "columns", "c", nil, "columns to print, in order")
	flags.StringVarP(&where, "where", "w", "", "condition, e.g. \"ID > 3 OR NOT Name = 'Sam'\"")
	flags.StringVar(&order, "order", "", "column to order by")
	flags.BoolVar(&desc, "desc", false, "order descending")
	flags.IntVar(&limit, "limit", 0, "maximum number of rows")
	flags.IntVar(&offset, "offset", 0, "number of rows to skip")
	return cmd
}

func printResult(res result.Result) error {
	if res.Len() == 0 {
		ui.PrintWarning("no rows")
		return nil
	}

	cols := res.Columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Name()
	}

	var rows [][]string
	for row := range res.All() {
		cells := make([]string, 0, row.Len())
		for _, v := range row.Values() {
			if v == nil {
				cells = append(cells, "NULL")
				continue
			}
			cells = append(cells, fmt.Sprint(v))
		}
		rows = append(rows, cells)
	}
	return ui.PrintTable(headers, rows)
}

func newCountCommand(a *app) *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Count rows of a declared table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, t, err := a.table(ctx, args[0])
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			cond, err := whereFlag(t, where)
			if err != nil {
				return err
			}
			n, err := db.Count(ctx, t, cond)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&where, "where", "w", "", "condition")
	return cmd
}

func newTruncateCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "truncate <table>",
		Short: "Delete every row of a declared table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, t, err := a.table(ctx, args[0])
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			confirmed := yes
			if !confirmed {
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Delete every row of %s?", t.Name()),
					Default: false,
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
			}
			if !confirmed {
				ui.PrintWarning("aborted")
				return nil
			}

			if err := t.Unlock(true); err != nil {
				return err
			}
			res, err := db.Delete(t).Execute(ctx)
			if err != nil {
				return err
			}
			ui.PrintSuccess("deleted %d rows from %s", res.RowsAffected, t.Name())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
