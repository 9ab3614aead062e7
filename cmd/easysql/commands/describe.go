package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashenguard/easysql/cmd/easysql/internal/ui"
	"github.com/ashenguard/easysql/schema"
)

func newDescribeCommand(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe the declared tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.declarations(schema.NewRegistry().LoadDeclarations)
			if err != nil {
				return err
			}
			doc := describe(tables)
			if !raw {
				if doc, err = ui.RenderMarkdown(doc); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering it")
	return cmd
}

// describe renders tables as a markdown document.
func describe(tables []*schema.Table) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		decl := schema.Declare(t)
		fmt.Fprintf(&b, "## %s\n\n", decl.Name)
		b.WriteString("| Column | Type | Tags | Default |\n|---|---|---|---|\n")
		for _, c := range decl.Columns {
			def := ""
			if c.Default != nil {
				def = fmt.Sprintf("`%v`", c.Default)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.Name, c.Type, strings.Join(c.Tags, ", "), def)
		}
		if len(decl.Unique) > 0 {
			b.WriteString("\nUnique groups:\n\n")
			for _, g := range decl.Unique {
				fmt.Fprintf(&b, "- (%s)\n", strings.Join(g, ", "))
			}
		}
	}
	return b.String()
}
