package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/api"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the backend database schema",
		Long: `Show the tables and columns the analytics backend exposes.

The schema drives SQL generation; use 'schema refresh' after the
backend database changes, and 'schema relate' to declare join paths
the generator cannot infer.`,
		Example: `  # Show all tables
  nlq schema

  # Re-introspect the backend database
  nlq schema refresh

  # Declare a join path
  nlq schema relate orders.customer_id customers.id`,
		RunE: runSchemaShow,
	}

	cmd.AddCommand(newSchemaRefreshCommand())
	cmd.AddCommand(newSchemaRelateCommand())

	return cmd
}

func runSchemaShow(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	schema, err := cmdCtx.Client.GetSchema(cmd.Context())
	if err != nil {
		return err
	}
	cmdCtx.Store.SetSchema(schema)

	if resolveFormat(cmdCtx.Cfg.OutputFormat) == "json" {
		return renderJSON(cmd.OutOrStdout(), schema)
	}
	printSchema(cmd.OutOrStdout(), schema)
	return nil
}

func printSchema(w io.Writer, schema api.Schema) {
	if len(schema) == 0 {
		_, _ = fmt.Fprintln(w, "(no tables)")
		return
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, _ = fmt.Fprintf(w, "Table: %s\n", name)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Column", "Type", "Nullable"})
		for _, col := range schema[name] {
			t.AppendRow(table.Row{col.ColumnName, col.DataType, col.IsNullable})
		}
		t.Render()
		_, _ = fmt.Fprintln(w)
	}
}

func newSchemaRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-introspect the backend database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutStore(cmd)
			if err := cmdCtx.Client.RefreshSchema(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Schema refreshed")
			return nil
		},
	}
}

func newSchemaRelateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "relate <from-table>.<from-column> <to-table>.<to-column>",
		Short: "Declare a join path between two tables",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseTableColumn(args[0])
			if err != nil {
				return err
			}
			to, err := parseTableColumn(args[1])
			if err != nil {
				return err
			}

			cmdCtx := NewCommandContextWithoutStore(cmd)
			rel := api.Relationship{
				FromTable:  from[0],
				FromColumn: from[1],
				ToTable:    to[0],
				ToColumn:   to[1],
			}
			if err := cmdCtx.Client.AddRelationship(cmd.Context(), rel); err != nil {
				return err
			}
			cmd.Printf("Relationship added: %s.%s -> %s.%s\n", from[0], from[1], to[0], to[1])
			return nil
		},
	}
}

func parseTableColumn(s string) ([2]string, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			if i == 0 || i == len(s)-1 {
				break
			}
			return [2]string{s[:i], s[i+1:]}, nil
		}
	}
	return [2]string{}, fmt.Errorf("invalid reference '%s' (expected table.column)", s)
}
