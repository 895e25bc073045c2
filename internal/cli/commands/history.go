package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/session"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show and manage query history",
		Long: `Show recent queries and answers from the local history.

History is stored locally and capped at the most recent queries.
Use the export and import subcommands to move history between
machines as JSON.`,
		Example: `  # Show the 10 most recent entries
  nlq history

  # Show more entries
  nlq history --limit 50

  # Export, import, or clear
  nlq history export history.json
  nlq history import history.json
  nlq history clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Maximum entries to show")

	cmd.AddCommand(newHistoryExportCommand())
	cmd.AddCommand(newHistoryImportCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func runHistoryList(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format := resolveFormat(cmdCtx.Cfg.OutputFormat)
	entries := cmdCtx.Store.History()
	if format == "json" {
		if opts.Limit < len(entries) {
			entries = entries[:opts.Limit]
		}
		return renderJSON(cmd.OutOrStdout(), entries)
	}

	printHistory(cmd.OutOrStdout(), entries, opts.Limit)
	return nil
}

func newHistoryExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export query history to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := exportHistoryToFile(cmdCtx.Store, args[0]); err != nil {
				return err
			}
			cmd.Printf("Exported %d history entries to %s\n", len(cmdCtx.Store.History()), args[0])
			return nil
		},
	}
}

func newHistoryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import query history from a JSON file",
		Long: `Import query history from a JSON file.

The file must contain a JSON array of history entries, as produced by
'nlq history export'. The imported entries replace the current history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			count, err := importHistoryFromFile(cmdCtx.Store, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d history entries\n", count)
			return nil
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all query history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			cmdCtx.Store.ClearHistory()
			cmd.Println("History cleared")
			return nil
		},
	}
}

func exportHistoryToFile(store *session.Store, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := store.ExportHistory(f); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}
	return nil
}

func importHistoryFromFile(store *session.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return store.ImportHistory(f)
}
