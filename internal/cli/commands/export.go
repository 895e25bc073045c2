package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/session"
	"github.com/msdcl/nlq-console/internal/shape"
)

// ExportCSVOptions holds options for the export-csv command.
type ExportCSVOptions struct {
	Output string
}

// NewExportCSVCommand creates the export-csv command.
func NewExportCSVCommand() *cobra.Command {
	opts := &ExportCSVOptions{}

	cmd := &cobra.Command{
		Use:   "export-csv [entry-id]",
		Short: "Export a query result from history as CSV",
		Long: `Export the result of a past query as CSV.

Without an argument, the most recent answered query is exported.
Pass a history entry id (see 'nlq history -o json') to export a
specific result. Values are written raw, without display formatting.`,
		Example: `  # Export the latest result to stdout
  nlq export-csv

  # Export to a file
  nlq export-csv --output result.csv

  # Export a specific history entry
  nlq export-csv 3f1c9a52-ae0f-4f9e-9c1d-8d2f5f6f7a8b`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportCSV(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "f", "", "Write CSV to file instead of stdout")

	return cmd
}

func runExportCSV(cmd *cobra.Command, args []string, opts *ExportCSVOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entry, err := findExportEntry(cmdCtx.Store.History(), args)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := shape.WriteCSV(w, entry.Result.Result); err != nil {
		return err
	}
	if opts.Output != "" {
		cmd.Printf("Exported %d rows to %s\n", entry.Result.Result.RowCount, opts.Output)
	}
	return nil
}

func findExportEntry(entries []session.HistoryEntry, args []string) (*session.HistoryEntry, error) {
	if len(args) > 0 {
		for i := range entries {
			if entries[i].ID == args[0] {
				if entries[i].Result == nil || entries[i].Result.Result == nil {
					return nil, fmt.Errorf("history entry %s has no result", args[0])
				}
				return &entries[i], nil
			}
		}
		return nil, fmt.Errorf("history entry %s not found", args[0])
	}

	// Newest-first: the first bot entry with a result is the latest answer.
	for i := range entries {
		if entries[i].Type == session.EntryBot && entries[i].Result != nil && entries[i].Result.Result != nil {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no query results in history")
}
