package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/session"
)

// SQLOptions holds options for the sql command.
type SQLOptions struct {
	Generate bool
	Input    string
}

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	opts := &SQLOptions{}

	cmd := &cobra.Command{
		Use:   "sql [statement]",
		Short: "Generate or execute SQL against the backend",
		Long: `Generate or execute SQL against the analytics backend.

By default the statement is executed and the result rendered. With
--generate, the argument is treated as a plain-language question and
only the translated SQL is printed, without executing it.`,
		Example: `  # Execute SQL directly
  nlq sql "SELECT category, SUM(amount) FROM orders GROUP BY 1"

  # Read SQL from a file
  nlq sql --input report.sql

  # Translate a question to SQL without running it
  nlq sql --generate "average order value per month"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Generate, "generate", "g", false, "Translate a question to SQL without executing")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runSQL(cmd *cobra.Command, args []string, opts *SQLOptions) error {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		text = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(content)
	default:
		return errors.New("no SQL provided (pass it as an argument, --input, or stdin)")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("empty SQL statement")
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.Generate {
		resp, err := cmdCtx.Client.GenerateSQL(cmd.Context(), text, cmdCtx.Store.Language())
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("generation failed: %s", resp.Error)
		}
		cmd.Println(resp.SQL)
		return nil
	}

	resp, err := cmdCtx.Runner.ExecuteSQL(cmd.Context(), text)
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			return errors.New("another query is already running")
		}
		return err
	}

	format := resolveFormat(cmdCtx.Cfg.OutputFormat)
	return renderResult(cmd.OutOrStdout(), resp.Result, format)
}
