package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/session"
	"github.com/msdcl/nlq-console/internal/shape"
)

// AskOptions holds options for the ask command.
type AskOptions struct {
	Chart         string
	Page          int
	NoExplanation bool
}

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	opts := &AskOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about your data in plain language",
		Long: `Ask a question about your data in plain language.

The question is sent to the analytics backend, which generates and
executes SQL, then returns the result. Queries and their results are
recorded in the local history.`,
		Example: `  # Ask a question
  nlq ask "top 10 products by revenue last month"

  # Read the question from stdin
  echo "total sales by category" | nlq ask

  # Render the answer as a bar chart
  nlq ask "revenue by category" --chart bar

  # Output as JSON for scripting
  nlq ask "monthly order counts" -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Chart, "chart", "", "Render as chart: bar, line, pie")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Result page to display")
	cmd.Flags().BoolVar(&opts.NoExplanation, "no-explanation", false, "Hide the generated explanation")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string, opts *AskOptions) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && !isTerminal(os.Stdin) {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		question = strings.TrimSpace(string(content))
	}
	if question == "" {
		return errors.New("no question provided (pass it as an argument or pipe it on stdin)")
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := cmdCtx.Runner.Run(cmd.Context(), question)
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			return errors.New("another query is already running")
		}
		return err
	}

	w := cmd.OutOrStdout()
	format := resolveFormat(cmdCtx.Cfg.OutputFormat)
	showExplanation := cmdCtx.Store.Settings().ShowExplanation && !opts.NoExplanation

	if opts.Chart != "" {
		kind, err := parseChartKind(opts.Chart)
		if err != nil {
			return err
		}
		return renderChart(w, resp.Result, kind, NewStyles())
	}

	if format == "table" && opts.Page > 0 {
		if resp.GeneratedSQL != "" {
			_, _ = fmt.Fprintf(w, "SQL: %s\n", resp.GeneratedSQL)
		}
		if showExplanation && resp.Explanation != "" {
			_, _ = fmt.Fprintf(w, "Explanation: %s\n", resp.Explanation)
		}
		_, _ = fmt.Fprintln(w)
		return renderTablePage(w, resp.Result, opts.Page-1)
	}

	return renderResponse(w, resp, format, showExplanation)
}

func parseChartKind(s string) (shape.ChartKind, error) {
	switch s {
	case "bar":
		return shape.ChartBar, nil
	case "line":
		return shape.ChartLine, nil
	case "pie":
		return shape.ChartPie, nil
	default:
		return "", fmt.Errorf("invalid chart type '%s' (must be bar, line, or pie)", s)
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
