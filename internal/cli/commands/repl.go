package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/session"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive question-and-answer session",
		Long: `Start an interactive session for asking questions about your data.

Each line is sent to the analytics backend as a natural-language
question. Dot-commands control the session; type .help to list them.`,
		Example: `  nlq repl`,
		RunE:    runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "repl_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nlq> ",
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(cmd.Context(), cmdCtx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "NLQ console (backend: %s)\n", cmdCtx.Cfg.BaseURL)
	_, _ = fmt.Fprintln(out, "Type a question in plain language, or .help for commands")
	_, _ = fmt.Fprintln(out)

	styles := NewStyles()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cmdCtx, line); quit {
				break
			}
			continue
		}

		runREPLQuestion(cmd, cmdCtx, line, styles)
	}

	return nil
}

func runREPLQuestion(cmd *cobra.Command, cmdCtx *CommandContext, question string, styles *Styles) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	resp, err := cmdCtx.Runner.Run(cmd.Context(), question)
	if err != nil {
		_, _ = fmt.Fprintln(errOut, styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		return
	}

	settings := cmdCtx.Store.Settings()
	if resp.GeneratedSQL != "" {
		_, _ = fmt.Fprintf(out, "%s %s\n", styles.Label.Render("SQL:"), resp.GeneratedSQL)
	}
	if settings.ShowExplanation && resp.Explanation != "" {
		_, _ = fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Explanation:"), resp.Explanation)
	}
	_, _ = fmt.Fprintln(out)

	switch settings.ChartType {
	case "bar", "line", "pie":
		if settings.EnableCharts {
			kind, _ := parseChartKind(settings.ChartType)
			if err := renderChart(out, resp.Result, kind, styles); err != nil {
				_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			}
			_, _ = fmt.Fprintln(out)
			return
		}
		fallthrough
	default:
		if err := renderTablePage(out, resp.Result, 0); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(out)
	}
}

// handleDotCommand processes REPL dot-commands; returns true to quit.
func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, line string) bool {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".history":
		limit := 10
		if len(parts) > 1 {
			if n, err := strconv.Atoi(parts[1]); err == nil && n > 0 {
				limit = n
			}
		}
		printHistory(out, cmdCtx.Store.History(), limit)

	case ".schema":
		schema, err := cmdCtx.Client.GetSchema(cmd.Context())
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return false
		}
		printSchema(out, schema)

	case ".settings":
		_ = renderJSON(out, cmdCtx.Store.Settings())

	case ".lang":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(out, "Language: %s\n", cmdCtx.Store.Language())
			return false
		}
		cmdCtx.Store.SetLanguage(parts[1])
		_, _ = fmt.Fprintf(out, "Language set to %s\n", parts[1])

	case ".chart":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(out, "Chart type: %s\n", cmdCtx.Store.Settings().ChartType)
			return false
		}
		if parts[1] != "table" {
			if _, err := parseChartKind(parts[1]); err != nil {
				_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
				return false
			}
		}
		chartType := parts[1]
		cmdCtx.Store.UpdateSettings(session.SettingsPatch{ChartType: &chartType})
		_, _ = fmt.Fprintf(out, "Chart type set to %s\n", chartType)

	case ".sql":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .sql <statement>")
			return false
		}
		sqlText := strings.TrimPrefix(line, parts[0])
		resp, err := cmdCtx.Runner.ExecuteSQL(cmd.Context(), strings.TrimSpace(sqlText))
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return false
		}
		_ = renderTablePage(out, resp.Result, 0)

	case ".export":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .export <file>")
			return false
		}
		if err := exportHistoryToFile(cmdCtx.Store, parts[1]); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return false
		}
		_, _ = fmt.Fprintf(out, "History exported to %s\n", parts[1])

	case ".import":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .import <file>")
			return false
		}
		count, err := importHistoryFromFile(cmdCtx.Store, parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return false
		}
		_, _ = fmt.Fprintf(out, "Imported %d history entries\n", count)

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}

	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .history [n]     Show the n most recent queries (default 10)
  .schema          Show the backend database schema
  .settings        Show current query settings
  .lang [code]     Show or set the query language
  .chart [type]    Show or set the chart type (table, bar, line, pie)
  .sql <stmt>      Execute SQL directly against the backend
  .export <file>   Export query history to a JSON file
  .import <file>   Import query history from a JSON file
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - Anything that is not a dot-command is sent as a question
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func printHistory(w io.Writer, entries []session.HistoryEntry, limit int) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "(no history)")
		return
	}
	if limit > len(entries) {
		limit = len(entries)
	}
	for _, e := range entries[:limit] {
		ts := e.Timestamp.Local().Format("2006-01-02 15:04")
		switch e.Type {
		case session.EntryError:
			_, _ = fmt.Fprintf(w, "%s  [error] %s\n", ts, e.Error)
		case session.EntryBot:
			rows := 0
			if e.Result != nil && e.Result.Result != nil {
				rows = e.Result.Result.RowCount
			}
			_, _ = fmt.Fprintf(w, "%s  [answer] %d rows\n", ts, rows)
		default:
			_, _ = fmt.Fprintf(w, "%s  %s\n", ts, e.Query)
		}
	}
}

func newREPLCompleter(ctx context.Context, cmdCtx *CommandContext) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".history"),
		readline.PcItem(".schema"),
		readline.PcItem(".settings"),
		readline.PcItem(".lang"),
		readline.PcItem(".chart",
			readline.PcItem("table"),
			readline.PcItem("bar"),
			readline.PcItem("line"),
			readline.PcItem("pie"),
		),
		readline.PcItem(".sql"),
		readline.PcItem(".export"),
		readline.PcItem(".import"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}

	// Seed completion with backend suggestions when available.
	if cmdCtx.Store.Settings().EnableSuggestions {
		if suggestions, err := cmdCtx.Client.Suggestions(ctx, ""); err == nil {
			for _, s := range suggestions {
				items = append(items, readline.PcItem(s))
			}
		}
	}

	return readline.NewPrefixCompleter(items...)
}
