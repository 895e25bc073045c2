package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check backend health and usage statistics",
		Example: `  nlq status
  nlq status -o json`,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	out := cmd.OutOrStdout()
	styles := NewStyles()

	health, err := cmdCtx.Client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}

	if resolveFormat(cmdCtx.Cfg.OutputFormat) == "json" {
		payload := map[string]any{"healthy": health.Healthy}
		if health.Error != "" {
			payload["error"] = health.Error
		}
		if stats, err := cmdCtx.Client.GetStats(cmd.Context()); err == nil {
			payload["stats"] = stats
		}
		return renderJSON(out, payload)
	}

	_, _ = fmt.Fprintf(out, "Backend: %s\n", cmdCtx.Cfg.BaseURL)
	if health.Healthy {
		_, _ = fmt.Fprintf(out, "Status:  %s\n", styles.Value.Render("healthy"))
	} else {
		_, _ = fmt.Fprintf(out, "Status:  %s\n", styles.Error.Render("unhealthy"))
		if health.Error != "" {
			_, _ = fmt.Fprintf(out, "Error:   %s\n", health.Error)
		}
	}

	stats, err := cmdCtx.Client.GetStats(cmd.Context())
	if err != nil {
		cmdCtx.Logger.Debug("stats unavailable", "err", err)
		return nil
	}
	if len(stats) == 0 {
		return nil
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.Title.Render("Statistics"))
	for _, k := range keys {
		_, _ = fmt.Fprintf(out, "  %s: %v\n", styles.Label.Render(k), stats[k])
	}
	return nil
}
