package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/session"
)

// NewSettingsCommand creates the settings command.
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change query settings",
		Long: `Show and change the persisted query settings.

Recognized keys:
  auto-execute        Execute generated SQL automatically (true/false)
  show-explanation    Include explanations in answers (true/false)
  max-results         Maximum rows per query (1-10000)
  enable-suggestions  Offer query completions (true/false)
  enable-charts       Allow chart rendering (true/false)
  chart-type          Default rendering (table, bar, line, pie)
  language            Query language code (e.g. en, de)
  theme               UI theme (light, dark)
  font-size           UI font size in pixels (8-32)`,
		Example: `  # Show current settings
  nlq settings

  # Change a setting
  nlq settings set chart-type bar
  nlq settings set max-results 500

  # Restore defaults
  nlq settings reset`,
		RunE: runSettingsShow,
	}

	cmd.AddCommand(newSettingsSetCommand())
	cmd.AddCommand(newSettingsResetCommand())

	return cmd
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := cmdCtx.Store.Settings()
	payload := map[string]any{
		"auto-execute":       s.AutoExecute,
		"show-explanation":   s.ShowExplanation,
		"max-results":        s.MaxResults,
		"enable-suggestions": s.EnableSuggestions,
		"enable-charts":      s.EnableCharts,
		"chart-type":         s.ChartType,
		"language":           cmdCtx.Store.Language(),
		"theme":              cmdCtx.Store.Theme(),
		"font-size":          cmdCtx.Store.FontSize(),
	}
	return renderJSON(cmd.OutOrStdout(), payload)
}

func newSettingsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := applySetting(cmdCtx.Store, args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("%s set to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newSettingsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			defaults := session.DefaultSettings()
			cmdCtx.Store.UpdateSettings(session.SettingsPatch{
				AutoExecute:       &defaults.AutoExecute,
				ShowExplanation:   &defaults.ShowExplanation,
				MaxResults:        &defaults.MaxResults,
				EnableSuggestions: &defaults.EnableSuggestions,
				EnableCharts:      &defaults.EnableCharts,
				ChartType:         &defaults.ChartType,
			})
			cmdCtx.Store.SetLanguage(session.DefaultLanguage)
			cmdCtx.Store.SetTheme(session.DefaultTheme)
			cmdCtx.Store.SetFontSize(session.DefaultFontSize)
			cmd.Println("Settings reset to defaults")
			return nil
		},
	}
}

func applySetting(store *session.Store, key, value string) error {
	switch key {
	case "auto-execute", "show-explanation", "enable-suggestions", "enable-charts":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value '%s' for %s (expected true or false)", value, key)
		}
		patch := session.SettingsPatch{}
		switch key {
		case "auto-execute":
			patch.AutoExecute = &b
		case "show-explanation":
			patch.ShowExplanation = &b
		case "enable-suggestions":
			patch.EnableSuggestions = &b
		case "enable-charts":
			patch.EnableCharts = &b
		}
		store.UpdateSettings(patch)

	case "max-results":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 10000 {
			return fmt.Errorf("invalid value '%s' for max-results (expected 1-10000)", value)
		}
		store.UpdateSettings(session.SettingsPatch{MaxResults: &n})

	case "chart-type":
		switch value {
		case "table", "bar", "line", "pie":
		default:
			return fmt.Errorf("invalid chart type '%s' (must be table, bar, line, or pie)", value)
		}
		store.UpdateSettings(session.SettingsPatch{ChartType: &value})

	case "language":
		store.SetLanguage(value)

	case "theme":
		if value != "light" && value != "dark" {
			return fmt.Errorf("invalid theme '%s' (must be light or dark)", value)
		}
		store.SetTheme(value)

	case "font-size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 8 || n > 32 {
			return fmt.Errorf("invalid value '%s' for font-size (expected 8-32)", value)
		}
		store.SetFontSize(n)

	default:
		return fmt.Errorf("unknown setting '%s'", key)
	}
	return nil
}
