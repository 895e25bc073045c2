// Package commands implements the NLQ console subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/cli/config"
	"github.com/msdcl/nlq-console/internal/session"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Client *api.Client
	Store  *session.Store
	Runner *session.Runner
}

// NewCommandContext creates a CommandContext with a persistent session
// store. Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	client := api.NewClient(cfg.BaseURL, logger)

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	store.SetLogger(logger)

	// A language given explicitly for this invocation overrides the
	// persisted one; config-file values only seed a fresh database.
	if lang := invocationLanguage(cmd); lang != "" && lang != store.Language() {
		store.SetLanguage(lang)
	}

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Client: client,
		Store:  store,
		Runner: session.NewRunner(store, client, logger),
	}, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without the
// session store. Useful for commands that only talk to the backend.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Client: api.NewClient(cfg.BaseURL, logger),
	}
}

// openStore opens the session store backed by the local state database.
func openStore(cfg *config.Config) (*session.Store, error) {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	persist, err := session.OpenSQLite(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings.SessionSettings()
	store, err := session.NewStoreWithDefaults(persist, session.Defaults{
		Language: cfg.Language,
		Theme:    cfg.Theme,
		FontSize: cfg.FontSize,
		Settings: &settings,
	})
	if err != nil {
		_ = persist.Close()
		return nil, err
	}
	return store, nil
}

// invocationLanguage returns a language requested explicitly for this
// run via the --language flag or the NLQ_LANGUAGE variable.
func invocationLanguage(cmd *cobra.Command) string {
	if f := cmd.Root().PersistentFlags().Lookup("language"); f != nil && f.Changed {
		return f.Value.String()
	}
	return os.Getenv("NLQ_LANGUAGE")
}

// getConfig returns the current configuration. It uses
// config.GetCurrentConfig() if available, otherwise falls back to
// environment variables with defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		BaseURL:      getEnvOrDefault("NLQ_BASE_URL", config.DefaultBaseURL),
		Language:     getEnvOrDefault("NLQ_LANGUAGE", config.DefaultLanguage),
		StatePath:    getEnvOrDefault("NLQ_STATE_PATH", config.DefaultStateFile),
		OutputFormat: getEnvOrDefault("NLQ_OUTPUT", config.DefaultOutput),
		Verbose:      os.Getenv("NLQ_VERBOSE") == "true",
		Theme:        config.DefaultTheme,
		FontSize:     config.DefaultFontSize,
		Settings:     config.DefaultSettingsConfig(),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// resolveFormat maps the "auto" output format to table on a TTY and
// json otherwise.
func resolveFormat(format string) string {
	if format != "auto" && format != "" {
		return format
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}
	return "json"
}
