// Package config provides configuration management for the NLQ console.
//
// Precedence (highest to lowest): flags > env vars > config file >
// defaults. The config file is nlq.yaml (or nlq.yml) in the working
// directory unless an explicit path is given.
package config

import (
	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/session"
)

// Config holds all console configuration options.
type Config struct {
	BaseURL      string         `koanf:"base_url"`
	Language     string         `koanf:"language"`
	StatePath    string         `koanf:"state_path"`
	OutputFormat string         `koanf:"output"`
	Verbose      bool           `koanf:"verbose"`
	Theme        string         `koanf:"theme"`
	FontSize     int            `koanf:"font_size"`
	Settings     SettingsConfig `koanf:"settings"`
	UI           *UIConfig      `koanf:"ui"`
}

// SettingsConfig seeds the session settings record for a fresh state
// database. Once a state database exists, the persisted settings win.
type SettingsConfig struct {
	AutoExecute       bool   `koanf:"auto_execute"`
	ShowExplanation   bool   `koanf:"show_explanation"`
	MaxResults        int    `koanf:"max_results"`
	EnableSuggestions bool   `koanf:"enable_suggestions"`
	EnableCharts      bool   `koanf:"enable_charts"`
	ChartType         string `koanf:"chart_type"`
}

// UIConfig holds configuration for the local web dashboard server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     8765,
		AutoOpen: true,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset
// values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = 8765
	}
	return ui
}

// Default configuration values.
const (
	DefaultStateFile = ".nlq/state.db"
	DefaultLanguage  = session.DefaultLanguage
	DefaultTheme     = session.DefaultTheme
	DefaultFontSize  = session.DefaultFontSize
	DefaultOutput    = "auto" // TTY=table, non-TTY=json
)

// DefaultBaseURL is re-exported for flag help text.
const DefaultBaseURL = api.DefaultBaseURL

// SessionSettings converts the config record into the session settings
// shape used to seed a fresh state database.
func (s SettingsConfig) SessionSettings() session.Settings {
	return session.Settings{
		AutoExecute:       s.AutoExecute,
		ShowExplanation:   s.ShowExplanation,
		MaxResults:        s.MaxResults,
		EnableSuggestions: s.EnableSuggestions,
		EnableCharts:      s.EnableCharts,
		ChartType:         s.ChartType,
	}
}

// DefaultSettingsConfig mirrors the session defaults.
func DefaultSettingsConfig() SettingsConfig {
	d := session.DefaultSettings()
	return SettingsConfig{
		AutoExecute:       d.AutoExecute,
		ShowExplanation:   d.ShowExplanation,
		MaxResults:        d.MaxResults,
		EnableSuggestions: d.EnableSuggestions,
		EnableCharts:      d.EnableCharts,
		ChartType:         d.ChartType,
	}
}
