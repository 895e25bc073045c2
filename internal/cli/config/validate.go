package config

import "fmt"

var validChartTypes = map[string]struct{}{
	"table": {}, "bar": {}, "line": {}, "pie": {},
}

var validOutputs = map[string]struct{}{
	"auto": {}, "table": {}, "json": {}, "csv": {}, "md": {}, "markdown": {},
}

// Validate checks enum fields and numeric ranges.
func Validate(cfg *Config) error {
	if _, ok := validOutputs[cfg.OutputFormat]; !ok {
		return fmt.Errorf("invalid output format %q (want auto|table|json|csv|md)", cfg.OutputFormat)
	}
	if _, ok := validChartTypes[cfg.Settings.ChartType]; !ok {
		return fmt.Errorf("invalid chart type %q (want table|bar|line|pie)", cfg.Settings.ChartType)
	}
	if cfg.Settings.MaxResults < 1 || cfg.Settings.MaxResults > 10000 {
		return fmt.Errorf("max_results must be between 1 and 10000, got %d", cfg.Settings.MaxResults)
	}
	if cfg.FontSize < 8 || cfg.FontSize > 32 {
		return fmt.Errorf("font_size must be between 8 and 32, got %d", cfg.FontSize)
	}
	return nil
}
