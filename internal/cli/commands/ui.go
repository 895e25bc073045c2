package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msdcl/nlq-console/internal/ui"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the local web console",
		Long: `Start a local web server providing the browser console.

The console provides:
- Sales dashboard with KPIs and charts
- Chat-style question and answer view
- Query history
- Theme and settings controls`,
		Example: `  # Start on the default port
  nlq ui

  # Start on a custom port
  nlq ui --port 3000

  # Start without auto-opening the browser
  nlq ui --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	uiCfg := cmdCtx.Cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	server := ui.NewServer(ui.Config{
		Client:        cmdCtx.Client,
		Store:         cmdCtx.Store,
		Port:          port,
		SessionSecret: sessionSecret(uiCfg.SessionSecret),
		Logger:        cmdCtx.Logger,
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Printf("Starting console on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// sessionSecret resolves the cookie-signing secret: config value, then
// environment, then a fixed development fallback.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	if secret := os.Getenv("NLQ_SESSION_SECRET"); secret != "" {
		return secret
	}
	return "nlq-dev-secret-change-in-production" //nolint:gosec
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
