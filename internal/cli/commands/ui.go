package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gorilla/securecookie"
	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/internal/ui"
	"github.com/leapstack-labs/leapdash/internal/workspace"
	"github.com/spf13/cobra"
)

// NewUICommand creates the ui command. Its flags feed the ui.* config keys.
func NewUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web dashboard",
		Long: `Start a local web server serving the analytics dashboard.

Each browser session gets its own query history and results. Sessions idle
for longer than ui.session_ttl are dropped along with their history.`,
		Example: `  # Start UI on default port
  leapdash ui

  # Start on custom port without opening a browser
  leapdash ui --port 3000 --open=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().Bool("open", true, "Open the dashboard in a browser")
	cmd.Flags().Bool("dev", false, "Enable live reload")
	cmd.Flags().Duration("session-ttl", 0, "Drop sessions idle for this long (default: 30m)")
	cmd.Flags().String("session-secret", "", "Key for signing session cookies (default: random per run)")

	return cmd
}

func runUI(cmd *cobra.Command) error {
	cc := NewCommandContextWithoutController(cmd)
	uiCfg := cc.Cfg.GetUIConfig()

	clk := clock.NewReal()
	registry, err := workspace.NewRegistry(workspace.Config{
		Classifier:  newClassifier(clk),
		Clock:       clk,
		Latency:     cc.Cfg.Latency,
		Policy:      cc.Cfg.Policy,
		Suggestions: cc.Cfg.Suggestions,
		TTL:         uiCfg.SessionTTL,
		Logger:      cc.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create workspace registry: %w", err)
	}

	server := ui.NewServer(ui.Config{
		Registry:      registry,
		Port:          uiCfg.Port,
		SessionSecret: sessionSecret(uiCfg.SessionSecret),
		SessionMaxAge: uiCfg.SessionTTL,
		IsDev:         uiCfg.Dev,
		Logger:        cc.Logger,
	})

	if uiCfg.AutoOpen {
		go openBrowser(server.Addr())
	}

	cc.Renderer.Printf("Starting UI server on %s\n", server.Addr())
	cc.Renderer.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// sessionSecret returns the configured secret, or a random one. A random
// secret invalidates existing session cookies on restart, which is fine
// since workspaces do not survive a restart either.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	return string(securecookie.GenerateRandomKey(32))
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
