package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapdash/internal/classifier"
	"github.com/leapstack-labs/leapdash/internal/cli/config"
	"github.com/leapstack-labs/leapdash/internal/cli/output"
	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/internal/dataset"
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	Controller *query.Controller
	Renderer   *output.Renderer
}

// Store returns the query store behind the controller.
func (c *CommandContext) Store() *query.Store {
	return c.Controller.Store()
}

// NewCommandContext creates a CommandContext with a query controller and
// renderer. The cleanup function stops the controller and must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutController(cmd)

	ctrl, err := createController(cc.Cfg, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	cc.Controller = ctrl

	return cc, ctrl.Close, nil
}

// NewCommandContextWithoutController creates a CommandContext without a
// controller. Useful for commands that only read static data.
func NewCommandContextWithoutController(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs without the root pre-run (as in unit tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// newClassifier builds the keyword classifier over a fresh generator.
func newClassifier(clk clock.Clock) *classifier.Classifier {
	return classifier.New(dataset.New(dataset.WithClock(clk)))
}

func createController(cfg *config.Config, logger *slog.Logger) (*query.Controller, error) {
	clk := clock.NewReal()
	store := query.NewStore(
		query.WithSuggestions(cfg.Suggestions),
		query.WithStoreClock(clk),
	)

	ctrl, err := query.NewController(query.Config{
		Store:      store,
		Classifier: newClassifier(clk),
		Clock:      clk,
		Latency:    cfg.Latency,
		Policy:     cfg.Policy,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}
	return ctrl, nil
}
