package commands

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/leapstack-labs/leapdash/internal/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the dashboard in the terminal",
		Long: `Open the analytics dashboard as a full-screen terminal application.

Keys:
  type            edit the question; matching suggestions drop down
  ↑/↓             move through suggestions
  enter           pick the highlighted suggestion, or ask the question
  esc             close the suggestions
  tab             move to the history list (enter replays an entry)
  ctrl+l          clear the question
  ctrl+c          quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			renderer := lipgloss.NewRenderer(cmd.OutOrStdout(), termenv.WithColorCache(true))
			m := tui.New(cc.Controller, query.NewSuggestionBox(cc.Store()),
				tui.WithRenderer(renderer),
				tui.WithLogger(cc.Logger))
			return tui.Run(cmd.Context(), m)
		},
	}
}
