package commands

import (
	"strings"

	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/spf13/cobra"
)

// NewSuggestionsCommand creates the suggestions command.
func NewSuggestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions [text]",
		Short: "List suggested questions",
		Long: `List the configured suggested questions. With text, only suggestions
containing it (case-insensitive) are shown, as in the dashboard dropdown.`,
		Example: `  leapdash suggestions
  leapdash suggestions revenue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContextWithoutController(cmd)
			list := query.FilterSuggestions(cc.Cfg.Suggestions, strings.Join(args, " "))
			return cc.Renderer.Suggestions(list)
		},
	}
}
