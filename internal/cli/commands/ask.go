package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdash/internal/classifier"
	"github.com/leapstack-labs/leapdash/internal/cli/output"
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/spf13/cobra"
)

// AskOptions holds options for the ask command.
type AskOptions struct {
	Explain bool
}

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	opts := &AskOptions{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question and print the result",
		Long: `Ask a natural-language question about your data.

The question is matched against the topic keywords (see 'leapdash topics')
and the matching dataset is printed as a chart table with insights.

Output adapts to environment:
  - Terminal: Styled table with bars
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable result bundle`,
		Example: `  # Ask about revenue
  leapdash ask "Show me monthly revenue for the last year"

  # Skip the simulated latency
  leapdash ask --latency 0 top products

  # Machine-readable output
  leapdash ask -o json "customer retention"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "Show which topic matched")

	return cmd
}

func runAsk(cmd *cobra.Command, text string, opts *AskOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.Explain {
		explain(cc, text)
	}

	outcome, err := ask(cmd.Context(), cc.Controller, text)
	if err != nil {
		return err
	}
	return cc.Renderer.Result(*outcome.Result)
}

// explain names the topic text matches. Structured modes keep stdout
// clean, so the note goes to stderr there.
func explain(cc *CommandContext, text string) {
	rule := classifier.New(nil).Match(text)
	msg := fmt.Sprintf("Matched topic: %s (%s chart)", rule.Name, rule.Chart)
	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		_, _ = fmt.Fprintln(cc.Renderer.ErrWriter(), msg)
	default:
		cc.Renderer.Muted(msg)
	}
}

// ask submits text and waits for its settlement. The returned outcome
// always carries a result when err is nil.
func ask(ctx context.Context, ctrl *query.Controller, text string) (query.Outcome, error) {
	exec, err := ctrl.Execute(text)
	if err != nil {
		if errors.Is(err, query.ErrEmptyQuery) {
			return query.Outcome{}, errors.New(query.MsgEmptyQuery)
		}
		return query.Outcome{}, err
	}

	outcome, err := exec.Wait(ctx)
	if err != nil {
		return query.Outcome{}, fmt.Errorf("query interrupted: %w", err)
	}
	if outcome.Err != nil {
		return outcome, outcome.Err
	}
	return outcome, nil
}
