package commands

import (
	"strings"

	"github.com/leapstack-labs/leapdash/internal/classifier"
	"github.com/leapstack-labs/leapdash/internal/cli/output"
	"github.com/spf13/cobra"
)

// TopicOutput is the structured form of one topic rule.
type TopicOutput struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Chart    string   `json:"chart" yaml:"chart"`
	Data     string   `json:"data" yaml:"data"`
	Title    string   `json:"title" yaml:"title"`
	Fallback bool     `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// NewTopicsCommand creates the topics command.
func NewTopicsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the topics questions are matched against",
		Long: `List the keyword rules used to answer questions.

Rules are checked in order and the first rule with a keyword contained in
the question wins. Questions matching no rule get the fallback bar chart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderTopics(NewCommandContextWithoutController(cmd).Renderer)
		},
	}
}

func topicOutputs() []TopicOutput {
	c := classifier.New(nil)
	rules := append(c.Rules(), c.Fallback())

	out := make([]TopicOutput, 0, len(rules))
	for i, rule := range rules {
		out = append(out, TopicOutput{
			Name:     rule.Name,
			Keywords: rule.Keywords,
			Chart:    string(rule.Chart),
			Data:     rule.Shape.String(),
			Title:    rule.Title,
			Fallback: i == len(rules)-1,
		})
	}
	return out
}

func renderTopics(r *output.Renderer) error {
	topics := topicOutputs()
	if ok, err := r.Structured(topics); ok {
		return err
	}

	r.Header(1, "Topics")
	rows := make([][]string, 0, len(topics))
	for _, t := range topics {
		keywords := strings.Join(t.Keywords, ", ")
		if t.Fallback {
			keywords = "(anything else)"
		}
		rows = append(rows, []string{t.Name, keywords, t.Chart, t.Title})
	}
	r.Table([]string{"Topic", "Keywords", "Chart", "Title"}, rows)
	return nil
}
