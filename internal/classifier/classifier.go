// Package classifier maps a free-text analytics question to a canned
// result bundle.
//
// Routing is a fixed, ordered keyword table: the query is lower-cased and
// each rule's keywords are tested as plain substrings. The first rule with
// a hit wins; queries matching nothing get the default bundle. Only the
// numeric values in the bundle vary between calls.
package classifier

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdash/internal/dataset"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classifier answers queries from the topic table.
type Classifier struct {
	gen      *dataset.Generator
	rules    []Rule
	fallback Rule
}

// New creates a Classifier over the built-in topic table.
// A nil generator uses dataset.New().
func New(gen *dataset.Generator) *Classifier {
	if gen == nil {
		gen = dataset.New()
	}
	return &Classifier{
		gen:      gen,
		rules:    defaultRules,
		fallback: fallbackRule,
	}
}

// Rules returns a copy of the ordered topic table, without the fallback.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.clone()
	}
	return out
}

// Fallback returns a copy of the rule used when nothing matches.
func (c *Classifier) Fallback() Rule {
	return c.fallback.clone()
}

// Match returns the rule that would answer the query.
func (c *Classifier) Match(query string) Rule {
	q := normalize(query)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(q, kw) {
				return r.clone()
			}
		}
	}
	return c.fallback.clone()
}

// Classify builds the result bundle for the query.
func (c *Classifier) Classify(query string) (core.ResultBundle, error) {
	rule := c.Match(query)

	data, err := c.data(rule)
	if err != nil {
		return core.ResultBundle{}, fmt.Errorf("rule %s: %w", rule.Name, err)
	}

	return core.ResultBundle{
		Type:        rule.Chart,
		Title:       rule.Title,
		Description: rule.Description,
		Data:        data,
		Insights:    rule.Insights,
	}, nil
}

func (c *Classifier) data(r Rule) ([]core.DataPoint, error) {
	switch r.Shape {
	case ShapeTimeSeries:
		return c.gen.TimeSeries(r.Months), nil
	case ShapeCategories:
		return c.gen.Categories(r.Labels), nil
	case ShapeProportions:
		return c.gen.Proportions(r.Labels), nil
	default:
		return nil, fmt.Errorf("unknown dataset shape %d", r.Shape)
	}
}

// normalize lower-cases the query. A Caser is stateful, so one is built
// per call.
func normalize(query string) string {
	return cases.Lower(language.Und).String(query)
}
