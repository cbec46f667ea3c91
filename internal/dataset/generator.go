// Package dataset synthesizes the labeled numeric series shown by the
// dashboard: trailing monthly time series, categorical breakdowns and
// proportional (pie) breakdowns.
//
// Values are random to simulate live data. The label set, ordering and
// count are fully determined by the inputs, so tests assert on shape and
// value ranges rather than exact numbers.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// Value ranges, half-open [Min, Max).
const (
	TimeSeriesMin  = 500
	TimeSeriesMax  = 1500
	CategoryMin    = 200
	CategoryMax    = 1200
	ProportionMin  = 20
	ProportionMax  = 120
	monthLabelYear = "%s %d"
)

// Rand is the random source used for values.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level source, which is safe
// for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator builds data series from an injected random source and clock.
type Generator struct {
	rand  Rand
	clock clock.Clock
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithClock sets the clock used to anchor time series.
func WithClock(c clock.Clock) Option {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// New creates a Generator. Without options it uses math/rand/v2 and the
// system clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		rand:  globalRand{},
		clock: clock.NewReal(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TimeSeries returns months entries labeled "<Mon> <Year>", ending with the
// current calendar month and ordered oldest first.
func (g *Generator) TimeSeries(months int) []core.DataPoint {
	if months <= 0 {
		return []core.DataPoint{}
	}

	now := g.clock.Now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// Walk backward from the current month; each older month lands in
	// front of the ones already generated.
	data := make([]core.DataPoint, months)
	for i := 0; i < months; i++ {
		month := current.AddDate(0, -i, 0)
		data[months-1-i] = core.DataPoint{
			Name:  MonthLabel(month),
			Value: float64(g.between(TimeSeriesMin, TimeSeriesMax)),
		}
	}
	return data
}

// Categories returns one entry per label, in input order.
func (g *Generator) Categories(labels []string) []core.DataPoint {
	return g.labeled(labels, CategoryMin, CategoryMax)
}

// Proportions returns one pie segment per label, in input order.
func (g *Generator) Proportions(labels []string) []core.DataPoint {
	return g.labeled(labels, ProportionMin, ProportionMax)
}

// MonthLabel formats a month as "Jan 2026".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf(monthLabelYear, t.Month().String()[:3], t.Year())
}

func (g *Generator) labeled(labels []string, lo, hi int) []core.DataPoint {
	data := make([]core.DataPoint, 0, len(labels))
	for _, label := range labels {
		data = append(data, core.DataPoint{
			Name:  label,
			Value: float64(g.between(lo, hi)),
		})
	}
	return data
}

// between returns an integer in [lo, hi).
func (g *Generator) between(lo, hi int) int {
	return lo + g.rand.IntN(hi-lo)
}
