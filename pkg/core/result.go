package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// ChartType
// =============================================================================

// ChartType selects how a result bundle is drawn.
type ChartType string

// Supported chart types.
const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartPie  ChartType = "pie"
)

// Valid reports whether the chart type is one of the supported kinds.
func (c ChartType) Valid() bool {
	switch c {
	case ChartLine, ChartBar, ChartPie:
		return true
	default:
		return false
	}
}

// Label returns a human-readable label for the chart type.
func (c ChartType) Label() string {
	switch c {
	case ChartLine:
		return "Line chart"
	case ChartBar:
		return "Bar chart"
	case ChartPie:
		return "Pie chart"
	default:
		return string(c)
	}
}

// ParseChartType converts a string to a ChartType.
func ParseChartType(s string) (ChartType, error) {
	c := ChartType(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown chart type %q (expected line, bar or pie)", s)
	}
	return c, nil
}

// =============================================================================
// ResultBundle
// =============================================================================

// DataPoint is a single labeled value in a chart series.
type DataPoint struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// ResultBundle is the complete answer to one query: chart type, title,
// description, chart data and optional insights.
//
// Data ordering is significant: chronological (oldest first) for line
// charts and the fixed label order of the topic otherwise.
// A nil Insights slice means the bundle carries no insights.
type ResultBundle struct {
	Type        ChartType   `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Data        []DataPoint `json:"data" yaml:"data"`
	Insights    []string    `json:"insights,omitempty" yaml:"insights,omitempty"`
}

// HasInsights reports whether the bundle carries insights.
func (b ResultBundle) HasInsights() bool {
	return len(b.Insights) > 0
}

// Total returns the sum of all data values.
func (b ResultBundle) Total() float64 {
	var sum float64
	for _, p := range b.Data {
		sum += p.Value
	}
	return sum
}

// Max returns the largest data value, or 0 for an empty series.
func (b ResultBundle) Max() float64 {
	var m float64
	for i, p := range b.Data {
		if i == 0 || p.Value > m {
			m = p.Value
		}
	}
	return m
}

// Clone returns a deep copy of the bundle.
func (b ResultBundle) Clone() ResultBundle {
	out := b
	if b.Data != nil {
		out.Data = append([]DataPoint(nil), b.Data...)
	}
	if b.Insights != nil {
		out.Insights = append([]string(nil), b.Insights...)
	}
	return out
}
