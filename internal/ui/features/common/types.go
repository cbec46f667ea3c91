// Package common provides shared view types and helpers for UI features.
package common

// HistoryItem is one row of the history sidebar.
type HistoryItem struct {
	ID        string
	Text      string
	Time      string
	HasResult bool
}

// SidebarData holds what the history sidebar needs.
type SidebarData struct {
	History []HistoryItem
	Empty   bool
}

// Bar is one bar of a bar chart, in SVG user units.
type Bar struct {
	Label  string
	Value  string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  string
}

// Slice is one pie segment as an SVG path.
type Slice struct {
	Label   string
	Value   string
	Percent string
	Path    string
	Color   string
}

// Point is one vertex of a line chart.
type Point struct {
	Label string
	Value string
	X     float64
	Y     float64
}

// ChartView is a chart laid out for SVG rendering. Exactly one of Bars,
// Slices and Points is populated, according to Type.
type ChartView struct {
	Type     string
	Width    float64
	Height   float64
	Bars     []Bar
	Slices   []Slice
	Points   []Point
	Polyline string
}
