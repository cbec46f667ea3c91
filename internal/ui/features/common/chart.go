package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/leapstack-labs/leapdash/pkg/core"
)

// Chart canvas size in SVG user units.
const (
	ChartWidth  = 640
	ChartHeight = 320
	chartPad    = 24
)

// BuildChart lays out a result bundle for SVG rendering.
func BuildChart(b core.ResultBundle) ChartView {
	view := ChartView{
		Type:   string(b.Type),
		Width:  ChartWidth,
		Height: ChartHeight,
	}

	switch b.Type {
	case core.ChartLine:
		view.Points = linePoints(b)
		view.Polyline = polyline(view.Points)
	case core.ChartPie:
		view.Slices = pieSlices(b)
	default:
		view.Bars = bars(b)
	}
	return view
}

func bars(b core.ResultBundle) []Bar {
	n := len(b.Data)
	if n == 0 {
		return nil
	}

	maxV := b.Max()
	plotW := float64(ChartWidth - 2*chartPad)
	plotH := float64(ChartHeight - 2*chartPad)
	slot := plotW / float64(n)

	out := make([]Bar, n)
	for i, p := range b.Data {
		h := 0.0
		if maxV > 0 {
			h = p.Value / maxV * plotH
		}
		out[i] = Bar{
			Label:  p.Name,
			Value:  FormatValue(p.Value),
			X:      round(chartPad + float64(i)*slot + slot*0.1),
			Y:      round(chartPad + plotH - h),
			Width:  round(slot * 0.8),
			Height: round(h),
			Color:  Color(i),
		}
	}
	return out
}

func linePoints(b core.ResultBundle) []Point {
	n := len(b.Data)
	if n == 0 {
		return nil
	}

	maxV := b.Max()
	plotW := float64(ChartWidth - 2*chartPad)
	plotH := float64(ChartHeight - 2*chartPad)
	step := 0.0
	if n > 1 {
		step = plotW / float64(n-1)
	}

	out := make([]Point, n)
	for i, p := range b.Data {
		y := 0.0
		if maxV > 0 {
			y = p.Value / maxV * plotH
		}
		out[i] = Point{
			Label: p.Name,
			Value: FormatValue(p.Value),
			X:     round(chartPad + float64(i)*step),
			Y:     round(chartPad + plotH - y),
		}
	}
	return out
}

func polyline(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func pieSlices(b core.ResultBundle) []Slice {
	total := b.Total()
	if total <= 0 {
		return nil
	}

	cx := float64(ChartWidth) / 2
	cy := float64(ChartHeight) / 2
	r := float64(ChartHeight)/2 - chartPad

	out := make([]Slice, 0, len(b.Data))
	start := -math.Pi / 2
	for i, p := range b.Data {
		sweep := p.Value / total * 2 * math.Pi
		out = append(out, Slice{
			Label:   p.Name,
			Value:   FormatValue(p.Value),
			Percent: FormatPercent(p.Value, total),
			Path:    slicePath(cx, cy, r, start, sweep),
			Color:   Color(i),
		})
		start += sweep
	}
	return out
}

// slicePath draws one pie wedge. A wedge covering the whole pie has equal
// arc endpoints, which SVG renders as nothing, so it becomes two half arcs.
func slicePath(cx, cy, r, start, sweep float64) string {
	if sweep >= 2*math.Pi-1e-9 {
		return fmt.Sprintf("M %g %g A %g %g 0 1 1 %g %g A %g %g 0 1 1 %g %g Z",
			round(cx), round(cy-r), round(r), round(r), round(cx), round(cy+r),
			round(r), round(r), round(cx), round(cy-r))
	}

	end := start + sweep
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	x1, y1 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	x2, y2 := cx+r*math.Cos(end), cy+r*math.Sin(end)
	return fmt.Sprintf("M %g %g L %g %g A %g %g 0 %d 1 %g %g Z",
		round(cx), round(cy), round(x1), round(y1), round(r), round(r), large, round(x2), round(y2))
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
