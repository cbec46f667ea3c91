package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// barWidth is the width of the longest bar in text mode.
const barWidth = 30

// Table writes rows under a header: a go-pretty table in text mode and a
// pipe table in markdown mode.
func (r *Renderer) Table(header []string, rows [][]string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("| %s |\n", strings.Join(header, " | "))
		seps := make([]string, len(header))
		for i := range seps {
			seps[i] = "---"
		}
		r.Printf("| %s |\n", strings.Join(seps, " | "))
		for _, row := range rows {
			r.Printf("| %s |\n", strings.Join(escapeCells(row), " | "))
		}
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	h := make(table.Row, len(header))
	for i, col := range header {
		h[i] = col
	}
	t.AppendHeader(h)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}
	t.Render()
}

func escapeCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// Result writes a result bundle in the renderer's mode.
func (r *Renderer) Result(b core.ResultBundle) error {
	if ok, err := r.Structured(b); ok {
		return err
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Header(2, b.Title)
		r.Println(b.Description)
		r.Println()
		r.Printf("_%s_\n\n", b.Type.Label())
		pie := b.Type == core.ChartPie
		header := []string{"Name", "Value"}
		if pie {
			header = append(header, "Share")
		}
		r.Table(header, valueRows(b, pie))
		if b.HasInsights() {
			r.Println()
			r.Header(3, "Key Insights")
			for _, in := range b.Insights {
				r.Printf("- %s\n", in)
			}
		}
		return nil
	}

	r.Header(1, b.Title)
	r.Println(b.Description)
	r.Muted(b.Type.Label())
	r.Println()
	r.chart(b)
	if b.HasInsights() {
		r.Println()
		r.Header(2, "Key Insights")
		for _, in := range b.Insights {
			r.Printf("  • %s\n", in)
		}
	}
	return nil
}

// chart draws the series as a table with horizontal bars. Pie charts show
// each slice's share of the total.
func (r *Renderer) chart(b core.ResultBundle) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := table.Row{"Name", "Value", ""}
	if b.Type == core.ChartPie {
		header = table.Row{"Name", "Value", "Share", ""}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	peak := b.Max()
	total := b.Total()
	for _, p := range b.Data {
		bar := r.styles.Bar.Render(strings.Repeat("█", barLen(p.Value, peak)))
		row := table.Row{p.Name, formatValue(p.Value), bar}
		if b.Type == core.ChartPie {
			row = table.Row{p.Name, formatValue(p.Value), formatPercent(p.Value, total), bar}
		}
		t.AppendRow(row)
	}
	t.Render()
}

func valueRows(b core.ResultBundle, share bool) [][]string {
	total := b.Total()
	rows := make([][]string, 0, len(b.Data))
	for _, p := range b.Data {
		row := []string{p.Name, formatValue(p.Value)}
		if share {
			row = append(row, formatPercent(p.Value, total))
		}
		rows = append(rows, row)
	}
	return rows
}

func barLen(v, peak float64) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	n := int(v / peak * barWidth)
	if n == 0 {
		n = 1
	}
	return n
}

// History writes history entries, newest first.
func (r *Renderer) History(entries []core.HistoryEntry) error {
	if ok, err := r.Structured(entries); ok {
		return err
	}
	if len(entries) == 0 {
		r.Muted("No queries yet")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "pending"
		if e.Result != nil {
			status = e.Result.Title
		}
		rows = append(rows, []string{
			strconv.FormatUint(e.Seq, 10),
			e.Text,
			e.Time().Format(time.TimeOnly),
			status,
			e.ID,
		})
	}
	r.Table([]string{"#", "Query", "Time", "Result", "ID"}, rows)
	return nil
}

// Suggestions writes a numbered suggestion list.
func (r *Renderer) Suggestions(list []string) error {
	if ok, err := r.Structured(list); ok {
		return err
	}
	if len(list) == 0 {
		r.Muted("No matching suggestions")
		return nil
	}
	for i, s := range list {
		if r.EffectiveMode() == ModeMarkdown {
			r.Printf("%d. %s\n", i+1, s)
			continue
		}
		r.Printf("%s %s\n", r.styles.Muted.Render(fmt.Sprintf("%2d.", i+1)), s)
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(v, total float64) string {
	if total == 0 {
		return "0%"
	}
	return strconv.FormatFloat(v/total*100, 'f', 1, 64) + "%"
}
