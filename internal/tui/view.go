package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

const (
	defaultWidth = 100
	sidebarWidth = 30
	barWidth     = 28
)

type styles struct {
	title      lipgloss.Style
	sidebar    lipgloss.Style
	sideTitle  lipgloss.Style
	entry      lipgloss.Style
	entryFocus lipgloss.Style
	suggestion lipgloss.Style
	active     lipgloss.Style
	muted      lipgloss.Style
	err        lipgloss.Style
	bar        lipgloss.Style
	card       lipgloss.Style
	help       lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		sidebar:    r.NewStyle().Width(sidebarWidth).Border(lipgloss.NormalBorder(), false, true, false, false).PaddingRight(1),
		sideTitle:  r.NewStyle().Bold(true),
		entry:      r.NewStyle(),
		entryFocus: r.NewStyle().Reverse(true),
		suggestion: r.NewStyle().PaddingLeft(2),
		active:     r.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("63")).Bold(true),
		muted:      r.NewStyle().Foreground(lipgloss.Color("245")),
		err:        r.NewStyle().Foreground(lipgloss.Color("196")),
		bar:        r.NewStyle().Foreground(lipgloss.Color("63")),
		card:       r.NewStyle().PaddingLeft(1),
		help:       r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), m.viewMain())

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Analytics Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) helpLine() string {
	if m.focus == focusHistory {
		return "↑/↓ select • enter replay • esc back • ctrl+c quit"
	}
	return "↑/↓ suggestions • enter ask • esc close • tab history • ctrl+l clear • ctrl+c quit"
}

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(m.styles.sideTitle.Render("Query History"))
	b.WriteString("\n")
	if len(m.state.History) == 0 {
		b.WriteString(m.styles.muted.Render("No queries yet"))
		return m.styles.sidebar.Render(b.String())
	}
	for i, e := range m.state.History {
		line := truncate(e.Text, sidebarWidth-8) + " " + m.styles.muted.Render(e.Time().Format("15:04"))
		style := m.styles.entry
		if m.focus == focusHistory && i == m.cursor {
			style = m.styles.entryFocus
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return m.styles.sidebar.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewMain() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.box.Visible() {
		active := m.box.Active()
		for i, s := range m.box.Items() {
			if i == active {
				b.WriteString(m.styles.active.Render("▸ " + s))
			} else {
				b.WriteString(m.styles.suggestion.Render("  " + s))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if m.state.Error != "" {
		b.WriteString(m.styles.err.Render(m.state.Error))
		b.WriteString("\n\n")
	}
	if m.lastErr != nil {
		b.WriteString(m.styles.err.Render(m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	switch {
	case m.state.IsLoading:
		b.WriteString(m.spinner.View() + " Analyzing your query...")
	case m.state.Results != nil:
		b.WriteString(m.viewResult(*m.state.Results))
	default:
		b.WriteString(m.styles.muted.Render("Ask a question or pick a suggestion to see your data."))
	}

	width := max(m.width-sidebarWidth-2, 40)
	return m.styles.card.Width(width).Render(b.String())
}

func (m Model) viewResult(r core.ResultBundle) string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(r.Title))
	b.WriteString("\n")
	b.WriteString(r.Description)
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(r.Type.Label()))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, p := range r.Data {
		labelWidth = max(labelWidth, lipgloss.Width(p.Name))
	}
	peak, total := r.Max(), r.Total()
	for _, p := range r.Data {
		n := 0
		if peak > 0 && p.Value > 0 {
			n = max(int(p.Value/peak*barWidth), 1)
		}
		value := strconv.FormatFloat(p.Value, 'f', -1, 64)
		if r.Type == core.ChartPie && total > 0 {
			value = fmt.Sprintf("%s (%.1f%%)", value, p.Value/total*100)
		}
		fmt.Fprintf(&b, "%-*s %s %s\n", labelWidth, p.Name, m.styles.bar.Render(strings.Repeat("█", n)), value)
	}

	if r.HasInsights() {
		b.WriteString("\n")
		b.WriteString(m.styles.sideTitle.Render("Key Insights"))
		b.WriteString("\n")
		for _, in := range r.Insights {
			b.WriteString("• " + in + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
