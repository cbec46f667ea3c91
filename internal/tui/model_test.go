package tui

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/classifier"
	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/internal/dataset"
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/leapstack-labs/leapdash/internal/testutil"
)

var testEpoch = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) Model {
	t.Helper()

	clk := clock.NewFixed(testEpoch)
	store := query.NewStore(query.WithStoreClock(clk))
	ctrl, err := query.NewController(query.Config{
		Store:      store,
		Classifier: classifier.New(dataset.New(dataset.WithClock(clk))),
		Clock:      clk,
		Latency:    time.Millisecond,
		Logger:     testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)

	return New(ctrl, query.NewSuggestionBox(store),
		WithRenderer(lipgloss.NewRenderer(io.Discard)),
		WithLogger(testutil.NewTestLogger(t)))
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"down":   tea.KeyDown,
	"up":     tea.KeyUp,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"ctrl+l": tea.KeyCtrlL,
	"ctrl+c": tea.KeyCtrlC,
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		typ, ok := namedKeys[k]
		require.True(t, ok, "unknown key %q", k)
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: typ})
		m = next.(Model)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

// settle waits for pending executions and delivers the change message
// the running program would receive.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	require.Eventually(t, func() bool {
		return !m.store.Snapshot().IsLoading
	}, time.Second, time.Millisecond)
	next, _ := m.Update(stateChangedMsg{})
	return next.(Model)
}

func TestModel_InitialView(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Analytics Dashboard")
	assert.Contains(t, view, "No queries yet")
	assert.Contains(t, view, "Ask a question")
	assert.NotNil(t, m.Init())
}

func TestModel_TypingOpensSuggestions(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "rev")

	assert.Equal(t, "rev", m.store.CurrentQuery())
	assert.True(t, m.box.Visible())
	assert.Contains(t, m.View(), "Show me monthly revenue for the last year")
	assert.NotContains(t, m.View(), "Compare sales performance across regions")
}

func TestModel_ArrowEnterCommitsSuggestion(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "show")
	m, _ = press(t, m, "down", "down")
	assert.Equal(t, 1, m.box.Active())
	assert.Contains(t, m.View(), "▸ Show me marketing campaign ROI")

	m, _ = press(t, m, "enter")

	assert.Equal(t, "Show me marketing campaign ROI", m.store.CurrentQuery())
	assert.Equal(t, "Show me marketing campaign ROI", m.input.Value())
	assert.False(t, m.box.Open())
	assert.Empty(t, m.state.History, "committing a suggestion does not submit")
}

func TestModel_EnterSubmits(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "revenue please")
	m, _ = press(t, m, "esc")
	m, cmd := press(t, m, "enter")
	assert.NotNil(t, cmd, "spinner tick scheduled")
	require.Len(t, m.state.History, 1)
	assert.Equal(t, "revenue please", m.state.History[0].Text)

	m = settle(t, m)

	require.NotNil(t, m.state.Results)
	view := m.View()
	assert.Contains(t, view, "Monthly Revenue")
	assert.Contains(t, view, "Key Insights")
	assert.Contains(t, view, "█")
	assert.Contains(t, view, "revenue please")
}

func TestModel_EmptySubmitShowsError(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, "enter")

	assert.Nil(t, cmd)
	assert.Equal(t, query.MsgEmptyQuery, m.state.Error)
	assert.Contains(t, m.View(), query.MsgEmptyQuery)
	assert.Empty(t, m.state.History)
}

func TestModel_EscapeKeepsQuery(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "cust")
	require.True(t, m.box.Open())
	m, _ = press(t, m, "esc")

	assert.False(t, m.box.Open())
	assert.Equal(t, "cust", m.input.Value())
}

func TestModel_ClearKey(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "sales")
	m, _ = press(t, m, "ctrl+l")

	assert.Empty(t, m.store.CurrentQuery())
	assert.Empty(t, m.input.Value())
	assert.False(t, m.box.Open())
}

func TestModel_HistoryReplay(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "regions")
	m, _ = press(t, m, "enter")
	m = settle(t, m)

	m, _ = press(t, m, "ctrl+l")
	m = typeText(t, m, "products")
	m, _ = press(t, m, "enter")
	m = settle(t, m)
	require.Len(t, m.state.History, 2)
	assert.Equal(t, "Top Selling Products", m.state.Results.Title)

	m, _ = press(t, m, "tab")
	assert.Equal(t, focusHistory, m.focus)
	assert.Contains(t, m.View(), "enter replay")

	m, _ = press(t, m, "down", "enter")

	assert.Equal(t, focusInput, m.focus)
	assert.Equal(t, "regions", m.input.Value())
	require.NotNil(t, m.state.Results)
	assert.Equal(t, "Regional Performance", m.state.Results.Title)
	assert.Len(t, m.state.History, 2, "replay does not add history")
}

func TestModel_TabWithoutHistoryStaysOnInput(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, "tab")
	assert.Equal(t, focusInput, m.focus)
}

func TestModel_HistoryCursorWraps(t *testing.T) {
	m := newTestModel(t)
	m = typeText(t, m, "a")
	m, _ = press(t, m, "esc", "enter")
	m = settle(t, m)

	m, _ = press(t, m, "tab", "up")
	assert.Equal(t, 0, m.cursor)
	m, _ = press(t, m, "esc")
	assert.Equal(t, focusInput, m.focus)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t)

	_, cmd := press(t, m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ControllerClosedError(t *testing.T) {
	m := newTestModel(t)
	m.ctrl.Close()

	m = typeText(t, m, "revenue")
	m, _ = press(t, m, "esc", "enter")

	require.Error(t, m.lastErr)
	assert.True(t, errors.Is(m.lastErr, query.ErrControllerClosed))
	assert.Contains(t, m.View(), m.lastErr.Error())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "a", truncate("abc", 1))
}
