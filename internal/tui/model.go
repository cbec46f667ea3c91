// Package tui is the terminal dashboard. It drives the same query store and
// controller as the web UI and follows the same keyboard contract: arrows
// move through suggestions, Enter commits a highlighted suggestion or
// submits the query, Escape closes the list. Tab moves focus to the history
// list, where Enter replays an entry.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapdash/internal/query"
)

type focus int

const (
	focusInput focus = iota
	focusHistory
)

// stateChangedMsg is sent whenever the store changes.
type stateChangedMsg struct{}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctrl   *query.Controller
	store  *query.Store
	box    *query.SuggestionBox
	logger *slog.Logger

	input   textinput.Model
	spinner spinner.Model
	styles  styles

	state   query.State
	focus   focus
	cursor  int
	width   int
	lastErr error
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the lipgloss renderer used for styles.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) {
		m.styles = newStyles(r)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates the model over a controller and its suggestion box.
func New(ctrl *query.Controller, box *query.SuggestionBox, opts ...Option) Model {
	in := textinput.New()
	in.Placeholder = "Ask anything about your data..."
	in.Prompt = "› "
	in.CharLimit = 256
	in.Focus()

	m := Model{
		ctrl:    ctrl,
		store:   ctrl.Store(),
		box:     box,
		logger:  slog.New(slog.DiscardHandler),
		input:   in,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  newStyles(lipgloss.DefaultRenderer()),
		width:   defaultWidth,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.state = m.store.Snapshot()
	m.input.SetValue(m.state.CurrentQuery)
	return m
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(m, opts...)

	// Listeners may fire while the controller holds its lock inside
	// Update, so the send must not block.
	unsubscribe := m.store.OnChange(func() {
		go p.Send(stateChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case stateChangedMsg:
		// Refreshed below.

	case spinner.TickMsg:
		if m.state.IsLoading {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusHistory {
			m, cmd = m.updateHistory(msg)
		} else {
			m, cmd = m.updateInput(msg)
		}

	default:
		m.input, cmd = m.input.Update(msg)
	}

	return m.refresh(), cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if len(m.state.History) == 0 {
			return m, nil
		}
		m.box.Close()
		m.focus = focusHistory
		m.cursor = 0
		m.input.Blur()
		return m, nil

	case "ctrl+l":
		m.box.Clear()
		return m, nil

	case "down", "up", "enter", "esc":
		key, _ := query.ParseKey(keyName(msg.String()))
		if m.box.HandleKey(key) || key != query.KeyEnter {
			return m, nil
		}
		return m.submit()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.box.Edit(v)
	}
	return m, cmd
}

func (m Model) updateHistory(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.state.History)
	switch msg.String() {
	case "down", "j":
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case "up", "k":
		if n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case "enter":
		if m.cursor < n {
			m.ctrl.Replay(m.state.History[m.cursor].ID)
		}
		return m.focusInput(), nil
	case "tab", "shift+tab", "esc":
		return m.focusInput(), nil
	}
	return m, nil
}

func (m Model) focusInput() Model {
	m.focus = focusInput
	m.input.Focus()
	return m
}

func (m Model) submit() (Model, tea.Cmd) {
	m.box.Close()
	_, err := m.ctrl.Execute(m.input.Value())
	switch {
	case err == nil:
		m.lastErr = nil
		return m, m.spinner.Tick
	case errors.Is(err, query.ErrEmptyQuery):
		// Shown through the store error.
		m.lastErr = nil
	default:
		m.logger.Error("execute failed", slog.String("error", err.Error()))
		m.lastErr = err
	}
	return m, nil
}

// refresh re-reads the store and keeps the input in step with query
// changes made outside the input, such as a suggestion or a replay.
func (m Model) refresh() Model {
	m.state = m.store.Snapshot()
	if m.state.CurrentQuery != m.input.Value() {
		m.input.SetValue(m.state.CurrentQuery)
		m.input.CursorEnd()
	}
	if m.cursor >= len(m.state.History) {
		m.cursor = 0
	}
	return m
}

func keyName(s string) string {
	if s == "esc" {
		return "escape"
	}
	return s
}
