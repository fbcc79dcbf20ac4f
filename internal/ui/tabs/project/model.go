// Package project provides the project usage tab.
package project

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/services/usage"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
)

type status int

const (
	statusIdle status = iota
	statusLoading
	statusReady
	statusError
)

// loadedMsg carries the result of one project load.
type loadedMsg struct {
	gen      uint64
	project  string
	period   models.Period
	snapshot *usage.Snapshot
	err      error
}

var errNoBackend = errors.New("backend not configured")

// keyMap defines the key bindings specific to the project tab.
type keyMap struct {
	Period  key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Period: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle period"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the project tab state.
type Model struct {
	state    *app.State
	tracker  usage.Tracker
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model

	status   status
	project  string
	period   models.Period
	snapshot *usage.Snapshot
	err      error

	width  int
	height int
}

// New creates the project tab. The initial period comes from the
// configuration and falls back to seven days.
func New(state *app.State) *Model {
	period := state.Config().DefaultPeriod
	if period.Validate() != nil {
		period = models.Period7Days
	}
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading project usage..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		period:   period,
	}
}

// Init starts the first load when a project is already selected.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages for the project tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m, m.handleLoaded(msg)

	case app.SelectionChangedMsg:
		if msg.Project != m.project || m.status == statusIdle {
			return m, m.load()
		}

	case app.ServiceEventMsg:
		if _, ok := msg.Event.(services.ConfigReloadedEvent); ok {
			return m, m.load()
		}

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.status == statusLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Period):
		m.period = m.period.Next()
		return m.load()
	case key.Matches(msg, m.keys.Refresh):
		return m.load()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

// load starts a fetch for the selected project and period. Any load still
// in flight is cancelled and its result will be ignored.
func (m *Model) load() tea.Cmd {
	project := m.state.SelectedProject()
	m.project = project
	if project == "" {
		m.tracker.Cancel()
		m.status = statusIdle
		m.snapshot = nil
		m.err = nil
		return nil
	}

	gen, ctx := m.tracker.Begin(m.state.Context())
	m.status = statusLoading
	m.err = nil

	backend := m.state.Backend()
	period := m.period
	fetch := func() tea.Msg {
		if backend == nil {
			return loadedMsg{gen: gen, project: project, period: period, err: errNoBackend}
		}
		snap, err := usage.FetchProject(ctx, backend, project, period)
		return loadedMsg{gen: gen, project: project, period: period, snapshot: snap, err: err}
	}
	return tea.Batch(m.spinner.Tick(), fetch)
}

func (m *Model) handleLoaded(msg loadedMsg) tea.Cmd {
	if !m.tracker.IsCurrent(msg.gen) {
		logger.Debug("Discarding stale project load", "project", msg.project, "gen", msg.gen)
		return nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		logger.Warn("Project load failed", "project", msg.project, "period", msg.period.String(), "error", msg.err)
		m.status = statusError
		m.err = msg.err
		m.snapshot = nil
		return nil
	}

	m.status = statusReady
	m.snapshot = msg.snapshot
	m.viewport.GotoTop()

	rec := msg.snapshot.Record(models.ScopeProject, msg.project)
	return func() tea.Msg {
		return app.SnapshotLoadedMsg{Record: rec}
	}
}

// Period returns the selected period.
func (m *Model) Period() models.Period {
	return m.period
}

// SetSize sets the available size for the project tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-docFrameWidth, 0)
	m.viewport.Height = max(height-docFrameHeight, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Period, m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Period, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
