// Package info provides the info tab: build, configuration, backend health
// and the local snapshot history.
package info

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// historyLimit is how many snapshots the history card shows.
const historyLimit = 10

// History reads recorded snapshots, newest first.
type History interface {
	RecentSnapshots(ctx context.Context, limit int) ([]models.SnapshotRecord, error)
}

type healthMsg struct {
	health *models.Health
	err    error
}

type historyMsg struct {
	records []models.SnapshotRecord
	err     error
}

var (
	docFrameWidth  = styles.DocStyle.GetHorizontalFrameSize()
	docFrameHeight = styles.DocStyle.GetVerticalFrameSize()
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "check health"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	history  History
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model

	checking  bool
	health    *models.Health
	healthErr error

	records    []models.SnapshotRecord
	historyErr error

	width  int
	height int
}

// New creates the info tab. history may be nil when no store is open.
func New(state *app.State, history History) *Model {
	return &Model{
		state:    state,
		history:  history,
		spinner:  components.NewSpinner("Checking backend..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init checks backend health and reads the snapshot history.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.checkHealth(), m.loadHistory())
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case healthMsg:
		m.checking = false
		m.health = msg.health
		m.healthErr = msg.err

	case historyMsg:
		if msg.err == nil {
			m.records = msg.records
		}
		m.historyErr = msg.err

	case app.ServiceEventMsg:
		switch msg.Event.(type) {
		case services.SnapshotRecordedEvent:
			return m, m.loadHistory()
		case services.ConfigReloadedEvent:
			return m, tea.Batch(m.checkHealth(), m.loadHistory())
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, tea.Batch(m.checkHealth(), m.loadHistory())
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.checking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) checkHealth() tea.Cmd {
	backend := m.state.Backend()
	if backend == nil {
		return nil
	}
	m.checking = true
	ctx := m.state.Context()
	return tea.Batch(m.spinner.Tick(), func() tea.Msg {
		h, err := backend.Health(ctx)
		return healthMsg{health: h, err: err}
	})
}

func (m *Model) loadHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	history := m.history
	ctx := m.state.Context()
	return func() tea.Msg {
		records, err := history.RecentSnapshots(ctx, historyLimit)
		return historyMsg{records: records, err: err}
	}
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-docFrameWidth, 0)
	m.viewport.Height = max(height-docFrameHeight, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
