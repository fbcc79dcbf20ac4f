// Package client provides the client billing-cycle tab.
package client

import (
	"context"
	"errors"
	"time"

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
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

type status int

const (
	statusIdle status = iota
	statusLoading
	statusReady
	statusError
)

type loadedMsg struct {
	gen      uint64
	clientID string
	snapshot *usage.ClientSnapshot
	err      error
}

var errNoBackend = errors.New("backend not configured")

var (
	docFrameWidth  = styles.DocStyle.GetHorizontalFrameSize()
	docFrameHeight = styles.DocStyle.GetVerticalFrameSize()
)

type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
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

// Model represents the client tab state.
type Model struct {
	state    *app.State
	tracker  usage.Tracker
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	now      func() time.Time

	status   status
	clientID string
	snapshot *usage.ClientSnapshot
	err      error

	width  int
	height int
}

// New creates the client tab.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading client usage..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
}

// Init starts the first load when a client is already selected.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages for the client tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m, m.handleLoaded(msg)

	case app.SelectionChangedMsg:
		if msg.Client != m.clientID || m.status == statusIdle {
			return m, m.load()
		}

	case app.ServiceEventMsg:
		if _, ok := msg.Event.(services.ConfigReloadedEvent); ok {
			return m, m.load()
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.load()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.status == statusLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) load() tea.Cmd {
	clientID := m.state.SelectedClient()
	m.clientID = clientID
	if clientID == "" {
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
	fetch := func() tea.Msg {
		if backend == nil {
			return loadedMsg{gen: gen, clientID: clientID, err: errNoBackend}
		}
		snap, err := usage.FetchClient(ctx, backend, clientID)
		return loadedMsg{gen: gen, clientID: clientID, snapshot: snap, err: err}
	}
	return tea.Batch(m.spinner.Tick(), fetch)
}

func (m *Model) handleLoaded(msg loadedMsg) tea.Cmd {
	if !m.tracker.IsCurrent(msg.gen) {
		logger.Debug("Discarding stale client load", "client", msg.clientID, "gen", msg.gen)
		return nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		logger.Warn("Client load failed", "client", msg.clientID, "error", msg.err)
		m.status = statusError
		m.err = msg.err
		m.snapshot = nil
		return nil
	}

	if msg.snapshot.Client == nil {
		msg.snapshot.Client = &models.ClientConfig{}
	}
	if msg.snapshot.Client.ID == "" {
		msg.snapshot.Client.ID = msg.clientID
	}

	m.status = statusReady
	m.snapshot = msg.snapshot
	m.viewport.GotoTop()

	rec := msg.snapshot.Record(models.ScopeClient, msg.clientID)
	cfg := *msg.snapshot.Client
	return func() tea.Msg {
		return app.SnapshotLoadedMsg{Record: rec, Client: &cfg}
	}
}

// SetSize sets the available size for the client tab.
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
