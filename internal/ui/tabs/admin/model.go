// Package admin provides the tab listing projects and configured clients.
package admin

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

type pane int

const (
	paneProjects pane = iota
	paneClients
)

// keyMap defines the key bindings specific to the admin tab.
type keyMap struct {
	Enter   key.Binding
	Switch  key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Switch: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "switch list"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload lists"),
		),
	}
}

// Model represents the admin tab state.
type Model struct {
	state    *app.State
	projects table.Model
	clients  table.Model
	focus    pane
	spinner  components.LoadingSpinner
	keys     keyMap
	now      func() time.Time

	// projectNames and clientIDs back the table rows, index for index.
	projectNames []string
	clientIDs    []string
	listsErr     error

	width  int
	height int
}

// New creates the admin tab.
func New(state *app.State) *Model {
	m := &Model{
		state:    state,
		projects: newTable(projectColumns()),
		clients:  newTable(clientColumns()),
		spinner:  components.NewSpinner("Loading projects and clients..."),
		keys:     defaultKeyMap(),
		now:      time.Now,
	}
	m.setFocus(paneProjects)
	return m
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(5),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.Inherit(styles.TableHeaderStyle)
	s.Selected = s.Selected.Inherit(styles.TableSelectedStyle)
	t.SetStyles(s)
	return t
}

func projectColumns() []table.Column {
	return []table.Column{
		{Title: " ", Width: 1},
		{Title: "Project", Width: 28},
		{Title: "Clients", Width: 8},
	}
}

func clientColumns() []table.Column {
	return []table.Column{
		{Title: " ", Width: 1},
		{Title: "Client", Width: 20},
		{Title: "ID", Width: 14},
		{Title: "Project", Width: 18},
		{Title: "Cycle", Width: 5},
		{Title: "Next reset", Width: 12},
		{Title: "URL", Width: 48},
	}
}

// Init starts the spinner while the shell loads the lists.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Update handles messages for the admin tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ListsLoadedMsg:
		m.listsErr = msg.Err
		m.syncRows()

	case app.SelectionChangedMsg, app.ServiceEventMsg:
		m.syncRows()

	case app.RefreshMsg:
		if msg.Resource == "lists" {
			return m, m.spinner.Tick()
		}

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.state.ListsStatus() == app.StatusLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return func() tea.Msg { return app.RefreshMsg{Resource: "lists"} }

	case key.Matches(msg, m.keys.Switch):
		if m.focus == paneProjects {
			m.setFocus(paneClients)
		} else {
			m.setFocus(paneProjects)
		}
		return nil

	case key.Matches(msg, m.keys.Enter):
		return m.openSelected()
	}

	var cmd tea.Cmd
	if m.focus == paneProjects {
		m.projects, cmd = m.projects.Update(msg)
	} else {
		m.clients, cmd = m.clients.Update(msg)
	}
	return cmd
}

// openSelected asks the shell to select the row under the cursor and show
// its usage view.
func (m *Model) openSelected() tea.Cmd {
	if m.focus == paneProjects {
		i := m.projects.Cursor()
		if i < 0 || i >= len(m.projectNames) {
			return nil
		}
		name := m.projectNames[i]
		return func() tea.Msg { return app.SelectProjectMsg{Name: name} }
	}

	i := m.clients.Cursor()
	if i < 0 || i >= len(m.clientIDs) {
		return nil
	}
	id := m.clientIDs[i]
	return func() tea.Msg { return app.SelectClientMsg{ID: id} }
}

func (m *Model) setFocus(p pane) {
	m.focus = p
	if p == paneProjects {
		m.projects.Focus()
		m.clients.Blur()
	} else {
		m.clients.Focus()
		m.projects.Blur()
	}
}

// SetSize sets the available size for the admin tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.syncRows()
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Enter, m.keys.Switch, m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Enter, m.keys.Switch},
		{m.keys.Refresh},
	}
}
