// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabProject shows usage for the selected project.
	TabProject TabID = iota
	// TabClient shows usage for the selected client's billing cycle.
	TabClient
	// TabAdmin lists projects and clients.
	TabAdmin
	// TabInfo shows configuration, backend health and snapshot history.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabProject:
		return "Project"
	case TabClient:
		return "Client"
	case TabAdmin:
		return "Admin"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// TabsForMode returns the tabs mounted in the given mode, in display order.
func TabsForMode(mode Mode) []TabID {
	if mode == ModeClient {
		return []TabID{TabClient, TabInfo}
	}
	return []TabID{TabProject, TabClient, TabAdmin, TabInfo}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyMap defines the global keybindings.
type KeyMap struct {
	Tab1        key.Binding
	Tab2        key.Binding
	Tab3        key.Binding
	Tab4        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	NextProject key.Binding
	NextClient  key.Binding
	Help        key.Binding
	Quit        key.Binding
	Escape      key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	km = setSelectionKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "first tab"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "second tab"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "third tab"))
	k.Tab4 = key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "fourth tab"))
	k.NextTab = key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
	return k
}

func setSelectionKeys(k KeyMap) KeyMap {
	k.NextProject = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next project"))
	k.NextClient = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next client"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.NextTab, k.PrevTab},
		{k.NextProject, k.NextClient},
		{k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Selection   lipgloss.Style

	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	Content lipgloss.Style
	Toast   lipgloss.Style

	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.Selection = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	activeTab int
	tabIDs    []TabID
	tabs      []Tab

	state    *State
	services *services.Manager
	keymap   KeyMap
	styles   Styles

	spinner spinner.Model

	width  int
	height int

	showHelp bool
	ready    bool

	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. mgr may be nil, in which case
// the backend must be set on the state directly.
func NewModel(mgr *services.Manager, state *State) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	if state == nil {
		state = NewState()
	}
	if mgr != nil {
		state.SetBackend(mgr.Backend())
		state.SetFormatter(mgr.Formatter())
		state.SetConfig(mgr.Config())
		state.SetContext(mgr.Context())
	}

	ids := TabsForMode(state.Mode())
	return &Model{
		tabIDs:   ids,
		tabs:     make([]Tab, len(ids)),
		state:    state,
		services: mgr,
		keymap:   DefaultKeyMap(),
		styles:   DefaultStyles(),
		spinner:  s,
	}
}

// SetTabs sets the tabs, one per entry of TabIDs, in the same order.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// TabIDs returns the mounted tab IDs in display order.
func (m *Model) TabIDs() []TabID {
	return m.tabIDs
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.tabIDs[m.activeTab]
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
	}
	if cmd := m.loadLists(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model. Key presses go to the active
// tab only; every other message is broadcast to all tabs.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		return m, m.updateActiveTab(msg)

	case spinner.TickMsg:
		if msg.ID == m.spinner.ID() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	cmds = append(cmds, m.broadcast(msg)...)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event)...)
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case ListsLoadedMsg:
		cmds = append(cmds, m.handleListsLoaded(msg)...)
	case SelectProjectMsg:
		if m.state.SetSelectedProject(msg.Name) {
			cmds = append(cmds, selectionChangedCmd(m.state))
		}
		m.switchTo(TabProject)
	case SelectClientMsg:
		if m.state.SetSelectedClient(msg.ID) {
			cmds = append(cmds, selectionChangedCmd(m.state))
		}
		m.switchTo(TabClient)
	case SnapshotLoadedMsg:
		cmds = append(cmds, m.handleSnapshotLoaded(msg)...)
	case RefreshMsg:
		if msg.Resource == "lists" {
			if cmd := m.loadLists(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case ErrorMsg:
		text := msg.Error.Error()
		if msg.Context != "" {
			text = msg.Context + ": " + text
		}
		cmds = append(cmds, NotifyError(text))
	case TabSwitchMsg:
		m.switchTo(msg.Tab)
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) loadLists() tea.Cmd {
	if m.state.Mode() != ModeAdmin {
		return nil
	}
	backend := m.state.Backend()
	if backend == nil {
		return nil
	}
	m.state.SetListsLoading()
	m.state.SetLoadingNotification("Loading projects...")
	return loadListsCmd(m.state.Context(), backend)
}

func (m *Model) handleListsLoaded(msg ListsLoadedMsg) []tea.Cmd {
	m.state.ClearLoadingNotification()

	if msg.Err != nil {
		m.state.SetListsError()
		return []tea.Cmd{NotifyError(fmt.Sprintf("Failed to load projects: %v", msg.Err))}
	}

	var cmds []tea.Cmd
	if m.state.SetDirectory(msg.Projects, msg.Clients, msg.ClientsErr) {
		cmds = append(cmds, selectionChangedCmd(m.state))
	}
	if msg.ClientsErr != nil {
		cmds = append(cmds, NotifyWarning(fmt.Sprintf("Client list unavailable: %v", msg.ClientsErr)))
	}
	if m.services != nil && len(msg.Clients) > 0 {
		cmds = append(cmds, checkRemindersCmd(m.services, msg.Clients))
	}
	return cmds
}

func (m *Model) handleSnapshotLoaded(msg SnapshotLoadedMsg) []tea.Cmd {
	if m.services == nil {
		return nil
	}
	var cmds []tea.Cmd
	if msg.Record != nil {
		cmds = append(cmds, recordSnapshotCmd(m.services, msg.Record))
	}
	if msg.Client != nil {
		cmds = append(cmds, checkRemindersCmd(m.services, []models.ClientConfig{*msg.Client}))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) []tea.Cmd {
	switch e := event.(type) {
	case services.ConfigReloadedEvent:
		m.state.SetConfig(e.Config)
		m.state.SetFormatter(e.Formatter)
		if e.Backend != nil {
			m.state.SetBackend(e.Backend)
		}
		cmds := []tea.Cmd{NotifyInfo("Configuration reloaded")}
		if cmd := m.loadLists(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return cmds

	case services.ReminderSentEvent:
		name := e.ClientID
		if c, ok := m.state.FindClient(e.ClientID); ok {
			name = c.DisplayName()
		}
		return []tea.Cmd{NotifyInfo(fmt.Sprintf("Cycle reset reminder sent for %s", name))}

	case services.ErrorEvent:
		return []tea.Cmd{NotifyError(fmt.Sprintf("[%s] %v", e.Service, e.Error))}
	}
	return nil
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if m.activeTab < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTo(id TabID) {
	for i, candidate := range m.tabIDs {
		if candidate == id {
			m.activeTab = i
			m.updateTabSizes()
			return
		}
	}
}

func (m *Model) switchToIndex(i int) {
	if i >= 0 && i < len(m.tabIDs) {
		m.activeTab = i
		m.updateTabSizes()
	}
}

// handleKeyMsg handles global keys. It reports whether the key was consumed.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return tea.Quit, true
		case key.Matches(msg, m.keymap.Help), key.Matches(msg, m.keymap.Escape):
			m.showHelp = false
		}
		return nil, true
	}

	n := len(m.tabIDs)
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return nil, true

	case key.Matches(msg, m.keymap.Tab1):
		m.switchToIndex(0)
		return nil, true

	case key.Matches(msg, m.keymap.Tab2):
		m.switchToIndex(1)
		return nil, true

	case key.Matches(msg, m.keymap.Tab3):
		m.switchToIndex(2)
		return nil, true

	case key.Matches(msg, m.keymap.Tab4):
		m.switchToIndex(3)
		return nil, true

	case key.Matches(msg, m.keymap.NextTab):
		m.switchToIndex((m.activeTab + 1) % n)
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		m.switchToIndex((m.activeTab - 1 + n) % n)
		return nil, true

	case key.Matches(msg, m.keymap.NextProject):
		if m.state.CycleProject(1) {
			return selectionChangedCmd(m.state), true
		}
		return nil, true

	case key.Matches(msg, m.keymap.NextClient):
		if m.state.CycleClient(1) {
			return selectionChangedCmd(m.state), true
		}
		return nil, true
	}

	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if m.activeTab < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)
	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for len(mainLines) < y+len(overlayLines) {
		mainLines = append(mainLines, "")
	}

	for i, overlayLine := range overlayLines {
		mainLine := mainLines[y+i]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if w := lipgloss.Width(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		mainLines[y+i] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, id := range m.tabIDs {
		if i == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, id)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, id)))
		}
	}

	if sel := m.renderSelection(); sel != "" {
		tabs = append(tabs, m.styles.Selection.Render(sel))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderSelection() string {
	var parts []string
	if m.state.Mode() == ModeAdmin {
		if p := m.state.SelectedProject(); p != "" {
			parts = append(parts, "project: "+p)
		}
	}
	if id := m.state.SelectedClient(); id != "" {
		name := id
		if c, ok := m.state.FindClient(id); ok {
			name = c.DisplayName()
		}
		parts = append(parts, "client: "+name)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			mainLines = append(mainLines, "")
		}

		mainLine := mainLines[lineIdx]
		if w := lipgloss.Width(mainLine); w < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-w) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, fmt.Sprintf("  1-%d        Switch tabs", len(m.tabIDs)))
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Selection"))
	if m.state.Mode() == ModeAdmin {
		lines = append(lines, "  p          Next project")
		lines = append(lines, "  c          Next client")
	} else {
		lines = append(lines, "  Client is fixed in client mode")
	}
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("General"))
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if m.activeTab < len(m.tabs) && m.tabs[m.activeTab] != nil {
		if tabHelp := m.tabs[m.activeTab].ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabIDs[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabIDs[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
