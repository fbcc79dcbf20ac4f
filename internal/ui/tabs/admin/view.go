package admin

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/cycle"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

const selectedMarker = "●"

// View renders the admin tab.
func (m *Model) View() string {
	switch m.state.ListsStatus() {
	case app.StatusLoading:
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	case app.StatusIdle:
		return styles.CenterBoth(styles.HelpStyle.Render("Lists not loaded yet. Press r to load."), m.width, m.height)
	}

	sections := []string{m.renderTitle()}
	if m.state.ListsStatus() == app.StatusError {
		sections = append(sections, m.renderError())
	} else {
		sections = append(sections, m.renderProjects(), m.renderClients())
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Admin")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d projects, %d clients",
		len(m.projectNames), len(m.clientIDs)))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderError() string {
	msg := "Failed to load projects"
	if m.listsErr != nil {
		msg += ": " + m.listsErr.Error()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.ErrorTextStyle.Render("✗ "+msg),
		"",
		styles.HelpStyle.Render("Press r to retry"),
	)
}

func (m *Model) paneHeader(title string, p pane, count int) string {
	style := styles.SubTitleStyle
	if m.focus != p {
		style = styles.HelpStyle
	}
	return style.Render(fmt.Sprintf("%s (%d)", title, count))
}

func (m *Model) renderProjects() string {
	header := m.paneHeader("Projects", paneProjects, len(m.projectNames))
	if len(m.projectNames) == 0 {
		return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", styles.HelpStyle.Render("No projects found")))
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.projects.View()))
}

func (m *Model) renderClients() string {
	rows := []string{m.paneHeader("Clients", paneClients, len(m.clientIDs))}

	if err := m.state.ClientsErr(); err != nil {
		rows = append(rows, styles.WarningTextStyle.Render("⚠ Client list unavailable: "+err.Error()))
	}
	rows = append(rows, "")

	if len(m.clientIDs) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No clients configured"))
	} else {
		rows = append(rows, m.clients.View())
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// syncRows rebuilds both tables from the shared state.
func (m *Model) syncRows() {
	projects := m.state.Projects()
	clients := m.state.Clients()
	selectedProject := m.state.SelectedProject()
	selectedClient := m.state.SelectedClient()

	perProject := lo.CountValuesBy(clients, func(c models.ClientConfig) string { return c.Project })

	m.projectNames = projects
	setRows(&m.projects, lo.Map(projects, func(name string, _ int) table.Row {
		return table.Row{
			marker(name == selectedProject),
			name,
			strconv.Itoa(perProject[name]),
		}
	}))

	f := m.state.Formatter()
	cfg := m.state.Config()
	today := m.now()

	m.clientIDs = lo.Map(clients, func(c models.ClientConfig, _ int) string { return c.ID })
	setRows(&m.clients, lo.Map(clients, func(c models.ClientConfig, _ int) table.Row {
		reset, _ := cycle.NextReset(today, c.CycleDay)
		return table.Row{
			marker(c.ID == selectedClient),
			c.DisplayName(),
			c.ID,
			c.Project,
			strconv.Itoa(c.CycleDay),
			f.Date(reset),
			cfg.ClientURL(c.ID),
		}
	}))

	m.resizeTables()
}

func (m *Model) resizeTables() {
	// Title, two card frames and pane headers take about a dozen lines.
	avail := max(m.height-14, 6)
	projectHeight := min(len(m.projectNames)+2, avail/2)
	m.projects.SetHeight(max(projectHeight, 3))
	m.clients.SetHeight(max(min(len(m.clientIDs)+2, avail-projectHeight), 3))
}

func setRows(t *table.Model, rows []table.Row) {
	cursor := t.Cursor()
	t.SetRows(rows)
	if len(rows) > 0 {
		t.SetCursor(min(max(cursor, 0), len(rows)-1))
	}
}

func marker(selected bool) string {
	if selected {
		return selectedMarker
	}
	return ""
}
