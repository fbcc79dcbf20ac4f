package client

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/cycle"
	"github.com/j-veylop/token-usage-tui/internal/services/projection"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// View renders the client tab.
func (m *Model) View() string {
	switch m.status {
	case statusLoading:
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	case statusIdle:
		return styles.CenterBoth(styles.HelpStyle.Render("No client selected. Press c to cycle clients."), m.width, m.height)
	}

	var sections []string
	if m.status == statusError {
		sections = append(sections,
			styles.TitleStyle.Render("Client · "+m.clientID),
			m.renderError(),
		)
	} else {
		f := m.state.Formatter()
		today := m.now()
		st := cycle.Compute(today, m.snapshot.Client.CycleDay)
		sections = append(sections,
			styles.TitleStyle.Render("Client · "+m.snapshot.Client.DisplayName()),
			m.renderCycle(st),
			components.RenderMetricCards(components.UsageMetrics(f, m.snapshot.Summary), m.viewport.Width),
		)
		if proj := projection.Cycle(today, st, m.snapshot.Summary, m.snapshot.Daily); proj != nil {
			sections = append(sections,
				styles.SubTitleStyle.Render("End of cycle"),
				components.RenderMetricCards(components.ProjectionMetrics(f, proj), m.viewport.Width),
			)
		}
		sections = append(sections,
			"",
			components.RenderUsageCharts(f, m.snapshot.Daily, m.viewport.Width),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderError() string {
	icon := lipgloss.NewStyle().Foreground(styles.Error).Render("✗")
	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", icon, styles.ErrorTextStyle.Render(m.err.Error())),
		"",
		styles.HelpStyle.Render("Press r to retry"),
	)
}

// renderCycle renders the billing-cycle header: cycle day, next reset and
// the current window.
func (m *Model) renderCycle(st cycle.Status) string {
	f := m.state.Formatter()
	client := m.snapshot.Client
	s := m.snapshot.Summary

	label := styles.MetricLabelStyle.Width(12)
	countdown := styles.ResetStyle(st.DaysUntil, m.state.Config().CycleReminderDays).Render(f.Days(st.DaysUntil))

	rows := []string{
		label.Render("Project") + client.Project,
		label.Render("Cycle day") + strconv.Itoa(st.CycleDay),
		label.Render("Next reset") + f.Date(st.NextReset) + "  (in " + countdown + ")",
		label.Render("Cycle") + f.DateRange(st.Start, st.End),
	}
	if !s.StartDate.IsZero() {
		rows = append(rows, label.Render("Data")+fmt.Sprintf("%s  ·  %s runs",
			f.DateRange(s.StartDate.Time, s.EndDate.Time), f.Int(s.RunCount)))
	}

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
