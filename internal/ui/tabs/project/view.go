package project

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

var (
	docFrameWidth  = styles.DocStyle.GetHorizontalFrameSize()
	docFrameHeight = styles.DocStyle.GetVerticalFrameSize()
)

// View renders the project tab.
func (m *Model) View() string {
	switch m.status {
	case statusLoading:
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	case statusIdle:
		return styles.CenterBoth(styles.HelpStyle.Render("No project selected. Press p to cycle projects."), m.width, m.height)
	}

	sections := []string{m.renderTitle()}
	if m.status == statusError {
		sections = append(sections, m.renderError())
	} else {
		f := m.state.Formatter()
		sections = append(sections,
			m.renderWindow(),
			components.RenderMetricCards(components.UsageMetrics(f, m.snapshot.Summary), m.viewport.Width),
			"",
			components.RenderUsageCharts(f, m.snapshot.Daily, m.viewport.Width),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Project · " + m.project)
	badge := styles.BadgeStyle.Render(m.period.String())
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)
}

func (m *Model) renderError() string {
	icon := lipgloss.NewStyle().Foreground(styles.Error).Render("✗")
	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", icon, styles.ErrorTextStyle.Render(m.err.Error())),
		"",
		styles.HelpStyle.Render("Press r to retry"),
	)
}

func (m *Model) renderWindow() string {
	f := m.state.Formatter()
	s := m.snapshot.Summary
	return styles.HelpStyle.Render(fmt.Sprintf("%s  ·  %s runs",
		f.DateRange(s.StartDate.Time, s.EndDate.Time),
		f.Int(s.RunCount),
	))
}
