package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// Metric is one headline number shown in a card.
type Metric struct {
	Label  string
	Value  string
	Detail string
}

const minCardWidth = 16

// RenderMetricCards lays metrics out as cards, wrapping onto further rows
// when width cannot hold them all.
func RenderMetricCards(metrics []Metric, width int) string {
	if len(metrics) == 0 {
		return ""
	}

	frame := styles.MetricCardStyle.GetHorizontalFrameSize()
	inner := lo.Max(lo.Map(metrics, func(m Metric, _ int) int {
		return max(lipgloss.Width(m.Label), lipgloss.Width(m.Value), lipgloss.Width(m.Detail))
	}))
	inner = max(inner, minCardWidth)

	perRow := len(metrics)
	if width > 0 {
		perRow = max(width/(inner+frame), 1)
	}

	cards := lo.Map(metrics, func(m Metric, _ int) string {
		return renderCard(m, inner)
	})

	rows := lo.Map(lo.Chunk(cards, perRow), func(row []string, _ int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, row...)
	})
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(m Metric, width int) string {
	lines := []string{
		styles.MetricLabelStyle.Render(m.Label),
		styles.MetricValueStyle.Render(m.Value),
	}
	if m.Detail != "" {
		lines = append(lines, styles.MetricDetailStyle.Render(m.Detail))
	} else {
		lines = append(lines, "")
	}
	return styles.MetricCardStyle.
		Width(width + styles.MetricCardStyle.GetHorizontalPadding()).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
