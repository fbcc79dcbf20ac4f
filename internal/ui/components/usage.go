package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

const tokenChartHeight = 8

// UsageMetrics returns the headline cards for a summary: total, input and
// output tokens with their share of the total, and cost.
func UsageMetrics(f *format.Formatter, s *models.UsageSummary) []Metric {
	return []Metric{
		{Label: "Total tokens", Value: f.Int(s.TotalTokens)},
		{Label: "Input tokens", Value: f.Int(s.InputTokens), Detail: f.Percent(s.InputTokens, s.TotalTokens) + " of total"},
		{Label: "Output tokens", Value: f.Int(s.OutputTokens), Detail: f.Percent(s.OutputTokens, s.TotalTokens) + " of total"},
		{Label: "Cost", Value: f.Currency(s.TotalCost)},
	}
}

// ProjectionMetrics returns the end-of-cycle cards: projected tokens and
// cost with their daily averages, and how far into the cycle the client is.
func ProjectionMetrics(f *format.Formatter, p *models.CycleProjection) []Metric {
	return []Metric{
		{Label: "Projected tokens", Value: f.Int(p.ProjectedTokens), Detail: f.Number(p.AvgDailyTokens) + " / day"},
		{Label: "Projected cost", Value: f.Currency(p.ProjectedCost), Detail: f.Currency(p.AvgDailyCost) + " / day"},
		{
			Label:  "Cycle progress",
			Value:  fmt.Sprintf("%d/%d days", p.DaysElapsed, p.DaysTotal),
			Detail: string(p.Confidence) + " confidence",
		},
	}
}

// RenderUsageCharts renders the token line chart and the cost bar chart,
// each in its own card.
func RenderUsageCharts(f *format.Formatter, daily []models.DailyUsagePoint, width int) string {
	chartWidth := max(width-16, 20)

	tokens := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Tokens per day"),
		TokenLegend(),
		"",
		RenderTokenChart(daily, chartWidth, tokenChartHeight, ""),
	))

	cost := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Cost per day"),
		"",
		RenderCostChart(daily, chartWidth, f.Currency, f.ShortDate),
	))

	return lipgloss.JoinVertical(lipgloss.Left, tokens, cost)
}
