// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

const noData = "No data available"

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render(noData)
	}

	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(padSingle(data),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderTokenChart plots total, input and output tokens per day.
func RenderTokenChart(daily []models.DailyUsagePoint, width, height int, caption string) string {
	if len(daily) == 0 {
		return styles.HelpStyle.Render(noData)
	}

	width = max(width, 20)
	height = max(height, 3)

	series := [][]float64{
		padSingle(lo.Map(daily, func(p models.DailyUsagePoint, _ int) float64 { return float64(p.TotalTokens) })),
		padSingle(lo.Map(daily, func(p models.DailyUsagePoint, _ int) float64 { return float64(p.InputTokens) })),
		padSingle(lo.Map(daily, func(p models.DailyUsagePoint, _ int) float64 { return float64(p.OutputTokens) })),
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Blue,
			asciigraph.Cyan,
			asciigraph.Orange,
		),
	)
}

// TokenLegend is the legend matching RenderTokenChart's series.
func TokenLegend() string {
	return RenderLegend([]LegendItem{
		{Label: "Total", Color: styles.TotalTokens},
		{Label: "Input", Color: styles.InputTokens},
		{Label: "Output", Color: styles.OutputTokens},
	})
}

// RenderCostChart renders one bar per day. value formats the cost after each
// bar and dateLabel the day on the axis.
func RenderCostChart(daily []models.DailyUsagePoint, width int, value func(float64) string, dateLabel func(time.Time) string) string {
	if len(daily) == 0 {
		return styles.HelpStyle.Render(noData)
	}
	values := lo.Map(daily, func(p models.DailyUsagePoint, _ int) float64 { return p.Cost })
	labels := lo.Map(daily, func(p models.DailyUsagePoint, _ int) string { return dateLabel(p.Date.Time) })
	return RenderBarChart(values, labels, width, value)
}

// RenderBarChart creates a simple horizontal bar chart. valueFmt renders the
// number printed after each bar.
func RenderBarChart(values []float64, labels []string, width int, valueFmt func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	if valueFmt == nil {
		valueFmt = func(v float64) string { return fmt.Sprintf("%.1f", v) }
	}

	maxVal := lo.Max(values)
	if maxVal <= 0 {
		maxVal = 1
	}

	maxLabelLen := lo.Max(lo.Map(labels, func(l string, _ int) int { return lipgloss.Width(l) }))
	valueStrs := lo.Map(values, func(v float64, _ int) string { return valueFmt(v) })
	maxValueLen := lo.Max(lo.Map(valueStrs, func(s string, _ int) int { return lipgloss.Width(s) }))

	barWidth := max(width-maxLabelLen-maxValueLen-4, 10)
	barStyle := lipgloss.NewStyle().Foreground(styles.Cost)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		if v > 0 && barLen == 0 {
			barLen = 1
		}

		line := fmt.Sprintf("%*s │%s %s",
			maxLabelLen, label,
			barStyle.Render(strings.Repeat("█", barLen)),
			valueStrs[i],
		)
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := lo.Max(values)
	if maxVal <= 0 {
		maxVal = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		idx := int((val / maxVal) * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := lo.Map(items, func(item LegendItem, _ int) string {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		return fmt.Sprintf("%s %s", colorBox, item.Label)
	})
	return strings.Join(parts, "  ")
}

// padSingle duplicates a lone point so the plot has a segment to draw.
func padSingle(data []float64) []float64 {
	if len(data) == 1 {
		return []float64{data[0], data[0]}
	}
	return data
}
