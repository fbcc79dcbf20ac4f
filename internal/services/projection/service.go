// Package projection extrapolates billing-cycle usage to the end of the cycle.
package projection

import (
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/j-veylop/token-usage-tui/internal/cycle"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

const (
	lowConfThreshold = 3
	medConfThreshold = 10
)

// Cycle projects summary, the usage of the cycle st, to the cycle's end.
// today counts as an elapsed day. It returns nil without a summary.
func Cycle(today time.Time, st cycle.Status, summary *models.UsageSummary, daily []models.DailyUsagePoint) *models.CycleProjection {
	if summary == nil {
		return nil
	}

	total := max(cycle.DaysBetween(st.Start, st.End)+1, 1)
	elapsed := min(max(cycle.DaysBetween(st.Start, today)+1, 1), total)

	proj := &models.CycleProjection{
		DaysElapsed:   elapsed,
		DaysTotal:     total,
		DaysRemaining: total - elapsed,
		ActiveDays: lo.CountBy(daily, func(p models.DailyUsagePoint) bool {
			return p.TotalTokens > 0
		}),
		AvgDailyTokens: float64(summary.TotalTokens) / float64(elapsed),
		AvgDailyCost:   summary.TotalCost / float64(elapsed),
	}

	remaining := float64(proj.DaysRemaining)
	proj.ProjectedTokens = summary.TotalTokens + int64(math.Round(proj.AvgDailyTokens*remaining))
	proj.ProjectedCost = summary.TotalCost + proj.AvgDailyCost*remaining
	proj.Confidence = confidence(proj.ActiveDays)

	return proj
}

func confidence(activeDays int) models.ProjectionConfidence {
	switch {
	case activeDays < lowConfThreshold:
		return models.ConfidenceLow
	case activeDays < medConfThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceHigh
	}
}
