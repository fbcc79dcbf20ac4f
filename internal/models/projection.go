package models

// ProjectionConfidence grades how much data a projection rests on.
type ProjectionConfidence string

// Confidence levels, by the number of days with recorded usage.
const (
	ConfidenceLow    ProjectionConfidence = "low"
	ConfidenceMedium ProjectionConfidence = "medium"
	ConfidenceHigh   ProjectionConfidence = "high"
)

// CycleProjection extrapolates a client's cycle-to-date usage to the end of
// the billing cycle at the average daily rate so far.
type CycleProjection struct {
	DaysElapsed   int `json:"days_elapsed" yaml:"days_elapsed"`
	DaysTotal     int `json:"days_total" yaml:"days_total"`
	DaysRemaining int `json:"days_remaining" yaml:"days_remaining"`
	// ActiveDays counts daily points with any tokens.
	ActiveDays int `json:"active_days" yaml:"active_days"`

	AvgDailyTokens  float64 `json:"avg_daily_tokens" yaml:"avg_daily_tokens"`
	AvgDailyCost    float64 `json:"avg_daily_cost" yaml:"avg_daily_cost"`
	ProjectedTokens int64   `json:"projected_tokens" yaml:"projected_tokens"`
	ProjectedCost   float64 `json:"projected_cost" yaml:"projected_cost"`

	Confidence ProjectionConfidence `json:"confidence" yaml:"confidence"`
}
