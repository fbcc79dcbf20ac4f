package models

import "time"

// Scope identifies what a usage load was keyed on.
type Scope string

const (
	// ScopeProject is a project usage window.
	ScopeProject Scope = "project"
	// ScopeClient is a client billing-cycle window.
	ScopeClient Scope = "client"
)

// SnapshotRecord is a persisted summary of one successful usage load.
type SnapshotRecord struct {
	ID           int64     `json:"id" yaml:"id"`
	Scope        Scope     `json:"scope" yaml:"scope"`
	Target       string    `json:"target" yaml:"target"`
	PeriodDays   int       `json:"period_days" yaml:"period_days"`
	TotalTokens  int64     `json:"total_tokens" yaml:"total_tokens"`
	InputTokens  int64     `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int64     `json:"output_tokens" yaml:"output_tokens"`
	TotalCost    float64   `json:"total_cost" yaml:"total_cost"`
	RunCount     int64     `json:"run_count" yaml:"run_count"`
	StartDate    Date      `json:"start_date" yaml:"start_date"`
	EndDate      Date      `json:"end_date" yaml:"end_date"`
	DailyPoints  int       `json:"daily_points" yaml:"daily_points"`
	CycleBased   bool      `json:"cycle_based" yaml:"cycle_based"`
	FetchedAt    time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// NewSnapshotRecord captures the summary fields of a completed load.
func NewSnapshotRecord(scope Scope, target string, summary *UsageSummary, dailyPoints int, fetchedAt time.Time) *SnapshotRecord {
	rec := &SnapshotRecord{
		Scope:       scope,
		Target:      target,
		DailyPoints: dailyPoints,
		FetchedAt:   fetchedAt,
	}
	if summary != nil {
		rec.PeriodDays = summary.PeriodDays
		rec.TotalTokens = summary.TotalTokens
		rec.InputTokens = summary.InputTokens
		rec.OutputTokens = summary.OutputTokens
		rec.TotalCost = summary.TotalCost
		rec.RunCount = summary.RunCount
		rec.StartDate = summary.StartDate
		rec.EndDate = summary.EndDate
		rec.CycleBased = summary.CycleBased
	}
	return rec
}
