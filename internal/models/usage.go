// Package models defines the data structures exchanged with the usage backend.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date carried as YYYY-MM-DD on the wire.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// ParseDate parses a YYYY-MM-DD date. Full RFC 3339 timestamps are accepted
// and truncated to their date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return NewDate(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// MarshalYAML renders the date as a plain string.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UsageSummary aggregates token and cost metrics over a date range.
//
// InputTokens+OutputTokens may be lower than TotalTokens when the backend
// counts other token kinds.
type UsageSummary struct {
	TotalTokens  int64   `json:"total_tokens" yaml:"total_tokens"`
	InputTokens  int64   `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int64   `json:"output_tokens" yaml:"output_tokens"`
	TotalCost    float64 `json:"total_cost" yaml:"total_cost"`
	PeriodDays   int     `json:"period_days" yaml:"period_days"`
	RunCount     int64   `json:"run_count" yaml:"run_count"`
	StartDate    Date    `json:"start_date" yaml:"start_date"`
	EndDate      Date    `json:"end_date" yaml:"end_date"`
	CycleBased   bool    `json:"cycle_based,omitempty" yaml:"cycle_based,omitempty"`
}

// SummaryRequiredFields lists the members a summary payload must carry.
var SummaryRequiredFields = []string{
	"total_tokens", "input_tokens", "output_tokens", "total_cost",
	"period_days", "run_count", "start_date", "end_date",
}

// Validate checks the invariants of a decoded summary.
func (s *UsageSummary) Validate() error {
	switch {
	case s.TotalTokens < 0, s.InputTokens < 0, s.OutputTokens < 0:
		return fmt.Errorf("negative token count")
	case s.TotalCost < 0:
		return fmt.Errorf("negative total_cost")
	case s.RunCount < 0:
		return fmt.Errorf("negative run_count")
	case s.PeriodDays < 0:
		return fmt.Errorf("negative period_days")
	case !s.StartDate.IsZero() && !s.EndDate.IsZero() && s.EndDate.Before(s.StartDate.Time):
		return fmt.Errorf("end_date %s before start_date %s", s.EndDate, s.StartDate)
	}
	return nil
}

// DailyUsagePoint is one day's slice of usage metrics.
type DailyUsagePoint struct {
	Date         Date    `json:"date" yaml:"date"`
	TotalTokens  int64   `json:"total_tokens" yaml:"total_tokens"`
	InputTokens  int64   `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int64   `json:"output_tokens" yaml:"output_tokens"`
	Cost         float64 `json:"cost" yaml:"cost"`
}

// DailyRequiredFields lists the members every daily point must carry.
var DailyRequiredFields = []string{"date", "total_tokens", "input_tokens", "output_tokens", "cost"}

// ClientConfig describes a client of the usage backend.
type ClientConfig struct {
	ID       string `json:"-" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Project  string `json:"project" yaml:"project"`
	CycleDay int    `json:"cycle_day" yaml:"cycle_day"`
}

// ClientRequiredFields lists the members a client payload must carry.
var ClientRequiredFields = []string{"name", "project", "cycle_day"}

// Validate checks the client's cycle day.
func (c *ClientConfig) Validate() error {
	if c.CycleDay < 1 || c.CycleDay > 31 {
		return fmt.Errorf("cycle_day %d out of range 1-31", c.CycleDay)
	}
	return nil
}

// DisplayName returns the client name, falling back to its ID.
func (c *ClientConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Health is the backend health-check payload.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// IsHealthy reports whether the backend declared itself healthy.
func (h *Health) IsHealthy() bool {
	return h != nil && strings.EqualFold(h.Status, "healthy")
}
