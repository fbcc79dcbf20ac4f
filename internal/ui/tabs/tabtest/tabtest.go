// Package tabtest holds fakes shared by the tab tests.
package tabtest

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// ErrNotStubbed is returned by Backend methods without a stub.
var ErrNotStubbed = errors.New("not stubbed")

// Backend implements services.Backend through optional function fields.
type Backend struct {
	ProjectsFn     func(ctx context.Context) ([]string, error)
	ClientsFn      func(ctx context.Context) ([]models.ClientConfig, error)
	ClientFn       func(ctx context.Context, id string) (*models.ClientConfig, error)
	ClientUsageFn  func(ctx context.Context, id string) (*models.UsageSummary, error)
	ClientDailyFn  func(ctx context.Context, id string) ([]models.DailyUsagePoint, error)
	ProjectUsageFn func(ctx context.Context, project string, period models.Period) (*models.UsageSummary, error)
	ProjectDailyFn func(ctx context.Context, project string, period models.Period) ([]models.DailyUsagePoint, error)
	HealthFn       func(ctx context.Context) (*models.Health, error)
}

func (b *Backend) Projects(ctx context.Context) ([]string, error) {
	if b.ProjectsFn == nil {
		return nil, ErrNotStubbed
	}
	return b.ProjectsFn(ctx)
}

func (b *Backend) Clients(ctx context.Context) ([]models.ClientConfig, error) {
	if b.ClientsFn == nil {
		return nil, ErrNotStubbed
	}
	return b.ClientsFn(ctx)
}

func (b *Backend) Client(ctx context.Context, id string) (*models.ClientConfig, error) {
	if b.ClientFn == nil {
		return nil, ErrNotStubbed
	}
	return b.ClientFn(ctx, id)
}

func (b *Backend) ClientUsage(ctx context.Context, id string) (*models.UsageSummary, error) {
	if b.ClientUsageFn == nil {
		return nil, ErrNotStubbed
	}
	return b.ClientUsageFn(ctx, id)
}

func (b *Backend) ClientDaily(ctx context.Context, id string) ([]models.DailyUsagePoint, error) {
	if b.ClientDailyFn == nil {
		return nil, ErrNotStubbed
	}
	return b.ClientDailyFn(ctx, id)
}

func (b *Backend) ProjectUsage(ctx context.Context, project string, period models.Period) (*models.UsageSummary, error) {
	if b.ProjectUsageFn == nil {
		return nil, ErrNotStubbed
	}
	return b.ProjectUsageFn(ctx, project, period)
}

func (b *Backend) ProjectDaily(ctx context.Context, project string, period models.Period) ([]models.DailyUsagePoint, error) {
	if b.ProjectDailyFn == nil {
		return nil, ErrNotStubbed
	}
	return b.ProjectDailyFn(ctx, project, period)
}

func (b *Backend) Health(ctx context.Context) (*models.Health, error) {
	if b.HealthFn == nil {
		return nil, ErrNotStubbed
	}
	return b.HealthFn(ctx)
}

// Summary returns a summary with the given totals over March 2024.
func Summary(total, input, output int64, cost float64) *models.UsageSummary {
	return &models.UsageSummary{
		TotalTokens:  total,
		InputTokens:  input,
		OutputTokens: output,
		TotalCost:    cost,
		PeriodDays:   7,
		RunCount:     42,
		StartDate:    models.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		EndDate:      models.Date{Time: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)},
	}
}

// Daily returns n ascending daily points starting 2024-03-01.
func Daily(n int) []models.DailyUsagePoint {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.DailyUsagePoint, n)
	for i := range points {
		points[i] = models.DailyUsagePoint{
			Date:         models.Date{Time: start.AddDate(0, 0, i)},
			TotalTokens:  int64(1000 * (i + 1)),
			InputTokens:  int64(600 * (i + 1)),
			OutputTokens: int64(400 * (i + 1)),
			Cost:         float64(i+1) * 0.25,
		}
	}
	return points
}

// NewState returns an admin-mode state wired to b.
func NewState(b *Backend) *app.State {
	s := app.NewState()
	s.SetBackend(b)
	return s
}

// Run executes cmd and every command nested in batches, returning the
// messages produced. Commands that sleep must not be passed in.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Find returns the first message of type T in msgs.
func Find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
