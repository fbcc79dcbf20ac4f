// Package usage loads usage summaries together with their daily breakdown.
package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// Source is the subset of the API client the loaders need.
type Source interface {
	ProjectUsage(ctx context.Context, project string, period models.Period) (*models.UsageSummary, error)
	ProjectDaily(ctx context.Context, project string, period models.Period) ([]models.DailyUsagePoint, error)
	Client(ctx context.Context, clientID string) (*models.ClientConfig, error)
	ClientUsage(ctx context.Context, clientID string) (*models.UsageSummary, error)
	ClientDaily(ctx context.Context, clientID string) ([]models.DailyUsagePoint, error)
}

// DatedSource can also load a client's usage for the cycle containing a date.
type DatedSource interface {
	Source
	ClientUsageAt(ctx context.Context, clientID string, asOf models.Date) (*models.UsageSummary, error)
	ClientDailyAt(ctx context.Context, clientID string, asOf models.Date) ([]models.DailyUsagePoint, error)
}

// Snapshot is a complete load: a summary and its daily points, fetched together.
type Snapshot struct {
	Summary   *models.UsageSummary
	Daily     []models.DailyUsagePoint
	FetchedAt time.Time
}

// ClientSnapshot adds the client's configuration to a Snapshot.
type ClientSnapshot struct {
	Snapshot
	Client *models.ClientConfig
}

// Record converts the snapshot into a history record.
func (s *Snapshot) Record(scope models.Scope, target string) *models.SnapshotRecord {
	return models.NewSnapshotRecord(scope, target, s.Summary, len(s.Daily), s.FetchedAt)
}

// FetchProject loads a project's summary and daily series concurrently.
// Both must succeed; the first failure cancels the other request.
func FetchProject(ctx context.Context, src Source, project string, period models.Period) (*Snapshot, error) {
	if project == "" {
		return nil, fmt.Errorf("no project selected")
	}
	return fetchPair(ctx,
		func(ctx context.Context) (*models.UsageSummary, error) {
			return src.ProjectUsage(ctx, project, period)
		},
		func(ctx context.Context) ([]models.DailyUsagePoint, error) {
			return src.ProjectDaily(ctx, project, period)
		},
	)
}

// FetchClient loads a client's configuration and then its current-cycle
// summary and daily series.
func FetchClient(ctx context.Context, src Source, clientID string) (*ClientSnapshot, error) {
	return fetchClient(ctx, src, clientID,
		func(ctx context.Context) (*models.UsageSummary, error) {
			return src.ClientUsage(ctx, clientID)
		},
		func(ctx context.Context) ([]models.DailyUsagePoint, error) {
			return src.ClientDaily(ctx, clientID)
		},
	)
}

// FetchClientAt is FetchClient for the billing cycle containing asOf. A zero
// asOf loads the current cycle.
func FetchClientAt(ctx context.Context, src DatedSource, clientID string, asOf models.Date) (*ClientSnapshot, error) {
	return fetchClient(ctx, src, clientID,
		func(ctx context.Context) (*models.UsageSummary, error) {
			return src.ClientUsageAt(ctx, clientID, asOf)
		},
		func(ctx context.Context) ([]models.DailyUsagePoint, error) {
			return src.ClientDailyAt(ctx, clientID, asOf)
		},
	)
}

func fetchClient(
	ctx context.Context,
	src Source,
	clientID string,
	summaryFn func(context.Context) (*models.UsageSummary, error),
	dailyFn func(context.Context) ([]models.DailyUsagePoint, error),
) (*ClientSnapshot, error) {
	if clientID == "" {
		return nil, fmt.Errorf("no client selected")
	}

	client, err := src.Client(ctx, clientID)
	if err != nil {
		return nil, err
	}

	snap, err := fetchPair(ctx, summaryFn, dailyFn)
	if err != nil {
		return nil, err
	}
	return &ClientSnapshot{Snapshot: *snap, Client: client}, nil
}

func fetchPair(
	ctx context.Context,
	summaryFn func(context.Context) (*models.UsageSummary, error),
	dailyFn func(context.Context) ([]models.DailyUsagePoint, error),
) (*Snapshot, error) {
	var (
		summary *models.UsageSummary
		daily   []models.DailyUsagePoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = summaryFn(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = dailyFn(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Summary:   summary,
		Daily:     daily,
		FetchedAt: time.Now(),
	}, nil
}

// Tracker hands out load generations. Starting a load cancels the previous
// one, and only the newest generation is current.
type Tracker struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Begin starts a new load derived from parent and returns its generation and
// context. The previous load's context is cancelled.
func (t *Tracker) Begin(parent context.Context) (uint64, context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	t.gen++
	t.cancel = cancel
	return t.gen, ctx
}

// Current returns the newest generation.
func (t *Tracker) Current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// IsCurrent reports whether gen is the newest generation.
func (t *Tracker) IsCurrent(gen uint64) bool {
	return gen != 0 && gen == t.Current()
}

// Cancel aborts the in-flight load, if any.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
