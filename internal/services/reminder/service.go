// Package reminder sends a desktop notification when a client's billing cycle
// is about to reset.
package reminder

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/token-usage-tui/internal/cycle"
	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// Notifier delivers a notification.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier sends notifications through the OS notification center.
type DesktopNotifier struct{}

// Notify implements Notifier.
func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Service decides when a reminder is due. Each client is reminded at most
// once per cycle.
type Service struct {
	mu        sync.Mutex
	notifier  Notifier
	formatter *format.Formatter
	threshold int
	enabled   bool
	notified  map[string]time.Time
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a reminder service that fires when a reset is at most
// thresholdDays away.
func New(thresholdDays int, enabled bool, f *format.Formatter, opts ...Option) *Service {
	if f == nil {
		f = format.Default()
	}
	s := &Service{
		notifier:  DesktopNotifier{},
		formatter: f,
		threshold: thresholdDays,
		enabled:   enabled,
		notified:  make(map[string]time.Time),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure updates the threshold, switch and formatter after a config reload.
func (s *Service) Configure(thresholdDays int, enabled bool, f *format.Formatter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = thresholdDays
	s.enabled = enabled
	if f != nil {
		s.formatter = f
	}
}

// Check notifies about client's upcoming reset if it is due and has not been
// sent for this cycle. It reports whether a notification went out.
func (s *Service) Check(client models.ClientConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.threshold <= 0 {
		return false, nil
	}

	status := cycle.Compute(s.now(), client.CycleDay)
	if status.DaysUntil > s.threshold {
		return false, nil
	}
	if last, ok := s.notified[client.ID]; ok && last.Equal(status.NextReset) {
		return false, nil
	}

	title := fmt.Sprintf("Usage cycle resets soon: %s", client.DisplayName())
	body := fmt.Sprintf("Resets on %s (%s)", s.formatter.Date(status.NextReset), s.formatter.Days(status.DaysUntil))

	if err := s.notifier.Notify(title, body); err != nil {
		logger.Warn("failed to send cycle reminder", "client", client.ID, "error", err)
		return false, err
	}

	s.notified[client.ID] = status.NextReset
	logger.Info("cycle reminder sent", "client", client.ID, "reset", status.NextReset.Format(models.DateLayout))
	return true, nil
}
