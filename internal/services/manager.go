// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/api"
	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/db"
	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services/reminder"
	"github.com/j-veylop/token-usage-tui/internal/services/usage"
)

// Backend is the usage backend as seen by the views.
type Backend interface {
	usage.Source
	usage.DirectorySource
	Health(ctx context.Context) (*models.Health, error)
}

type (
	// ConfigReloadedEvent is emitted after the .env file changed and the new
	// configuration was applied.
	ConfigReloadedEvent struct {
		Config    *config.Config
		Formatter *format.Formatter
		Backend   Backend
	}

	// SnapshotRecordedEvent is emitted when a usage load was stored.
	SnapshotRecordedEvent struct {
		Record *models.SnapshotRecord
	}

	// ReminderSentEvent is emitted when a cycle reminder went out.
	ReminderSentEvent struct {
		ClientID string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ConfigReloadedEvent) isServiceEvent()   {}
func (SnapshotRecordedEvent) isServiceEvent() {}
func (ReminderSentEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()            {}

// Option configures a Manager.
type Option func(*Manager)

// WithBaseURL pins the backend URL, overriding the configured one across
// reloads.
func WithBaseURL(baseURL string) Option {
	return func(m *Manager) { m.baseURLOverride = baseURL }
}

// WithReminder replaces the reminder service.
func WithReminder(r *reminder.Service) Option {
	return func(m *Manager) { m.reminder = r }
}

// WithoutWatcher disables config hot reload.
func WithoutWatcher() Option {
	return func(m *Manager) { m.noWatch = true }
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu              sync.RWMutex
	cfg             *config.Config
	client          *api.Client
	formatter       *format.Formatter
	database        *db.DB
	watcher         *config.Watcher
	reminder        *reminder.Service
	baseURLOverride string
	noWatch         bool

	ctx    context.Context
	cancel context.CancelFunc

	subscribers []chan<- ServiceEvent
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}

	var err error
	m.formatter, err = format.New(cfg.Locale, cfg.Currency)
	if err != nil {
		cancel()
		return nil, err
	}

	m.client = m.newClient(cfg)

	m.database, err = db.New(ctx, cfg.DatabasePath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if removed, err := m.database.Prune(ctx, cfg.SnapshotRetention); err != nil {
		logger.Warn("failed to prune snapshots", "error", err)
	} else if removed > 0 {
		logger.Info("pruned old snapshots", "count", removed)
		if err := m.database.Vacuum(ctx); err != nil {
			logger.Warn("failed to vacuum snapshot history", "error", err)
		}
	}

	if m.reminder == nil {
		m.reminder = reminder.New(cfg.CycleReminderDays, cfg.NotificationsEnabled, m.formatter)
	}

	if cfg.EnvFile != "" && !m.noWatch {
		m.watcher, err = config.NewWatcher(cfg.EnvFile, m.handleConfigChange, m.handleWatchError)
		if err != nil {
			logger.Warn("config hot reload disabled", "path", cfg.EnvFile, "error", err)
		}
	}

	return m, nil
}

func (m *Manager) newClient(cfg *config.Config) *api.Client {
	baseURL := cfg.APIBaseURL
	if m.baseURLOverride != "" {
		baseURL = m.baseURLOverride
	}
	return api.New(baseURL, api.WithTimeout(cfg.RequestTimeout))
}

// handleConfigChange applies a reloaded configuration.
func (m *Manager) handleConfigChange(cfg *config.Config) {
	f, err := format.New(cfg.Locale, cfg.Currency)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "config", Error: err})
		return
	}

	m.mu.Lock()
	old := m.cfg
	if old == nil || old.APIBaseURL != cfg.APIBaseURL || old.RequestTimeout != cfg.RequestTimeout {
		m.client = m.newClient(cfg)
	}
	m.cfg = cfg
	m.formatter = f
	client := m.client
	m.mu.Unlock()

	m.reminder.Configure(cfg.CycleReminderDays, cfg.NotificationsEnabled, f)

	m.broadcast(ConfigReloadedEvent{
		Config:    cfg,
		Formatter: f,
		Backend:   client,
	})
}

func (m *Manager) handleWatchError(err error) {
	m.broadcast(ErrorEvent{Service: "config", Error: err})
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Backend returns the current API client.
func (m *Manager) Backend() Backend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Config returns the active configuration.
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Formatter returns the formatter for the active locale and currency.
func (m *Manager) Formatter() *format.Formatter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.formatter
}

// Context is cancelled when the manager closes. Loads derive from it.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// RecordSnapshot stores a completed load in the history database.
func (m *Manager) RecordSnapshot(ctx context.Context, rec *models.SnapshotRecord) error {
	if m.database == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := m.database.InsertSnapshot(ctx, rec); err != nil {
		logger.Warn("failed to record snapshot", "scope", rec.Scope, "target", rec.Target, "error", err)
		m.broadcast(ErrorEvent{Service: "history", Error: err})
		return err
	}
	m.broadcast(SnapshotRecordedEvent{Record: rec})
	return nil
}

// RecentSnapshots returns the newest stored snapshots.
func (m *Manager) RecentSnapshots(ctx context.Context, limit int) ([]models.SnapshotRecord, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.RecentSnapshots(ctx, limit)
}

// CheckReminders sends due cycle reminders for clients and returns how many
// went out.
func (m *Manager) CheckReminders(clients []models.ClientConfig) int {
	sent := 0
	for _, c := range clients {
		ok, err := m.reminder.Check(c)
		if err != nil {
			m.broadcast(ErrorEvent{Service: "reminder", Error: err})
			continue
		}
		if ok {
			sent++
			m.broadcast(ReminderSentEvent{ClientID: c.ID})
		}
	}
	return sent
}

// Close stops the watcher, cancels outstanding loads and closes the database.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		m.cancel()

		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
