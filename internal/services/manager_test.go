package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services/reminder"
)

type countingNotifier struct {
	count int
}

func (c *countingNotifier) Notify(string, string) error {
	c.count++
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	return &config.Config{
		APIBaseURL:        "http://localhost:5000",
		ClientURLBase:     "http://localhost:3000",
		Locale:            "pt-BR",
		Currency:          "BRL",
		DefaultPeriod:     models.Period7Days,
		RequestTimeout:    time.Second,
		DatabasePath:      filepath.Join(tmpDir, "test.db"),
		SnapshotRetention: 24 * time.Hour,
	}
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	mgr, err := NewManager(testConfig(t), opts...)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func TestNewManager(t *testing.T) {
	mgr := newTestManager(t)

	if mgr.Backend() == nil {
		t.Error("Backend should be initialized")
	}
	if _, err := mgr.RecentSnapshots(context.Background(), 1); err != nil {
		t.Errorf("RecentSnapshots() error = %v, want an open database", err)
	}
	if mgr.Formatter().Locale() != "pt-BR" {
		t.Errorf("Formatter locale = %q, want pt-BR", mgr.Formatter().Locale())
	}
	if mgr.Config().APIBaseURL != "http://localhost:5000" {
		t.Errorf("Config().APIBaseURL = %q", mgr.Config().APIBaseURL)
	}
}

func TestNewManager_InvalidCurrency(t *testing.T) {
	cfg := testConfig(t)
	cfg.Currency = "NOPE"
	if _, err := NewManager(cfg); err == nil {
		t.Error("NewManager with a bad currency should fail")
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr := newTestManager(t)

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	if err := mgr.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
		t.Error("Close should close subscriber channels")
	}
}

func TestManager_RecordSnapshot(t *testing.T) {
	mgr := newTestManager(t)
	ch, _ := mgr.Subscribe()

	rec := &models.SnapshotRecord{
		Scope:       models.ScopeProject,
		Target:      "bot_model",
		TotalTokens: 1500,
		FetchedAt:   time.Now(),
	}
	if err := mgr.RecordSnapshot(context.Background(), rec); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}

	select {
	case ev := <-ch:
		recorded, ok := ev.(SnapshotRecordedEvent)
		if !ok {
			t.Fatalf("event = %T, want SnapshotRecordedEvent", ev)
		}
		if recorded.Record.Target != "bot_model" {
			t.Errorf("Record.Target = %q", recorded.Record.Target)
		}
	case <-time.After(time.Second):
		t.Fatal("no SnapshotRecordedEvent")
	}

	recent, err := mgr.RecentSnapshots(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentSnapshots() error = %v", err)
	}
	if len(recent) != 1 || recent[0].TotalTokens != 1500 {
		t.Errorf("RecentSnapshots() = %+v", recent)
	}
}

func TestManager_CheckReminders(t *testing.T) {
	n := &countingNotifier{}
	now := time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)
	r := reminder.New(3, true, nil, reminder.WithNotifier(n), reminder.WithClock(func() time.Time { return now }))

	mgr := newTestManager(t, WithReminder(r))
	ch, _ := mgr.Subscribe()

	clients := []models.ClientConfig{
		{ID: "soon", CycleDay: 20},
		{ID: "later", CycleDay: 1},
	}
	if sent := mgr.CheckReminders(clients); sent != 1 {
		t.Errorf("CheckReminders() = %d, want 1", sent)
	}
	if n.count != 1 {
		t.Errorf("notifications = %d, want 1", n.count)
	}

	select {
	case ev := <-ch:
		if e, ok := ev.(ReminderSentEvent); !ok || e.ClientID != "soon" {
			t.Errorf("event = %#v, want ReminderSentEvent for soon", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no ReminderSentEvent")
	}
}

func TestManager_ConfigReload(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "LOCALE", "CURRENCY", "DATABASE_PATH"} {
		t.Setenv(key, "")
	}

	cfg := testConfig(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("LOCALE=pt-BR\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.EnvFile = envFile

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch, _ := mgr.Subscribe()

	content := "API_BASE_URL=http://backend.test:9000\nLOCALE=en-US\nCURRENCY=USD\nDATABASE_PATH=" + cfg.DatabasePath + "\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			reloaded, ok := ev.(ConfigReloadedEvent)
			if !ok {
				continue
			}
			if reloaded.Formatter.Locale() != "en-US" {
				t.Errorf("Formatter locale = %q, want en-US", reloaded.Formatter.Locale())
			}
			if mgr.Formatter().CurrencyCode() != "USD" {
				t.Errorf("manager currency = %q, want USD", mgr.Formatter().CurrencyCode())
			}
			if mgr.Config().APIBaseURL != "http://backend.test:9000" {
				t.Errorf("APIBaseURL = %q", mgr.Config().APIBaseURL)
			}
			return
		case <-deadline:
			t.Fatal("no ConfigReloadedEvent")
		}
	}
}

func TestManager_Close(t *testing.T) {
	mgr, err := NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	ctx := mgr.Context()

	if err := mgr.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if ctx.Err() == nil {
		t.Error("Close() should cancel the manager context")
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
