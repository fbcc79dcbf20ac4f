package app

import (
	"context"
	"errors"
	"testing"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
)

// fakeBackend implements services.Backend with canned data.
type fakeBackend struct {
	projects    []string
	projectsErr error
	clients     []models.ClientConfig
	clientsErr  error
}

func (f *fakeBackend) Projects(context.Context) ([]string, error) {
	return f.projects, f.projectsErr
}

func (f *fakeBackend) Clients(context.Context) ([]models.ClientConfig, error) {
	return f.clients, f.clientsErr
}

func (f *fakeBackend) Client(_ context.Context, id string) (*models.ClientConfig, error) {
	for _, c := range f.clients {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, errors.New("Client not found")
}

func (f *fakeBackend) ClientUsage(context.Context, string) (*models.UsageSummary, error) {
	return &models.UsageSummary{}, nil
}

func (f *fakeBackend) ClientDaily(context.Context, string) ([]models.DailyUsagePoint, error) {
	return nil, nil
}

func (f *fakeBackend) ProjectUsage(context.Context, string, models.Period) (*models.UsageSummary, error) {
	return &models.UsageSummary{}, nil
}

func (f *fakeBackend) ProjectDaily(context.Context, string, models.Period) ([]models.DailyUsagePoint, error) {
	return nil, nil
}

func (f *fakeBackend) Health(context.Context) (*models.Health, error) {
	return &models.Health{Status: "healthy"}, nil
}

func TestLoadListsCmd(t *testing.T) {
	tests := []struct {
		name           string
		backend        *fakeBackend
		wantErr        bool
		wantProjects   int
		wantClientsErr bool
	}{
		{
			name:         "Success",
			backend:      &fakeBackend{projects: []string{"a", "b"}, clients: testClients()},
			wantProjects: 2,
		},
		{
			name:    "ProjectsFail",
			backend: &fakeBackend{projectsErr: errors.New("down")},
			wantErr: true,
		},
		{
			name:           "ClientsFail",
			backend:        &fakeBackend{projects: []string{"a"}, clientsErr: errors.New("down")},
			wantProjects:   1,
			wantClientsErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := loadListsCmd(context.Background(), tt.backend)()
			loaded, ok := msg.(ListsLoadedMsg)
			if !ok {
				t.Fatalf("msg = %T, want ListsLoadedMsg", msg)
			}
			if (loaded.Err != nil) != tt.wantErr {
				t.Errorf("Err = %v, wantErr %v", loaded.Err, tt.wantErr)
			}
			if len(loaded.Projects) != tt.wantProjects {
				t.Errorf("len(Projects) = %d, want %d", len(loaded.Projects), tt.wantProjects)
			}
			if (loaded.ClientsErr != nil) != tt.wantClientsErr {
				t.Errorf("ClientsErr = %v, wantClientsErr %v", loaded.ClientsErr, tt.wantClientsErr)
			}
		})
	}
}

func TestTickCmd(t *testing.T) {
	if tickCmd(DefaultTickInterval) == nil {
		t.Error("tickCmd returned nil")
	}
	if defaultTickCmd() == nil {
		t.Error("defaultTickCmd returned nil")
	}
}

func TestNotifyCmds(t *testing.T) {
	tests := []struct {
		name     string
		cmd      func(string) AddNotificationMsg
		wantType NotificationType
	}{
		{"Success", func(s string) AddNotificationMsg { return NotifySuccess(s)().(AddNotificationMsg) }, NotificationSuccess},
		{"Error", func(s string) AddNotificationMsg { return NotifyError(s)().(AddNotificationMsg) }, NotificationError},
		{"Warning", func(s string) AddNotificationMsg { return NotifyWarning(s)().(AddNotificationMsg) }, NotificationWarning},
		{"Info", func(s string) AddNotificationMsg { return NotifyInfo(s)().(AddNotificationMsg) }, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.cmd("hello")
			if msg.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", msg.Type, tt.wantType)
			}
			if msg.Message != "hello" {
				t.Errorf("Message = %q, want hello", msg.Message)
			}
			if msg.Duration <= 0 {
				t.Errorf("Duration = %v, want > 0", msg.Duration)
			}
		})
	}
}

func TestSelectionChangedCmd(t *testing.T) {
	s := NewState()
	s.SetDirectory([]string{"bot_model"}, testClients(), nil)

	msg := selectionChangedCmd(s)()
	changed, ok := msg.(SelectionChangedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SelectionChangedMsg", msg)
	}
	if changed.Project != "bot_model" || changed.Client != "acme" {
		t.Errorf("SelectionChangedMsg = %+v", changed)
	}
}

func TestWaitForServiceEventCmd_Closed(t *testing.T) {
	ch := make(chan services.ServiceEvent)
	close(ch)
	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("msg = %v, want nil for a closed channel", msg)
	}
}
