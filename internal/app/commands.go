package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/services/usage"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadListsCmd fetches the project and client lists.
func loadListsCmd(ctx context.Context, src usage.DirectorySource) tea.Cmd {
	return func() tea.Msg {
		dir, err := usage.FetchDirectory(ctx, src)
		if err != nil {
			return ListsLoadedMsg{Err: err}
		}
		return ListsLoadedMsg{
			Projects:   dir.Projects,
			Clients:    dir.Clients,
			ClientsErr: dir.ClientsErr,
		}
	}
}

// recordSnapshotCmd stores a completed load. Failures are reported by the
// manager as an ErrorEvent.
func recordSnapshotCmd(mgr *services.Manager, rec *models.SnapshotRecord) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.RecordSnapshot(mgr.Context(), rec); err != nil {
			logger.Debug("snapshot not recorded", "error", err)
		}
		return nil
	}
}

// checkRemindersCmd sends any due cycle reminders.
func checkRemindersCmd(mgr *services.Manager, clients []models.ClientConfig) tea.Cmd {
	return func() tea.Msg {
		if sent := mgr.CheckReminders(clients); sent > 0 {
			logger.Info("cycle reminders sent", "count", sent)
		}
		return nil
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func selectionChangedCmd(s *State) tea.Cmd {
	project, client := s.SelectedProject(), s.SelectedClient()
	return func() tea.Msg {
		return SelectionChangedMsg{Project: project, Client: client}
	}
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// NotifySuccess returns a command that adds a success notification.
func NotifySuccess(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// NotifyError returns a command that adds an error notification.
func NotifyError(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// NotifyWarning returns a command that adds a warning notification.
func NotifyWarning(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// NotifyInfo returns a command that adds an info notification.
func NotifyInfo(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}
