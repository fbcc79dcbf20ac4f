package app

import (
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// ListsLoadedMsg carries the project and client lists.
type ListsLoadedMsg struct {
	Projects   []string
	Clients    []models.ClientConfig
	ClientsErr error
	Err        error
}

// SelectionChangedMsg is broadcast to every tab after the selected project
// or client changed.
type SelectionChangedMsg struct {
	Project string
	Client  string
}

// SelectProjectMsg asks the shell to select a project and show its view.
type SelectProjectMsg struct {
	Name string
}

// SelectClientMsg asks the shell to select a client and show its view.
type SelectClientMsg struct {
	ID string
}

// SnapshotLoadedMsg is emitted by a view after a load completed. The shell
// stores it and, for clients, checks the cycle reminder.
type SnapshotLoadedMsg struct {
	Record *models.SnapshotRecord
	Client *models.ClientConfig
}

// RefreshMsg requests a refresh of shell-owned data.
type RefreshMsg struct {
	Resource string // "lists"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager. Tabs see it
// after the shell has applied it to the shared state.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
