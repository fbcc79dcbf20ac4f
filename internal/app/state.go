// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
)

// Mode selects which views the shell mounts.
type Mode int

const (
	// ModeAdmin shows every project and client.
	ModeAdmin Mode = iota
	// ModeClient is pinned to a single client.
	ModeClient
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	if m == ModeClient {
		return "client"
	}
	return "admin"
}

// LoadStatus is the state of a view's data load.
type LoadStatus int

const (
	// StatusIdle means nothing has been requested yet.
	StatusIdle LoadStatus = iota
	// StatusLoading means a load is in flight.
	StatusLoading
	// StatusReady means the last load succeeded.
	StatusReady
	// StatusError means the last load failed.
	StatusError
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

// LoadingNotificationID is the fixed ID for loading notifications.
const LoadingNotificationID = "__loading__"

const maxNotifications = 10

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// State is shared between the shell and its tabs. The selected project and
// client are the only cross-view state; everything else is plumbing the tabs
// need to issue their own loads.
type State struct {
	mu sync.RWMutex

	backend   services.Backend
	formatter *format.Formatter
	config    *config.Config
	ctx       context.Context
	mode      Mode

	projects    []string
	clients     []models.ClientConfig
	clientsErr  error
	listsStatus LoadStatus

	selectedProject string
	selectedClient  string

	lastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState returns a state in admin mode with the default formatter.
func NewState() *State {
	return &State{
		formatter:     format.Default(),
		config:        &config.Config{},
		ctx:           context.Background(),
		notifications: make([]Notification, 0),
	}
}

// SetBackend sets the backend the tabs load from.
func (s *State) SetBackend(b services.Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = b
}

// Backend returns the backend the tabs load from.
func (s *State) Backend() services.Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

// SetFormatter replaces the formatter, e.g. after a locale change.
func (s *State) SetFormatter(f *format.Formatter) {
	if f == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formatter = f
}

// Formatter returns the active formatter.
func (s *State) Formatter() *format.Formatter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.formatter
}

// SetConfig replaces the active configuration.
func (s *State) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// Config returns the active configuration. It is never nil.
func (s *State) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// SetContext sets the parent context for loads.
func (s *State) SetContext(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
}

// Context is the parent context for loads.
func (s *State) Context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// SetMode switches between admin and client mode.
func (s *State) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Mode returns the current mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetListsLoading marks the project and client lists as loading.
func (s *State) SetListsLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listsStatus = StatusLoading
}

// SetListsError records a failed directory load and clears the lists.
func (s *State) SetListsError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listsStatus = StatusError
	s.projects = nil
	s.clients = nil
	s.clientsErr = nil
}

// SetDirectory stores the project and client lists and fills in a default
// selection. It reports whether the selection changed.
func (s *State) SetDirectory(projects []string, clients []models.ClientConfig, clientsErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = projects
	s.clients = clients
	s.clientsErr = clientsErr
	s.listsStatus = StatusReady
	s.lastUpdated = time.Now()

	changed := false
	if s.selectedProject == "" && len(projects) > 0 {
		s.selectedProject = projects[0]
		changed = true
	}
	if s.selectedClient == "" && len(clients) > 0 && s.mode == ModeAdmin {
		s.selectedClient = clients[0].ID
		changed = true
	}
	return changed
}

// ListsStatus returns the load status of the project and client lists.
func (s *State) ListsStatus() LoadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listsStatus
}

// Projects returns a copy of the project list.
func (s *State) Projects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.projects))
	copy(out, s.projects)
	return out
}

// Clients returns a copy of the client list.
func (s *State) Clients() []models.ClientConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ClientConfig, len(s.clients))
	copy(out, s.clients)
	return out
}

// ClientsErr is the error from the last client list load, if any.
func (s *State) ClientsErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientsErr
}

// FindClient looks a client up in the loaded list.
func (s *State) FindClient(id string) (models.ClientConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.ID == id {
			return c, true
		}
	}
	return models.ClientConfig{}, false
}

// SelectedProject returns the selected project name.
func (s *State) SelectedProject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedProject
}

// SetSelectedProject selects a project and reports whether it changed.
func (s *State) SetSelectedProject(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedProject == name {
		return false
	}
	s.selectedProject = name
	return true
}

// SelectedClient returns the selected client ID.
func (s *State) SelectedClient() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedClient
}

// SetSelectedClient selects a client and reports whether it changed.
// In client mode the client is fixed once set.
func (s *State) SetSelectedClient(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedClient == id {
		return false
	}
	if s.mode == ModeClient && s.selectedClient != "" {
		return false
	}
	s.selectedClient = id
	return true
}

// CycleProject moves the project selection by delta, wrapping around.
func (s *State) CycleProject(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := cycleIndex(len(s.projects), indexOf(s.projects, s.selectedProject), delta)
	if !ok || s.projects[next] == s.selectedProject {
		return false
	}
	s.selectedProject = s.projects[next]
	return true
}

// CycleClient moves the client selection by delta, wrapping around.
func (s *State) CycleClient(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeClient {
		return false
	}
	ids := make([]string, len(s.clients))
	for i, c := range s.clients {
		ids[i] = c.ID
	}
	next, ok := cycleIndex(len(ids), indexOf(ids, s.selectedClient), delta)
	if !ok || ids[next] == s.selectedClient {
		return false
	}
	s.selectedClient = ids[next]
	return true
}

func indexOf(items []string, v string) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}

func cycleIndex(n, current, delta int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	if current < 0 {
		return 0, true
	}
	return ((current+delta)%n + n) % n, true
}

// LastUpdated returns when the lists were last loaded.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := "n" + strconv.Itoa(s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
