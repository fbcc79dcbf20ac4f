package usage

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// DirectorySource lists what the backend knows about.
type DirectorySource interface {
	Projects(ctx context.Context) ([]string, error)
	Clients(ctx context.Context) ([]models.ClientConfig, error)
}

// Directory is the list of projects and configured clients.
type Directory struct {
	Projects []string
	Clients  []models.ClientConfig
	// ClientsErr is set when the client list could not be loaded. The
	// directory is still usable with an empty client list.
	ClientsErr error
}

// FetchDirectory loads projects and clients concurrently. Only a projects
// failure fails the call.
func FetchDirectory(ctx context.Context, src DirectorySource) (*Directory, error) {
	var (
		dir         Directory
		projectsErr error
	)

	// A plain group: a clients failure must not cancel the projects request.
	var g errgroup.Group
	g.Go(func() error {
		dir.Projects, projectsErr = src.Projects(ctx)
		return nil
	})
	g.Go(func() error {
		dir.Clients, dir.ClientsErr = src.Clients(ctx)
		if dir.ClientsErr != nil {
			dir.Clients = nil
		}
		return nil
	})
	_ = g.Wait()

	if projectsErr != nil {
		return nil, projectsErr
	}
	return &dir, nil
}

// FindClient returns the client with the given ID.
func (d *Directory) FindClient(id string) (models.ClientConfig, bool) {
	for _, c := range d.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return models.ClientConfig{}, false
}
