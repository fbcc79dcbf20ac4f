package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// Projects lists the project names known to the backend.
func (c *Client) Projects(ctx context.Context) ([]string, error) {
	const endpoint = "/projects"

	data, err := c.fetchData(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if !data.IsArray() {
		return nil, &DataShapeError{Endpoint: endpoint, Field: "data", Reason: "is not an array"}
	}

	var projects []string
	for i, item := range data.Array() {
		if item.Type != gjson.String {
			return nil, &DataShapeError{Endpoint: endpoint, Field: fmt.Sprintf("data[%d]", i), Reason: "is not a string"}
		}
		projects = append(projects, item.String())
	}
	return projects, nil
}

// Clients returns the configured clients ordered by ID.
func (c *Client) Clients(ctx context.Context) ([]models.ClientConfig, error) {
	const endpoint = "/clients"

	data, err := c.fetchData(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if !data.IsObject() {
		return nil, &DataShapeError{Endpoint: endpoint, Field: "data", Reason: "is not an object"}
	}

	var (
		clients  []models.ClientConfig
		shapeErr error
	)
	data.ForEach(func(key, value gjson.Result) bool {
		field := "data." + key.String()
		client, err := decodeClient(endpoint, field, value)
		if err != nil {
			shapeErr = err
			return false
		}
		client.ID = key.String()
		clients = append(clients, *client)
		return true
	})
	if shapeErr != nil {
		return nil, shapeErr
	}

	slices.SortFunc(clients, func(a, b models.ClientConfig) int {
		return strings.Compare(a.ID, b.ID)
	})
	return clients, nil
}

// Client returns the configuration of one client.
func (c *Client) Client(ctx context.Context, clientID string) (*models.ClientConfig, error) {
	endpoint := "/client/" + url.PathEscape(clientID)

	data, err := c.fetchData(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	client, err := decodeClient(endpoint, "data", data)
	if err != nil {
		return nil, err
	}
	client.ID = clientID
	return client, nil
}

// ClientUsage returns the usage summary of the client's current billing cycle.
func (c *Client) ClientUsage(ctx context.Context, clientID string) (*models.UsageSummary, error) {
	return c.ClientUsageAt(ctx, clientID, models.Date{})
}

// ClientUsageAt returns the usage summary of the billing cycle containing asOf.
// A zero asOf means today on the backend's clock.
func (c *Client) ClientUsageAt(ctx context.Context, clientID string, asOf models.Date) (*models.UsageSummary, error) {
	endpoint := "/client/" + url.PathEscape(clientID) + "/usage"
	return c.summary(ctx, endpoint, asOfQuery(asOf))
}

// ClientDaily returns the daily breakdown of the client's current billing cycle.
func (c *Client) ClientDaily(ctx context.Context, clientID string) ([]models.DailyUsagePoint, error) {
	return c.ClientDailyAt(ctx, clientID, models.Date{})
}

// ClientDailyAt returns the daily breakdown of the billing cycle containing asOf.
func (c *Client) ClientDailyAt(ctx context.Context, clientID string, asOf models.Date) ([]models.DailyUsagePoint, error) {
	endpoint := "/client/" + url.PathEscape(clientID) + "/usage/daily"
	return c.daily(ctx, endpoint, asOfQuery(asOf))
}

// ProjectUsage returns the usage summary of a project over the given period.
func (c *Client) ProjectUsage(ctx context.Context, project string, period models.Period) (*models.UsageSummary, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	endpoint := "/usage/" + url.PathEscape(project)
	return c.summary(ctx, endpoint, daysQuery(period))
}

// ProjectDaily returns the daily breakdown of a project over the given period.
func (c *Client) ProjectDaily(ctx context.Context, project string, period models.Period) ([]models.DailyUsagePoint, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	endpoint := "/usage/" + url.PathEscape(project) + "/daily"
	return c.daily(ctx, endpoint, daysQuery(period))
}

// Health queries the backend health check. Its payload has no envelope.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	const endpoint = "/health"

	status, body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Endpoint: endpoint, Status: status, Message: httpErrorMessage(status)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &DataShapeError{Endpoint: endpoint, Reason: "response is not valid JSON"}
	}

	root := gjson.ParseBytes(body)
	if !root.Get("status").Exists() {
		return nil, &DataShapeError{Endpoint: endpoint, Field: "status", Reason: "is missing"}
	}
	return &models.Health{
		Status:    root.Get("status").String(),
		Timestamp: root.Get("timestamp").String(),
	}, nil
}

func (c *Client) summary(ctx context.Context, endpoint string, query url.Values) (*models.UsageSummary, error) {
	data, err := c.fetchData(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if err := requireFields(endpoint, "data", data, models.SummaryRequiredFields); err != nil {
		return nil, err
	}

	var summary models.UsageSummary
	if err := decode(endpoint, data, &summary); err != nil {
		return nil, err
	}
	if err := summary.Validate(); err != nil {
		return nil, &DataShapeError{Endpoint: endpoint, Field: "data", Reason: err.Error()}
	}
	return &summary, nil
}

func (c *Client) daily(ctx context.Context, endpoint string, query url.Values) ([]models.DailyUsagePoint, error) {
	data, err := c.fetchData(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if !data.IsArray() {
		return nil, &DataShapeError{Endpoint: endpoint, Field: "data", Reason: "is not an array"}
	}
	for i, item := range data.Array() {
		if err := requireFields(endpoint, fmt.Sprintf("data[%d]", i), item, models.DailyRequiredFields); err != nil {
			return nil, err
		}
	}

	points := make([]models.DailyUsagePoint, 0, len(data.Array()))
	if err := decode(endpoint, data, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func decodeClient(endpoint, field string, data gjson.Result) (*models.ClientConfig, error) {
	if err := requireFields(endpoint, field, data, models.ClientRequiredFields); err != nil {
		return nil, err
	}
	var client models.ClientConfig
	if err := decode(endpoint, data, &client); err != nil {
		return nil, err
	}
	if err := client.Validate(); err != nil {
		return nil, &DataShapeError{Endpoint: endpoint, Field: field, Reason: err.Error()}
	}
	return &client, nil
}

// requireFields checks that obj is a JSON object carrying every field.
func requireFields(endpoint, path string, obj gjson.Result, fields []string) error {
	if !obj.IsObject() {
		return &DataShapeError{Endpoint: endpoint, Field: path, Reason: "is not an object"}
	}
	for _, f := range fields {
		if !obj.Get(f).Exists() {
			return &DataShapeError{Endpoint: endpoint, Field: path + "." + f, Reason: "is missing"}
		}
	}
	return nil
}

func daysQuery(period models.Period) url.Values {
	q := url.Values{}
	q.Set("days", strconv.Itoa(period.Days()))
	return q
}

func asOfQuery(asOf models.Date) url.Values {
	if asOf.IsZero() {
		return nil
	}
	q := url.Values{}
	q.Set("date", asOf.String())
	return q
}
