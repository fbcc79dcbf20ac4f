package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/db"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/version"
)

const projectSummaryJSON = `{"success": true, "data": {
	"total_tokens": 1500000, "input_tokens": 1000000, "output_tokens": 400000,
	"total_cost": 12.5, "period_days": 7, "run_count": 42,
	"start_date": "2024-03-01", "end_date": "2024-03-07"}}`

const projectDailyJSON = `{"success": true, "data": [
	{"date": "2024-03-01", "input_tokens": 600000, "output_tokens": 200000, "total_tokens": 900000, "cost": 7.5},
	{"date": "2024-03-02", "input_tokens": 400000, "output_tokens": 200000, "total_tokens": 600000, "cost": 5}]}`

const clientsJSON = `{"success": true, "data": {
	"globex": {"name": "Globex", "project": "support", "cycle_day": 31},
	"acme": {"name": "Acme", "project": "bot_model", "cycle_day": 20}}}`

const clientJSON = `{"success": true, "data": {"name": "Acme", "project": "bot_model", "cycle_day": 20}}`

const clientSummaryJSON = `{"success": true, "data": {
	"total_tokens": 3000, "input_tokens": 2000, "output_tokens": 1000,
	"total_cost": 0.75, "period_days": 25, "run_count": 3,
	"start_date": "2024-02-20", "end_date": "2024-03-15", "cycle_based": true}}`

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

// setupBackend serves routes and points the configuration at the server. It
// returns the server URL.
func setupBackend(t *testing.T, routes map[string]http.HandlerFunc) string {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("CLIENT_URL_BASE", "https://usage.example.com")
	t.Setenv("LOCALE", "en-US")
	t.Setenv("CURRENCY", "USD")
	t.Setenv("DEFAULT_PERIOD", "7")
	t.Setenv("DATABASE_PATH", filepath.Join(home, "data", "snapshots.db"))
	t.Setenv("LOG_FILE", filepath.Join(home, "tut.log"))

	prev := now
	now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	return srv.URL
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Flag", []string{"--version"}},
		{"Subcommand", []string{"version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if strings.TrimSpace(out) != version.Info() {
				t.Errorf("output = %q, want %q", out, version.Info())
			}
		})
	}
}

func TestSummary_Project(t *testing.T) {
	var gotDays string
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/usage/bot_model": func(w http.ResponseWriter, r *http.Request) {
			gotDays = r.URL.Query().Get("days")
			respond(projectSummaryJSON)(w, r)
		},
		"/api/usage/bot_model/daily": respond(projectDailyJSON),
	})

	out, err := execute(t, "summary", "--project", "bot_model", "--days", "15")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if gotDays != "15" {
		t.Errorf("days query = %q, want 15", gotDays)
	}

	for _, want := range []string{
		"bot_model", "15d", "03/01/2024 - 03/07/2024", "7 days",
		"1.5M", "1.0M (66.7%)", "400.0K (26.7%)", "$12.50",
		"DATE", "03/01", "900.0K", "$7.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_ProjectDefaultPeriod(t *testing.T) {
	var gotDays string
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/usage/bot_model": func(w http.ResponseWriter, r *http.Request) {
			gotDays = r.URL.Query().Get("days")
			respond(projectSummaryJSON)(w, r)
		},
		"/api/usage/bot_model/daily": respond(projectDailyJSON),
	})

	if _, err := execute(t, "summary", "--project", "bot_model"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if gotDays != "7" {
		t.Errorf("days query = %q, want 7", gotDays)
	}
}

func TestSummary_JSON(t *testing.T) {
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/usage/bot_model":       respond(projectSummaryJSON),
		"/api/usage/bot_model/daily": respond(projectDailyJSON),
	})

	out, err := execute(t, "summary", "--project", "bot_model", "-o", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got struct {
		Scope   string `json:"scope"`
		Target  string `json:"target"`
		Period  string `json:"period"`
		Summary struct {
			TotalTokens int64  `json:"total_tokens"`
			StartDate   string `json:"start_date"`
		} `json:"summary"`
		Daily []json.RawMessage `json:"daily"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Scope != "project" || got.Target != "bot_model" || got.Period != "7d" {
		t.Errorf("report = %+v", got)
	}
	if got.Summary.TotalTokens != 1500000 || got.Summary.StartDate != "2024-03-01" {
		t.Errorf("summary = %+v", got.Summary)
	}
	if len(got.Daily) != 2 {
		t.Errorf("len(daily) = %d, want 2", len(got.Daily))
	}
}

func TestSummary_Client(t *testing.T) {
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/client/acme":             respond(clientJSON),
		"/api/client/acme/usage":       respond(clientSummaryJSON),
		"/api/client/acme/usage/daily": respond(`{"success": true, "data": []}`),
	})

	out, err := execute(t, "summary", "--client", "acme")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{
		"Acme (acme)", "bot_model", "Cycle day", "03/20/2024 (in 5 days)",
		"02/20/2024 - 03/15/2024", "3.0K", "$0.75",
		"Projected tokens", "3.5K", "$0.87", "low confidence",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "DATE") {
		t.Error("empty daily series should not print a table")
	}
}

func TestSummary_ClientYAML(t *testing.T) {
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/client/acme":             respond(clientJSON),
		"/api/client/acme/usage":       respond(clientSummaryJSON),
		"/api/client/acme/usage/daily": respond(`{"success": true, "data": []}`),
	})

	out, err := execute(t, "summary", "--client", "acme", "--output", "yaml")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{
		"scope: client",
		"target: acme",
		"url: https://usage.example.com/client/acme",
		"days_until_reset: 5",
		"total_tokens: 3000",
		"cycle_based: true",
		"projected_tokens: 3480",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_ClientAsOf(t *testing.T) {
	var (
		mu    sync.Mutex
		dates []string
	)
	record := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			dates = append(dates, r.URL.Query().Get("date"))
			mu.Unlock()
			respond(body)(w, r)
		}
	}
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/client/acme":             respond(clientJSON),
		"/api/client/acme/usage":       record(clientSummaryJSON),
		"/api/client/acme/usage/daily": record(`{"success": true, "data": []}`),
	})

	out, err := execute(t, "summary", "--client", "acme", "--date", "2024-02-10")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(dates) != 2 || dates[0] != "2024-02-10" || dates[1] != "2024-02-10" {
		t.Errorf("date queries = %v, want 2024-02-10 on both usage requests", dates)
	}
	for _, want := range []string{"As of", "02/10/2024", "02/20/2024 (in 10 days)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"NoTarget", []string{"summary"}, "project"},
		{"BothTargets", []string{"summary", "--project", "p", "--client", "c"}, "client"},
		{"InvalidDays", []string{"summary", "--project", "p", "--days", "45"}, "invalid --days"},
		{"UnknownOutput", []string{"summary", "--project", "p", "-o", "xml"}, "unknown output format"},
		{"APIError", []string{"summary", "--client", "nobody"}, "Client not found"},
		{"DateWithProject", []string{"summary", "--project", "p", "--date", "2024-02-10"}, "date"},
		{"InvalidDate", []string{"summary", "--client", "nobody", "--date", "10/02/2024"}, "invalid --date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			setupBackend(t, map[string]http.HandlerFunc{
				"/api/usage/p": func(w http.ResponseWriter, r *http.Request) {
					calls++
					respond(projectSummaryJSON)(w, r)
				},
				"/api/client/nobody": func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusNotFound)
					_, _ = io.WriteString(w, `{"success": false, "error": "Client not found"}`)
				},
			})

			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("Execute() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
			if calls != 0 {
				t.Errorf("usage endpoint called %d times, want 0", calls)
			}
		})
	}
}

func TestClients(t *testing.T) {
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/clients": respond(clientsJSON),
	})

	out, err := execute(t, "clients")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 clients:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "acme") || !strings.HasPrefix(lines[2], "globex") {
		t.Errorf("clients should be sorted by ID:\n%s", out)
	}
	for _, want := range []string{
		"https://usage.example.com/client/acme",
		"03/20/2024 (in 5 days)",
		"03/31/2024 (in 16 days)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClients_JSON(t *testing.T) {
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/clients": respond(clientsJSON),
	})

	out, err := execute(t, "clients", "-o", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got []clientView
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 2 || got[0].ID != "acme" || got[1].CycleDay != 31 {
		t.Errorf("clients = %+v", got)
	}
	if got[0].NextReset.String() != "2024-03-20" {
		t.Errorf("NextReset = %s, want 2024-03-20", got[0].NextReset)
	}
}

func TestClients_Empty(t *testing.T) {
	setupBackend(t, map[string]http.HandlerFunc{
		"/api/clients": respond(`{"success": true, "data": {}}`),
	})

	out, err := execute(t, "clients")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No clients configured") {
		t.Errorf("output = %q", out)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"Healthy", `{"status": "healthy", "timestamp": "2024-03-15T10:00:00"}`, false},
		{"Degraded", `{"status": "degraded"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := setupBackend(t, map[string]http.HandlerFunc{
				"/api/health": respond(tt.body),
			})

			out, err := execute(t, "health")
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, url) {
				t.Errorf("output should name the API URL:\n%s", out)
			}
		})
	}
}

func TestBaseURLFlag(t *testing.T) {
	url := setupBackend(t, map[string]http.HandlerFunc{
		"/api/health": respond(`{"status": "healthy"}`),
	})
	t.Setenv("API_BASE_URL", "http://127.0.0.1:1")

	out, err := execute(t, "--base-url", url, "health")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "healthy") {
		t.Errorf("output = %q", out)
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		want    models.Period
		wantErr bool
	}{
		{"Fallback", 0, models.Period15Days, false},
		{"Explicit", 30, models.Period30Days, false},
		{"TooLong", 31, 0, true},
		{"Negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePeriod(tt.days, models.Period15Days)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePeriod() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePeriod() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewState(t *testing.T) {
	tests := []struct {
		name        string
		opts        rootOptions
		wantMode    app.Mode
		wantClient  string
		wantProject string
	}{
		{"Admin", rootOptions{}, app.ModeAdmin, "", ""},
		{"Project", rootOptions{project: "support"}, app.ModeAdmin, "", "support"},
		{"Client", rootOptions{client: "acme"}, app.ModeClient, "acme", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(&tt.opts)
			if s.Mode() != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", s.Mode(), tt.wantMode)
			}
			if s.SelectedClient() != tt.wantClient {
				t.Errorf("SelectedClient() = %q, want %q", s.SelectedClient(), tt.wantClient)
			}
			if s.SelectedProject() != tt.wantProject {
				t.Errorf("SelectedProject() = %q, want %q", s.SelectedProject(), tt.wantProject)
			}
		})
	}
}

func TestBuildTabs(t *testing.T) {
	tests := []struct {
		name string
		mode app.Mode
		want int
	}{
		{"Admin", app.ModeAdmin, 4},
		{"Client", app.ModeClient, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := app.NewState()
			state.SetMode(tt.mode)
			tabs := buildTabs(app.TabsForMode(tt.mode), state, nil)
			if len(tabs) != tt.want {
				t.Fatalf("len(tabs) = %d, want %d", len(tabs), tt.want)
			}
			for i, tab := range tabs {
				if tab == nil {
					t.Errorf("tab %d is nil", i)
				}
			}
		})
	}
}

// seedHistory records one snapshot per target in the configured database.
func seedHistory(t *testing.T, targets map[string]models.Scope) {
	t.Helper()
	store, err := db.New(context.Background(), os.Getenv("DATABASE_PATH"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	fetched := time.Now().Add(-time.Hour)
	for target, scope := range targets {
		summary := &models.UsageSummary{TotalTokens: 2500, TotalCost: 1.5, RunCount: 4}
		rec := models.NewSnapshotRecord(scope, target, summary, 7, fetched)
		if err := store.InsertSnapshot(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "All",
			args: []string{"history"},
			want: []string{"bot_model", "acme", "2.5K", "$1.50", "2 of 2 stored snapshots"},
		},
		{
			name:    "Project",
			args:    []string{"history", "--project", "bot_model"},
			want:    []string{"bot_model", "1 of 2 stored snapshots"},
			notWant: []string{"acme"},
		},
		{
			name:    "Client",
			args:    []string{"history", "--client", "acme"},
			want:    []string{"acme", "client"},
			notWant: []string{"bot_model"},
		},
		{
			name: "Limit",
			args: []string{"history", "-n", "1"},
			want: []string{"1 of 2 stored snapshots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupBackend(t, nil)
			seedHistory(t, map[string]models.Scope{
				"bot_model": models.ScopeProject,
				"acme":      models.ScopeClient,
			})

			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, out)
				}
			}
		})
	}
}

func TestHistory_Empty(t *testing.T) {
	setupBackend(t, nil)

	out, err := execute(t, "history")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No snapshots recorded yet") {
		t.Errorf("output = %q", out)
	}
}

func TestHistory_JSON(t *testing.T) {
	setupBackend(t, nil)
	seedHistory(t, map[string]models.Scope{"bot_model": models.ScopeProject})

	out, err := execute(t, "history", "-o", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got []struct {
		Scope       string `json:"scope"`
		Target      string `json:"target"`
		TotalTokens int64  `json:"total_tokens"`
		DailyPoints int    `json:"daily_points"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].Target != "bot_model" || got[0].TotalTokens != 2500 || got[0].DailyPoints != 7 {
		t.Errorf("history = %+v", got)
	}
}

func TestHistory_InvalidLimit(t *testing.T) {
	setupBackend(t, nil)

	if _, err := execute(t, "history", "--limit", "0"); err == nil {
		t.Error("Execute() should reject a zero limit")
	}
}
