package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/ui/tabs/admin"
	"github.com/j-veylop/token-usage-tui/internal/ui/tabs/client"
	"github.com/j-veylop/token-usage-tui/internal/ui/tabs/info"
	"github.com/j-veylop/token-usage-tui/internal/ui/tabs/project"
	"github.com/j-veylop/token-usage-tui/internal/version"
)

// rootOptions holds the flags of the TUI command. baseURL is shared with the
// subcommands.
type rootOptions struct {
	baseURL string
	client  string
	project string
	days    int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tut",
		Short: "Token usage and cost dashboard",
		Long: `tut shows token usage and cost per project and per client billing cycle.

Keyboard Shortcuts:
  1-4             Switch between tabs
  Tab/Shift+Tab   Navigate between tabs
  p / c           Cycle the selected project / client
  t               Toggle the project period (1, 7, 15, 30 days)
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  API_BASE_URL           Backend origin (requests go to <origin>/api)
  APP_ENV                production or development
  CLIENT_URL_BASE        Origin used for client dashboard links
  LOCALE, CURRENCY       Number, date and currency formatting
  DEFAULT_PERIOD         Project window in days (default: 7)
  DATABASE_PATH          SQLite snapshot history path
  LOG_FILE, LOG_LEVEL    Rotating log file and level

Configuration:
  The first .env file found is loaded from the current directory,
  ~/.config/token-usage-tui/.env or ~/.token-usage/.env.`,
		Version:       version.Info(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "backend origin, overrides API_BASE_URL")
	cmd.Flags().StringVar(&opts.client, "client", "", "open the dashboard of a single client")
	cmd.Flags().StringVar(&opts.project, "project", "", "project selected at startup")
	cmd.Flags().IntVar(&opts.days, "days", 0, "initial project period in days (1, 7, 15 or 30)")

	cmd.AddCommand(
		newSummaryCmd(opts),
		newClientsCmd(opts),
		newHealthCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads the configuration, letting a --base-url flag win over the
// environment and any .env file.
func loadConfig(baseURL string) (*config.Config, error) {
	if baseURL != "" {
		if err := os.Setenv("API_BASE_URL", baseURL); err != nil {
			return nil, fmt.Errorf("failed to apply --base-url: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// parsePeriod validates a --days flag. Zero keeps fallback.
func parsePeriod(days int, fallback models.Period) (models.Period, error) {
	if days == 0 {
		return fallback, nil
	}
	p := models.Period(days)
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("invalid --days: %w", err)
	}
	return p, nil
}

// runTUI contains the main application logic, separated for cleaner error handling.
func runTUI(opts *rootOptions) error {
	cfg, err := loadConfig(opts.baseURL)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to LOG_FILE or nowhere.
	logCloser := logger.Setup(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel, Discard: true})
	defer func() { _ = logCloser.Close() }()

	cfg.DefaultPeriod, err = parsePeriod(opts.days, cfg.DefaultPeriod)
	if err != nil {
		return err
	}

	var mgrOpts []services.Option
	if opts.baseURL != "" {
		mgrOpts = append(mgrOpts, services.WithBaseURL(opts.baseURL))
	}
	svcManager, err := services.NewManager(cfg, mgrOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	state := newState(opts)
	model := app.NewModel(svcManager, state)
	model.SetTabs(buildTabs(model.TabIDs(), state, svcManager))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// newState applies the startup flags. --client switches to client mode with
// that client fixed.
func newState(opts *rootOptions) *app.State {
	state := app.NewState()
	if opts.client != "" {
		state.SetMode(app.ModeClient)
		state.SetSelectedClient(opts.client)
	}
	if opts.project != "" {
		state.SetSelectedProject(opts.project)
	}
	return state
}

// buildTabs creates one tab per ID, in order. history may be nil.
func buildTabs(ids []app.TabID, state *app.State, history info.History) []app.Tab {
	tabs := make([]app.Tab, 0, len(ids))
	for _, id := range ids {
		switch id {
		case app.TabProject:
			tabs = append(tabs, project.New(state))
		case app.TabClient:
			tabs = append(tabs, client.New(state))
		case app.TabAdmin:
			tabs = append(tabs, admin.New(state))
		case app.TabInfo:
			tabs = append(tabs, info.New(state, history))
		}
	}
	return tabs
}
