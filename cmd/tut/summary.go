package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/token-usage-tui/internal/cycle"
	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services/projection"
	"github.com/j-veylop/token-usage-tui/internal/services/usage"
)

type summaryOptions struct {
	project string
	client  string
	days    int
	date    string
	output  string
}

// summaryReport is one loaded summary in printable form.
type summaryReport struct {
	Scope      models.Scope             `json:"scope" yaml:"scope"`
	Target     string                   `json:"target" yaml:"target"`
	Period     string                   `json:"period,omitempty" yaml:"period,omitempty"`
	AsOf       *models.Date             `json:"as_of,omitempty" yaml:"as_of,omitempty"`
	Client     *clientView              `json:"client,omitempty" yaml:"client,omitempty"`
	Projection *models.CycleProjection  `json:"projection,omitempty" yaml:"projection,omitempty"`
	Summary    *models.UsageSummary     `json:"summary" yaml:"summary"`
	Daily      []models.DailyUsagePoint `json:"daily" yaml:"daily"`
	FetchedAt  time.Time                `json:"fetched_at" yaml:"fetched_at"`
}

func newSummaryCmd(root *rootOptions) *cobra.Command {
	opts := &summaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the usage summary of a project or client",
		Example: `  tut summary --project bot_model --days 30
  tut summary --client acme --output json
  tut summary --client acme --date 2024-02-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, root.baseURL, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.project, "project", "", "project name")
	flags.StringVar(&opts.client, "client", "", "client ID; uses the client's current billing cycle")
	flags.IntVar(&opts.days, "days", 0, "project period in days (1-30, default DEFAULT_PERIOD)")
	flags.StringVar(&opts.date, "date", "", "with --client, load the billing cycle containing this date (YYYY-MM-DD)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("project", "client")
	cmd.MarkFlagsMutuallyExclusive("days", "client")
	cmd.MarkFlagsMutuallyExclusive("date", "project")
	cmd.MarkFlagsOneRequired("project", "client")
	return cmd
}

func runSummary(cmd *cobra.Command, baseURL string, opts *summaryOptions) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}

	asOf, err := parseAsOf(opts.date)
	if err != nil {
		return err
	}

	env, err := newCLIEnv(baseURL)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx := cmd.Context()
	var report *summaryReport

	if opts.client != "" {
		snap, err := usage.FetchClientAt(ctx, env.client, opts.client, asOf)
		if err != nil {
			return fmt.Errorf("failed to load client %s: %w", opts.client, err)
		}
		cfg := *snap.Client
		if cfg.ID == "" {
			cfg.ID = opts.client
		}
		today := now()
		if !asOf.IsZero() {
			today = asOf.Time
		}
		view := newClientView(cfg, env.cfg, today)
		report = &summaryReport{
			Scope:      models.ScopeClient,
			Target:     opts.client,
			Client:     &view,
			AsOf:       asOfPtr(asOf),
			Projection: projection.Cycle(today, cycle.Compute(today, cfg.CycleDay), snap.Summary, snap.Daily),
			Summary:    snap.Summary,
			Daily:      snap.Daily,
			FetchedAt:  snap.FetchedAt,
		}
	} else {
		period, err := parsePeriod(opts.days, env.cfg.DefaultPeriod)
		if err != nil {
			return err
		}
		snap, err := usage.FetchProject(ctx, env.client, opts.project, period)
		if err != nil {
			return fmt.Errorf("failed to load project %s: %w", opts.project, err)
		}
		report = &summaryReport{
			Scope:     models.ScopeProject,
			Target:    opts.project,
			Period:    period.String(),
			Summary:   snap.Summary,
			Daily:     snap.Daily,
			FetchedAt: snap.FetchedAt,
		}
	}

	if opts.output != outputText {
		return encode(cmd.OutOrStdout(), opts.output, report)
	}
	return writeSummary(cmd.OutOrStdout(), env.formatter, report)
}

// parseAsOf reads a --date flag. An empty value means the current cycle.
func parseAsOf(s string) (models.Date, error) {
	if s == "" {
		return models.Date{}, nil
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", s)
	}
	return models.Date{Time: d}, nil
}

func asOfPtr(d models.Date) *models.Date {
	if d.IsZero() {
		return nil
	}
	return &d
}

func writeSummary(w io.Writer, f *format.Formatter, r *summaryReport) error {
	s := r.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if r.Client != nil {
		fmt.Fprintf(tw, "Client\t%s (%s)\n", r.Client.Name, r.Client.ID)
		if r.AsOf != nil {
			fmt.Fprintf(tw, "As of\t%s\n", f.Date(r.AsOf.Time))
		}
		fmt.Fprintf(tw, "Project\t%s\n", r.Client.Project)
		fmt.Fprintf(tw, "Cycle day\t%d\n", r.Client.CycleDay)
		fmt.Fprintf(tw, "Next reset\t%s (in %s)\n", f.Date(r.Client.NextReset.Time), f.Days(r.Client.DaysUntilReset))
	} else {
		fmt.Fprintf(tw, "Project\t%s\n", r.Target)
		fmt.Fprintf(tw, "Period\t%s\n", r.Period)
	}
	fmt.Fprintf(tw, "Range\t%s (%s)\n", f.DateRange(s.StartDate.Time, s.EndDate.Time), f.Days(s.PeriodDays))
	fmt.Fprintf(tw, "Runs\t%s\n", f.Int(s.RunCount))
	fmt.Fprintf(tw, "Total tokens\t%s\n", f.Int(s.TotalTokens))
	fmt.Fprintf(tw, "Input tokens\t%s (%s)\n", f.Int(s.InputTokens), f.Percent(s.InputTokens, s.TotalTokens))
	fmt.Fprintf(tw, "Output tokens\t%s (%s)\n", f.Int(s.OutputTokens), f.Percent(s.OutputTokens, s.TotalTokens))
	fmt.Fprintf(tw, "Cost\t%s\n", f.Currency(s.TotalCost))
	if p := r.Projection; p != nil {
		fmt.Fprintf(tw, "Projected tokens\t%s (%s / day)\n", f.Int(p.ProjectedTokens), f.Number(p.AvgDailyTokens))
		fmt.Fprintf(tw, "Projected cost\t%s (%s / day, %s confidence)\n", f.Currency(p.ProjectedCost), f.Currency(p.AvgDailyCost), p.Confidence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Daily) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tTOTAL\tINPUT\tOUTPUT\tCOST\t")
	for _, p := range r.Daily {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			f.ShortDate(p.Date.Time), f.Int(p.TotalTokens), f.Int(p.InputTokens),
			f.Int(p.OutputTokens), f.Currency(p.Cost))
	}
	return tw.Flush()
}
