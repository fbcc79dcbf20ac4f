package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/j-veylop/token-usage-tui/internal/db"
	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

const defaultHistoryLimit = 20

type historyOptions struct {
	project string
	client  string
	limit   int
	output  string
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show summaries recorded by previous dashboard sessions",
		Long: `history reads the local snapshot store. Every successful load in the
dashboard records one snapshot; snapshots older than SNAPSHOT_RETENTION are
pruned at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, root.baseURL, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.project, "project", "", "only snapshots of this project")
	flags.StringVar(&opts.client, "client", "", "only snapshots of this client")
	flags.IntVarP(&opts.limit, "limit", "n", defaultHistoryLimit, "maximum number of snapshots")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("project", "client")
	return cmd
}

func runHistory(cmd *cobra.Command, baseURL string, opts *historyOptions) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}
	if opts.limit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", opts.limit)
	}

	env, err := newCLIEnv(baseURL)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx := cmd.Context()
	store, err := db.New(ctx, env.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot history: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := loadHistory(ctx, store, opts)
	if err != nil {
		return err
	}

	if opts.output != outputText {
		return encode(cmd.OutOrStdout(), opts.output, records)
	}

	stored, err := store.CountSnapshots(ctx)
	if err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), env.formatter, records, stored)
}

func loadHistory(ctx context.Context, store *db.DB, opts *historyOptions) ([]models.SnapshotRecord, error) {
	switch {
	case opts.project != "":
		return store.SnapshotsFor(ctx, models.ScopeProject, opts.project, opts.limit)
	case opts.client != "":
		return store.SnapshotsFor(ctx, models.ScopeClient, opts.client, opts.limit)
	default:
		return store.RecentSnapshots(ctx, opts.limit)
	}
}

func writeHistory(w io.Writer, f *format.Formatter, records []models.SnapshotRecord, stored int64) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots recorded yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FETCHED\tSCOPE\tTARGET\tRANGE\tRUNS\tTOKENS\tCOST")
	for _, r := range records {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.Date(r.FetchedAt.Local()), r.FetchedAt.Local().Format("15:04"),
			r.Scope, r.Target,
			f.DateRange(r.StartDate.Time, r.EndDate.Time),
			f.Int(r.RunCount), f.Int(r.TotalTokens), f.Currency(r.TotalCost))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d of %d stored snapshots\n", len(records), stored)
	return err
}
