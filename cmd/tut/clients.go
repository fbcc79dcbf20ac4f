package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/cycle"
	"github.com/j-veylop/token-usage-tui/internal/format"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// now is replaced in tests.
var now = time.Now

// clientView is a client as printed by the CLI, with its cycle position and
// dashboard link resolved.
type clientView struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	Project        string      `json:"project" yaml:"project"`
	CycleDay       int         `json:"cycle_day" yaml:"cycle_day"`
	NextReset      models.Date `json:"next_reset" yaml:"next_reset"`
	DaysUntilReset int         `json:"days_until_reset" yaml:"days_until_reset"`
	URL            string      `json:"url" yaml:"url"`
}

func newClientView(c models.ClientConfig, cfg *config.Config, today time.Time) clientView {
	reset, days := cycle.NextReset(today, c.CycleDay)
	return clientView{
		ID:             c.ID,
		Name:           c.DisplayName(),
		Project:        c.Project,
		CycleDay:       c.CycleDay,
		NextReset:      models.NewDate(reset),
		DaysUntilReset: days,
		URL:            cfg.ClientURL(c.ID),
	}
}

func newClientsCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List configured clients with their dashboard links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClients(cmd, root.baseURL, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func runClients(cmd *cobra.Command, baseURL, output string) error {
	if err := validateOutput(output); err != nil {
		return err
	}

	env, err := newCLIEnv(baseURL)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	clients, err := env.client.Clients(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	today := now()
	views := lo.Map(clients, func(c models.ClientConfig, _ int) clientView {
		return newClientView(c, env.cfg, today)
	})

	if output != outputText {
		return encode(cmd.OutOrStdout(), output, views)
	}
	return writeClients(cmd.OutOrStdout(), env.formatter, views)
}

func writeClients(w io.Writer, f *format.Formatter, views []clientView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No clients configured")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPROJECT\tCYCLE\tNEXT RESET\tURL")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s (in %s)\t%s\n",
			v.ID, v.Name, v.Project, v.CycleDay,
			f.Date(v.NextReset.Time), f.Days(v.DaysUntilReset), v.URL)
	}
	return tw.Flush()
}
