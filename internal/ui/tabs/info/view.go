package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
	"github.com/j-veylop/token-usage-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderHealthCard(),
		m.renderConfigCard(),
		m.renderHistoryCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Backend, configuration and local history")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.viewport.Width-2, 50), 100)
}

func (m *Model) renderHealthCard() string {
	rows := []string{styles.CardTitleStyle.Render("Backend"), ""}

	var status string
	switch {
	case m.state.Backend() == nil:
		status = styles.HelpStyle.Render("not configured")
	case m.checking:
		status = m.spinner.View()
	case m.healthErr != nil:
		status = styles.HealthStyle(false).Render("unreachable") + "  " + styles.ErrorTextStyle.Render(m.healthErr.Error())
	default:
		label := "unknown"
		if m.health != nil && m.health.Status != "" {
			label = m.health.Status
		}
		status = styles.HealthStyle(m.health.IsHealthy()).Render(label)
		if m.health != nil && m.health.Timestamp != "" {
			status += styles.HelpStyle.Render("  at " + m.health.Timestamp)
		}
	}

	rows = append(rows,
		renderRow("API", m.state.Config().APIBaseURL+"/api"),
		renderRow("Status", status),
	)
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderConfigCard() string {
	cfg := m.state.Config()
	f := m.state.Formatter()

	rows := []string{
		styles.CardTitleStyle.Render("Configuration"),
		"",
		renderRow("Environment", orDash(cfg.Environment)),
		renderRow("Client URLs", orDash(cfg.ClientURLBase)),
		renderRow("Locale", f.Locale()),
		renderRow("Currency", f.CurrencyCode()),
		renderRow("Default period", cfg.DefaultPeriod.String()),
		renderRow("Env file", orDash(cfg.EnvFile)),
		renderRow("Database", orDash(cfg.DatabasePath)),
		renderRow("Log file", orDash(cfg.LogFile)),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderHistoryCard() string {
	rows := []string{styles.CardTitleStyle.Render("Recent snapshots"), ""}

	switch {
	case m.history == nil:
		rows = append(rows, styles.HelpStyle.Render("History store disabled"))
	case m.historyErr != nil:
		rows = append(rows, styles.ErrorTextStyle.Render("Failed to read history: "+m.historyErr.Error()))
	case len(m.records) == 0:
		rows = append(rows, styles.HelpStyle.Render("No snapshots recorded yet"))
	default:
		f := m.state.Formatter()
		for _, rec := range m.records {
			rows = append(rows, fmt.Sprintf("%s  %-7s %-20s %10s  %12s",
				rec.FetchedAt.Local().Format("2006-01-02 15:04"),
				rec.Scope,
				truncate(rec.Target, 20),
				f.Int(rec.TotalTokens),
				f.Currency(rec.TotalCost),
			))
		}

		// Records arrive newest first; the sparkline reads left to right.
		tokens := lo.Map(m.records, func(_ models.SnapshotRecord, i int) float64 {
			return float64(m.records[len(m.records)-1-i].TotalTokens)
		})
		rows = append(rows, "", styles.HelpStyle.Render("Tokens ")+components.RenderSparkline(tokens, len(tokens)))
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About"),
		"",
		renderRow("Version", version.GetVersion()),
		renderRow("Commit", version.GetCommit()),
		renderRow("Build date", version.GetDate()),
		renderRow("Go", runtime.Version()),
		renderRow("Platform", runtime.GOOS+"/"+runtime.GOARCH),
		renderRow("Mode", m.state.Mode().String()),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)
	return labelStyle.Render(label+":") + " " + value
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
