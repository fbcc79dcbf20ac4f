package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// InsertSnapshot records a completed usage load.
func (db *DB) InsertSnapshot(ctx context.Context, rec *models.SnapshotRecord) error {
	query := `
		INSERT INTO usage_snapshots (
			scope, target, period_days, total_tokens, input_tokens, output_tokens,
			total_cost, run_count, start_date, end_date, daily_points, cycle_based, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	result, err := db.ExecContext(ctx, query,
		string(rec.Scope),
		rec.Target,
		rec.PeriodDays,
		rec.TotalTokens,
		rec.InputTokens,
		rec.OutputTokens,
		rec.TotalCost,
		rec.RunCount,
		nullString(rec.StartDate.String()),
		nullString(rec.EndDate.String()),
		rec.DailyPoints,
		boolToInt(rec.CycleBased),
		fetchedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		rec.ID = id
	}

	return nil
}

// RecentSnapshots returns the newest snapshots across all targets.
func (db *DB) RecentSnapshots(ctx context.Context, limit int) ([]models.SnapshotRecord, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM usage_snapshots
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent snapshots: %w", err)
	}
	return scanSnapshots(rows)
}

// SnapshotsFor returns the newest snapshots of one project or client.
func (db *DB) SnapshotsFor(ctx context.Context, scope models.Scope, target string, limit int) ([]models.SnapshotRecord, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM usage_snapshots
		WHERE scope = ? AND target = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?`

	rows, err := db.QueryContext(ctx, query, string(scope), target, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for %s %s: %w", scope, target, err)
	}
	return scanSnapshots(rows)
}

// CountSnapshots returns the number of stored snapshots.
func (db *DB) CountSnapshots(ctx context.Context) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usage_snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// PruneBefore deletes snapshots fetched before cutoff and returns how many
// were removed.
func (db *DB) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		"DELETE FROM usage_snapshots WHERE fetched_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return result.RowsAffected()
}

// Prune deletes snapshots older than retention. A non-positive retention
// keeps everything.
func (db *DB) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	return db.PruneBefore(ctx, time.Now().Add(-retention))
}

func scanSnapshots(rows *sql.Rows) ([]models.SnapshotRecord, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var records []models.SnapshotRecord
	for rows.Next() {
		var (
			rec        models.SnapshotRecord
			scope      string
			start, end sql.NullString
			cycleBased int
		)

		err := rows.Scan(
			&rec.ID,
			&scope,
			&rec.Target,
			&rec.PeriodDays,
			&rec.TotalTokens,
			&rec.InputTokens,
			&rec.OutputTokens,
			&rec.TotalCost,
			&rec.RunCount,
			&start,
			&end,
			&rec.DailyPoints,
			&cycleBased,
			&rec.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		rec.Scope = models.Scope(scope)
		rec.CycleBased = cycleBased != 0
		rec.StartDate = parseStoredDate(start)
		rec.EndDate = parseStoredDate(end)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func parseStoredDate(s sql.NullString) models.Date {
	if !s.Valid || s.String == "" {
		return models.Date{}
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		logger.Warn("invalid stored date", "value", s.String, "error", err)
		return models.Date{}
	}
	return models.Date{Time: t}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
