package db

const (
	// timeLayout is how fetched_at is stored, in UTC, so SQLite's datetime()
	// comparisons work on it.
	timeLayout = "2006-01-02 15:04:05"

	// dateLayout matches models.DateLayout.
	dateLayout = "2006-01-02"

	snapshotColumns = `id, scope, target, period_days, total_tokens, input_tokens, output_tokens,
		total_cost, run_count, start_date, end_date, daily_points, cycle_based, fetched_at`
)
