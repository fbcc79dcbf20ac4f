// Package cycle computes billing cycle boundaries from a client's cycle day.
//
// A cycle day that does not exist in a month (31 in April, 30 in February)
// is clamped to that month's last day. The clamped day is also what "before
// the cycle day" is compared against.
package cycle

import "time"

const (
	minDay = 1
	maxDay = 31
)

// Status describes where today falls in a client's billing cycle.
type Status struct {
	CycleDay  int
	Start     time.Time
	End       time.Time
	NextReset time.Time
	DaysUntil int
}

// Compute returns the cycle status for today.
func Compute(today time.Time, cycleDay int) Status {
	reset, days := NextReset(today, cycleDay)
	start, end := Window(today, cycleDay)
	return Status{
		CycleDay:  ClampDay(cycleDay),
		Start:     start,
		End:       end,
		NextReset: reset,
		DaysUntil: days,
	}
}

// NextReset returns the next reset date and the number of calendar days until
// it. The reset is this month when today is before the cycle day and next
// month otherwise.
func NextReset(today time.Time, cycleDay int) (time.Time, int) {
	cycleDay = ClampDay(cycleDay)
	y, m, d := today.Date()
	loc := today.Location()

	var reset time.Time
	if d < dayIn(y, m, cycleDay) {
		reset = time.Date(y, m, dayIn(y, m, cycleDay), 0, 0, 0, 0, loc)
	} else {
		ny, nm := addMonths(y, m, 1)
		reset = time.Date(ny, nm, dayIn(ny, nm, cycleDay), 0, 0, 0, 0, loc)
	}
	return reset, DaysBetween(today, reset)
}

// Window returns the first and last day of the cycle containing today.
func Window(today time.Time, cycleDay int) (start, end time.Time) {
	cycleDay = ClampDay(cycleDay)
	y, m, d := today.Date()
	loc := today.Location()

	if d >= dayIn(y, m, cycleDay) {
		start = time.Date(y, m, dayIn(y, m, cycleDay), 0, 0, 0, 0, loc)
	} else {
		py, pm := addMonths(y, m, -1)
		start = time.Date(py, pm, dayIn(py, pm, cycleDay), 0, 0, 0, 0, loc)
	}

	reset, _ := NextReset(today, cycleDay)
	end = reset.AddDate(0, 0, -1)
	return start, end
}

// ClampDay forces a cycle day into 1..31.
func ClampDay(day int) int {
	return max(minDay, min(day, maxDay))
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dayIn(year int, month time.Month, cycleDay int) int {
	return min(cycleDay, DaysIn(year, month))
}

func addMonths(year int, month time.Month, n int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return t.Year(), t.Month()
}

// DaysBetween counts calendar days from a to b, ignoring clock time and DST.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
