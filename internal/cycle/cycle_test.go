package cycle

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextReset(t *testing.T) {
	tests := []struct {
		name     string
		today    time.Time
		cycleDay int
		want     time.Time
		wantDays int
	}{
		{"BeforeCycleDay", date(2024, 3, 15), 20, date(2024, 3, 20), 5},
		{"AfterCycleDay", date(2024, 3, 25), 20, date(2024, 4, 20), 26},
		{"OnCycleDay", date(2024, 3, 20), 20, date(2024, 4, 20), 31},
		{"DecemberRollover", date(2024, 12, 28), 5, date(2025, 1, 5), 8},
		{"ClampFebruaryLeap", date(2024, 1, 31), 31, date(2024, 2, 29), 29},
		{"ClampFebruary", date(2023, 1, 31), 30, date(2023, 2, 28), 28},
		{"ClampApril", date(2024, 3, 31), 31, date(2024, 4, 30), 30},
		{"ClampedCurrentMonth", date(2024, 2, 29), 31, date(2024, 3, 31), 31},
		{"BeforeClampedDay", date(2024, 2, 28), 31, date(2024, 2, 29), 1},
		{"DayZeroClampsToOne", date(2024, 3, 15), 0, date(2024, 4, 1), 17},
		{"DayTooLargeClamps", date(2024, 4, 15), 45, date(2024, 4, 30), 15},
		{"FirstOfMonth", date(2024, 3, 1), 1, date(2024, 4, 1), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, days := NextReset(tt.today, tt.cycleDay)
			if !got.Equal(tt.want) {
				t.Errorf("NextReset() date = %s, want %s", got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
			if days != tt.wantDays {
				t.Errorf("NextReset() days = %d, want %d", days, tt.wantDays)
			}
		})
	}
}

func TestNextReset_IgnoresClockTime(t *testing.T) {
	today := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	got, days := NextReset(today, 20)
	if !got.Equal(date(2024, 3, 20)) || days != 5 {
		t.Errorf("NextReset() = %s, %d; want 2024-03-20, 5", got.Format("2006-01-02"), days)
	}
}

func TestNextReset_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	loc2, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("timezone data unavailable")
	}

	// Berlin switches to summer time on 2024-03-31.
	today := time.Date(2024, 3, 25, 12, 0, 0, 0, loc2)
	_, days := NextReset(today, 5)
	if days != 11 {
		t.Errorf("days = %d, want 11", days)
	}

	today = time.Date(2024, 3, 25, 12, 0, 0, 0, loc)
	got, _ := NextReset(today, 5)
	if got.Location() != loc {
		t.Errorf("location = %v, want %v", got.Location(), loc)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		today     time.Time
		cycleDay  int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"MidCycle", date(2024, 3, 15), 20, date(2024, 2, 20), date(2024, 3, 19)},
		{"OnCycleDay", date(2024, 3, 20), 20, date(2024, 3, 20), date(2024, 4, 19)},
		{"JanuaryBackToDecember", date(2024, 1, 3), 10, date(2023, 12, 10), date(2024, 1, 9)},
		{"ClampedStart", date(2024, 3, 15), 31, date(2024, 2, 29), date(2024, 3, 30)},
		{"FirstDay", date(2024, 3, 15), 1, date(2024, 3, 1), date(2024, 3, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.today, tt.cycleDay)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %s, want %s", start.Format("2006-01-02"), tt.wantStart.Format("2006-01-02"))
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %s, want %s", end.Format("2006-01-02"), tt.wantEnd.Format("2006-01-02"))
			}
			if tt.today.Before(start) || tt.today.After(end) {
				t.Errorf("today %s outside window", tt.today.Format("2006-01-02"))
			}
		})
	}
}

func TestCompute(t *testing.T) {
	s := Compute(date(2024, 3, 15), 99)
	if s.CycleDay != 31 {
		t.Errorf("CycleDay = %d, want 31", s.CycleDay)
	}
	if !s.NextReset.Equal(date(2024, 3, 31)) || s.DaysUntil != 16 {
		t.Errorf("NextReset = %s (%d days), want 2024-03-31 (16 days)", s.NextReset.Format("2006-01-02"), s.DaysUntil)
	}
	if !s.End.Equal(date(2024, 3, 30)) {
		t.Errorf("End = %s, want 2024-03-30", s.End.Format("2006-01-02"))
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
