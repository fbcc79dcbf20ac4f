package models

import (
	"fmt"
	"strconv"
)

// Period is a project usage window in days.
type Period int

// Selectable periods.
const (
	Period1Day   Period = 1
	Period7Days  Period = 7
	Period15Days Period = 15
	Period30Days Period = 30
)

// MaxPeriodDays is the longest window the backend accepts.
const MaxPeriodDays = 30

// Periods lists the selectable periods in toggle order.
var Periods = []Period{Period1Day, Period7Days, Period15Days, Period30Days}

// Days returns the number of days in the period.
func (p Period) Days() int {
	return int(p)
}

// String returns a short label such as "7d".
func (p Period) String() string {
	return strconv.Itoa(int(p)) + "d"
}

// Validate rejects windows the backend would refuse.
func (p Period) Validate() error {
	if p < 1 || p > MaxPeriodDays {
		return fmt.Errorf("period must be between 1 and %d days, got %d", MaxPeriodDays, int(p))
	}
	return nil
}

// Next returns the next selectable period, wrapping around.
// Periods outside the list restart at the first entry.
func (p Period) Next() Period {
	for i, candidate := range Periods {
		if candidate == p {
			return Periods[(i+1)%len(Periods)]
		}
	}
	return Periods[0]
}
