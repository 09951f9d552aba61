package accounting

import "time"

// DefaultPeriodStartDay is the household's default billing cycle boundary:
// the 6th of a month through the 5th of the next.
const DefaultPeriodStartDay = 6

// Period is one rolling accounting window, inclusive on both ends.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PeriodFor returns the accounting period containing date for a cycle that
// begins on startDay of each month. With endDay <= 0 the period ends the day
// before the next cycle begins; an explicit endDay pins the end to that day
// of the closing month instead.
func PeriodFor(date time.Time, startDay, endDay int) Period {
	if startDay < 1 || startDay > 28 {
		startDay = DefaultPeriodStartDay
	}

	year, month, day := date.Date()
	start := time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC)
	if day < startDay {
		start = start.AddDate(0, -1, 0)
	}

	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	if endDay >= 1 && endDay <= 28 {
		endYear, endMonth, _ := start.AddDate(0, 1, 0).Date()
		end = time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, time.UTC)
	}
	return Period{Start: start, End: end}
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	year, month, day := date.Date()
	normalized := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return !normalized.Before(p.Start) && !normalized.After(p.End)
}
