package cutoff

import "time"

const (
	DefaultMorningHour = 7
	DefaultNightHour   = 18
)

// Policy maps (period, date) pairs to cutoff instants in the household
// timezone. All decisions are pure functions of the caller-supplied "now";
// callers obtain that from the trusted clock, never from an untrusted device.
type Policy struct {
	location    *time.Location
	morningHour int
	nightHour   int
}

func NewPolicy(location *time.Location, morningHour, nightHour int) Policy {
	if location == nil {
		location = time.UTC
	}
	if morningHour <= 0 || morningHour > 23 {
		morningHour = DefaultMorningHour
	}
	if nightHour <= 0 || nightHour > 23 {
		nightHour = DefaultNightHour
	}
	return Policy{
		location:    location,
		morningHour: morningHour,
		nightHour:   nightHour,
	}
}

func (p Policy) Location() *time.Location {
	return p.location
}

func (p Policy) hour(period Period) int {
	if period == PeriodMorning {
		return p.morningHour
	}
	return p.nightHour
}

// Instant returns the cutoff instant for the given period on the given
// calendar date. Only the year/month/day of date are used.
func (p Policy) Instant(period Period, date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, p.hour(period), 0, 0, 0, p.location)
}

// IsPassed reports whether the cutoff for (period, date) has been reached.
// Dates after now's local date are never passed: future registrations stay
// editable until their own cutoff arrives.
func (p Policy) IsPassed(period Period, date time.Time, now time.Time) bool {
	local := now.In(p.location)
	if DateOf(date) > DateOf(local) {
		return false
	}
	return !local.Before(p.Instant(period, date))
}

// TimeUntil returns the duration from now until today's cutoff for the
// period. Negative once the cutoff has passed.
func (p Policy) TimeUntil(period Period, now time.Time) time.Duration {
	local := now.In(p.location)
	return p.Instant(period, local).Sub(local)
}

// NextTrigger returns the first cutoff instant at or after now, together
// with the date and period it belongs to. The instant is derived from the
// configured timezone and local hours at call time, so timezone or hour
// changes take effect without touching any stored UTC offset.
func (p Policy) NextTrigger(now time.Time) (time.Time, Period, time.Time) {
	local := now.In(p.location)
	day := local
	for i := 0; i < 2; i++ {
		for _, period := range Periods() {
			instant := p.Instant(period, day)
			if !instant.Before(local) {
				return truncateDate(day), period, instant
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	// Unreachable: tomorrow's morning cutoff is always in the future.
	return truncateDate(day), PeriodMorning, p.Instant(PeriodMorning, day)
}

// Label renders the period's cutoff hour the way it appears in violation
// messages, e.g. "7:00 AM".
func (p Policy) Label(period Period) string {
	reference := time.Date(2000, 1, 1, p.hour(period), 0, 0, 0, time.UTC)
	return reference.Format("3:04 PM")
}

// DateOf collapses a time to a comparable yyyymmdd ordinal in its own
// location.
func DateOf(t time.Time) int {
	year, month, day := t.Date()
	return year*10000 + int(month)*100 + day
}

func truncateDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
