package cutoff

import "fmt"

type Period string

const (
	PeriodMorning Period = "morning"
	PeriodNight   Period = "night"
)

// Periods lists both meal periods in chronological order.
func Periods() []Period {
	return []Period{PeriodMorning, PeriodNight}
}

func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case PeriodMorning:
		return PeriodMorning, nil
	case PeriodNight:
		return PeriodNight, nil
	default:
		return "", fmt.Errorf("invalid period %q", value)
	}
}
