package clock

import (
	"context"
	"time"
)

// Clock supplies the current instant. Cutoff decisions always go through a
// Clock so tests can substitute a fixed one and so no code path falls back to
// an untrusted device clock by accident.
type Clock interface {
	Now() time.Time
}

// TimeSource reads the authoritative transactional clock, typically the
// database's now().
type TimeSource interface {
	ServerTime(ctx context.Context) (time.Time, error)
}

type fixed struct {
	instant time.Time
}

// Fixed returns a clock frozen at the given instant.
func Fixed(instant time.Time) Clock {
	return fixed{instant: instant}
}

func (f fixed) Now() time.Time {
	return f.instant
}
