package meal

import (
	"context"
	"time"

	"mess-app-go/internal/domain/cutoff"
	"mess-app-go/internal/domain/member"
)

// ConflictPolicy names how an insert resolves against the uniqueness
// constraint on (member, date, period). The materializer always uses
// ConflictSkip: whoever committed first wins and the losing insert is
// silently dropped, never retried.
type ConflictPolicy int

const (
	// ConflictSkip drops the insert when a row already exists.
	ConflictSkip ConflictPolicy = iota
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Get(ctx context.Context, memberID string, date time.Time, period cutoff.Period) (*Registration, error)
	ListByDate(ctx context.Context, date time.Time) ([]Registration, error)
	ListByMemberRange(ctx context.Context, memberID string, from, to time.Time) ([]Registration, error)
	Upsert(ctx context.Context, registration *Registration) error
	InsertIfAbsent(ctx context.Context, registration *Registration, policy ConflictPolicy) (bool, error)
	ClearPeriod(ctx context.Context, date time.Time, period cutoff.Period) (int64, error)
}

// MemberDirectory is the slice of the member store the meal service needs.
type MemberDirectory interface {
	Get(ctx context.Context, id string) (*member.Member, error)
	ListAutoEnabled(ctx context.Context, period cutoff.Period) ([]member.Member, error)
	List(ctx context.Context, activeOnly bool) ([]member.Member, error)
}

// Notifier mirrors after-cutoff administrative overrides into the group
// chat. Implementations must never block the registration write; the caller
// treats failures as log-and-continue.
type Notifier interface {
	NotifyViolation(ctx context.Context, note ViolationNote) error
}
