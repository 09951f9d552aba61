package meal

import (
	"time"

	"mess-app-go/internal/domain/cutoff"
)

const (
	MinQuantity = 0
	MaxQuantity = 10
)

// Registration is one member's meal order for a (date, period) slot. At most
// one row exists per (member, date, period); the database constraint is the
// sole arbiter of that invariant. Quantity 0 means "no meal" and is distinct
// from row absence, which means "not yet decided".
type Registration struct {
	ID        string        `gorm:"type:uuid;primaryKey"`
	MemberID  string        `gorm:"type:uuid;not null;uniqueIndex:idx_member_date_period,priority:1"`
	Date      time.Time     `gorm:"type:date;not null;uniqueIndex:idx_member_date_period,priority:2"`
	Period    cutoff.Period `gorm:"type:varchar(8);not null;uniqueIndex:idx_member_date_period,priority:3"`
	Quantity  int           `gorm:"not null"`
	CreatedAt time.Time     `gorm:"autoCreateTime"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime"`
}

func (Registration) TableName() string {
	return "meal_registrations"
}

// Actor identifies who is performing a write.
type Actor struct {
	MemberID string
	Name     string
	IsAdmin  bool
}

// ViolationNote describes an after-cutoff administrative override for the
// chat log.
type ViolationNote struct {
	MemberID    string
	MemberName  string
	Action      string // "added" or "removed"
	Period      cutoff.Period
	CutoffLabel string
}

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// MaterializedRow reports one registration the materializer actually
// inserted.
type MaterializedRow struct {
	MemberID string `json:"member_id"`
	Quantity int    `json:"quantity"`
}

// BackfillResult reports how many rows one (date, period) pass inserted.
type BackfillResult struct {
	Date     time.Time     `json:"date"`
	Period   cutoff.Period `json:"period"`
	Affected int           `json:"affected"`
}

// BoardEntry is one member's row on the day board the cook reads.
type BoardEntry struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	RiceType string `json:"rice_type"`
	Morning  *int   `json:"morning"`
	Night    *int   `json:"night"`
}

// DayBoard aggregates a date's registrations per member and per rice type.
type DayBoard struct {
	Date         time.Time      `json:"date"`
	Entries      []BoardEntry   `json:"entries"`
	MorningTotal int            `json:"morning_total"`
	NightTotal   int            `json:"night_total"`
	RiceTotals   map[string]int `json:"rice_totals"`
}

// NormalizeDate collapses a timestamp to its calendar date at midnight UTC,
// the canonical storage form for registration dates.
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
