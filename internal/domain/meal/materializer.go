package meal

import (
	"context"
	"time"

	"mess-app-go/internal/domain/cutoff"
	"mess-app-go/internal/events"

	"github.com/google/uuid"
)

const maxBackfillDays = 366

// Materialize converts auto-meal defaults into concrete registrations for
// one (date, period) slot. A member's explicit row always wins: the insert
// uses ConflictSkip, so re-invocations and races with member writes resolve
// to "first commit wins" without errors. Safe to call any number of times.
func (s *Service) Materialize(ctx context.Context, date time.Time, period cutoff.Period) ([]MaterializedRow, error) {
	date = NormalizeDate(date)

	candidates, err := s.members.ListAutoEnabled(ctx, period)
	if err != nil {
		return nil, err
	}

	inserted := make([]MaterializedRow, 0, len(candidates))
	for _, candidate := range candidates {
		enabled, quantity := candidate.AutoMeal(period)
		if !enabled || quantity <= 0 {
			continue
		}

		registration := Registration{
			ID:       uuid.NewString(),
			MemberID: candidate.ID,
			Date:     date,
			Period:   period,
			Quantity: quantity,
		}
		ok, err := s.repo.InsertIfAbsent(ctx, &registration, ConflictSkip)
		if err != nil {
			return inserted, err
		}
		if !ok {
			continue
		}
		inserted = append(inserted, MaterializedRow{MemberID: candidate.ID, Quantity: quantity})
		s.publish(ctx, events.OpInsert, registration.ID)
	}

	s.log.Info("meal: materialized period",
		"date", date.Format("2006-01-02"),
		"period", period,
		"candidates", len(candidates),
		"inserted", len(inserted))
	return inserted, nil
}

// Backfill re-runs materialization over a date range after downtime. Past
// dates materialize both periods; today materializes only periods whose
// cutoff has already passed, so a manual run never locks in a slot that is
// still open; future dates are skipped. Shares the per-row guard with
// Materialize, so running it twice changes nothing the second time.
func (s *Service) Backfill(ctx context.Context, start, end time.Time) ([]BackfillResult, error) {
	start, end = NormalizeDate(start), NormalizeDate(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	if end.Sub(start) > maxBackfillDays*24*time.Hour {
		return nil, ErrRangeTooLarge
	}

	now := s.clock.Now()
	today := cutoff.DateOf(now.In(s.policy.Location()))

	results := make([]BackfillResult, 0)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		ordinal := cutoff.DateOf(date)
		if ordinal > today {
			continue
		}
		for _, period := range cutoff.Periods() {
			if ordinal == today && !s.policy.IsPassed(period, date, now) {
				continue
			}
			rows, err := s.Materialize(ctx, date, period)
			if err != nil {
				return results, err
			}
			results = append(results, BackfillResult{Date: date, Period: period, Affected: len(rows)})
		}
	}
	return results, nil
}
