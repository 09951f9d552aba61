package scheduler

import (
	"context"
	"sync"
	"time"

	"mess-app-go/internal/domain/clock"
	"mess-app-go/internal/domain/cutoff"
	"mess-app-go/internal/domain/meal"
	"mess-app-go/pkg/logger"
)

// Materializer is the slice of the meal service the scheduler drives.
type Materializer interface {
	Materialize(ctx context.Context, date time.Time, period cutoff.Period) ([]meal.MaterializedRow, error)
	Backfill(ctx context.Context, start, end time.Time) ([]meal.BackfillResult, error)
}

// Purger drops chat messages past the retention horizon.
type Purger interface {
	PurgeOlderThan(ctx context.Context, horizon time.Time) (int64, error)
}

// Scheduler fires the materializer at each cutoff instant. The next trigger
// is computed from the cutoff policy every iteration, so timezone or cutoff
// hour changes take effect on the following cycle. Triggers are idempotent
// by construction; a missed or doubled run needs no mutex and no repair
// beyond the optional boot catch-up backfill.
type Scheduler struct {
	policy    cutoff.Policy
	clock     clock.Clock
	meals     Materializer
	chat      Purger
	retention time.Duration
	catchup   int
	log       logger.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

func New(policy cutoff.Policy, clk clock.Clock, meals Materializer, chat Purger, retention time.Duration, catchupDays int, log logger.Logger) *Scheduler {
	return &Scheduler{
		policy:    policy,
		clock:     clk,
		meals:     meals,
		chat:      chat,
		retention: retention,
		catchup:   catchupDays,
		log:       log,
		stop:      make(chan struct{}),
	}
}

// Run blocks until Stop is called or the context ends. It first replays any
// cutoffs missed during downtime, then sleeps until each upcoming cutoff and
// materializes that slot.
func (s *Scheduler) Run(ctx context.Context) {
	s.catchUp(ctx)

	for {
		now := s.clock.Now()
		date, period, instant := s.policy.NextTrigger(now)

		wait := instant.Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			s.fire(ctx, date, period)
		case <-s.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Scheduler) fire(ctx context.Context, date time.Time, period cutoff.Period) {
	rows, err := s.meals.Materialize(ctx, date, period)
	if err != nil {
		s.log.InternalError("scheduler: materialize failed", err,
			"date", date.Format("2006-01-02"), "period", period)
	} else {
		s.log.Info("scheduler: cutoff trigger complete",
			"date", date.Format("2006-01-02"), "period", period, "inserted", len(rows))
	}

	s.purge(ctx)
}

func (s *Scheduler) catchUp(ctx context.Context) {
	if s.catchup <= 0 {
		return
	}
	today := s.clock.Now().In(s.policy.Location())
	start := today.AddDate(0, 0, -s.catchup)

	results, err := s.meals.Backfill(ctx, start, today)
	if err != nil {
		s.log.InternalError("scheduler: boot catch-up failed", err)
		return
	}
	var inserted int
	for _, result := range results {
		inserted += result.Affected
	}
	s.log.Info("scheduler: boot catch-up complete", "days", s.catchup, "inserted", inserted)
}

func (s *Scheduler) purge(ctx context.Context) {
	if s.chat == nil || s.retention <= 0 {
		return
	}
	horizon := s.clock.Now().Add(-s.retention)
	deleted, err := s.chat.PurgeOlderThan(ctx, horizon)
	if err != nil {
		s.log.BusinessError("scheduler: chat purge failed", err)
		return
	}
	if deleted > 0 {
		s.log.Info("scheduler: purged expired chat messages", "deleted", deleted)
	}
}
