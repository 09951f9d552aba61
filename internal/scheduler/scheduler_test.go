package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"mess-app-go/internal/domain/clock"
	"mess-app-go/internal/domain/cutoff"
	"mess-app-go/internal/domain/meal"
	"mess-app-go/pkg/logger"
)

type fakeMaterializer struct {
	mu           sync.Mutex
	materialized []string
	backfills    int
}

func (m *fakeMaterializer) Materialize(ctx context.Context, date time.Time, period cutoff.Period) ([]meal.MaterializedRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materialized = append(m.materialized, date.Format("2006-01-02")+"/"+string(period))
	return []meal.MaterializedRow{{MemberID: "m-1", Quantity: 1}}, nil
}

func (m *fakeMaterializer) Backfill(ctx context.Context, start, end time.Time) ([]meal.BackfillResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backfills++
	return nil, nil
}

func (m *fakeMaterializer) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.materialized...)
}

type fakePurger struct {
	mu    sync.Mutex
	calls int
}

func (p *fakePurger) PurgeOlderThan(ctx context.Context, horizon time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return 0, nil
}

func TestRunFiresAtCutoff(t *testing.T) {
	policy := cutoff.NewPolicy(time.FixedZone("UTC+6", 6*60*60), 7, 18)
	// One second shy of the morning cutoff; the real clock advances past it.
	start := time.Date(2025, 10, 24, 6, 59, 59, 900_000_000, policy.Location())
	offset := start.Sub(time.Now())

	materializer := &fakeMaterializer{}
	purger := &fakePurger{}
	s := New(policy, offsetClock{offset}, materializer, purger, 30*24*time.Hour, 0, logger.Noop())

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(materializer.calls()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("expected a trigger before the deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	s.Stop()
	<-done

	calls := materializer.calls()
	if calls[0] != "2025-10-24/morning" {
		t.Fatalf("expected morning trigger for 2025-10-24, got %q", calls[0])
	}
}

type offsetClock struct {
	offset time.Duration
}

func (c offsetClock) Now() time.Time {
	return time.Now().Add(c.offset)
}

func TestCatchUpOnBoot(t *testing.T) {
	policy := cutoff.NewPolicy(time.FixedZone("UTC+6", 6*60*60), 7, 18)
	materializer := &fakeMaterializer{}
	s := New(policy, clock.Fixed(time.Date(2025, 10, 24, 10, 0, 0, 0, policy.Location())), materializer, nil, 0, 3, logger.Noop())

	s.catchUp(context.Background())

	if materializer.backfills != 1 {
		t.Fatalf("expected one backfill on boot, got %d", materializer.backfills)
	}
}

func TestCatchUpDisabled(t *testing.T) {
	policy := cutoff.NewPolicy(time.FixedZone("UTC+6", 6*60*60), 7, 18)
	materializer := &fakeMaterializer{}
	s := New(policy, clock.Fixed(time.Now()), materializer, nil, 0, 0, logger.Noop())

	s.catchUp(context.Background())

	if materializer.backfills != 0 {
		t.Fatalf("expected no backfill when catch-up disabled, got %d", materializer.backfills)
	}
}

func TestFireRunsPurge(t *testing.T) {
	policy := cutoff.NewPolicy(time.FixedZone("UTC+6", 6*60*60), 7, 18)
	materializer := &fakeMaterializer{}
	purger := &fakePurger{}
	s := New(policy, clock.Fixed(time.Now()), materializer, purger, 30*24*time.Hour, 0, logger.Noop())

	s.fire(context.Background(), time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC), cutoff.PeriodMorning)

	if purger.calls != 1 {
		t.Fatalf("expected purge after trigger, got %d calls", purger.calls)
	}
	if len(materializer.calls()) != 1 {
		t.Fatalf("expected one materialization, got %d", len(materializer.calls()))
	}
}

func TestStopBeforeTrigger(t *testing.T) {
	policy := cutoff.NewPolicy(time.FixedZone("UTC+6", 6*60*60), 7, 18)
	materializer := &fakeMaterializer{}
	// Mid-morning: next trigger is hours away.
	s := New(policy, clock.Fixed(time.Date(2025, 10, 24, 10, 0, 0, 0, policy.Location())), materializer, nil, 0, 0, logger.Noop())

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected Run to return after Stop")
	}
	if len(materializer.calls()) != 0 {
		t.Fatalf("expected no triggers, got %d", len(materializer.calls()))
	}
}
