package meal

import (
	"context"
	"time"

	"mess-app-go/internal/domain/clock"
	"mess-app-go/internal/domain/cutoff"
	"mess-app-go/internal/events"
	"mess-app-go/pkg/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo      Repository
	members   MemberDirectory
	policy    cutoff.Policy
	clock     clock.Clock
	notifier  Notifier
	publisher events.Publisher
	log       logger.Logger
}

func NewService(repo Repository, members MemberDirectory, policy cutoff.Policy, clk clock.Clock, notifier Notifier, publisher events.Publisher, log logger.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop()
	}
	return &Service{
		repo:      repo,
		members:   members,
		policy:    policy,
		clock:     clk,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

func (s *Service) Policy() cutoff.Policy {
	return s.policy
}

// CutoffStatus reports whether the period's cutoff on the date has passed
// and how long remains until today's cutoff, against the trusted clock.
func (s *Service) CutoffStatus(period cutoff.Period, date time.Time) (bool, time.Duration) {
	now := s.clock.Now()
	return s.policy.IsPassed(period, date, now), s.policy.TimeUntil(period, now)
}

// SetMeal is the single write path for registrations. The cutoff check runs
// against the trusted clock inside the same transaction as the write, so a
// client-side "still open" verdict is never the last line of defense.
// Ordinary members may only write their own rows and only before the cutoff;
// administrators may write any row at any time, with after-cutoff writes
// mirrored as violation messages in the chat.
func (s *Service) SetMeal(ctx context.Context, actor Actor, memberID string, date time.Time, period cutoff.Period, quantity int) (*Registration, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if !actor.IsAdmin && actor.MemberID != memberID {
		return nil, ErrForbidden
	}

	target, err := s.members.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}

	date = NormalizeDate(date)
	var (
		result   Registration
		violated bool
	)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		passed := s.policy.IsPassed(period, date, s.clock.Now())
		if passed && !actor.IsAdmin {
			return ErrCutoffExceeded
		}
		violated = passed && actor.IsAdmin

		registration := Registration{
			ID:       uuid.NewString(),
			MemberID: memberID,
			Date:     date,
			Period:   period,
			Quantity: quantity,
		}
		if err := tx.Upsert(ctx, &registration); err != nil {
			return err
		}
		result = registration
		return nil
	})
	if err != nil {
		return nil, err
	}

	if violated {
		action := ActionAdded
		if quantity == 0 {
			action = ActionRemoved
		}
		note := ViolationNote{
			MemberID:    target.ID,
			MemberName:  target.Name,
			Action:      action,
			Period:      period,
			CutoffLabel: s.policy.Label(period),
		}
		if err := s.notifier.NotifyViolation(ctx, note); err != nil {
			// The registration already committed; the notice is best-effort.
			s.log.BusinessError("meal: violation notice failed", err, "member_id", memberID)
		}
	}

	s.publish(ctx, events.OpUpdate, result.ID)
	return &result, nil
}

// Mine lists the member's own registrations in a date range.
func (s *Service) Mine(ctx context.Context, memberID string, from, to time.Time) ([]Registration, error) {
	from, to = NormalizeDate(from), NormalizeDate(to)
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListByMemberRange(ctx, memberID, from, to)
}

// Board builds the day view: each member's quantities for both periods plus
// totals per period and rice type.
func (s *Service) Board(ctx context.Context, date time.Time) (*DayBoard, error) {
	date = NormalizeDate(date)

	registrations, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	roster, err := s.members.List(ctx, true)
	if err != nil {
		return nil, err
	}

	type slot struct {
		morning *int
		night   *int
	}
	byMember := make(map[string]slot, len(roster))
	for _, registration := range registrations {
		entry := byMember[registration.MemberID]
		quantity := registration.Quantity
		if registration.Period == cutoff.PeriodMorning {
			entry.morning = &quantity
		} else {
			entry.night = &quantity
		}
		byMember[registration.MemberID] = entry
	}

	board := DayBoard{
		Date:       date,
		Entries:    make([]BoardEntry, 0, len(roster)),
		RiceTotals: map[string]int{},
	}
	for _, resident := range roster {
		entry := byMember[resident.ID]
		board.Entries = append(board.Entries, BoardEntry{
			MemberID: resident.ID,
			Name:     resident.Name,
			RiceType: resident.RiceType,
			Morning:  entry.morning,
			Night:    entry.night,
		})
		if entry.morning != nil {
			board.MorningTotal += *entry.morning
			board.RiceTotals[resident.RiceType] += *entry.morning
		}
		if entry.night != nil {
			board.NightTotal += *entry.night
			board.RiceTotals[resident.RiceType] += *entry.night
		}
	}
	return &board, nil
}

// ClearPeriod is the administrative bulk delete for a (date, period) slot.
func (s *Service) ClearPeriod(ctx context.Context, actor Actor, date time.Time, period cutoff.Period) (int64, error) {
	if !actor.IsAdmin {
		return 0, ErrForbidden
	}
	date = NormalizeDate(date)
	affected, err := s.repo.ClearPeriod(ctx, date, period)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, events.OpDelete, date.Format("2006-01-02")+"/"+string(period))
	return affected, nil
}

func (s *Service) publish(ctx context.Context, op events.Op, key string) {
	err := s.publisher.Publish(ctx, events.Event{Table: "meal_registrations", Op: op, Key: key})
	if err != nil {
		s.log.BusinessError("meal: publish change event failed", err, "key", key)
	}
}
