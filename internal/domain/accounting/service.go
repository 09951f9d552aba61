package accounting

import (
	"context"
	"time"

	"mess-app-go/internal/domain/member"
	"mess-app-go/internal/events"
	"mess-app-go/pkg/logger"

	"github.com/google/uuid"
)

// Roster is the slice of the member store the accounting service needs for
// settlement lines and per-member period overrides.
type Roster interface {
	Get(ctx context.Context, id string) (*member.Member, error)
	List(ctx context.Context, activeOnly bool) ([]member.Member, error)
}

type Service struct {
	repo      Repository
	roster    Roster
	startDay  int
	publisher events.Publisher
	log       logger.Logger
}

func NewService(repo Repository, roster Roster, startDay int, publisher events.Publisher, log logger.Logger) *Service {
	if startDay < 1 || startDay > 28 {
		startDay = DefaultPeriodStartDay
	}
	if publisher == nil {
		publisher = events.Noop()
	}
	return &Service{repo: repo, roster: roster, startDay: startDay, publisher: publisher, log: log}
}

// MemberPeriod resolves the accounting period containing date for one
// member, honoring their custom cycle bounds when set.
func (s *Service) MemberPeriod(ctx context.Context, memberID string, date time.Time) (Period, error) {
	record, err := s.roster.Get(ctx, memberID)
	if err != nil {
		return Period{}, err
	}
	startDay, endDay := s.startDay, 0
	if record.PeriodStartDay != nil {
		startDay = *record.PeriodStartDay
	}
	if record.PeriodEndDay != nil {
		endDay = *record.PeriodEndDay
	}
	return PeriodFor(date, startDay, endDay), nil
}

func (s *Service) AddEggs(ctx context.Context, memberID string, date time.Time, count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}
	if _, err := s.roster.Get(ctx, memberID); err != nil {
		return err
	}
	entry := EggEntry{ID: uuid.NewString(), MemberID: memberID, Date: day(date), Added: count}
	if err := s.repo.AddEggEntry(ctx, &entry); err != nil {
		return err
	}
	s.publish(ctx, "egg_entries", entry.ID)
	return nil
}

func (s *Service) ConsumeEggs(ctx context.Context, memberID string, date time.Time, count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}
	balance, err := s.EggBalance(ctx, memberID, date)
	if err != nil {
		return err
	}
	if int64(count) > balance {
		return ErrInsufficient
	}
	entry := EggEntry{ID: uuid.NewString(), MemberID: memberID, Date: day(date), Consumed: count}
	if err := s.repo.AddEggEntry(ctx, &entry); err != nil {
		return err
	}
	s.publish(ctx, "egg_entries", entry.ID)
	return nil
}

// EggBalance is additions minus consumptions within the member's accounting
// period containing date.
func (s *Service) EggBalance(ctx context.Context, memberID string, date time.Time) (int64, error) {
	period, err := s.MemberPeriod(ctx, memberID, date)
	if err != nil {
		return 0, err
	}
	added, consumed, err := s.repo.EggTotals(ctx, memberID, period.Start, period.End)
	if err != nil {
		return 0, err
	}
	return added - consumed, nil
}

func (s *Service) AddExpense(ctx context.Context, memberID string, date time.Time, amount float64, note string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := s.roster.Get(ctx, memberID); err != nil {
		return err
	}
	expense := Expense{ID: uuid.NewString(), MemberID: memberID, Date: day(date), Amount: amount, Note: note}
	if err := s.repo.AddExpense(ctx, &expense); err != nil {
		return err
	}
	s.publish(ctx, "grocery_expenses", expense.ID)
	return nil
}

func (s *Service) AddDeposit(ctx context.Context, memberID string, date time.Time, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := s.roster.Get(ctx, memberID); err != nil {
		return err
	}
	deposit := Deposit{ID: uuid.NewString(), MemberID: memberID, Date: day(date), Amount: amount}
	if err := s.repo.AddDeposit(ctx, &deposit); err != nil {
		return err
	}
	s.publish(ctx, "deposits", deposit.ID)
	return nil
}

// PeriodSummary settles the household period containing date: the meal rate
// is total grocery spending over total meals, and each member's balance is
// their deposits minus their share.
func (s *Service) PeriodSummary(ctx context.Context, date time.Time) (*Summary, error) {
	period := PeriodFor(date, s.startDay, 0)

	roster, err := s.roster.List(ctx, true)
	if err != nil {
		return nil, err
	}
	meals, err := s.repo.MealTotals(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ExpenseTotals(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	deposits, err := s.repo.DepositTotals(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	mealsBy := make(map[string]int64, len(meals))
	for _, row := range meals {
		mealsBy[row.MemberID] = row.Count
	}
	expensesBy := make(map[string]float64, len(expenses))
	for _, row := range expenses {
		expensesBy[row.MemberID] = row.Amount
	}
	depositsBy := make(map[string]float64, len(deposits))
	for _, row := range deposits {
		depositsBy[row.MemberID] = row.Amount
	}

	summary := Summary{Period: period, Members: make([]MemberSummary, 0, len(roster))}
	for _, row := range meals {
		summary.TotalMeals += row.Count
	}
	for _, row := range expenses {
		summary.TotalExpense += row.Amount
	}
	if summary.TotalMeals > 0 {
		summary.MealRate = summary.TotalExpense / float64(summary.TotalMeals)
	}

	for _, resident := range roster {
		memberMeals := mealsBy[resident.ID]
		cost := summary.MealRate * float64(memberMeals)
		eggs, err := s.EggBalance(ctx, resident.ID, date)
		if err != nil {
			return nil, err
		}
		summary.Members = append(summary.Members, MemberSummary{
			MemberID:  resident.ID,
			Name:      resident.Name,
			Meals:     memberMeals,
			MealCost:  cost,
			Deposits:  depositsBy[resident.ID],
			Expenses:  expensesBy[resident.ID],
			Balance:   depositsBy[resident.ID] - cost,
			EggsOwned: int(eggs),
		})
	}
	return &summary, nil
}

func (s *Service) publish(ctx context.Context, table, id string) {
	err := s.publisher.Publish(ctx, events.Event{Table: table, Op: events.OpInsert, Key: id})
	if err != nil {
		s.log.BusinessError("accounting: publish change event failed", err, "table", table, "id", id)
	}
}

func day(t time.Time) time.Time {
	year, month, d := t.Date()
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
