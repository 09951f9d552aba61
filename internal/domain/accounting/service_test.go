package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"mess-app-go/internal/domain/member"
	"mess-app-go/pkg/logger"
)

type fakeAccountingRepo struct {
	eggs     []EggEntry
	expenses []Expense
	deposits []Deposit
	meals    map[string]int64
}

func newFakeAccountingRepo() *fakeAccountingRepo {
	return &fakeAccountingRepo{meals: make(map[string]int64)}
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

func (r *fakeAccountingRepo) AddEggEntry(ctx context.Context, entry *EggEntry) error {
	r.eggs = append(r.eggs, *entry)
	return nil
}

func (r *fakeAccountingRepo) EggTotals(ctx context.Context, memberID string, from, to time.Time) (int64, int64, error) {
	var added, consumed int64
	for _, entry := range r.eggs {
		if entry.MemberID != memberID || !inRange(entry.Date, from, to) {
			continue
		}
		added += int64(entry.Added)
		consumed += int64(entry.Consumed)
	}
	return added, consumed, nil
}

func (r *fakeAccountingRepo) AddExpense(ctx context.Context, expense *Expense) error {
	r.expenses = append(r.expenses, *expense)
	return nil
}

func (r *fakeAccountingRepo) ExpenseTotals(ctx context.Context, from, to time.Time) ([]MemberAmount, error) {
	totals := make(map[string]float64)
	for _, expense := range r.expenses {
		if inRange(expense.Date, from, to) {
			totals[expense.MemberID] += expense.Amount
		}
	}
	result := make([]MemberAmount, 0, len(totals))
	for id, amount := range totals {
		result = append(result, MemberAmount{MemberID: id, Amount: amount})
	}
	return result, nil
}

func (r *fakeAccountingRepo) AddDeposit(ctx context.Context, deposit *Deposit) error {
	r.deposits = append(r.deposits, *deposit)
	return nil
}

func (r *fakeAccountingRepo) DepositTotals(ctx context.Context, from, to time.Time) ([]MemberAmount, error) {
	totals := make(map[string]float64)
	for _, deposit := range r.deposits {
		if inRange(deposit.Date, from, to) {
			totals[deposit.MemberID] += deposit.Amount
		}
	}
	result := make([]MemberAmount, 0, len(totals))
	for id, amount := range totals {
		result = append(result, MemberAmount{MemberID: id, Amount: amount})
	}
	return result, nil
}

func (r *fakeAccountingRepo) MealTotals(ctx context.Context, from, to time.Time) ([]MemberCount, error) {
	result := make([]MemberCount, 0, len(r.meals))
	for id, count := range r.meals {
		result = append(result, MemberCount{MemberID: id, Count: count})
	}
	return result, nil
}

type fakeRoster struct {
	members map[string]*member.Member
}

func newFakeRoster(members ...*member.Member) *fakeRoster {
	r := &fakeRoster{members: make(map[string]*member.Member)}
	for _, record := range members {
		r.members[record.ID] = record
	}
	return r
}

func (r *fakeRoster) Get(ctx context.Context, id string) (*member.Member, error) {
	record, ok := r.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return record, nil
}

func (r *fakeRoster) List(ctx context.Context, activeOnly bool) ([]member.Member, error) {
	result := make([]member.Member, 0, len(r.members))
	for _, record := range r.members {
		if activeOnly && !record.Active {
			continue
		}
		result = append(result, *record)
	}
	return result, nil
}

func TestPeriodForDefaultCycle(t *testing.T) {
	period := PeriodFor(time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC), 6, 0)
	if !period.Start.Equal(time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start Oct 6, got %v", period.Start)
	}
	if !period.End.Equal(time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end Nov 5, got %v", period.End)
	}
}

func TestPeriodForBeforeBoundary(t *testing.T) {
	period := PeriodFor(time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC), 6, 0)
	if !period.Start.Equal(time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start Sep 6, got %v", period.Start)
	}
	if !period.End.Equal(time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end Oct 5, got %v", period.End)
	}
}

func TestPeriodForCustomEndDay(t *testing.T) {
	period := PeriodFor(time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC), 10, 8)
	if !period.Start.Equal(time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start Oct 10, got %v", period.Start)
	}
	if !period.End.Equal(time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end Nov 8, got %v", period.End)
	}
}

func TestPeriodContains(t *testing.T) {
	period := PeriodFor(time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC), 6, 0)
	if !period.Contains(time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start day contained")
	}
	if !period.Contains(time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end day contained")
	}
	if period.Contains(time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected next cycle excluded")
	}
}

func TestEggBalance(t *testing.T) {
	repo := newFakeAccountingRepo()
	roster := newFakeRoster(&member.Member{ID: "m-1", Name: "Asha", Active: true})
	svc := NewService(repo, roster, 6, nil, logger.Noop())

	date := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	if err := svc.AddEggs(context.Background(), "m-1", date, 12); err != nil {
		t.Fatalf("add eggs failed: %v", err)
	}
	if err := svc.ConsumeEggs(context.Background(), "m-1", date, 4); err != nil {
		t.Fatalf("consume eggs failed: %v", err)
	}

	balance, err := svc.EggBalance(context.Background(), "m-1", date)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 8 {
		t.Fatalf("expected balance 8, got %d", balance)
	}
}

func TestConsumeEggsInsufficient(t *testing.T) {
	repo := newFakeAccountingRepo()
	roster := newFakeRoster(&member.Member{ID: "m-1", Name: "Asha", Active: true})
	svc := NewService(repo, roster, 6, nil, logger.Noop())

	date := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	if err := svc.AddEggs(context.Background(), "m-1", date, 2); err != nil {
		t.Fatalf("add eggs failed: %v", err)
	}
	if err := svc.ConsumeEggs(context.Background(), "m-1", date, 5); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("expected ErrInsufficient, got %v", err)
	}
}

func TestEggBalanceResetsAcrossPeriods(t *testing.T) {
	repo := newFakeAccountingRepo()
	roster := newFakeRoster(&member.Member{ID: "m-1", Name: "Asha", Active: true})
	svc := NewService(repo, roster, 6, nil, logger.Noop())

	previous := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	if err := svc.AddEggs(context.Background(), "m-1", previous, 12); err != nil {
		t.Fatalf("add eggs failed: %v", err)
	}

	balance, err := svc.EggBalance(context.Background(), "m-1", time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected previous period excluded, got %d", balance)
	}
}

func TestAmountValidation(t *testing.T) {
	repo := newFakeAccountingRepo()
	roster := newFakeRoster(&member.Member{ID: "m-1", Name: "Asha", Active: true})
	svc := NewService(repo, roster, 6, nil, logger.Noop())

	date := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	if err := svc.AddExpense(context.Background(), "m-1", date, 0, "rice"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := svc.AddDeposit(context.Background(), "m-1", date, -10); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := svc.AddEggs(context.Background(), "m-1", date, 0); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestPeriodSummary(t *testing.T) {
	repo := newFakeAccountingRepo()
	roster := newFakeRoster(
		&member.Member{ID: "m-1", Name: "Asha", Active: true},
		&member.Member{ID: "m-2", Name: "Badal", Active: true},
	)
	svc := NewService(repo, roster, 6, nil, logger.Noop())

	date := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	repo.meals["m-1"] = 30
	repo.meals["m-2"] = 10
	if err := svc.AddExpense(context.Background(), "m-1", date, 4000, "groceries"); err != nil {
		t.Fatalf("add expense failed: %v", err)
	}
	if err := svc.AddDeposit(context.Background(), "m-1", date, 3500); err != nil {
		t.Fatalf("add deposit failed: %v", err)
	}
	if err := svc.AddDeposit(context.Background(), "m-2", date, 500); err != nil {
		t.Fatalf("add deposit failed: %v", err)
	}

	summary, err := svc.PeriodSummary(context.Background(), date)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalMeals != 40 {
		t.Fatalf("expected 40 meals, got %d", summary.TotalMeals)
	}
	if summary.MealRate != 100 {
		t.Fatalf("expected meal rate 100, got %f", summary.MealRate)
	}

	byID := make(map[string]MemberSummary)
	for _, row := range summary.Members {
		byID[row.MemberID] = row
	}
	if byID["m-1"].Balance != 500 {
		t.Fatalf("expected m-1 balance 500, got %f", byID["m-1"].Balance)
	}
	if byID["m-2"].Balance != -500 {
		t.Fatalf("expected m-2 balance -500, got %f", byID["m-2"].Balance)
	}
}

func TestMemberPeriodOverride(t *testing.T) {
	start := 10
	repo := newFakeAccountingRepo()
	roster := newFakeRoster(&member.Member{ID: "m-1", Name: "Asha", Active: true, PeriodStartDay: &start})
	svc := NewService(repo, roster, 6, nil, logger.Noop())

	period, err := svc.MemberPeriod(context.Background(), "m-1", time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("member period failed: %v", err)
	}
	if !period.Start.Equal(time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected custom start Oct 10, got %v", period.Start)
	}
}
