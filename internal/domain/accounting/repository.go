package accounting

import (
	"context"
	"time"
)

type Repository interface {
	AddEggEntry(ctx context.Context, entry *EggEntry) error
	EggTotals(ctx context.Context, memberID string, from, to time.Time) (added int64, consumed int64, err error)
	AddExpense(ctx context.Context, expense *Expense) error
	ExpenseTotals(ctx context.Context, from, to time.Time) ([]MemberAmount, error)
	AddDeposit(ctx context.Context, deposit *Deposit) error
	DepositTotals(ctx context.Context, from, to time.Time) ([]MemberAmount, error)
	MealTotals(ctx context.Context, from, to time.Time) ([]MemberCount, error)
}
