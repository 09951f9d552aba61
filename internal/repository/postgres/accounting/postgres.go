package accounting

import (
	"context"
	"time"

	accountingdomain "mess-app-go/internal/domain/accounting"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddEggEntry(ctx context.Context, entry *accountingdomain.EggEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) EggTotals(ctx context.Context, memberID string, from, to time.Time) (int64, int64, error) {
	type totals struct {
		Added    int64
		Consumed int64
	}
	var row totals
	err := r.db.WithContext(ctx).
		Model(&accountingdomain.EggEntry{}).
		Select("COALESCE(SUM(added), 0) AS added, COALESCE(SUM(consumed), 0) AS consumed").
		Where("member_id = ? AND date BETWEEN ? AND ?", memberID, from, to).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Added, row.Consumed, nil
}

func (r *PostgresRepository) AddExpense(ctx context.Context, expense *accountingdomain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *PostgresRepository) ExpenseTotals(ctx context.Context, from, to time.Time) ([]accountingdomain.MemberAmount, error) {
	var rows []accountingdomain.MemberAmount
	err := r.db.WithContext(ctx).
		Model(&accountingdomain.Expense{}).
		Select("member_id, SUM(amount) AS amount").
		Where("date BETWEEN ? AND ?", from, to).
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) AddDeposit(ctx context.Context, deposit *accountingdomain.Deposit) error {
	return r.db.WithContext(ctx).Create(deposit).Error
}

func (r *PostgresRepository) DepositTotals(ctx context.Context, from, to time.Time) ([]accountingdomain.MemberAmount, error) {
	var rows []accountingdomain.MemberAmount
	err := r.db.WithContext(ctx).
		Model(&accountingdomain.Deposit{}).
		Select("member_id, SUM(amount) AS amount").
		Where("date BETWEEN ? AND ?", from, to).
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) MealTotals(ctx context.Context, from, to time.Time) ([]accountingdomain.MemberCount, error) {
	var rows []accountingdomain.MemberCount
	err := r.db.WithContext(ctx).
		Table("meal_registrations").
		Select("member_id, SUM(quantity) AS count").
		Where("date BETWEEN ? AND ?", from, to).
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
