package meal

import (
	"context"
	"errors"
	"time"

	"mess-app-go/internal/domain/cutoff"
	mealdomain "mess-app-go/internal/domain/meal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(mealdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Get(ctx context.Context, memberID string, date time.Time, period cutoff.Period) (*mealdomain.Registration, error) {
	var record mealdomain.Registration
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND date = ? AND period = ?", memberID, date, period).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mealdomain.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListByDate(ctx context.Context, date time.Time) ([]mealdomain.Registration, error) {
	var records []mealdomain.Registration
	if err := r.db.WithContext(ctx).Where("date = ?", date).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) ListByMemberRange(ctx context.Context, memberID string, from, to time.Time) ([]mealdomain.Registration, error) {
	var records []mealdomain.Registration
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND date BETWEEN ? AND ?", memberID, from, to).
		Order("date asc, period asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Upsert overwrites the quantity when the (member, date, period) row already
// exists. Pre-cutoff member writes rely on this being a plain last-write-wins
// update.
func (r *PostgresRepository) Upsert(ctx context.Context, registration *mealdomain.Registration) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}, {Name: "date"}, {Name: "period"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   registration.Quantity,
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(registration).Error
}

// InsertIfAbsent maps ConflictSkip onto ON CONFLICT DO NOTHING: the
// uniqueness constraint arbitrates races, and a skipped insert reports false
// rather than an error.
func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, registration *mealdomain.Registration, policy mealdomain.ConflictPolicy) (bool, error) {
	if policy != mealdomain.ConflictSkip {
		return false, errors.New("unsupported conflict policy")
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "date"}, {Name: "period"}},
		DoNothing: true,
	}).Create(registration)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ClearPeriod(ctx context.Context, date time.Time, period cutoff.Period) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("date = ? AND period = ?", date, period).
		Delete(&mealdomain.Registration{})
	return result.RowsAffected, result.Error
}
