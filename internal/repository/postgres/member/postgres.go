package member

import (
	"context"
	"errors"

	"mess-app-go/internal/domain/cutoff"
	memberdomain "mess-app-go/internal/domain/member"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*memberdomain.Member, error) {
	var record memberdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) GetByAuthUser(ctx context.Context, authUserID string) (*memberdomain.Member, error) {
	var record memberdomain.Member
	if err := r.db.WithContext(ctx).Where("auth_user_id = ?", authUserID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]memberdomain.Member, error) {
	query := r.db.WithContext(ctx).Order("name asc")
	if activeOnly {
		query = query.Where("active = true")
	}
	var records []memberdomain.Member
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) ListAutoEnabled(ctx context.Context, period cutoff.Period) ([]memberdomain.Member, error) {
	query := r.db.WithContext(ctx).Where("active = true")
	if period == cutoff.PeriodMorning {
		query = query.Where("auto_morning = true AND auto_morning_qty > 0")
	} else {
		query = query.Where("auto_night = true AND auto_night_qty > 0")
	}
	var records []memberdomain.Member
	if err := query.Order("name asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) Create(ctx context.Context, record *memberdomain.Member) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, name, riceType string) error {
	return r.db.WithContext(ctx).Model(&memberdomain.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "rice_type": riceType}).Error
}

func (r *PostgresRepository) UpdateAutoMeal(ctx context.Context, id string, period cutoff.Period, enabled bool, quantity int) error {
	updates := map[string]interface{}{"auto_morning": enabled, "auto_morning_qty": quantity}
	if period == cutoff.PeriodNight {
		updates = map[string]interface{}{"auto_night": enabled, "auto_night_qty": quantity}
	}
	return r.db.WithContext(ctx).Model(&memberdomain.Member{}).Where("id = ?", id).Updates(updates).Error
}

func (r *PostgresRepository) UpdatePeriodBounds(ctx context.Context, id string, startDay, endDay *int) error {
	return r.db.WithContext(ctx).Model(&memberdomain.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"period_start_day": startDay, "period_end_day": endDay}).Error
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&memberdomain.Member{}).Where("id = ?", id).Update("active", active).Error
}
