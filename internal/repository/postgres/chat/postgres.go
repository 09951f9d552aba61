package chat

import (
	"context"
	"time"

	chatdomain "mess-app-go/internal/domain/chat"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, message *chatdomain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *PostgresRepository) List(ctx context.Context, filter chatdomain.ListFilter) ([]chatdomain.Message, error) {
	query := r.db.WithContext(ctx).Order("created_at desc").Limit(filter.Limit)
	if filter.Before != nil {
		query = query.Where("created_at < ?", *filter.Before)
	}
	var messages []chatdomain.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, horizon time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", horizon).
		Delete(&chatdomain.Message{})
	return result.RowsAffected, result.Error
}
