package clock

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// PostgresTimeSource reads the database server's wall clock, which is the
// household's shared time authority.
type PostgresTimeSource struct {
	db *gorm.DB
}

func NewPostgresTimeSource(db *gorm.DB) *PostgresTimeSource {
	return &PostgresTimeSource{db: db}
}

func (s *PostgresTimeSource) ServerTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := s.db.WithContext(ctx).Raw("SELECT now()").Scan(&now).Error; err != nil {
		return time.Time{}, err
	}
	return now.UTC(), nil
}
