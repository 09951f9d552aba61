package events

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

const channel = "mess_changes"

// PostgresPublisher broadcasts events over pg_notify so realtime listeners
// subscribed to the mess_changes channel see every committed write.
type PostgresPublisher struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresPublisher {
	return &PostgresPublisher{db: db}
}

func (p *PostgresPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", channel, string(payload)).Error
}
