package chat

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, message *Message) error
	List(ctx context.Context, filter ListFilter) ([]Message, error)
	DeleteOlderThan(ctx context.Context, horizon time.Time) (int64, error)
}
