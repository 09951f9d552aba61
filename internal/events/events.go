package events

import "context"

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes a committed write the UI layer may care about. Delivery is
// at-least-once and ordering across tables is not guaranteed.
type Event struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	Key   string `json:"key"`
}

// Publisher fans committed writes out to the change-notification channel.
// Publishing is best-effort; callers log failures and move on, the stored
// row is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type noop struct{}

func Noop() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, Event) error {
	return nil
}
