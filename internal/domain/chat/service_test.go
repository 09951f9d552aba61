package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mess-app-go/internal/domain/cutoff"
	"mess-app-go/internal/domain/meal"
	"mess-app-go/pkg/logger"
)

type fakeChatRepo struct {
	messages []Message
}

func (r *fakeChatRepo) Append(ctx context.Context, message *Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeChatRepo) List(ctx context.Context, filter ListFilter) ([]Message, error) {
	result := make([]Message, 0)
	for i := len(r.messages) - 1; i >= 0; i-- {
		message := r.messages[i]
		if filter.Before != nil && !message.CreatedAt.Before(*filter.Before) {
			continue
		}
		result = append(result, message)
		if len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *fakeChatRepo) DeleteOlderThan(ctx context.Context, horizon time.Time) (int64, error) {
	kept := r.messages[:0]
	var deleted int64
	for _, message := range r.messages {
		if message.CreatedAt.Before(horizon) {
			deleted++
			continue
		}
		kept = append(kept, message)
	}
	r.messages = kept
	return deleted, nil
}

func TestPostMessage(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewService(repo, nil, logger.Noop())

	message, err := svc.Post(context.Background(), "m-1", "Asha", "  anyone up for eggs?  ", []string{"m-2", "m-2", " "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if message.Body != "anyone up for eggs?" {
		t.Fatalf("expected trimmed body, got %q", message.Body)
	}
	if len(message.Mentions) != 1 || message.Mentions[0] != "m-2" {
		t.Fatalf("expected deduped mentions, got %v", message.Mentions)
	}
	if message.Violation {
		t.Fatalf("expected ordinary message, got violation flag")
	}
}

func TestPostEmptyBody(t *testing.T) {
	svc := NewService(&fakeChatRepo{}, nil, logger.Noop())
	if _, err := svc.Post(context.Background(), "m-1", "Asha", "   ", nil); !errors.Is(err, ErrBodyRequired) {
		t.Fatalf("expected ErrBodyRequired, got %v", err)
	}
}

func TestPostBodyTooLong(t *testing.T) {
	svc := NewService(&fakeChatRepo{}, nil, logger.Noop())
	body := strings.Repeat("x", MaxBodyLength+1)
	if _, err := svc.Post(context.Background(), "m-1", "Asha", body, nil); !errors.Is(err, ErrBodyTooLong) {
		t.Fatalf("expected ErrBodyTooLong, got %v", err)
	}
}

func TestNotifyViolation(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewService(repo, nil, logger.Noop())

	err := svc.NotifyViolation(context.Background(), meal.ViolationNote{
		MemberID:    "m-1",
		MemberName:  "Asha",
		Action:      meal.ActionRemoved,
		Period:      cutoff.PeriodNight,
		CutoffLabel: "6:00 PM",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(repo.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(repo.messages))
	}
	message := repo.messages[0]
	if !message.Violation {
		t.Fatalf("expected violation flag set")
	}
	if message.SenderID != SystemSenderID {
		t.Fatalf("expected system sender, got %q", message.SenderID)
	}
	if message.Body != "Asha has removed their meal after 6:00 PM" {
		t.Fatalf("unexpected body %q", message.Body)
	}
	if len(message.Mentions) != 1 || message.Mentions[0] != "m-1" {
		t.Fatalf("expected member mentioned, got %v", message.Mentions)
	}
}

func TestListClampsLimit(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewService(repo, nil, logger.Noop())
	for i := 0; i < 10; i++ {
		if _, err := svc.Post(context.Background(), "m-1", "Asha", "hello", nil); err != nil {
			t.Fatalf("seed post failed: %v", err)
		}
	}

	messages, err := svc.List(context.Background(), ListFilter{Limit: 0})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(messages) != 10 {
		t.Fatalf("expected all 10 under the default limit, got %d", len(messages))
	}

	messages, err = svc.List(context.Background(), ListFilter{Limit: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected limit 3 respected, got %d", len(messages))
	}
}

func TestPurgeOlderThan(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewService(repo, nil, logger.Noop())

	old := Message{ID: "old", SenderID: "m-1", SenderName: "Asha", Body: "old", CreatedAt: time.Now().Add(-31 * 24 * time.Hour)}
	repo.messages = append(repo.messages, old)
	if _, err := svc.Post(context.Background(), "m-1", "Asha", "fresh", nil); err != nil {
		t.Fatalf("seed post failed: %v", err)
	}

	deleted, err := svc.PurgeOlderThan(context.Background(), time.Now().Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one purged message, got %d", deleted)
	}
	if len(repo.messages) != 1 || repo.messages[0].Body != "fresh" {
		t.Fatalf("expected only the fresh message to remain")
	}
}
