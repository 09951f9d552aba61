package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mess-app-go/internal/domain/meal"
	"mess-app-go/internal/events"
	"mess-app-go/pkg/logger"

	"github.com/google/uuid"
)

const (
	DefaultRetentionDays = 30
	defaultListLimit     = 50
	maxListLimit         = 200
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	log       logger.Logger
}

func NewService(repo Repository, publisher events.Publisher, log logger.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop()
	}
	return &Service{repo: repo, publisher: publisher, log: log}
}

func (s *Service) Post(ctx context.Context, senderID, senderName, body string, mentions []string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBodyRequired
	}
	if len(body) > MaxBodyLength {
		return nil, ErrBodyTooLong
	}

	message := Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderName: senderName,
		Body:       body,
		Mentions:   dedupe(mentions),
	}
	if err := s.repo.Append(ctx, &message); err != nil {
		return nil, err
	}

	s.publish(ctx, message.ID)
	return &message, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Message, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return s.repo.List(ctx, filter)
}

// NotifyViolation appends the flagged system message that mirrors an
// after-cutoff administrative override. Implements meal.Notifier.
func (s *Service) NotifyViolation(ctx context.Context, note meal.ViolationNote) error {
	message := Message{
		ID:         uuid.NewString(),
		SenderID:   SystemSenderID,
		SenderName: "Mess Manager",
		Body:       fmt.Sprintf("%s has %s their meal after %s", note.MemberName, note.Action, note.CutoffLabel),
		Mentions:   []string{note.MemberID},
		Violation:  true,
	}
	if err := s.repo.Append(ctx, &message); err != nil {
		return err
	}

	s.publish(ctx, message.ID)
	return nil
}

// PurgeOlderThan drops messages past the retention horizon.
func (s *Service) PurgeOlderThan(ctx context.Context, horizon time.Time) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, horizon)
}

func (s *Service) publish(ctx context.Context, id string) {
	err := s.publisher.Publish(ctx, events.Event{Table: "chat_messages", Op: events.OpInsert, Key: id})
	if err != nil {
		s.log.BusinessError("chat: publish change event failed", err, "message_id", id)
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
