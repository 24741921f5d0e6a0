package support

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/logger"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/format"
)

// Field length caps applied on submission.
const (
	MaxSubjectLen = 100
	MaxDetailLen  = 1000
)

// Ticket is a stored support request.
type Ticket struct {
	ID              int64     `db:"id"`
	RequesterName   string    `db:"requester_name"`
	RequesterChatID string    `db:"requester_chat_id"`
	Subject         string    `db:"subject"`
	Detail          string    `db:"detail"`
	SubmittedAt     time.Time `db:"submitted_at"`
}

// Store persists tickets. Insert fills in the assigned ID.
type Store interface {
	Insert(ctx context.Context, t *Ticket) error
}

// Service records support tickets.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a ticket service on top of a Store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Submit stores a ticket, capping field lengths, and returns it with its
// assigned ID.
func (s *Service) Submit(ctx context.Context, chatID, name, subject, detail string) (*Ticket, error) {
	if chatID == "" {
		return nil, fmt.Errorf("support: submit: empty chat id")
	}
	t := &Ticket{
		RequesterName:   name,
		RequesterChatID: chatID,
		Subject:         format.Truncate(subject, MaxSubjectLen),
		Detail:          format.Truncate(detail, MaxDetailLen),
		SubmittedAt:     s.now(),
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("support: submit: %w", err)
	}

	logger.Info(ctx, "service.support", "submit",
		slog.String("status", "ok"),
		slog.Int64("ticket_id", t.ID),
		slog.String("requester", chatID),
	)
	return t, nil
}
