package support

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore implements Store on the support_requests table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert stores the ticket and fills in its serial ID.
func (s *PostgresStore) Insert(ctx context.Context, t *Ticket) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO support_requests
			(requester_name, requester_chat_id, subject, detail, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.RequesterName, t.RequesterChatID, t.Subject, t.Detail, t.SubmittedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("support: insert: %w", err)
	}
	return nil
}
