package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore implements Store on the employees table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Find returns the row for chatID or ErrNotFound.
func (s *PostgresStore) Find(ctx context.Context, chatID string) (*Employee, error) {
	var e Employee
	err := s.db.GetContext(ctx, &e, `
		SELECT chat_id, name, manager_marker, approval_marker, updated_at
		FROM employees
		WHERE chat_id = $1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("employees: find %s: %w", chatID, err)
	}
	return &e, nil
}

// Upsert inserts the row or refreshes name and timestamp of an existing one.
// Authorization markers are deliberately left untouched on conflict; they are
// edited out-of-band by an administrator.
func (s *PostgresStore) Upsert(ctx context.Context, e *Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (chat_id, name, manager_marker, approval_marker, updated_at)
		VALUES ($1, $2, '', '', $3)
		ON CONFLICT (chat_id) DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`,
		e.ChatID, e.Name, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("employees: upsert %s: %w", e.ChatID, err)
	}
	return nil
}

// List returns every directory row.
func (s *PostgresStore) List(ctx context.Context) ([]Employee, error) {
	var all []Employee
	err := s.db.SelectContext(ctx, &all, `
		SELECT chat_id, name, manager_marker, approval_marker, updated_at
		FROM employees
		ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("employees: list: %w", err)
	}
	return all, nil
}
