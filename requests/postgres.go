package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// reqNoLockKey serializes request number allocation across bot instances.
const reqNoLockKey = 7231001

const requestColumns = `req_no, requester_name, requester_chat_id, item, qty, price,
	reason, note, status, actor_name, reject_reason, requested_at, decided_at`

// PostgresStore implements Store on the purchase_requests and
// purchase_cancellations tables.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create allocates the next request number and inserts the row in one
// transaction. The advisory lock makes allocation safe under concurrent
// submissions; the max spans the cancellation log too so numbers freed by
// cancellation are never reissued.
func (s *PostgresStore) Create(ctx context.Context, r *Request) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, reqNoLockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	var next int
	err = tx.GetContext(ctx, &next, `
		SELECT COALESCE(MAX(n), 0) + 1 FROM (
			SELECT CAST(substring(req_no from '[0-9]+$') AS INTEGER) AS n
			FROM purchase_requests
			UNION ALL
			SELECT CAST(substring(req_no from '[0-9]+$') AS INTEGER)
			FROM purchase_cancellations
		) nums`)
	if err != nil {
		return fmt.Errorf("next number: %w", err)
	}
	r.ReqNo = FormatReqNo(next)

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO purchase_requests (`+requestColumns+`)
		VALUES (:req_no, :requester_name, :requester_chat_id, :item, :qty, :price,
			:reason, :note, :status, :actor_name, :reject_reason, :requested_at, :decided_at)`, r)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.ReqNo, err)
	}
	return tx.Commit()
}

// Find returns the live row for reqNo or ErrNotFound.
func (s *PostgresStore) Find(ctx context.Context, reqNo string) (*Request, error) {
	var r Request
	err := s.db.GetContext(ctx, &r, `
		SELECT `+requestColumns+`
		FROM purchase_requests
		WHERE req_no = $1`, reqNo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", reqNo, err)
	}
	return &r, nil
}

// FindCancellation returns the cancellation log entry for reqNo or ErrNotFound.
func (s *PostgresStore) FindCancellation(ctx context.Context, reqNo string) (*Cancellation, error) {
	var c Cancellation
	err := s.db.GetContext(ctx, &c, `
		SELECT req_no, requester_name, requester_chat_id, item, qty, price,
			reason, requested_at, canceled_at
		FROM purchase_cancellations
		WHERE req_no = $1`, reqNo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cancellation %s: %w", reqNo, err)
	}
	return &c, nil
}

// UpdateDecision persists the decision fields of an already loaded row.
// The original request timestamp is left untouched.
func (s *PostgresStore) UpdateDecision(ctx context.Context, r *Request) error {
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE purchase_requests
		SET status = :status, actor_name = :actor_name,
			reject_reason = :reject_reason, decided_at = :decided_at
		WHERE req_no = :req_no`, r)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.ReqNo, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Cancel writes the log entry and deletes the live row atomically.
func (s *PostgresStore) Cancel(ctx context.Context, reqNo string, log *Cancellation) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO purchase_cancellations
			(req_no, requester_name, requester_chat_id, item, qty, price,
				reason, requested_at, canceled_at)
		VALUES (:req_no, :requester_name, :requester_chat_id, :item, :qty, :price,
			:reason, :requested_at, :canceled_at)`, log)
	if err != nil {
		return fmt.Errorf("log %s: %w", reqNo, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM purchase_requests WHERE req_no = $1`, reqNo)
	if err != nil {
		return fmt.Errorf("delete %s: %w", reqNo, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ListPending returns pending rows ordered and bounded per opts.
func (s *PostgresStore) ListPending(ctx context.Context, opts ListOptions) ([]Request, error) {
	order := "DESC"
	if opts.Order == OrderAsc {
		order = "ASC"
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	var out []Request
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+requestColumns+`
		FROM purchase_requests
		WHERE status = $1
		ORDER BY requested_at `+order+`
		LIMIT $2`, StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return out, nil
}

// ListPendingByRequester returns the requester's pending rows, newest first.
func (s *PostgresStore) ListPendingByRequester(ctx context.Context, chatID string, limit int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []Request
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+requestColumns+`
		FROM purchase_requests
		WHERE requester_chat_id = $1 AND status = $2
		ORDER BY requested_at DESC
		LIMIT $3`, chatID, StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list by requester: %w", err)
	}
	return out, nil
}

// PendingCount returns the number of pending rows.
func (s *PostgresStore) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM purchase_requests WHERE status = $1`, StatusPending)
	if err != nil {
		return 0, fmt.Errorf("pending count: %w", err)
	}
	return n, nil
}
