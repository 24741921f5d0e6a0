package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/logger"
)

// ErrNotFound is returned when no directory row exists for a chat identifier.
var ErrNotFound = errors.New("employees: not found")

// Store abstracts the backing record store for the employee directory.
type Store interface {
	Find(ctx context.Context, chatID string) (*Employee, error)
	Upsert(ctx context.Context, e *Employee) error
	List(ctx context.Context) ([]Employee, error)
}

// Service resolves chat identifiers to employee attributes and owns the
// registration upsert. Authorization markers are read-only here.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a directory service on top of a Store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Register upserts the employee row for chatID: an existing row gets a new
// name and timestamp, a new row starts with both markers blank so all
// permissions default to denied until an administrator fills them in.
func (s *Service) Register(ctx context.Context, chatID, name string) error {
	name = strings.TrimSpace(name)
	if chatID == "" || name == "" {
		return fmt.Errorf("employees: register: empty chat id or name")
	}

	if err := s.store.Upsert(ctx, &Employee{
		ChatID:    chatID,
		Name:      name,
		UpdatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("employees: register %s: %w", chatID, err)
	}

	logger.Info(ctx, "service.employees", "register",
		slog.String("status", "ok"),
		slog.String("chat_id", chatID),
	)
	return nil
}

// Resolve returns the employee row for chatID or ErrNotFound.
func (s *Service) Resolve(ctx context.Context, chatID string) (*Employee, error) {
	return s.store.Find(ctx, chatID)
}

// DisplayName returns the registered name for chatID, falling back to a
// synthetic "User-<id>" label when the chat is not registered.
func (s *Service) DisplayName(ctx context.Context, chatID string) string {
	e, err := s.store.Find(ctx, chatID)
	if err != nil || e.Name == "" {
		return "User-" + chatID
	}
	return e.Name
}

// ListManagers returns every employee carrying the manager marker.
func (s *Service) ListManagers(ctx context.Context) ([]Employee, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("employees: list managers: %w", err)
	}
	var managers []Employee
	for _, e := range all {
		if e.ChatID != "" && e.IsManager() {
			managers = append(managers, e)
		}
	}
	return managers, nil
}

// IsManager reports whether chatID belongs to a manager. Unregistered chats
// are not managers.
func (s *Service) IsManager(ctx context.Context, chatID string) (bool, error) {
	e, err := s.store.Find(ctx, chatID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.IsManager(), nil
}

// IsApproved reports whether chatID belongs to an approved employee.
// Unregistered chats are not approved.
func (s *Service) IsApproved(ctx context.Context, chatID string) (bool, error) {
	e, err := s.store.Find(ctx, chatID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.IsApproved(), nil
}
