package requests

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/logger"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/format"
)

// ErrNotFound is returned when no live row exists for a request number.
var ErrNotFound = errors.New("requests: not found")

// Field length caps applied on create and on decision reasons.
const (
	MaxItemLen   = 100
	MaxQtyLen    = 100
	MaxReasonLen = 300
	MaxNoteLen   = 300
)

// List ordering values for pending listings.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListOptions bounds and orders a pending listing.
type ListOptions struct {
	Order string
	Limit int
}

// Store abstracts the ledger backing store. Create assigns the request
// number; Cancel moves the row into the cancellation log atomically.
type Store interface {
	Create(ctx context.Context, r *Request) error
	Find(ctx context.Context, reqNo string) (*Request, error)
	FindCancellation(ctx context.Context, reqNo string) (*Cancellation, error)
	UpdateDecision(ctx context.Context, r *Request) error
	Cancel(ctx context.Context, reqNo string, log *Cancellation) error
	ListPending(ctx context.Context, opts ListOptions) ([]Request, error)
	ListPendingByRequester(ctx context.Context, chatID string, limit int) ([]Request, error)
	PendingCount(ctx context.Context) (int, error)
}

// OutcomeKind classifies the result of a decision or cancellation attempt.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeNotFound
	OutcomeAlreadyCanceled
	OutcomeAlreadyDecided
	OutcomeNotOwner
)

// Outcome reports how a decision attempt resolved. Request is set for
// OutcomeOK and OutcomeAlreadyDecided; Status mirrors the row status.
type Outcome struct {
	Kind    OutcomeKind
	Status  string
	Request *Request
}

// CreateInput carries the collected fields of a new purchase request.
type CreateInput struct {
	RequesterName   string
	RequesterChatID string
	Item            string
	Qty             string
	Price           int64
	Reason          string
	Note            string
}

// Service owns request numbering, decisions and cancellation over a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a ledger service on top of a Store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create inserts a pending request, capping field lengths and letting the
// store assign the next number. The returned request carries the number.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Request, error) {
	if in.RequesterChatID == "" {
		return nil, fmt.Errorf("requests: create: empty requester chat id")
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("requests: create: negative price")
	}
	r := &Request{
		RequesterName:   in.RequesterName,
		RequesterChatID: in.RequesterChatID,
		Item:            format.Truncate(in.Item, MaxItemLen),
		Qty:             format.Truncate(in.Qty, MaxQtyLen),
		Price:           in.Price,
		Reason:          format.Truncate(in.Reason, MaxReasonLen),
		Note:            format.Truncate(in.Note, MaxNoteLen),
		Status:          StatusPending,
		RequestedAt:     s.now(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("requests: create: %w", err)
	}

	logger.Info(ctx, "service.requests", "create",
		slog.String("status", "ok"),
		slog.String("req_no", r.ReqNo),
		slog.String("requester", r.RequesterChatID),
	)
	return r, nil
}

// Lookup returns the live row for reqNo, classifying misses into the
// cancellation log versus a number never issued.
func (s *Service) Lookup(ctx context.Context, reqNo string) (Outcome, error) {
	r, err := s.store.Find(ctx, reqNo)
	if errors.Is(err, ErrNotFound) {
		return s.classifyMiss(ctx, reqNo)
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeOK, Status: r.Status, Request: r}, nil
}

// Approve marks a pending request approved by actorName. A request already
// decided is reported with its current status instead of being rewritten.
func (s *Service) Approve(ctx context.Context, reqNo, actorName string) (Outcome, error) {
	return s.decide(ctx, reqNo, actorName, StatusApproved, "")
}

// Reject marks a pending request rejected by actorName with the given reason.
func (s *Service) Reject(ctx context.Context, reqNo, actorName, reason string) (Outcome, error) {
	return s.decide(ctx, reqNo, actorName, StatusRejected, format.Truncate(reason, MaxReasonLen))
}

func (s *Service) decide(ctx context.Context, reqNo, actorName, status, rejectReason string) (Outcome, error) {
	r, err := s.store.Find(ctx, reqNo)
	if errors.Is(err, ErrNotFound) {
		return s.classifyMiss(ctx, reqNo)
	}
	if err != nil {
		return Outcome{}, err
	}
	if r.Status != StatusPending {
		return Outcome{Kind: OutcomeAlreadyDecided, Status: r.Status, Request: r}, nil
	}

	decided := s.now()
	r.Status = status
	r.ActorName = actorName
	r.RejectReason = rejectReason
	r.DecidedAt = &decided
	// RequestedAt stays as originally recorded.
	if err := s.store.UpdateDecision(ctx, r); err != nil {
		return Outcome{}, fmt.Errorf("requests: decide %s: %w", reqNo, err)
	}

	logger.Info(ctx, "service.requests", "decide",
		slog.String("status", "ok"),
		slog.String("req_no", reqNo),
		slog.String("approver", actorName),
		slog.String("decision", status),
	)
	return Outcome{Kind: OutcomeOK, Status: status, Request: r}, nil
}

// Cancel removes a pending request owned by requesterChatID, recording it in
// the cancellation log so its number is never reissued.
func (s *Service) Cancel(ctx context.Context, reqNo, requesterChatID, reason string) (Outcome, error) {
	r, err := s.store.Find(ctx, reqNo)
	if errors.Is(err, ErrNotFound) {
		return s.classifyMiss(ctx, reqNo)
	}
	if err != nil {
		return Outcome{}, err
	}
	if r.RequesterChatID != requesterChatID {
		return Outcome{Kind: OutcomeNotOwner, Status: r.Status, Request: r}, nil
	}
	if r.Status != StatusPending {
		return Outcome{Kind: OutcomeAlreadyDecided, Status: r.Status, Request: r}, nil
	}

	entry := &Cancellation{
		ReqNo:           r.ReqNo,
		RequesterName:   r.RequesterName,
		RequesterChatID: r.RequesterChatID,
		Item:            r.Item,
		Qty:             r.Qty,
		Price:           r.Price,
		Reason:          format.Truncate(reason, MaxReasonLen),
		RequestedAt:     r.RequestedAt,
		CanceledAt:      s.now(),
	}
	if err := s.store.Cancel(ctx, reqNo, entry); err != nil {
		return Outcome{}, fmt.Errorf("requests: cancel %s: %w", reqNo, err)
	}

	logger.Info(ctx, "service.requests", "cancel",
		slog.String("status", "ok"),
		slog.String("req_no", reqNo),
		slog.String("requester", requesterChatID),
	)
	return Outcome{Kind: OutcomeOK, Status: StatusCanceled, Request: r}, nil
}

// classifyMiss distinguishes a canceled number from one never issued.
func (s *Service) classifyMiss(ctx context.Context, reqNo string) (Outcome, error) {
	_, err := s.store.FindCancellation(ctx, reqNo)
	if err == nil {
		return Outcome{Kind: OutcomeAlreadyCanceled, Status: StatusCanceled}, nil
	}
	if errors.Is(err, ErrNotFound) {
		return Outcome{Kind: OutcomeNotFound}, nil
	}
	return Outcome{}, err
}

// ListPending returns pending requests per opts.
func (s *Service) ListPending(ctx context.Context, opts ListOptions) ([]Request, error) {
	return s.store.ListPending(ctx, opts)
}

// ListMine returns the requester's pending requests, newest first.
func (s *Service) ListMine(ctx context.Context, requesterChatID string, limit int) ([]Request, error) {
	return s.store.ListPendingByRequester(ctx, requesterChatID, limit)
}

// PendingCount returns the number of pending requests.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	return s.store.PendingCount(ctx)
}
