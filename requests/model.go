package requests

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Request status values. These exact strings are stored and shown to users.
const (
	StatusPending  = "대기중"
	StatusApproved = "승인"
	StatusRejected = "반려"
	StatusCanceled = "취소"
)

// ReqNoPrefix prefixes every request number, e.g. 구매-001.
const ReqNoPrefix = "구매-"

// Request is a purchase request row keyed by its request number.
type Request struct {
	ReqNo           string     `db:"req_no"`
	RequesterName   string     `db:"requester_name"`
	RequesterChatID string     `db:"requester_chat_id"`
	Item            string     `db:"item"`
	Qty             string     `db:"qty"`
	Price           int64      `db:"price"`
	Reason          string     `db:"reason"`
	Note            string     `db:"note"`
	Status          string     `db:"status"`
	ActorName       string     `db:"actor_name"`
	RejectReason    string     `db:"reject_reason"`
	RequestedAt     time.Time  `db:"requested_at"`
	DecidedAt       *time.Time `db:"decided_at"`
}

// Cancellation records a request removed from the live ledger. It keeps the
// full snapshot of the row (item, quantity, price, original request time)
// because the live row is deleted in the same transaction. Numbers that
// appear here are never handed out again.
type Cancellation struct {
	ReqNo           string    `db:"req_no"`
	RequesterName   string    `db:"requester_name"`
	RequesterChatID string    `db:"requester_chat_id"`
	Item            string    `db:"item"`
	Qty             string    `db:"qty"`
	Price           int64     `db:"price"`
	Reason          string    `db:"reason"`
	RequestedAt     time.Time `db:"requested_at"`
	CanceledAt      time.Time `db:"canceled_at"`
}

// IsTerminal reports whether the request has reached a final decision.
func (r Request) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// FormatReqNo renders a sequence number as a request number, zero padded to
// three digits but growing past 999 without truncation.
func FormatReqNo(n int) string {
	return fmt.Sprintf("%s%03d", ReqNoPrefix, n)
}

// ParseReqNo extracts the numeric suffix from a request number. It accepts a
// bare number too, so callback payloads may carry either form.
func ParseReqNo(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ReqNoPrefix)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NormalizeReqNo canonicalizes a request number or bare sequence string into
// prefixed padded form.
func NormalizeReqNo(s string) (string, bool) {
	n, ok := ParseReqNo(s)
	if !ok {
		return "", false
	}
	return FormatReqNo(n), true
}
