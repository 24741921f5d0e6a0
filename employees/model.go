package employees

import (
	"strings"
	"time"
)

// Marker values recognized in the directory. They are stored as free text
// (spreadsheet heritage), so comparison strips incidental whitespace.
const (
	// ManagerMarker grants the right to approve and reject purchase requests.
	ManagerMarker = "관리자"
	// ApprovalMarker grants access to the purchase and support menus.
	// It is set by an administrator out-of-band, never by the bot itself.
	ApprovalMarker = "승인"
)

// Employee is a directory row keyed by Telegram chat identifier.
type Employee struct {
	ChatID         string    `db:"chat_id"`
	Name           string    `db:"name"`
	ManagerMarker  string    `db:"manager_marker"`
	ApprovalMarker string    `db:"approval_marker"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// IsManager reports whether the row carries the manager marker.
func (e Employee) IsManager() bool {
	return markerMatches(e.ManagerMarker, ManagerMarker)
}

// IsApproved reports whether the row carries the approval marker.
func (e Employee) IsApproved() bool {
	return markerMatches(e.ApprovalMarker, ApprovalMarker)
}

func markerMatches(raw, want string) bool {
	return strings.Join(strings.Fields(raw), "") == want
}
