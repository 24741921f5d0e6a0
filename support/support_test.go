package support

import (
	"context"
	"strings"
	"testing"
)

type fakeStore struct {
	tickets []Ticket
}

func (f *fakeStore) Insert(_ context.Context, t *Ticket) error {
	t.ID = int64(len(f.tickets) + 1)
	f.tickets = append(f.tickets, *t)
	return nil
}

func TestSubmit(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	ticket, err := svc.Submit(context.Background(), "100", "김철수", "VPN 문의", "접속이 안 됩니다")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ticket.ID != 1 {
		t.Fatalf("id = %d", ticket.ID)
	}
	if ticket.Subject != "VPN 문의" || ticket.Detail != "접속이 안 됩니다" {
		t.Fatalf("fields = %+v", ticket)
	}
	if ticket.SubmittedAt.IsZero() {
		t.Fatal("submitted_at not stamped")
	}
}

func TestSubmitTruncates(t *testing.T) {
	svc := NewService(&fakeStore{})

	ticket, err := svc.Submit(context.Background(), "100", "김철수",
		strings.Repeat("가", 200), strings.Repeat("나", 2000))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := len([]rune(ticket.Subject)); got != MaxSubjectLen {
		t.Errorf("subject runes = %d, want %d", got, MaxSubjectLen)
	}
	if got := len([]rune(ticket.Detail)); got != MaxDetailLen {
		t.Errorf("detail runes = %d, want %d", got, MaxDetailLen)
	}
}

func TestSubmitRequiresChatID(t *testing.T) {
	svc := NewService(&fakeStore{})
	if _, err := svc.Submit(context.Background(), "", "name", "s", "d"); err == nil {
		t.Fatal("expected error for empty chat id")
	}
}
