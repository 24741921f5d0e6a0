package notify

import (
	"context"
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/sukmine0628/HYPAIKOREA-BOT/employees"
)

type fakeSender struct {
	sent    []tele.Recipient
	failFor map[string]bool
}

func (f *fakeSender) Send(to tele.Recipient, _ interface{}, _ ...interface{}) (*tele.Message, error) {
	if f.failFor[to.Recipient()] {
		return nil, errors.New("blocked by user")
	}
	f.sent = append(f.sent, to)
	return &tele.Message{}, nil
}

type fakeDir struct {
	managers []employees.Employee
}

func (f *fakeDir) ListManagers(context.Context) ([]employees.Employee, error) {
	return f.managers, nil
}

func managers(ids ...string) *fakeDir {
	d := &fakeDir{}
	for _, id := range ids {
		d.managers = append(d.managers, employees.Employee{ChatID: id, ManagerMarker: employees.ManagerMarker})
	}
	return d
}

func TestBroadcastAllDelivered(t *testing.T) {
	sender := &fakeSender{}
	n := New(managers("1", "2", "3"))
	n.SetSender(sender)

	delivered, err := n.BroadcastToManagers(context.Background(), "새 요청")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if delivered != 3 || len(sender.sent) != 3 {
		t.Fatalf("delivered = %d, sent = %d", delivered, len(sender.sent))
	}
}

func TestBroadcastPartialFailure(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"2": true}}
	n := New(managers("1", "2", "3"))
	n.SetSender(sender)

	delivered, err := n.BroadcastToManagers(context.Background(), "새 요청")
	if delivered != 2 {
		t.Fatalf("delivered = %d, want 2", delivered)
	}
	if err == nil {
		t.Fatal("expected aggregated error for the failed recipient")
	}
}

func TestBroadcastNoManagers(t *testing.T) {
	n := New(&fakeDir{})
	n.SetSender(&fakeSender{})

	delivered, err := n.BroadcastToManagers(context.Background(), "새 요청")
	if err != nil || delivered != 0 {
		t.Fatalf("delivered = %d, err = %v", delivered, err)
	}
}

func TestNotifyBeforeSenderReady(t *testing.T) {
	n := New(&fakeDir{})
	// Must not panic; the failure is logged and swallowed.
	n.Notify(context.Background(), "100", "hello")
}

func TestNotifyBadChatID(t *testing.T) {
	sender := &fakeSender{}
	n := New(&fakeDir{})
	n.SetSender(sender)

	n.Notify(context.Background(), "not-a-number", "hello")
	if len(sender.sent) != 0 {
		t.Fatal("send attempted with unparseable chat id")
	}
}
