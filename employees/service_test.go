package employees

import (
	"context"
	"testing"
	"time"
)

type fakeStore struct {
	rows map[string]Employee
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]Employee)}
}

func (f *fakeStore) Find(_ context.Context, chatID string) (*Employee, error) {
	e, ok := f.rows[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := e
	return &cp, nil
}

func (f *fakeStore) Upsert(_ context.Context, e *Employee) error {
	if prev, ok := f.rows[e.ChatID]; ok {
		prev.Name = e.Name
		prev.UpdatedAt = e.UpdatedAt
		f.rows[e.ChatID] = prev
		return nil
	}
	f.rows[e.ChatID] = *e
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]Employee, error) {
	out := make([]Employee, 0, len(f.rows))
	for _, e := range f.rows {
		out = append(out, e)
	}
	return out, nil
}

func TestRegisterNewAndRename(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.Register(ctx, "100", "  김철수  "); err != nil {
		t.Fatalf("register: %v", err)
	}
	e, err := svc.Resolve(ctx, "100")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if e.Name != "김철수" {
		t.Fatalf("name = %q, want trimmed", e.Name)
	}
	if e.ManagerMarker != "" || e.ApprovalMarker != "" {
		t.Fatalf("new row must start with blank markers, got %q/%q", e.ManagerMarker, e.ApprovalMarker)
	}

	// Rename must not disturb markers set out-of-band.
	store.rows["100"] = Employee{
		ChatID: "100", Name: "김철수",
		ManagerMarker: "관리자", ApprovalMarker: "승인",
		UpdatedAt: time.Now(),
	}
	if err := svc.Register(ctx, "100", "김영희"); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	e, _ = svc.Resolve(ctx, "100")
	if e.Name != "김영희" {
		t.Fatalf("name after rename = %q", e.Name)
	}
	if !e.IsManager() || !e.IsApproved() {
		t.Fatalf("markers lost on rename: %+v", e)
	}
}

func TestRegisterRejectsEmpty(t *testing.T) {
	svc := NewService(newFakeStore())
	if err := svc.Register(context.Background(), "100", "   "); err == nil {
		t.Fatal("expected error for blank name")
	}
	if err := svc.Register(context.Background(), "", "name"); err == nil {
		t.Fatal("expected error for empty chat id")
	}
}

func TestMarkerWhitespace(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"관리자", true},
		{" 관리자 ", true},
		{"관 리 자", true},
		{"관리자\t", true},
		{"", false},
		{"직원", false},
		{"관리자아님", false},
	}
	for _, c := range cases {
		e := Employee{ManagerMarker: c.raw}
		if got := e.IsManager(); got != c.want {
			t.Errorf("IsManager(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestAuthorizationForUnregistered(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	ok, err := svc.IsManager(ctx, "999")
	if err != nil || ok {
		t.Fatalf("IsManager unregistered = %v, %v", ok, err)
	}
	ok, err = svc.IsApproved(ctx, "999")
	if err != nil || ok {
		t.Fatalf("IsApproved unregistered = %v, %v", ok, err)
	}
}

func TestDisplayNameFallback(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	if got := svc.DisplayName(ctx, "42"); got != "User-42" {
		t.Fatalf("fallback name = %q", got)
	}
	store.rows["42"] = Employee{ChatID: "42", Name: "박부장"}
	if got := svc.DisplayName(ctx, "42"); got != "박부장" {
		t.Fatalf("name = %q", got)
	}
}

func TestListManagers(t *testing.T) {
	store := newFakeStore()
	store.rows["1"] = Employee{ChatID: "1", Name: "a", ManagerMarker: "관리자"}
	store.rows["2"] = Employee{ChatID: "2", Name: "b"}
	store.rows["3"] = Employee{ChatID: "3", Name: "c", ManagerMarker: " 관리자 "}
	svc := NewService(store)

	managers, err := svc.ListManagers(context.Background())
	if err != nil {
		t.Fatalf("list managers: %v", err)
	}
	if len(managers) != 2 {
		t.Fatalf("managers = %d, want 2", len(managers))
	}
	for _, m := range managers {
		if m.ChatID == "2" {
			t.Fatalf("non-manager included")
		}
	}
}
