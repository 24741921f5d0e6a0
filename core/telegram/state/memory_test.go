package state

import "testing"

func TestMemoryManagerStateLifecycle(t *testing.T) {
	m := NewMemoryManager()

	if m.HasState(1) {
		t.Fatal("fresh manager should have no state")
	}
	if got := m.GetState(1); got != StateIdle {
		t.Fatalf("GetState = %q, want idle", got)
	}

	m.SetState(1, State("purchase_item"))
	if !m.InProgress(1) {
		t.Fatal("expected in-progress after SetState")
	}
	if m.InProgress(2) {
		t.Fatal("state must be scoped per user")
	}

	// Starting a new flow overwrites the old one: last write wins.
	m.SetState(1, State("register_name"))
	if got := m.GetState(1); got != State("register_name") {
		t.Fatalf("GetState = %q, want register_name", got)
	}

	m.ClearState(1)
	if m.HasState(1) {
		t.Fatal("ClearState should reset to idle")
	}
}

func TestMemoryManagerTempData(t *testing.T) {
	m := NewMemoryManager()

	m.SetTemp(7, "item", "종이타월")
	m.SetTemp(7, "price", int64(15000))

	if v, ok := m.GetTempString(7, "item"); !ok || v != "종이타월" {
		t.Fatalf("GetTempString = (%q, %v)", v, ok)
	}
	if v, ok := m.GetTempInt64(7, "price"); !ok || v != 15000 {
		t.Fatalf("GetTempInt64 = (%d, %v)", v, ok)
	}
	if _, ok := m.GetTempString(7, "price"); ok {
		t.Fatal("string accessor must reject non-string value")
	}
	if _, ok := m.GetTemp(8, "item"); ok {
		t.Fatal("temp data must be scoped per user")
	}

	m.ClearTemp(7, "item")
	if _, ok := m.GetTemp(7, "item"); ok {
		t.Fatal("ClearTemp should remove the key")
	}

	m.SetState(7, State("purchase_qty"))
	m.Clear(7)
	if m.HasState(7) {
		t.Fatal("Clear should drop the whole session")
	}
	if _, ok := m.GetTemp(7, "price"); ok {
		t.Fatal("Clear should drop temp data too")
	}
}
