package requests

import "testing"

func TestFormatReqNo(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "구매-001"},
		{42, "구매-042"},
		{999, "구매-999"},
		{1000, "구매-1000"},
	}
	for _, c := range cases {
		if got := FormatReqNo(c.n); got != c.want {
			t.Errorf("FormatReqNo(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestParseReqNo(t *testing.T) {
	cases := []struct {
		in string
		n  int
		ok bool
	}{
		{"구매-001", 1, true},
		{"구매-042", 42, true},
		{"구매-1000", 1000, true},
		{"7", 7, true},
		{" 구매-003 ", 3, true},
		{"구매-", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		n, ok := ParseReqNo(c.in)
		if ok != c.ok || n != c.n {
			t.Errorf("ParseReqNo(%q) = %d, %v, want %d, %v", c.in, n, ok, c.n, c.ok)
		}
	}
}

func TestNormalizeReqNo(t *testing.T) {
	got, ok := NormalizeReqNo("7")
	if !ok || got != "구매-007" {
		t.Fatalf("NormalizeReqNo(7) = %q, %v", got, ok)
	}
	if _, ok := NormalizeReqNo("nope"); ok {
		t.Fatal("expected failure for non-numeric input")
	}
}

func TestIsTerminal(t *testing.T) {
	if (Request{Status: StatusPending}).IsTerminal() {
		t.Error("pending must not be terminal")
	}
	if !(Request{Status: StatusApproved}).IsTerminal() {
		t.Error("approved must be terminal")
	}
	if !(Request{Status: StatusRejected}).IsTerminal() {
		t.Error("rejected must be terminal")
	}
}
