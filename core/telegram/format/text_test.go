package format

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 3, "abc"},
		{"한글입력테스트", 4, "한글입력"},
		{"abc", 0, ""},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"15000", 15000, true},
		{"15,000", 15000, true},
		{" 1 500 000 ", 1500000, true},
		{"0", 0, true},
		{"15000원", 0, false},
		{"-100", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := NormalizePrice(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizePrice(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatWon(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{15000, "15,000"},
		{1234567, "1,234,567"},
	}
	for _, tc := range cases {
		if got := FormatWon(tc.in); got != tc.want {
			t.Errorf("FormatWon(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
