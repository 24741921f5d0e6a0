package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		cb      *tele.Callback
		unique  string
		payload string
	}{
		{"nil", nil, "", ""},
		{"unique and payload", &tele.Callback{Data: "\\fapprove|구매-001"}, "approve", "구매-001"},
		{"no payload", &tele.Callback{Data: "\\fgo_back"}, "go_back", ""},
		{"payload with separator", &tele.Callback{Data: "\\fcancel|구매-002|extra"}, "cancel", "구매-002|extra"},
		{"no prefix", &tele.Callback{Data: "reject|구매-003"}, "reject", "구매-003"},
	}
	for _, tc := range cases {
		unique, payload := ParseCallbackData(tc.cb)
		if unique != tc.unique || payload != tc.payload {
			t.Errorf("%s: ParseCallbackData = (%q, %q), want (%q, %q)", tc.name, unique, payload, tc.unique, tc.payload)
		}
	}
}
