package format

import (
	"regexp"
	"strconv"
	"strings"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Truncate limits s to max runes. Byte slicing would tear multi-byte
// Hangul input, so the cut is rune-based.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// NormalizePrice strips commas and spaces from a price reply and parses it
// as a non-negative integer amount. ok is false when anything but digits
// remains after stripping.
func NormalizePrice(input string) (int64, bool) {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(input))
	if cleaned == "" || !digitsOnly.MatchString(cleaned) {
		return 0, false
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatWon renders an amount with thousands separators (15000 -> "15,000").
func FormatWon(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
