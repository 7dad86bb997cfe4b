package domain

import (
	"strconv"
	"strings"
)

const maxDailyLimitHours = 24

// NormalizeDailyLimit applies the daily limit input rule: digits are kept,
// empty input stays empty, zero collapses to "0", values above 24 clamp to
// "24", and input with no digits at all keeps the previous valid value so the
// draft never adopts an unparsable intermediate string.
func NormalizeDailyLimit(input, previous string) string {
	if input == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return previous
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		// Only possible when the digit run overflows int; treat as above range.
		return strconv.Itoa(maxDailyLimitHours)
	}
	if n == 0 {
		return "0"
	}
	if n > maxDailyLimitHours {
		return strconv.Itoa(maxDailyLimitHours)
	}

	return digits.String()
}

// NormalizeEmail lowercases and trims an address for case-insensitive
// comparison and storage.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidEmailShape is a minimal structural check: one "@" with a non-empty
// local part and a dotted, non-empty host. Full RFC validation is left to the
// mail delivery collaborator.
func ValidEmailShape(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false
	}
	host := email[at+1:]
	dot := strings.IndexByte(host, '.')
	if dot <= 0 || dot == len(host)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

// AddNotifyEmail appends an address preserving case-insensitive uniqueness.
// It reports whether the list changed.
func AddNotifyEmail(list []string, raw string) ([]string, bool) {
	email := NormalizeEmail(raw)
	if !ValidEmailShape(email) {
		return list, false
	}
	for _, existing := range list {
		if NormalizeEmail(existing) == email {
			return list, false
		}
	}
	return append(list, email), true
}

// RemoveNotifyEmail removes an address by case-insensitive match and reports
// whether the list changed.
func RemoveNotifyEmail(list []string, raw string) ([]string, bool) {
	email := NormalizeEmail(raw)
	for i, existing := range list {
		if NormalizeEmail(existing) == email {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out, true
		}
	}
	return list, false
}

// ToggleDowntimeDay adds or removes a day tag, always returning the selection
// in canonical Monday-first order with no duplicates.
func ToggleDowntimeDay(days []Weekday, day Weekday) []Weekday {
	selected := make(map[Weekday]bool, len(days))
	for _, d := range days {
		selected[d] = true
	}
	selected[day] = !selected[day]

	var out []Weekday
	for _, d := range CanonicalWeekdays() {
		if selected[d] {
			out = append(out, d)
		}
	}
	return out
}

// ValidClockTime reports whether s is a well-formed 24h "HH:MM" string.
func ValidClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh, err := strconv.Atoi(s[:2])
	if err != nil || hh < 0 || hh > 23 {
		return false
	}
	mm, err := strconv.Atoi(s[3:])
	if err != nil || mm < 0 || mm > 59 {
		return false
	}
	return true
}
