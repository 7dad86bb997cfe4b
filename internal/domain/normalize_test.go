package domain

import (
	"reflect"
	"testing"
)

func TestNormalizeDailyLimit_ClampsAndRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		previous string
		want     string
	}{
		{name: "empty stays empty", input: "", previous: "5", want: ""},
		{name: "zero padded collapses", input: "000", previous: "", want: "0"},
		{name: "above range clamps", input: "25", previous: "3", want: "24"},
		{name: "in range kept", input: "12", previous: "3", want: "12"},
		{name: "upper bound kept", input: "24", previous: "3", want: "24"},
		{name: "no digits keeps previous", input: "abc", previous: "7", want: "7"},
		{name: "no digits keeps empty previous", input: "x", previous: "", want: ""},
		{name: "mixed input keeps digits", input: "1h", previous: "", want: "1"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeDailyLimit(tc.input, tc.previous); got != tc.want {
				t.Fatalf("NormalizeDailyLimit(%q, %q) = %q, want %q", tc.input, tc.previous, got, tc.want)
			}
		})
	}
}

func TestAddNotifyEmail_DeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()

	list, added := AddNotifyEmail(nil, "Mom@Example.com")
	if !added {
		t.Fatalf("expected first address to be added")
	}
	if len(list) != 1 || list[0] != "mom@example.com" {
		t.Fatalf("unexpected list after add: %v", list)
	}

	list, added = AddNotifyEmail(list, "MOM@example.COM")
	if added {
		t.Fatalf("expected duplicate address to be rejected")
	}
	if len(list) != 1 {
		t.Fatalf("duplicate add changed the list: %v", list)
	}

	if _, added := AddNotifyEmail(list, "not-an-email"); added {
		t.Fatalf("expected malformed address to be rejected")
	}

	list, removed := RemoveNotifyEmail(list, "mom@EXAMPLE.com")
	if !removed || len(list) != 0 {
		t.Fatalf("expected case-insensitive removal, got %v", list)
	}
}

func TestToggleDowntimeDay_KeepsCanonicalOrder(t *testing.T) {
	t.Parallel()

	days := ToggleDowntimeDay(nil, Friday)
	days = ToggleDowntimeDay(days, Monday)
	days = ToggleDowntimeDay(days, Wednesday)
	want := []Weekday{Monday, Wednesday, Friday}
	if !reflect.DeepEqual(days, want) {
		t.Fatalf("expected canonical order %v, got %v", want, days)
	}

	days = ToggleDowntimeDay(days, Wednesday)
	want = []Weekday{Monday, Friday}
	if !reflect.DeepEqual(days, want) {
		t.Fatalf("expected toggle off to remove day, got %v", days)
	}
}

func TestValidClockTime(t *testing.T) {
	t.Parallel()

	valid := []string{"00:00", "07:30", "23:59"}
	for _, s := range valid {
		if !ValidClockTime(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "7:30", "24:00", "12:60", "12-30", "ab:cd"}
	for _, s := range invalid {
		if ValidClockTime(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
