package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError rejects a commit without persisting anything; the draft
// stays live for correction.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (s DisplaySettings) Validate() error {
	if s.Brightness < 0 || s.Brightness > 100 {
		return &ValidationError{Field: "brightness", Message: "must be between 0 and 100"}
	}
	switch s.TextSize {
	case TextSizeSmall, TextSizeMedium, TextSizeLarge:
	default:
		return &ValidationError{Field: "text_size", Message: fmt.Sprintf("unknown value %q", s.TextSize)}
	}
	switch s.ContrastMode {
	case ContrastDefault, ContrastHighLight, ContrastHighDark:
	default:
		return &ValidationError{Field: "contrast_mode", Message: fmt.Sprintf("unknown value %q", s.ContrastMode)}
	}
	return nil
}

func (s SelectionSettings) Validate() error {
	switch s.Mode {
	case SelectionModeUnset, SelectionModeDrag, SelectionModeLongClick:
		return nil
	default:
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown value %q", s.Mode)}
	}
}

func (s ParentalSettings) Validate() error {
	if s.DailyLimitHours != "" {
		n, err := strconv.Atoi(s.DailyLimitHours)
		if err != nil || n < 0 || n > maxDailyLimitHours {
			return &ValidationError{Field: "daily_limit_hours", Message: "must be empty or 0..24"}
		}
	}
	switch s.ASDLevel {
	case ASDLevelUnset, ASDLevelHigh, ASDLevelMedium, ASDLevelLow, ASDLevelNone:
	default:
		return &ValidationError{Field: "asd_level", Message: fmt.Sprintf("unknown value %q", s.ASDLevel)}
	}
	if s.DowntimeEnabled && len(s.DowntimeDays) == 0 {
		return &ValidationError{Field: "downtime_days", Message: "select at least one day when downtime is enabled"}
	}
	seen := make(map[Weekday]bool, len(s.DowntimeDays))
	for _, day := range s.DowntimeDays {
		valid := false
		for _, known := range CanonicalWeekdays() {
			if day == known {
				valid = true
				break
			}
		}
		if !valid {
			return &ValidationError{Field: "downtime_days", Message: fmt.Sprintf("unknown day %q", day)}
		}
		if seen[day] {
			return &ValidationError{Field: "downtime_days", Message: fmt.Sprintf("duplicate day %q", day)}
		}
		seen[day] = true
	}
	if !ValidClockTime(s.DowntimeStart) {
		return &ValidationError{Field: "downtime_start", Message: "must be HH:MM"}
	}
	if !ValidClockTime(s.DowntimeEnd) {
		return &ValidationError{Field: "downtime_end", Message: "must be HH:MM"}
	}
	seenEmails := make(map[string]bool, len(s.NotifyEmails))
	for _, email := range s.NotifyEmails {
		normalized := NormalizeEmail(email)
		if !ValidEmailShape(normalized) {
			return &ValidationError{Field: "notify_emails", Message: fmt.Sprintf("malformed address %q", email)}
		}
		if seenEmails[normalized] {
			return &ValidationError{Field: "notify_emails", Message: fmt.Sprintf("duplicate address %q", email)}
		}
		seenEmails[normalized] = true
	}
	return nil
}

// Voice payloads are collaborator-owned; nothing to check here.
func (s VoiceSettings) Validate() error {
	return nil
}
