package domain

import "encoding/json"

// SettingsDomain identifies one independently persisted settings group.
type SettingsDomain string

const (
	DomainDisplay       SettingsDomain = "display"
	DomainSelectionMode SettingsDomain = "selection_mode"
	DomainParental      SettingsDomain = "parental"
	DomainVoice         SettingsDomain = "voice"
)

func AllDomains() []SettingsDomain {
	return []SettingsDomain{DomainDisplay, DomainSelectionMode, DomainParental, DomainVoice}
}

func (d SettingsDomain) Valid() bool {
	switch d {
	case DomainDisplay, DomainSelectionMode, DomainParental, DomainVoice:
		return true
	default:
		return false
	}
}

// Protected reports whether entry into the domain's screen is gated behind the
// passcode challenge when parental settings require one.
func (d SettingsDomain) Protected() bool {
	return d == DomainParental
}

// TextSize selects the app-wide text scale.
type TextSize string

const (
	TextSizeSmall  TextSize = "small"
	TextSizeMedium TextSize = "medium"
	TextSizeLarge  TextSize = "large"
)

// ContrastMode selects the color contrast profile.
type ContrastMode string

const (
	ContrastDefault   ContrastMode = "default"
	ContrastHighLight ContrastMode = "high_contrast_light"
	ContrastHighDark  ContrastMode = "high_contrast_dark"
)

// DisplaySettings stores appearance preferences. The brightness lock toggle on
// the display screen is UI-local and intentionally absent here.
type DisplaySettings struct {
	Brightness      int          `json:"brightness"`
	TextSize        TextSize     `json:"text_size"`
	DarkModeEnabled bool         `json:"dark_mode_enabled"`
	ContrastMode    ContrastMode `json:"contrast_mode"`
}

// SelectionMode is how the user picks a symbol on the board. Empty means the
// user never chose one and the app falls back to its built-in behavior.
type SelectionMode string

const (
	SelectionModeUnset     SelectionMode = ""
	SelectionModeDrag      SelectionMode = "drag"
	SelectionModeLongClick SelectionMode = "long_click"
)

// SelectionSettings wraps the selection mode into a persisted record.
type SelectionSettings struct {
	Mode SelectionMode `json:"mode"`
}

// ASDLevel is the caregiver-reported support level. Empty means not set.
type ASDLevel string

const (
	ASDLevelUnset  ASDLevel = ""
	ASDLevelHigh   ASDLevel = "high"
	ASDLevelMedium ASDLevel = "medium"
	ASDLevelLow    ASDLevel = "low"
	ASDLevelNone   ASDLevel = "no_asd"
)

// Weekday is a downtime schedule day tag.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// CanonicalWeekdays returns the Monday-first ordering used everywhere downtime
// days are stored or displayed.
func CanonicalWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParentalSettings stores the caregiver-facing restrictions.
//
// RequirePasscode true is only meaningful while a credential exists in the
// vault; ReconcileParental forces it off when it does not.
type ParentalSettings struct {
	BlockViolence      bool      `json:"block_violence"`
	BlockInappropriate bool      `json:"block_inappropriate"`
	DailyLimitHours    string    `json:"daily_limit_hours"`
	ASDLevel           ASDLevel  `json:"asd_level,omitempty"`
	DowntimeEnabled    bool      `json:"downtime_enabled"`
	DowntimeDays       []Weekday `json:"downtime_days,omitempty"`
	DowntimeStart      string    `json:"downtime_start"`
	DowntimeEnd        string    `json:"downtime_end"`
	RequirePasscode    bool      `json:"require_passcode"`
	NotifyEmails       []string  `json:"notify_emails,omitempty"`
}

// VoiceSettings is owned by the speech collaborator; the settings core only
// round-trips the payload.
type VoiceSettings struct {
	Payload json.RawMessage `json:"payload,omitempty"`
}

func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		Brightness:      80,
		TextSize:        TextSizeMedium,
		DarkModeEnabled: false,
		ContrastMode:    ContrastDefault,
	}
}

func DefaultSelectionSettings() SelectionSettings {
	return SelectionSettings{Mode: SelectionModeUnset}
}

func DefaultParentalSettings() ParentalSettings {
	return ParentalSettings{
		BlockViolence:      true,
		BlockInappropriate: true,
		DailyLimitHours:    "",
		ASDLevel:           ASDLevelUnset,
		DowntimeEnabled:    false,
		DowntimeStart:      "20:00",
		DowntimeEnd:        "07:00",
		RequirePasscode:    false,
	}
}

func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{}
}

func (s DisplaySettings) Clone() DisplaySettings {
	return s
}

func (s SelectionSettings) Clone() SelectionSettings {
	return s
}

func (s ParentalSettings) Clone() ParentalSettings {
	out := s
	if s.DowntimeDays != nil {
		out.DowntimeDays = make([]Weekday, len(s.DowntimeDays))
		copy(out.DowntimeDays, s.DowntimeDays)
	}
	if s.NotifyEmails != nil {
		out.NotifyEmails = make([]string, len(s.NotifyEmails))
		copy(out.NotifyEmails, s.NotifyEmails)
	}
	return out
}

func (s VoiceSettings) Clone() VoiceSettings {
	out := s
	if s.Payload != nil {
		out.Payload = make(json.RawMessage, len(s.Payload))
		copy(out.Payload, s.Payload)
	}
	return out
}
