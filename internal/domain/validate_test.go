package domain

import "testing"

func TestParentalSettingsValidate_DowntimeNeedsDays(t *testing.T) {
	t.Parallel()

	p := DefaultParentalSettings()
	p.DowntimeEnabled = true
	err := p.Validate()
	if err == nil {
		t.Fatalf("expected validation error for downtime with no days")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	p.DowntimeDays = []Weekday{Saturday, Sunday}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid settings, got %v", err)
	}
}

func TestParentalSettingsValidate_FieldChecks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*ParentalSettings)
	}{
		{"limit out of range", func(p *ParentalSettings) { p.DailyLimitHours = "25" }},
		{"limit not numeric", func(p *ParentalSettings) { p.DailyLimitHours = "2h" }},
		{"unknown asd level", func(p *ParentalSettings) { p.ASDLevel = "severe" }},
		{"unknown day", func(p *ParentalSettings) { p.DowntimeDays = []Weekday{"holiday"} }},
		{"duplicate day", func(p *ParentalSettings) { p.DowntimeDays = []Weekday{Monday, Monday} }},
		{"bad start time", func(p *ParentalSettings) { p.DowntimeStart = "25:00" }},
		{"bad end time", func(p *ParentalSettings) { p.DowntimeEnd = "7pm" }},
		{"malformed email", func(p *ParentalSettings) { p.NotifyEmails = []string{"nope"} }},
		{"duplicate email", func(p *ParentalSettings) {
			p.NotifyEmails = []string{"a@b.co", "A@B.CO"}
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultParentalSettings()
			tc.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDisplaySettingsValidate(t *testing.T) {
	t.Parallel()

	d := DefaultDisplaySettings()
	if err := d.Validate(); err != nil {
		t.Fatalf("default display settings must validate, got %v", err)
	}

	d.Brightness = 101
	if err := d.Validate(); err == nil {
		t.Fatalf("expected brightness range error")
	}

	d = DefaultDisplaySettings()
	d.TextSize = "huge"
	if err := d.Validate(); err == nil {
		t.Fatalf("expected text size enum error")
	}

	d = DefaultDisplaySettings()
	d.ContrastMode = "sepia"
	if err := d.Validate(); err == nil {
		t.Fatalf("expected contrast enum error")
	}
}

func TestSelectionSettingsValidate(t *testing.T) {
	t.Parallel()

	for _, mode := range []SelectionMode{SelectionModeUnset, SelectionModeDrag, SelectionModeLongClick} {
		if err := (SelectionSettings{Mode: mode}).Validate(); err != nil {
			t.Fatalf("mode %q must validate, got %v", mode, err)
		}
	}
	if err := (SelectionSettings{Mode: "double_tap"}).Validate(); err == nil {
		t.Fatalf("expected unknown mode to fail validation")
	}
}

func TestParentalSettingsClone_IsDeep(t *testing.T) {
	t.Parallel()

	p := DefaultParentalSettings()
	p.DowntimeDays = []Weekday{Monday}
	p.NotifyEmails = []string{"a@b.co"}

	clone := p.Clone()
	clone.DowntimeDays[0] = Sunday
	clone.NotifyEmails[0] = "x@y.co"

	if p.DowntimeDays[0] != Monday || p.NotifyEmails[0] != "a@b.co" {
		t.Fatalf("clone shares backing arrays with the original")
	}
}
