package app

import (
	"context"
	"log/slog"

	"talkpad/internal/domain"
)

// ParentalEditor wraps the parental draft with the field rules the screen
// needs: daily limit normalization, canonical day toggling, and email list
// dedup. Everything else goes through the embedded reconciler.
type ParentalEditor struct {
	*DraftReconciler[domain.ParentalSettings]
}

func NewParentalEditor(seed domain.ParentalSettings, persist func(ctx context.Context, value domain.ParentalSettings) error, logger *slog.Logger) *ParentalEditor {
	if logger == nil {
		logger = slog.Default().With("component", "app.parental_editor")
	}

	return &ParentalEditor{
		DraftReconciler: NewDraftReconciler(seed, persist, logger),
	}
}

// SetDailyLimitHours runs the raw input through the normalization rule; an
// unparsable value leaves the previous valid draft value in place.
func (e *ParentalEditor) SetDailyLimitHours(input string) {
	e.Update(func(draft *domain.ParentalSettings) {
		draft.DailyLimitHours = domain.NormalizeDailyLimit(input, draft.DailyLimitHours)
	})
}

func (e *ParentalEditor) SetBlockViolence(on bool) {
	e.Update(func(draft *domain.ParentalSettings) { draft.BlockViolence = on })
}

func (e *ParentalEditor) SetBlockInappropriate(on bool) {
	e.Update(func(draft *domain.ParentalSettings) { draft.BlockInappropriate = on })
}

func (e *ParentalEditor) SetASDLevel(level domain.ASDLevel) {
	e.Update(func(draft *domain.ParentalSettings) { draft.ASDLevel = level })
}

func (e *ParentalEditor) SetDowntimeEnabled(on bool) {
	e.Update(func(draft *domain.ParentalSettings) { draft.DowntimeEnabled = on })
}

func (e *ParentalEditor) ToggleDowntimeDay(day domain.Weekday) {
	e.Update(func(draft *domain.ParentalSettings) {
		draft.DowntimeDays = domain.ToggleDowntimeDay(draft.DowntimeDays, day)
	})
}

func (e *ParentalEditor) SetDowntimeWindow(start, end string) {
	e.Update(func(draft *domain.ParentalSettings) {
		draft.DowntimeStart = start
		draft.DowntimeEnd = end
	})
}

func (e *ParentalEditor) SetRequirePasscode(on bool) {
	e.Update(func(draft *domain.ParentalSettings) { draft.RequirePasscode = on })
}

// AddNotifyEmail reports whether the address was accepted (well-formed and not
// already present under case-insensitive comparison).
func (e *ParentalEditor) AddNotifyEmail(raw string) bool {
	var added bool
	e.Update(func(draft *domain.ParentalSettings) {
		draft.NotifyEmails, added = domain.AddNotifyEmail(draft.NotifyEmails, raw)
	})

	return added
}

func (e *ParentalEditor) RemoveNotifyEmail(raw string) bool {
	var removed bool
	e.Update(func(draft *domain.ParentalSettings) {
		draft.NotifyEmails, removed = domain.RemoveNotifyEmail(draft.NotifyEmails, raw)
	})

	return removed
}
