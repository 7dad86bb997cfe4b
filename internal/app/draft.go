package app

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// settingsRecord is what a draft-managed record must provide: deep copies and
// commit-time validation.
type settingsRecord[T any] interface {
	Clone() T
	Validate() error
}

// CloseDecision tells the owning screen how to resolve a close attempt.
type CloseDecision int

const (
	// CloseNow means the screen has no unsaved changes and may close immediately.
	CloseNow CloseDecision = iota
	// ConfirmDiscard means unsaved changes exist; the screen must offer
	// discard-and-close or cancel before dismissing.
	ConfirmDiscard
)

// DraftReconciler tracks one screen's in-progress edit against the last
// committed value. Original only advances after a successful persist, so a
// failed save always leaves the draft live for retry.
type DraftReconciler[T settingsRecord[T]] struct {
	mu       sync.Mutex
	original T
	draft    T
	persist  func(ctx context.Context, value T) error
	logger   *slog.Logger
}

func NewDraftReconciler[T settingsRecord[T]](seed T, persist func(ctx context.Context, value T) error, logger *slog.Logger) *DraftReconciler[T] {
	if logger == nil {
		logger = slog.Default().With("component", "app.draft")
	}

	return &DraftReconciler[T]{
		original: seed.Clone(),
		draft:    seed.Clone(),
		persist:  persist,
		logger:   logger,
	}
}

// Original returns a copy of the last committed value.
func (d *DraftReconciler[T]) Original() T {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.original.Clone()
}

// Draft returns a copy of the in-progress value.
func (d *DraftReconciler[T]) Draft() T {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.draft.Clone()
}

// Update applies a field-level mutation to the draft only.
func (d *DraftReconciler[T]) Update(mutate func(draft *T)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	mutate(&d.draft)
}

// HasUnsavedChanges recomputes the deep, order-sensitive comparison on every
// call; it is never cached across mutations.
func (d *DraftReconciler[T]) HasUnsavedChanges() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return !reflect.DeepEqual(d.draft, d.original)
}

// Commit validates the draft, persists it, and promotes it to original. On
// validation or persistence failure nothing is promoted and the draft stays
// intact.
func (d *DraftReconciler[T]) Commit(ctx context.Context) error {
	d.mu.Lock()
	draft := d.draft.Clone()
	d.mu.Unlock()

	if err := draft.Validate(); err != nil {
		return err
	}
	if err := d.persist(ctx, draft); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}

	d.mu.Lock()
	d.original = draft.Clone()
	d.draft = draft
	d.mu.Unlock()
	d.logger.Debug("draft committed")

	return nil
}

// Discard resets the draft back to the last committed value.
func (d *DraftReconciler[T]) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.draft = d.original.Clone()
}

// RequestClose implements the close-attempt policy: dirty drafts require a
// confirmation step, clean ones close immediately.
func (d *DraftReconciler[T]) RequestClose() CloseDecision {
	if d.HasUnsavedChanges() {
		return ConfirmDiscard
	}

	return CloseNow
}
