package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"talkpad/internal/domain"
)

// SettingsRepo stores one flat record per settings domain. Loads never fail
// outward: a missing, unreadable, or corrupt row resolves to the domain's
// default record with a recoverable log entry. Saves report errors to the
// caller so an unfinished commit can keep its draft.
type SettingsRepo struct {
	db     *sql.DB
	gate   *domainGate
	logger *slog.Logger
}

func NewSettingsRepo(db *sql.DB, logger *slog.Logger) *SettingsRepo {
	if logger == nil {
		logger = slog.Default().With("component", "persistence.settings")
	}

	return &SettingsRepo{
		db:     db,
		gate:   newDomainGate(),
		logger: logger,
	}
}

func (r *SettingsRepo) LoadDisplay(ctx context.Context) domain.DisplaySettings {
	return loadRecord(ctx, r, domain.DomainDisplay, domain.DefaultDisplaySettings)
}

func (r *SettingsRepo) LoadSelection(ctx context.Context) domain.SelectionSettings {
	return loadRecord(ctx, r, domain.DomainSelectionMode, domain.DefaultSelectionSettings)
}

func (r *SettingsRepo) LoadParental(ctx context.Context) domain.ParentalSettings {
	return loadRecord(ctx, r, domain.DomainParental, domain.DefaultParentalSettings)
}

func (r *SettingsRepo) LoadVoice(ctx context.Context) domain.VoiceSettings {
	return loadRecord(ctx, r, domain.DomainVoice, domain.DefaultVoiceSettings)
}

func (r *SettingsRepo) SaveDisplay(ctx context.Context, settings domain.DisplaySettings) error {
	return r.save(ctx, domain.DomainDisplay, settings)
}

func (r *SettingsRepo) SaveSelection(ctx context.Context, settings domain.SelectionSettings) error {
	return r.save(ctx, domain.DomainSelectionMode, settings)
}

func (r *SettingsRepo) SaveParental(ctx context.Context, settings domain.ParentalSettings) error {
	return r.save(ctx, domain.DomainParental, settings)
}

func (r *SettingsRepo) SaveVoice(ctx context.Context, settings domain.VoiceSettings) error {
	return r.save(ctx, domain.DomainVoice, settings)
}

// ResetDomain removes the stored record so the next load yields the default.
func (r *SettingsRepo) ResetDomain(ctx context.Context, d domain.SettingsDomain) error {
	if !d.Valid() {
		return fmt.Errorf("unknown settings domain %q", d)
	}
	release := r.gate.acquire(d)
	defer release()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE domain = ?`, string(d)); err != nil {
		return fmt.Errorf("reset domain %s: %w", d, err)
	}

	return nil
}

func loadRecord[T any](ctx context.Context, r *SettingsRepo, d domain.SettingsDomain, defaults func() T) T {
	release := r.gate.acquire(d)
	defer release()

	out := defaults()

	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM settings WHERE domain = ?`, string(d)).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return out
	case err != nil:
		r.logger.Warn("load settings failed, using defaults", "domain", d, "error", err)

		return out
	}

	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		r.logger.Warn("decode settings failed, using defaults", "domain", d, "error", err)

		return defaults()
	}

	return out
}

func (r *SettingsRepo) save(ctx context.Context, d domain.SettingsDomain, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", d, err)
	}

	release := r.gate.acquire(d)
	defer release()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings(domain, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, string(d), string(payload), toUnixMillis(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("save %s settings: %w", d, err)
	}

	return nil
}
