package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SQLiteVault keeps a single bcrypt-hashed passcode row in the app database.
type SQLiteVault struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteVault(db *sql.DB, logger *slog.Logger) *SQLiteVault {
	if logger == nil {
		logger = slog.Default().With("component", "vault")
	}

	return &SQLiteVault{db: db, logger: logger}
}

func (v *SQLiteVault) Exists(ctx context.Context) (bool, error) {
	var count int
	if err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credential WHERE id = 1`).Scan(&count); err != nil {
		return false, fmt.Errorf("check credential existence: %w", err)
	}

	return count > 0, nil
}

func (v *SQLiteVault) Verify(ctx context.Context, candidate string) (bool, error) {
	var hash string
	err := v.db.QueryRowContext(ctx, `SELECT passcode_hash FROM credential WHERE id = 1`).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("read credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		return false, fmt.Errorf("verify credential: %w", err)
	}

	return true, nil
}

func (v *SQLiteVault) Set(ctx context.Context, newValue string) error {
	if strings.TrimSpace(newValue) == "" {
		return fmt.Errorf("passcode is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newValue), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash passcode: %w", err)
	}

	_, err = v.db.ExecContext(ctx, `
		INSERT INTO credential(id, passcode_hash, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			passcode_hash = excluded.passcode_hash,
			updated_at = excluded.updated_at
	`, string(hash), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	v.logger.Info("credential stored")

	return nil
}

func (v *SQLiteVault) Reset(ctx context.Context) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM credential WHERE id = 1`); err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	v.logger.Info("credential removed")

	return nil
}
