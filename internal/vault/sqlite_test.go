package vault

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"talkpad/internal/persistence"
)

func openTestVault(t *testing.T) *SQLiteVault {
	t.Helper()

	ctx := context.Background()
	db, err := persistence.Open(ctx, filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewSQLiteVault(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSQLiteVault_SetVerifyResetLifecycle(t *testing.T) {
	t.Parallel()

	v := openTestVault(t)
	ctx := context.Background()

	exists, err := v.Exists(ctx)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("fresh vault must be empty")
	}
	if ok, err := v.Verify(ctx, "1234"); err != nil || ok {
		t.Fatalf("verify against empty vault: ok=%v err=%v", ok, err)
	}

	if err := v.Set(ctx, "1234"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if exists, err = v.Exists(ctx); err != nil || !exists {
		t.Fatalf("expected credential to exist after set: exists=%v err=%v", exists, err)
	}
	if ok, err := v.Verify(ctx, "1234"); err != nil || !ok {
		t.Fatalf("correct passcode must verify: ok=%v err=%v", ok, err)
	}
	if ok, err := v.Verify(ctx, "0000"); err != nil || ok {
		t.Fatalf("wrong passcode must not verify: ok=%v err=%v", ok, err)
	}

	if err := v.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if exists, err = v.Exists(ctx); err != nil || exists {
		t.Fatalf("expected credential to be gone after reset: exists=%v err=%v", exists, err)
	}
	if ok, err := v.Verify(ctx, "1234"); err != nil || ok {
		t.Fatalf("verify after reset: ok=%v err=%v", ok, err)
	}
}

func TestSQLiteVault_SetOverwritesAndRejectsEmpty(t *testing.T) {
	t.Parallel()

	v := openTestVault(t)
	ctx := context.Background()

	if err := v.Set(ctx, "  "); err == nil {
		t.Fatalf("expected empty passcode to be rejected")
	}

	if err := v.Set(ctx, "1111"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := v.Set(ctx, "2222"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if ok, _ := v.Verify(ctx, "1111"); ok {
		t.Fatalf("old passcode must stop verifying after overwrite")
	}
	if ok, _ := v.Verify(ctx, "2222"); !ok {
		t.Fatalf("new passcode must verify after overwrite")
	}
}
