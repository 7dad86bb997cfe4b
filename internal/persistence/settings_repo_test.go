package persistence

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"talkpad/internal/domain"
)

func openTestRepo(t *testing.T) *SettingsRepo {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewSettingsRepo(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSettingsRepoLoad_DefaultsWithoutPriorSave(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	if got := repo.LoadDisplay(ctx); !reflect.DeepEqual(got, domain.DefaultDisplaySettings()) {
		t.Fatalf("display default mismatch: %+v", got)
	}
	if got := repo.LoadSelection(ctx); !reflect.DeepEqual(got, domain.DefaultSelectionSettings()) {
		t.Fatalf("selection default mismatch: %+v", got)
	}
	if got := repo.LoadParental(ctx); !reflect.DeepEqual(got, domain.DefaultParentalSettings()) {
		t.Fatalf("parental default mismatch: %+v", got)
	}
	if got := repo.LoadVoice(ctx); !reflect.DeepEqual(got, domain.DefaultVoiceSettings()) {
		t.Fatalf("voice default mismatch: %+v", got)
	}
}

func TestSettingsRepoSaveLoad_RoundTripsParental(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	saved := domain.ParentalSettings{
		BlockViolence:      true,
		BlockInappropriate: false,
		DailyLimitHours:    "3",
		ASDLevel:           domain.ASDLevelMedium,
		DowntimeEnabled:    true,
		DowntimeDays:       []domain.Weekday{domain.Monday, domain.Friday},
		DowntimeStart:      "19:30",
		DowntimeEnd:        "08:00",
		RequirePasscode:    true,
		NotifyEmails:       []string{"mom@example.com", "dad@example.com"},
	}
	if err := repo.SaveParental(ctx, saved); err != nil {
		t.Fatalf("save parental: %v", err)
	}

	loaded := repo.LoadParental(ctx)
	if !reflect.DeepEqual(loaded, saved) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", saved, loaded)
	}
}

func TestSettingsRepoSaveLoad_RoundTripsVoicePayload(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	saved := domain.VoiceSettings{Payload: []byte(`{"engine":"neural","rate":1.25,"pitch":-2}`)}
	if err := repo.SaveVoice(ctx, saved); err != nil {
		t.Fatalf("save voice: %v", err)
	}

	loaded := repo.LoadVoice(ctx)
	if string(loaded.Payload) != string(saved.Payload) {
		t.Fatalf("voice payload must pass through untouched, got %s", loaded.Payload)
	}
}

func TestSettingsRepoLoad_CorruptRowFallsBackToDefault(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO settings(domain, payload, updated_at) VALUES (?, ?, 0)
	`, string(domain.DomainDisplay), `{"brightness": "not-a-number"`)
	if err != nil {
		t.Fatalf("plant corrupt row: %v", err)
	}

	got := repo.LoadDisplay(ctx)
	if !reflect.DeepEqual(got, domain.DefaultDisplaySettings()) {
		t.Fatalf("expected defaults on corrupt row, got %+v", got)
	}
}

func TestSettingsRepoResetDomain(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	custom := domain.DefaultDisplaySettings()
	custom.Brightness = 15
	if err := repo.SaveDisplay(ctx, custom); err != nil {
		t.Fatalf("save display: %v", err)
	}
	if err := repo.ResetDomain(ctx, domain.DomainDisplay); err != nil {
		t.Fatalf("reset domain: %v", err)
	}
	if got := repo.LoadDisplay(ctx); !reflect.DeepEqual(got, domain.DefaultDisplaySettings()) {
		t.Fatalf("expected defaults after reset, got %+v", got)
	}

	if err := repo.ResetDomain(ctx, "bogus"); err == nil {
		t.Fatalf("expected error for unknown domain")
	}
}

func TestSettingsRepo_ConcurrentSavesAndLoadsStayConsistent(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i <= 100; i++ {
			s := domain.DefaultDisplaySettings()
			s.Brightness = i
			if err := repo.SaveDisplay(ctx, s); err != nil {
				t.Errorf("save display: %v", err)

				return
			}
		}
	}()
	for i := 0; i < 50; i++ {
		got := repo.LoadDisplay(ctx)
		if err := got.Validate(); err != nil {
			t.Fatalf("interleaved load produced invalid record: %v", err)
		}
	}
	<-done

	if got := repo.LoadDisplay(ctx); got.Brightness != 100 {
		t.Fatalf("final load must observe the last committed save, got %d", got.Brightness)
	}
}
