package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Logging.LogToFile = true
	cfg.Notifications.Enabled = false
	cfg.UI.LastOpenedDomain = "parental"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", cfg, loaded)
	}
}

func TestLoad_FillsMissingLevel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"logging":{"log_to_file":true}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected missing level to default to info, got %q", cfg.Logging.Level)
	}
	if !cfg.Logging.LogToFile {
		t.Fatalf("expected explicit log_to_file to survive")
	}
}

func TestSave_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Logging.Level = "verbose"
	if err := Save(filepath.Join(t.TempDir(), "config.json"), cfg); err == nil {
		t.Fatalf("expected validation error for unknown level")
	}
}
