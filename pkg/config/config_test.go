package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "{}")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Storage.Path != DefaultStoragePath {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Vault.KDFIterations != DefaultVaultKDFIterations {
		t.Errorf("Vault.KDFIterations = %d", cfg.Vault.KDFIterations)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %q/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
	if !cfg.Logging.RedactPII {
		t.Error("RedactPII should default to true")
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: /srv/vantage/main.db
  busy_timeout: 10s
vault:
  root: /srv/vantage/vault
  kdf_iterations: 800000
logging:
  level: debug
  format: text
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Storage.Path != "/srv/vantage/main.db" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Storage.BusyTimeout != 10*time.Second {
		t.Errorf("BusyTimeout = %v", cfg.Storage.BusyTimeout)
	}
	if cfg.Vault.KDFIterations != 800000 {
		t.Errorf("KDFIterations = %d", cfg.Vault.KDFIterations)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Format = %q", cfg.Logging.Format)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "storage:\n  path: from-file.db")
	t.Setenv("VANTAGE_STORAGE_PATH", "from-env.db")
	t.Setenv("VANTAGE_LOGGING_LEVEL", "warn")
	t.Setenv("VANTAGE_VAULT_KDF_ITERATIONS", "700000")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}
	if cfg.Storage.Path != "from-env.db" {
		t.Errorf("env override lost: %q", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Vault.KDFIterations != 700000 {
		t.Errorf("KDFIterations = %d", cfg.Vault.KDFIterations)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = ""
	cfg.Vault.KDFIterations = 1000
	cfg.Logging.Level = "loud"

	err := Validate(cfg)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(ve.Errors), ve)
	}
}

func TestValidate_WeakKDFRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vault.KDFIterations = MinKDFIterations - 1

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "kdf_iterations") {
		t.Errorf("weak KDF accepted: %v", err)
	}
}

func TestValidate_BadCronSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.MonitorSchedule = "not a cron spec"

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "monitor_schedule") {
		t.Errorf("bad schedule accepted: %v", err)
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("default configuration invalid: %v", err)
	}
}
