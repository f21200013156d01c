package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults,
// and validates the result. Environment variables are not consulted;
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Unmarshal over a pre-defaulted struct so boolean defaults
	// survive a partial file while explicit false still wins.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies VANTAGE_SECTION_FIELD environment variable overrides.
// Environment variables always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides using the
// VANTAGE_SECTION_FIELD naming convention.
func applyEnvOverrides(cfg *Config) {
	// Storage overrides
	if val := os.Getenv("VANTAGE_STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}
	if val := os.Getenv("VANTAGE_STORAGE_WAL_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Storage.WALMode = b
		}
	}
	if val := os.Getenv("VANTAGE_STORAGE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.BusyTimeout = d
		}
	}

	// Vault overrides
	if val := os.Getenv("VANTAGE_VAULT_ROOT"); val != "" {
		cfg.Vault.Root = val
	}
	if val := os.Getenv("VANTAGE_VAULT_MAX_ARTIFACT_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Vault.MaxArtifactSize = i
		}
	}
	if val := os.Getenv("VANTAGE_VAULT_KDF_ITERATIONS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Vault.KDFIterations = i
		}
	}
	if val := os.Getenv("VANTAGE_VAULT_KEY_SECRET"); val != "" {
		cfg.Vault.KeySecret = val
	}

	// Manifest overrides
	if val := os.Getenv("VANTAGE_MANIFEST_PATH"); val != "" {
		cfg.Manifest.Path = val
	}
	if val := os.Getenv("VANTAGE_MANIFEST_MAX_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Manifest.MaxSize = i
		}
	}
	if val := os.Getenv("VANTAGE_MANIFEST_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Manifest.DebounceInterval = d
		}
	}

	// Audit overrides
	if val := os.Getenv("VANTAGE_AUDIT_SIGNING_KEY_SECRET"); val != "" {
		cfg.Audit.SigningKeySecret = val
	}
	if val := os.Getenv("VANTAGE_AUDIT_MONITOR_SCHEDULE"); val != "" {
		cfg.Audit.MonitorSchedule = val
	}
	if val := os.Getenv("VANTAGE_AUDIT_METRICS_ADDRESS"); val != "" {
		cfg.Audit.MetricsAddress = val
	}

	// Logging overrides
	if val := os.Getenv("VANTAGE_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("VANTAGE_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("VANTAGE_LOGGING_REDACT_PII"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.RedactPII = b
		}
	}
}
