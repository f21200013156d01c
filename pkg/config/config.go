package config

import "time"

// Config is the root configuration for vantage.
type Config struct {
	// Storage configures the findings and audit event database.
	Storage StorageConfig `yaml:"storage"`

	// Vault configures the encrypted evidence store.
	Vault VaultConfig `yaml:"vault"`

	// Manifest configures the broker manifest loader and watcher.
	Manifest ManifestConfig `yaml:"manifest"`

	// Audit configures chain verification and export.
	Audit AuditConfig `yaml:"audit"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig configures the shared SQLite database.
type StorageConfig struct {
	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// WALMode enables write-ahead logging.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the SQLite busy timeout.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// VaultConfig configures the evidence vault.
type VaultConfig struct {
	// Root is the directory artifacts live under.
	Root string `yaml:"root"`

	// MaxArtifactSize is the raw-byte ceiling per artifact.
	MaxArtifactSize int64 `yaml:"max_artifact_size"`

	// KDFIterations is the PBKDF2 iteration count.
	KDFIterations int `yaml:"kdf_iterations"`

	// KeySecret names the secret that holds the vault master key.
	KeySecret string `yaml:"key_secret"`
}

// ManifestConfig configures the broker manifest.
type ManifestConfig struct {
	// Path is the manifest YAML file.
	Path string `yaml:"path"`

	// MaxSize is the manifest file size guard in bytes.
	MaxSize int64 `yaml:"max_size"`

	// DebounceInterval is the watcher quiet period before a reload.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// AuditConfig configures chain verification and export.
type AuditConfig struct {
	// SigningKeySecret names the secret that holds the export
	// signing key. Empty disables export signing.
	SigningKeySecret string `yaml:"signing_key_secret"`

	// MonitorSchedule is the cron expression for scheduled
	// re-verification.
	MonitorSchedule string `yaml:"monitor_schedule"`

	// MetricsAddress is the listen address for the monitor's
	// Prometheus endpoint. Empty disables the endpoint.
	MetricsAddress string `yaml:"metrics_address"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`

	// RedactPII scrubs log attribute values through the PII guard.
	RedactPII bool `yaml:"redact_pii"`
}
