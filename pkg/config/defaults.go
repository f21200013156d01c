package config

import "time"

// Default values for configuration fields.
const (
	// Storage defaults
	DefaultStoragePath        = "data/vantage.db"
	DefaultStorageWALMode     = true
	DefaultStorageBusyTimeout = 5 * time.Second

	// Vault defaults
	DefaultVaultRoot            = "data/vault"
	DefaultVaultMaxArtifactSize = int64(50 * 1024 * 1024)
	DefaultVaultKDFIterations   = 600000
	DefaultVaultKeySecret       = "vault_key"

	// Manifest defaults
	DefaultManifestPath     = "manifests/brokers_manifest.yaml"
	DefaultManifestMaxSize  = int64(512 * 1024)
	DefaultManifestDebounce = 250 * time.Millisecond

	// Audit defaults
	DefaultMonitorSchedule = "*/15 * * * *"
	DefaultMetricsAddress  = "127.0.0.1:9464"

	// Logging defaults
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultLogRedactPII = true
)

// DefaultConfig returns a configuration populated with defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
		cfg.Storage.WALMode = DefaultStorageWALMode
	}
	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultStorageBusyTimeout
	}

	if cfg.Vault.Root == "" {
		cfg.Vault.Root = DefaultVaultRoot
	}
	if cfg.Vault.MaxArtifactSize == 0 {
		cfg.Vault.MaxArtifactSize = DefaultVaultMaxArtifactSize
	}
	if cfg.Vault.KDFIterations == 0 {
		cfg.Vault.KDFIterations = DefaultVaultKDFIterations
	}
	if cfg.Vault.KeySecret == "" {
		cfg.Vault.KeySecret = DefaultVaultKeySecret
	}

	if cfg.Manifest.Path == "" {
		cfg.Manifest.Path = DefaultManifestPath
	}
	if cfg.Manifest.MaxSize == 0 {
		cfg.Manifest.MaxSize = DefaultManifestMaxSize
	}
	if cfg.Manifest.DebounceInterval == 0 {
		cfg.Manifest.DebounceInterval = DefaultManifestDebounce
	}

	if cfg.Audit.MonitorSchedule == "" {
		cfg.Audit.MonitorSchedule = DefaultMonitorSchedule
	}
	if cfg.Audit.MetricsAddress == "" {
		cfg.Audit.MetricsAddress = DefaultMetricsAddress
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
		cfg.Logging.RedactPII = DefaultLogRedactPII
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
