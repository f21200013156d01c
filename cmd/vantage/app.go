package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/audit/storage"
	"privacyops/vantage/pkg/config"
	"privacyops/vantage/pkg/finding"
	"privacyops/vantage/pkg/secrets"
	"privacyops/vantage/pkg/telemetry/logging"
	"privacyops/vantage/pkg/vault"
)

// app bundles the wired components a command needs. Configuration is
// loaded once here and passed down by reference.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	events   *storage.SQLite
	chain    *audit.Chain
	findings *finding.Store
	secrets  *secrets.Chain
}

// loadApp loads configuration, builds the logger, and opens the
// database. Callers must Close the returned app.
func loadApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(&cfg.Logging, nil)
	if err != nil {
		return nil, err
	}

	events, err := storage.NewSQLite(&storage.SQLiteConfig{
		Path:        cfg.Storage.Path,
		WALMode:     cfg.Storage.WALMode,
		BusyTimeout: cfg.Storage.BusyTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		events:   events,
		chain:    audit.NewChain(events, logger),
		findings: finding.NewStore(events.DB(), logger),
		secrets:  secrets.NewChain(secrets.NewEnvProvider("")),
	}, nil
}

// loadConfig reads the configured file, falling back to defaults when
// the default config file is absent.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			cfg := config.DefaultConfig()
			applyVerbose(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	applyVerbose(cfg)
	return cfg, nil
}

func applyVerbose(cfg *config.Config) {
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// openVault wires the evidence vault with its master key from the
// secret chain.
func (a *app) openVault(ctx context.Context) (*vault.Vault, error) {
	key, err := a.secrets.GetSecret(ctx, a.cfg.Vault.KeySecret)
	if err != nil {
		return nil, fmt.Errorf("vault master key unavailable: %w", err)
	}
	return vault.New(&vault.Config{
		Root:            a.cfg.Vault.Root,
		MaxArtifactSize: a.cfg.Vault.MaxArtifactSize,
		KDFIterations:   a.cfg.Vault.KDFIterations,
	}, []byte(key), a.logger)
}

// signingKey resolves the export signing key, or nil when signing is
// not configured.
func (a *app) signingKey(ctx context.Context) ([]byte, error) {
	if a.cfg.Audit.SigningKeySecret == "" {
		return nil, nil
	}
	key, err := a.secrets.GetSecret(ctx, a.cfg.Audit.SigningKeySecret)
	if err != nil {
		return nil, fmt.Errorf("signing key unavailable: %w", err)
	}
	return []byte(key), nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	return a.events.Close()
}
