package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// MinKDFIterations is the floor for vault key derivation.
const MinKDFIterations = 600000

// FieldError represents a validation error for a specific field.
type FieldError struct {
	// Field is the dotted path to the field (e.g., "vault.root").
	Field string

	// Message is a human-readable error message.
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every validation failure found in a
// configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the configuration and returns a ValidationError when
// any rule fails. All failures are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Storage.Path == "" {
		errs = append(errs, FieldError{"storage.path", "must not be empty"})
	}
	if cfg.Storage.BusyTimeout < 0 {
		errs = append(errs, FieldError{"storage.busy_timeout", "must not be negative"})
	}

	if cfg.Vault.Root == "" {
		errs = append(errs, FieldError{"vault.root", "must not be empty"})
	}
	if cfg.Vault.MaxArtifactSize <= 0 {
		errs = append(errs, FieldError{"vault.max_artifact_size", "must be positive"})
	}
	if cfg.Vault.KDFIterations < MinKDFIterations {
		errs = append(errs, FieldError{"vault.kdf_iterations",
			fmt.Sprintf("must be at least %d", MinKDFIterations)})
	}

	if cfg.Manifest.Path == "" {
		errs = append(errs, FieldError{"manifest.path", "must not be empty"})
	}
	if cfg.Manifest.MaxSize <= 0 {
		errs = append(errs, FieldError{"manifest.max_size", "must be positive"})
	}

	if cfg.Audit.MonitorSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.MonitorSchedule); err != nil {
			errs = append(errs, FieldError{"audit.monitor_schedule",
				fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"logging.level",
			fmt.Sprintf("must be one of debug, info, warn, error (got %q)", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"logging.format",
			fmt.Sprintf("must be json or text (got %q)", cfg.Logging.Format)})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
