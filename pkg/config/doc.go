// Package config defines the runtime configuration for vantage.
//
// Configuration is loaded from a YAML file, filled in with defaults,
// optionally overridden by VANTAGE_* environment variables, and then
// validated. The loaded Config is passed by reference to the
// components that need it; there is no package-level instance.
package config
