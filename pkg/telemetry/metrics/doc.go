// Package metrics exposes Prometheus metrics for audit chain health.
package metrics
