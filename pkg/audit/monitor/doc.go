// Package monitor re-verifies the audit chain on a cron schedule and
// publishes the results as Prometheus metrics. A chain that breaks
// between manual verifications surfaces here first.
package monitor
