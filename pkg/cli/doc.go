// Package cli provides shared helpers for the vantage command line:
// output formatting, command errors, and signal handling.
package cli
