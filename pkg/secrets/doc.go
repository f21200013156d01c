// Package secrets loads the vault master key and export signing key
// from environment variables or files. Secret values live only in
// memory and are never written alongside the data they protect.
package secrets
