// Vantage is a trust layer for manual data-broker opt-out work.
//
// It keeps a hash-chained audit log of every case transition, seals
// evidence artifacts in an encrypted vault, and tracks each broker
// finding through its removal lifecycle.
//
// Usage:
//
//	# Initialize the local workspace
//	vantage init
//
//	# Register a finding and walk it through the lifecycle
//	vantage finding add f-acme-001 --broker "Acme Data" --url https://acme.example/profile
//	vantage finding transition f-acme-001 confirmed --note "profile matched" --evidence shot.png
//
//	# Verify and export the audit chain
//	vantage audit verify
//	vantage audit export --format json --output chain.json
//
//	# Watch the broker manifest
//	vantage manifest watch
package main

func main() {
	Execute()
}
