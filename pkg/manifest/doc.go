// Package manifest loads and watches the broker opt-out manifest, the
// operator-maintained YAML list of data brokers to work through.
package manifest
