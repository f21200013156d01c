// Package logging builds the structured logger used across vantage.
// Attribute values can be routed through the PII guard so personal
// data never reaches log output.
package logging
