package pii

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxNoteLength is the hard cap applied to free-text notes before
// redaction. Longer input is truncated, not rejected.
const MaxNoteLength = 4096

// ErrKeyMissing is returned by Tokenize when no HMAC key is supplied.
// Tokenization without a secret offers no protection against offline
// dictionary attacks on low-entropy inputs like phone numbers.
var ErrKeyMissing = errors.New("pii: tokenization requires a secret key")

// pattern pairs a PII label with its compiled matcher.
type pattern struct {
	label string
	regex *regexp.Regexp
}

// Ordered most-specific first so partial matches don't shadow full ones.
var patterns = []pattern{
	{"SSN", regexp.MustCompile(`\b\d{3}[-]?\d{2}[-]?\d{4}\b`)},
	{"EMAIL", regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z]{2,}\b`)},
	{"PHONE", regexp.MustCompile(`(?:\+?1[-.\s]?)?(?:\(?\d{3}\)?[-.\s]?)\d{3}[-.\s]?\d{4}\b`)},
	{"CC", regexp.MustCompile(`\b(?:\d[-\s]?){13,19}\b`)},
}

var (
	safeIDRE  = regexp.MustCompile(`^[A-Za-z0-9_\-. ]{1,128}$`)
	// Go's regexp engine caps a single repeat count at 1000, so the
	// 1-2048 range is expressed as consecutive repeats.
	safeURLRE = regexp.MustCompile(`^https?://[^\s]{1,1000}[^\s]{0,1000}[^\s]{0,48}$`)
)

// Sanitize replaces every detected PII pattern in text with a
// [REDACTED-<TYPE>] placeholder. Deterministic and side-effect-free:
// the same input always yields the same output.
func Sanitize(text string) string {
	result := text
	for _, p := range patterns {
		result = p.regex.ReplaceAllString(result, "[REDACTED-"+p.label+"]")
	}
	return result
}

// SanitizeNote truncates a free-text note to MaxNoteLength and redacts
// PII from what remains.
func SanitizeNote(note string) string {
	if len(note) > MaxNoteLength {
		note = note[:MaxNoteLength]
	}
	return Sanitize(note)
}

// ContainsPII reports whether any detectable PII pattern matches text.
func ContainsPII(text string) bool {
	for _, p := range patterns {
		if p.regex.MatchString(text) {
			return true
		}
	}
	return false
}

// Tokenize returns the hex-encoded HMAC-SHA256 of value under key.
// The mapping is stable (same value, same key, same token) and one-way.
// An empty key returns ErrKeyMissing.
func Tokenize(value string, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrKeyMissing
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// ValidateID checks a finding identifier against the whitelist
// [A-Za-z0-9_-. ] with a 128-character limit and returns the trimmed
// value. Identifiers become path components and SQL parameters, so
// anything outside the whitelist is rejected here at the boundary.
func ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("pii: finding id must not be empty")
	}
	if !safeIDRE.MatchString(id) {
		return "", fmt.Errorf("pii: finding id contains invalid characters or exceeds 128 chars: %q", id)
	}
	return id, nil
}

// ValidateBrokerName checks a broker name against the same whitelist
// as ValidateID.
func ValidateBrokerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("pii: broker name must not be empty")
	}
	if !safeIDRE.MatchString(name) {
		return "", fmt.Errorf("pii: broker name contains invalid characters or exceeds 128 chars: %q", name)
	}
	return name, nil
}

// ValidateURL accepts only http/https URLs of at most 2048 characters.
// An empty string is valid and returned unchanged (URL is optional).
func ValidateURL(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", nil
	}
	if !safeURLRE.MatchString(url) {
		return "", fmt.Errorf("pii: url must be http/https and under 2048 chars")
	}
	return url, nil
}
