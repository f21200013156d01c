package pii

import (
	"strings"
	"testing"
)

func TestSanitize_Email(t *testing.T) {
	got := Sanitize("contact jane.doe@example.com for details")
	if strings.Contains(got, "jane.doe@example.com") {
		t.Errorf("email not redacted: %q", got)
	}
	if !strings.Contains(got, "[REDACTED-EMAIL]") {
		t.Errorf("expected EMAIL placeholder, got %q", got)
	}
}

func TestSanitize_SSN(t *testing.T) {
	for _, in := range []string{"ssn 123-45-6789", "ssn 123456789"} {
		got := Sanitize(in)
		if !strings.Contains(got, "[REDACTED-SSN]") {
			t.Errorf("Sanitize(%q) = %q, SSN not redacted", in, got)
		}
	}
}

func TestSanitize_Phone(t *testing.T) {
	got := Sanitize("call (555) 123-4567 after 5pm")
	if strings.Contains(got, "123-4567") {
		t.Errorf("phone not redacted: %q", got)
	}
}

func TestSanitize_Clean(t *testing.T) {
	in := "submitted opt-out via portal, confirmation shown"
	if got := Sanitize(in); got != in {
		t.Errorf("clean text modified: %q -> %q", in, got)
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	in := "email a@b.com phone 555-123-4567"
	if Sanitize(in) != Sanitize(in) {
		t.Error("Sanitize is not deterministic")
	}
}

func TestSanitizeNote_Truncates(t *testing.T) {
	note := strings.Repeat("x", MaxNoteLength+100)
	got := SanitizeNote(note)
	if len(got) > MaxNoteLength {
		t.Errorf("note not truncated: %d bytes", len(got))
	}
}

func TestContainsPII(t *testing.T) {
	if !ContainsPII("reach me at test@example.org") {
		t.Error("expected PII in email text")
	}
	if ContainsPII("no personal data here") {
		t.Error("false positive on clean text")
	}
}

func TestTokenize(t *testing.T) {
	key := []byte("test-key")

	tok1, err := Tokenize("jane@example.com", key)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	tok2, err := Tokenize("jane@example.com", key)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if tok1 != tok2 {
		t.Error("same input and key produced different tokens")
	}

	other, err := Tokenize("jane@example.com", []byte("other-key"))
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if other == tok1 {
		t.Error("different keys produced identical tokens")
	}

	if len(tok1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(tok1))
	}
}

func TestTokenize_MissingKey(t *testing.T) {
	if _, err := Tokenize("value", nil); err != ErrKeyMissing {
		t.Errorf("expected ErrKeyMissing, got %v", err)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"whitepages-001", false},
		{"  spaced-id  ", false},
		{"", true},
		{"../etc/passwd", true},
		{"id;drop table", true},
		{strings.Repeat("a", 129), true},
	}
	for _, tt := range tests {
		_, err := ValidateID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if _, err := ValidateURL("https://broker.example/profile/123"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}
	if _, err := ValidateURL("ftp://broker.example"); err == nil {
		t.Error("non-http scheme accepted")
	}
	if got, err := ValidateURL(""); err != nil || got != "" {
		t.Errorf("empty URL should be accepted as empty, got %q, %v", got, err)
	}
}
