package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("VANTAGE_SECRET_VAULT_KEY", "hunter2")

	p := NewEnvProvider("")
	got, err := p.GetSecret(context.Background(), "vault_key")
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("got %q", got)
	}

	if _, err := p.GetSecret(context.Background(), "missing"); err == nil {
		t.Error("missing secret resolved")
	}
}

func TestEnvProvider_HyphenNormalization(t *testing.T) {
	t.Setenv("VANTAGE_SECRET_SIGNING_KEY", "abc")

	p := NewEnvProvider("")
	got, err := p.GetSecret(context.Background(), "signing-key")
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vault_key"), []byte("hunter2\n"), 0600); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}

	p, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("NewFileProvider failed: %v", err)
	}

	got, err := p.GetSecret(context.Background(), "vault_key")
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("got %q, want trimmed value", got)
	}
}

func TestFileProvider_RejectsLoosePermissions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vault_key"), []byte("k"), 0644); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}

	p, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("NewFileProvider failed: %v", err)
	}
	if _, err := p.GetSecret(context.Background(), "vault_key"); err == nil {
		t.Error("world-readable secret accepted")
	}
}

func TestFileProvider_RejectsPathEscape(t *testing.T) {
	p, err := NewFileProvider(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileProvider failed: %v", err)
	}

	for _, name := range []string{"../etc/passwd", "a/b", `a\b`} {
		if _, err := p.GetSecret(context.Background(), name); err == nil {
			t.Errorf("secret name %q accepted", name)
		}
	}
}

func TestChain_FirstHitWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vault_key"), []byte("from-file"), 0600); err != nil {
		t.Fatalf("Failed to write secret file: %v", err)
	}
	fp, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("NewFileProvider failed: %v", err)
	}
	t.Setenv("VANTAGE_SECRET_VAULT_KEY", "from-env")

	chain := NewChain(NewEnvProvider(""), fp)
	got, err := chain.GetSecret(context.Background(), "vault_key")
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if got != "from-env" {
		t.Errorf("got %q, want env value", got)
	}
}

func TestChain_NotFound(t *testing.T) {
	chain := NewChain(NewEnvProvider(""))

	_, err := chain.GetSecret(context.Background(), "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
