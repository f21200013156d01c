package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/audit/storage"
)

func TestExport_SignatureDeterministic(t *testing.T) {
	store := storage.NewMemory()
	chain := appendN(t, store, 4)
	ctx := context.Background()
	key := []byte("signing-key")

	env1, err := chain.Export(ctx, key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	env2, err := chain.Export(ctx, key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if env1.Signature == "" {
		t.Fatal("expected a signature with a configured key")
	}
	if env1.Signature != env2.Signature {
		t.Error("identical entries and key produced different signatures")
	}
}

func TestExport_SignatureChangesWithKey(t *testing.T) {
	store := storage.NewMemory()
	chain := appendN(t, store, 4)
	ctx := context.Background()

	env1, err := chain.Export(ctx, []byte("key-one"))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	env2, err := chain.Export(ctx, []byte("key-two"))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if env1.Signature == env2.Signature {
		t.Error("different keys produced identical signatures")
	}
}

func TestExport_SignatureChangesWithEvents(t *testing.T) {
	store := storage.NewMemory()
	chain := appendN(t, store, 4)
	ctx := context.Background()
	key := []byte("signing-key")

	env1, err := chain.Export(ctx, key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	store.Tamper(2, func(e *audit.Event) { e.Note = "edited" })

	env2, err := chain.Export(ctx, key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if env1.Signature == env2.Signature {
		t.Error("tampered entries produced an identical signature")
	}
}

func TestExport_Unsigned(t *testing.T) {
	chain := appendN(t, storage.NewMemory(), 2)

	env, err := chain.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if env.Signature != "" {
		t.Errorf("expected no signature without a key, got %q", env.Signature)
	}
}

// TestExport_BrokenChainStillExports checks that an export of a
// tampered chain succeeds and carries the broken verdict.
func TestExport_BrokenChainStillExports(t *testing.T) {
	store := storage.NewMemory()
	chain := appendN(t, store, 5)
	store.Tamper(2, func(e *audit.Event) { e.Note = "edited" })

	env, err := chain.Export(context.Background(), []byte("k"))
	if err != nil {
		t.Fatalf("Export of broken chain failed: %v", err)
	}
	if env.Verdict.Valid {
		t.Error("verdict reports valid on a tampered chain")
	}
	if env.Verdict.BrokenAt != 2 {
		t.Errorf("BrokenAt = %d, want 2", env.Verdict.BrokenAt)
	}
	if len(env.Entries) != 5 {
		t.Errorf("entries = %d, want all 5", len(env.Entries))
	}
}

func TestEnvelope_WriteJSON(t *testing.T) {
	chain := appendN(t, storage.NewMemory(), 3)
	env, err := chain.Export(context.Background(), []byte("k"))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var buf bytes.Buffer
	if err := env.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded audit.Envelope
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if len(decoded.Entries) != 3 {
		t.Errorf("decoded entries = %d, want 3", len(decoded.Entries))
	}
	if decoded.Signature != env.Signature {
		t.Error("signature did not round-trip")
	}
}

func TestEnvelope_WriteCSV(t *testing.T) {
	chain := appendN(t, storage.NewMemory(), 3)
	env, err := chain.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var buf bytes.Buffer
	if err := env.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "seq,finding_id,") {
		t.Errorf("missing header row: %q", out)
	}
	if !strings.Contains(out, "#verdict,valid") {
		t.Errorf("missing verdict trailer: %q", out)
	}
}
