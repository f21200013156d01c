package finding_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/audit/storage"
	"privacyops/vantage/pkg/finding"
	"privacyops/vantage/pkg/vault"
)

// TestFullLifecycle drives a finding from discovery to verification
// with real storage and a real vault, then checks the chain and a
// signed export end to end.
func TestFullLifecycle(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	events, err := storage.NewSQLite(&storage.SQLiteConfig{
		Path:        filepath.Join(dir, "vantage.db"),
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer events.Close()

	v, err := vault.New(&vault.Config{
		Root:            filepath.Join(dir, "vault"),
		MaxArtifactSize: 1 << 20,
		KDFIterations:   600000,
	}, []byte("integration-master-key"), nil)
	if err != nil {
		t.Fatalf("Failed to open vault: %v", err)
	}
	defer v.Close()

	store := finding.NewStore(events.DB(), nil)
	tracker := finding.NewTracker(store, events, v, nil)

	if _, err := store.Create(ctx, "f-acme-001", "Acme Data", "https://acme.example/profile"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	steps := []struct {
		to       finding.BrokerState
		note     string
		evidence []byte
	}{
		{finding.StateConfirmed, "profile matched", []byte("screenshot of listing")},
		{finding.StateSubmitted, "opt-out form sent", []byte("submission receipt page")},
		{finding.StatePending, "broker acknowledged", nil},
		{finding.StateVerified, "listing gone", []byte("empty search results")},
	}
	for _, step := range steps {
		req := finding.TransitionRequest{
			FindingID: "f-acme-001",
			To:        step.to,
			Note:      step.note,
			Evidence:  step.evidence,
		}
		if step.evidence != nil {
			req.EvidenceFilename = string(step.to) + ".png"
		}
		if _, err := tracker.Transition(ctx, req); err != nil {
			t.Fatalf("Transition to %s failed: %v", step.to, err)
		}
	}

	// State landed where the walk ended.
	f, err := store.Get(ctx, "f-acme-001")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if f.State != finding.StateVerified {
		t.Errorf("State = %s, want verified", f.State)
	}

	// Every evidence-bearing transition sealed one artifact.
	records, err := v.List(ctx, "f-acme-001")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(records))
	}
	plaintext, _, err := v.Retrieve(ctx, records[0].ArtifactID)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if !bytes.Equal(plaintext, []byte("screenshot of listing")) {
		t.Errorf("artifact round trip mismatch: %q", plaintext)
	}

	// The chain verifies and the artifact digests appear in the notes.
	chain := audit.NewChain(events, nil)
	verdict, err := chain.Verify(ctx)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !verdict.Valid || verdict.Checked != 4 {
		t.Fatalf("verdict = %+v", verdict)
	}

	all, err := events.Events(ctx)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if !strings.Contains(all[0].Note, "sha256="+records[0].ContentHash) {
		t.Errorf("note missing artifact digest: %q", all[0].Note)
	}

	// A signed export carries the verdict and a stable signature.
	env, err := chain.Export(ctx, []byte("export-signing-key"))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !env.Verdict.Valid || env.Signature == "" {
		t.Errorf("envelope = valid:%v signed:%v", env.Verdict.Valid, env.Signature != "")
	}
	again, err := chain.Export(ctx, []byte("export-signing-key"))
	if err != nil {
		t.Fatalf("second Export failed: %v", err)
	}
	if env.Signature != again.Signature {
		t.Error("signature not deterministic over unchanged chain")
	}
}
