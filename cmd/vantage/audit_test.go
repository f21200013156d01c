package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/audit/storage"
)

// setupTestWorkspace writes a config file over temp paths, points the
// global config flag at it, and seeds one finding with one chain event.
func setupTestWorkspace(t *testing.T) *storage.SQLite {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "vantage.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := fmt.Sprintf(
		"storage:\n  path: %s\nvault:\n  root: %s\nmanifest:\n  path: %s\nlogging:\n  level: error\n",
		dbPath, filepath.Join(dir, "vault"), filepath.Join(dir, "brokers.yaml"))
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	old := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = old })

	st, err := storage.NewSQLite(&storage.SQLiteConfig{Path: dbPath, WALMode: true}, nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	_, err = st.DB().Exec(
		`INSERT INTO findings (finding_id, broker_name, state, created_utc, updated_utc)
		 VALUES ('f1', 'Acme Data', 'confirmed', ?, ?)`, audit.Now(), audit.Now())
	if err != nil {
		t.Fatalf("Failed to seed finding: %v", err)
	}
	_, err = st.Append(context.Background(), audit.Fields{
		FindingID: "f1",
		EventType: "state.confirmed",
		FromState: "discovered",
		ToState:   "confirmed",
		Timestamp: audit.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	return st
}

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunAuditVerify_ValidChain(t *testing.T) {
	setupTestWorkspace(t)

	if err := runAuditVerify(newTestCommand(), nil); err != nil {
		t.Errorf("verify on valid chain failed: %v", err)
	}
}

// TestRunAuditVerify_BrokenChain checks that a broken chain surfaces as
// errChainBroken so Execute exits non-zero after deferred closes run.
func TestRunAuditVerify_BrokenChain(t *testing.T) {
	st := setupTestWorkspace(t)

	_, err := st.DB().Exec(
		`INSERT INTO events (finding_id, event_type, from_state, to_state, at_utc, note, entry_hash, prev_hash)
		 VALUES ('f1', 'state.submitted', 'confirmed', 'submitted', ?, '', 'not-a-hash', 'also-wrong')`,
		audit.Now())
	if err != nil {
		t.Fatalf("Failed to insert forged event: %v", err)
	}

	if err := runAuditVerify(newTestCommand(), nil); !errors.Is(err, errChainBroken) {
		t.Errorf("expected errChainBroken, got %v", err)
	}

	if err := runStatus(newTestCommand(), nil); !errors.Is(err, errChainBroken) {
		t.Errorf("status: expected errChainBroken, got %v", err)
	}
}
