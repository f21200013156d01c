package monitor

import (
	"context"
	"testing"
	"time"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/audit/storage"
	"privacyops/vantage/pkg/telemetry/metrics"
)

func newTestChain(t *testing.T) (*audit.Chain, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	return audit.NewChain(store, nil), store
}

func waitForVerdict(t *testing.T, s *Scheduler) *audit.Verdict {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if v := s.LastVerdict(); v != nil {
			return v
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("verification never ran")
	return nil
}

func TestScheduler_RunsImmediateVerification(t *testing.T) {
	chain, _ := newTestChain(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := chain.Append(ctx, audit.Fields{
			FindingID: "f1",
			EventType: "state.confirmed",
			FromState: "discovered",
			ToState:   "confirmed",
			Timestamp: audit.Now(),
		}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	collector := metrics.NewCollector(nil)
	s := NewScheduler(chain, "*/15 * * * *", collector, nil)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := s.Start(runCtx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	verdict := waitForVerdict(t, s)
	if !verdict.Valid || verdict.Checked != 3 {
		t.Errorf("verdict = %+v", verdict)
	}
}

func TestScheduler_ReportsBrokenChain(t *testing.T) {
	chain, store := newTestChain(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := chain.Append(ctx, audit.Fields{
			FindingID: "f1",
			EventType: "state.confirmed",
			FromState: "discovered",
			ToState:   "confirmed",
			Timestamp: audit.Now(),
		}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	store.Tamper(1, func(e *audit.Event) { e.Note = "edited" })

	s := NewScheduler(chain, "*/15 * * * *", nil, nil)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := s.Start(runCtx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	verdict := waitForVerdict(t, s)
	if verdict.Valid {
		t.Error("tampered chain reported valid")
	}
	if verdict.Reason != audit.ReasonHashMismatch {
		t.Errorf("reason = %s", verdict.Reason)
	}
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	chain, _ := newTestChain(t)
	s := NewScheduler(chain, "not-cron", nil, nil)

	if err := s.Start(context.Background()); err == nil {
		t.Error("bad schedule accepted")
	}
}

func TestScheduler_DoubleStartRejected(t *testing.T) {
	chain, _ := newTestChain(t)
	s := NewScheduler(chain, "*/15 * * * *", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if err := s.Start(ctx); err == nil {
		t.Error("second Start accepted")
	}
}
