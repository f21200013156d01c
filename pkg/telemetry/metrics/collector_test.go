package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordVerification(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordVerification(true, 42, 10*time.Millisecond)
	c.RecordVerification(false, 42, 10*time.Millisecond)

	if got := testutil.ToFloat64(c.verifications.WithLabelValues("valid")); got != 1 {
		t.Errorf("valid count = %v", got)
	}
	if got := testutil.ToFloat64(c.verifications.WithLabelValues("broken")); got != 1 {
		t.Errorf("broken count = %v", got)
	}
	if got := testutil.ToFloat64(c.chainLength); got != 42 {
		t.Errorf("chain length = %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(nil)
	c.RecordVerification(true, 3, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"vantage_audit_verifications_total",
		"vantage_audit_chain_length 3",
		"vantage_audit_last_verification_timestamp_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
