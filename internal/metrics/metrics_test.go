package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordIssued()
	c.RecordIssued()
	c.RecordIssueConflict()
	c.RecordRedeemed()
	c.RecordIssueFailure("profile_not_found")
	c.RecordRedeemFailure("expired")
	c.RecordRedeemFailure("expired")

	if got := testutil.ToFloat64(c.issued); got != 2 {
		t.Errorf("issued = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.issueConflicts); got != 1 {
		t.Errorf("conflicts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.redeemed); got != 1 {
		t.Errorf("redeemed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.issueFailed.WithLabelValues("profile_not_found")); got != 1 {
		t.Errorf("issue failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.redeemFailed.WithLabelValues("expired")); got != 2 {
		t.Errorf("redeem failures = %v, want 2", got)
	}
}

func TestNewCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	NewCollector(reg)
}
