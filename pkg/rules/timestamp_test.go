package rules

import (
	"testing"
	"time"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

func timestampPayload(collectedAt time.Time) *models.FraudCheckRequest {
	return &models.FraudCheckRequest{CollectedAt: &collectedAt}
}

func TestTimestampRuleFuture(t *testing.T) {
	now := time.Now()
	signals := NewTimestampRule().Collect(timestampPayload(now.Add(5*time.Minute)), Derived{Now: now})
	if !hasSignal(signals, "CLIENT_TIMESTAMP_IN_FUTURE") {
		t.Errorf("expected CLIENT_TIMESTAMP_IN_FUTURE, got %+v", signals)
	}
}

func TestTimestampRuleStale(t *testing.T) {
	now := time.Now()
	signals := NewTimestampRule().Collect(timestampPayload(now.Add(-15*time.Minute)), Derived{Now: now})
	if !hasSignal(signals, "STALE_CLIENT_SNAPSHOT") {
		t.Errorf("expected STALE_CLIENT_SNAPSHOT, got %+v", signals)
	}
}

func TestTimestampRuleWithinTolerance(t *testing.T) {
	now := time.Now()
	cases := []time.Time{
		now,
		now.Add(time.Minute),       // small clock skew forward
		now.Add(-5 * time.Minute),  // recent snapshot
	}
	for _, collectedAt := range cases {
		if signals := NewTimestampRule().Collect(timestampPayload(collectedAt), Derived{Now: now}); len(signals) != 0 {
			t.Errorf("collected_at %v: expected no signals, got %+v", collectedAt, signals)
		}
	}
}

func TestTimestampRuleMissingTimestamp(t *testing.T) {
	if signals := NewTimestampRule().Collect(&models.FraudCheckRequest{}, Derived{Now: time.Now()}); len(signals) != 0 {
		t.Errorf("missing collected_at should yield no signals, got %+v", signals)
	}
}
