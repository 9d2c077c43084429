package rules

import (
	"time"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

// TimestampRule checks the client-reported snapshot time against the
// server clock, catching both clock-skewed futures and replayed/stale
// payloads.
type TimestampRule struct{}

func NewTimestampRule() *TimestampRule {
	return &TimestampRule{}
}

func (r *TimestampRule) Name() string {
	return "TimestampConsistency"
}

func (r *TimestampRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	if payload.CollectedAt == nil {
		return nil
	}

	now := derived.Now
	collectedAt := payload.CollectedAt.UTC()

	if collectedAt.After(now.Add(2 * time.Minute)) {
		return []models.Signal{models.NewSignal(
			"CLIENT_TIMESTAMP_IN_FUTURE", 12,
			"Client snapshot timestamp is too far in the future.",
		)}
	}

	if now.Sub(collectedAt) > 10*time.Minute {
		return []models.Signal{models.NewSignal(
			"STALE_CLIENT_SNAPSHOT", 18,
			"Client snapshot looks stale and may be replayed.",
		)}
	}

	return nil
}
