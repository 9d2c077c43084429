package rules

import (
	"time"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

// Derived bundles the small amount of context every rule module might need
// beyond the raw payload, so the collector can hand every rule the same
// shape regardless of which pieces it actually reads. Lowercased/normalized
// values live here once instead of being recomputed per rule.
type Derived struct {
	UA         string // lowercased navigator.user_agent
	Platform   string // lowercased navigator.platform
	IsMobileUA bool
	IsDesktopUA bool
	RequestIP  string
	Headers    map[string]string // lowercased header names
	IPGeo      *models.IpGeoResult
	Now        time.Time
}

// Rule is a single-method signal producer: given a payload and derived
// context, it returns zero or more signals. Rules never raise for missing
// inputs; they return an empty slice instead. New rules mint new signal
// codes and never reuse one from another rule.
type Rule interface {
	Name() string
	Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal
}
