package rules

import (
	"testing"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

func TestIPConsistencyRuleMismatch(t *testing.T) {
	payload := &models.FraudCheckRequest{ClientReportedIP: "203.0.113.5"}
	signals := NewIPConsistencyRule().Collect(payload, Derived{RequestIP: "198.51.100.7"})
	if !hasSignal(signals, "CLIENT_IP_MISMATCH") {
		t.Errorf("expected CLIENT_IP_MISMATCH, got %+v", signals)
	}
}

func TestIPConsistencyRuleCanonicalFormsMatch(t *testing.T) {
	payload := &models.FraudCheckRequest{ClientReportedIP: "2001:DB8::1"}
	signals := NewIPConsistencyRule().Collect(payload, Derived{RequestIP: "2001:db8:0:0:0:0:0:1"})
	if len(signals) != 0 {
		t.Errorf("equivalent IPv6 spellings should match after normalization, got %+v", signals)
	}
}

func TestIPConsistencyRuleMissingEitherSideIsSkipped(t *testing.T) {
	payload := &models.FraudCheckRequest{ClientReportedIP: "203.0.113.5"}
	if signals := NewIPConsistencyRule().Collect(payload, Derived{}); len(signals) != 0 {
		t.Errorf("missing request IP should skip the check, got %+v", signals)
	}
	if signals := NewIPConsistencyRule().Collect(&models.FraudCheckRequest{}, Derived{RequestIP: "203.0.113.5"}); len(signals) != 0 {
		t.Errorf("missing client-reported IP should skip the check, got %+v", signals)
	}
}
