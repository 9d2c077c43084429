package models

import "testing"

func TestFraudCheckResponseCloneIsIndependent(t *testing.T) {
	original := FraudCheckResponse{
		Decision:          DecisionReview,
		RiskScore:         40,
		Signals:           []Signal{NewSignal("A", 40, "")},
		CaptchaErrorCodes: []string{"timeout-or-duplicate"},
	}

	clone := original.Clone()
	clone.Signals[0].Weight = 999
	clone.CaptchaErrorCodes[0] = "mutated"

	if original.Signals[0].Weight == 999 {
		t.Error("mutating clone.Signals affected the original")
	}
	if original.CaptchaErrorCodes[0] == "mutated" {
		t.Error("mutating clone.CaptchaErrorCodes affected the original")
	}
}

func TestFraudCheckResponseCloneHandlesNilSlices(t *testing.T) {
	original := FraudCheckResponse{Decision: DecisionAllow}
	clone := original.Clone()
	if clone.Signals != nil || clone.CaptchaErrorCodes != nil {
		t.Errorf("cloning a response with nil slices should keep them nil, got %+v", clone)
	}
}
