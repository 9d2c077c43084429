package rules

import (
	"testing"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

func TestBehaviorRuleTooFastSubmission(t *testing.T) {
	payload := &models.FraudCheckRequest{
		Viewport: models.ViewportSignals{Width: 1280, Height: 800},
		Behavior: &models.BehaviorSignals{
			TimeOnPageMs:   intPtr(500),
			KeydownCount:   intPtr(10),
			MouseMoveCount: intPtr(50),
		},
	}
	signals := NewBehaviorRule().Collect(payload, Derived{})
	if !hasSignal(signals, "TOO_FAST_SUBMISSION") {
		t.Errorf("expected TOO_FAST_SUBMISSION, got %+v", signals)
	}
}

func TestBehaviorRuleNoScrollOnTallPage(t *testing.T) {
	payload := &models.FraudCheckRequest{
		Viewport: models.ViewportSignals{Width: 1280, Height: 800},
		Behavior: &models.BehaviorSignals{
			TimeOnPageMs:   intPtr(10000),
			ScrollCount:    intPtr(0),
			DocumentHeight: intPtr(3000),
			KeydownCount:   intPtr(10),
			MouseMoveCount: intPtr(50),
		},
	}
	signals := NewBehaviorRule().Collect(payload, Derived{})
	if !hasSignal(signals, "NO_SCROLL_BEFORE_SUBMIT") {
		t.Errorf("expected NO_SCROLL_BEFORE_SUBMIT, got %+v", signals)
	}

	// A tall document that still fits within viewport+200 is exempt.
	payload.Viewport.Height = 2900
	signals = NewBehaviorRule().Collect(payload, Derived{})
	if hasSignal(signals, "NO_SCROLL_BEFORE_SUBMIT") {
		t.Errorf("document within viewport tolerance should not flag, got %+v", signals)
	}
}

func TestBehaviorRuleNoHumanInteraction(t *testing.T) {
	payload := &models.FraudCheckRequest{
		Viewport: models.ViewportSignals{Width: 1280, Height: 800},
		Behavior: &models.BehaviorSignals{
			TimeOnPageMs:   intPtr(10000),
			KeydownCount:   intPtr(0),
			MouseMoveCount: intPtr(1),
			TouchCount:     intPtr(1),
		},
	}
	signals := NewBehaviorRule().Collect(payload, Derived{})
	if !hasSignal(signals, "NO_HUMAN_INTERACTION") {
		t.Errorf("expected NO_HUMAN_INTERACTION below 3 total events, got %+v", signals)
	}

	payload.Behavior.KeydownCount = intPtr(1)
	signals = NewBehaviorRule().Collect(payload, Derived{})
	if hasSignal(signals, "NO_HUMAN_INTERACTION") {
		t.Errorf("3 total events should pass, got %+v", signals)
	}
}

func TestBehaviorRuleNilBehaviorYieldsNoSignals(t *testing.T) {
	payload := &models.FraudCheckRequest{Viewport: models.ViewportSignals{Width: 1280, Height: 800}}
	if signals := NewBehaviorRule().Collect(payload, Derived{}); len(signals) != 0 {
		t.Errorf("nil behavior should yield no signals, got %+v", signals)
	}
}
