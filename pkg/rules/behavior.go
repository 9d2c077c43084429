package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

const (
	minTimeOnPageMs      = 3000
	minInteractionEvents = 3
)

// BehaviorRule flags passive-interaction telemetry that looks scripted:
// instant submission, no scrolling on a page tall enough to require it,
// and a total absence of keyboard/mouse/touch events.
type BehaviorRule struct{}

func NewBehaviorRule() *BehaviorRule {
	return &BehaviorRule{}
}

func (r *BehaviorRule) Name() string {
	return "BehaviorConsistency"
}

func (r *BehaviorRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	bhv := payload.Behavior
	if bhv == nil {
		return nil
	}

	var signals []models.Signal

	if bhv.TimeOnPageMs != nil && *bhv.TimeOnPageMs < minTimeOnPageMs {
		signals = append(signals, models.NewSignal(
			"TOO_FAST_SUBMISSION", 25,
			"Page was submitted too quickly (under 3 seconds).",
		))
	}

	if bhv.ScrollCount != nil && bhv.DocumentHeight != nil &&
		*bhv.ScrollCount == 0 && *bhv.DocumentHeight > 1200 {
		if *bhv.DocumentHeight > payload.Viewport.Height+200 {
			signals = append(signals, models.NewSignal(
				"NO_SCROLL_BEFORE_SUBMIT", 18,
				"No scroll detected on a page that requires scrolling.",
			))
		}
	}

	keys := intOrZero(bhv.KeydownCount)
	mouse := intOrZero(bhv.MouseMoveCount)
	touch := intOrZero(bhv.TouchCount)

	if keys+mouse+touch < minInteractionEvents {
		signals = append(signals, models.NewSignal(
			"NO_HUMAN_INTERACTION", 30,
			"No keyboard, mouse, or touch events detected.",
		))
	}

	return signals
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
