package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

// AutomationRule flags browser-automation tells: the webdriver flag, and
// User-Agent markers for headless browsers and non-browser HTTP clients.
//
// A strong bot marker (curl, wget, python-requests, go-http-client,
// httpclient) dominates the check: no further automation signal is added
// once one fires, since these UAs are conclusive on their own.
type AutomationRule struct{}

func NewAutomationRule() *AutomationRule {
	return &AutomationRule{}
}

func (r *AutomationRule) Name() string {
	return "Automation"
}

func (r *AutomationRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	var signals []models.Signal

	if payload.Navigator.Webdriver != nil && *payload.Navigator.Webdriver {
		signals = append(signals, models.NewSignal(
			"WEBDRIVER_ENABLED", 70,
			"Browser reports webdriver-enabled automation.",
		))
	}

	ua := derived.UA
	if containsAny(ua, automationMarkers) {
		signals = append(signals, models.NewSignal(
			"AUTOMATION_UA_MARKER", 55,
			"User-Agent contains known automation markers.",
		))
	}

	if containsAny(ua, strongBotUAMarkers) {
		signals = append(signals, models.NewSignal(
			"STRONG_BOT_UA_MARKER", 85,
			"User-Agent matches strong non-browser bot signatures.",
		))
		return signals
	}

	if containsAny(ua, botUAMarkers) {
		signals = append(signals, models.NewSignal(
			"BOT_UA_MARKER", 45,
			"User-Agent contains crawler/bot keywords.",
		))
	}

	return signals
}
