package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

// IPConsistencyRule compares the IP the client claims to have (often read
// client-side from a WebRTC leak or echo service) against the IP the
// request actually arrived from.
type IPConsistencyRule struct{}

func NewIPConsistencyRule() *IPConsistencyRule {
	return &IPConsistencyRule{}
}

func (r *IPConsistencyRule) Name() string {
	return "IPConsistency"
}

func (r *IPConsistencyRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	clientReported := normalizeIP(payload.ClientReportedIP)
	requestIP := normalizeIP(derived.RequestIP)

	if clientReported != "" && requestIP != "" && clientReported != requestIP {
		return []models.Signal{models.NewSignal(
			"CLIENT_IP_MISMATCH", 30,
			"Client-reported IP differs from request source IP.",
		)}
	}

	return nil
}
