package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

// HeadersRule cross-checks the raw HTTP request headers against the
// payload's self-reported navigator/client-hints fields. A proxy or
// scripted client frequently forges one without touching the other.
type HeadersRule struct{}

func NewHeadersRule() *HeadersRule {
	return &HeadersRule{}
}

func (r *HeadersRule) Name() string {
	return "HeaderConsistency"
}

func (r *HeadersRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	var signals []models.Signal
	headers := derived.Headers

	headerUA := headers["user-agent"]
	if headerUA != "" && normalizeText(headerUA) != normalizeText(payload.Navigator.UserAgent) {
		signals = append(signals, models.NewSignal(
			"UA_HEADER_PAYLOAD_MISMATCH", 40,
			"Request User-Agent does not match payload user_agent.",
		))
	}

	headerAcceptLanguage := headers["accept-language"]
	payloadLanguage := payload.Navigator.Language
	if headerAcceptLanguage != "" && payloadLanguage != "" {
		primary := parseAcceptLanguage(headerAcceptLanguage)
		if len(primary) > 0 && languageBase(primary[0]) != languageBase(payloadLanguage) {
			signals = append(signals, models.NewSignal(
				"ACCEPT_LANGUAGE_MISMATCH", 15,
				"Request Accept-Language does not match payload language.",
			))
		}
	}

	if headerAcceptLanguage != "" && len(payload.Navigator.Languages) > 0 {
		headerBases := languageBaseSet(parseAcceptLanguage(headerAcceptLanguage))
		payloadBases := languageBaseSet(payload.Navigator.Languages)
		if len(headerBases) > 0 && len(payloadBases) > 0 && !setsIntersect(headerBases, payloadBases) {
			signals = append(signals, models.NewSignal(
				"ACCEPT_LANGUAGE_LIST_MISMATCH", 8,
				"Accept-Language header is inconsistent with navigator.languages.",
			))
		}
	}

	ch := payload.ClientHints
	if ch != nil && ch.Mobile != nil {
		if headerMobile, ok := headers["sec-ch-ua-mobile"]; ok && (headerMobile == "?0" || headerMobile == "?1") {
			isHeaderMobile := headerMobile == "?1"
			if isHeaderMobile != *ch.Mobile {
				signals = append(signals, models.NewSignal(
					"CH_MOBILE_MISMATCH", 20,
					"sec-ch-ua-mobile header does not match payload client hints.",
				))
			}
		}
	}

	if ch != nil && ch.Platform != "" {
		if headerPlatform, ok := headers["sec-ch-ua-platform"]; ok && headerPlatform != "" {
			normalizedHeader := normalizeText(trimQuotes(headerPlatform))
			normalizedPayload := normalizeText(ch.Platform)
			if normalizedHeader != normalizedPayload {
				signals = append(signals, models.NewSignal(
					"CH_PLATFORM_MISMATCH", 15,
					"sec-ch-ua-platform header does not match payload client hints.",
				))
			}
		}
	}

	headerChUA := headers["sec-ch-ua"]
	if ch != nil && len(ch.Brands) > 0 {
		payloadBrands := normalizeBrandSet(ch.Brands)
		headerBrands := normalizeBrandSet(parseSecChUABrands(headerChUA))

		if len(payloadBrands) > 0 && len(headerBrands) > 0 {
			similarity := jaccardSimilarity(payloadBrands, headerBrands)
			switch {
			case similarity < 0.5:
				signals = append(signals, models.NewSignal(
					"CH_BRANDS_MISMATCH", 25,
					"sec-ch-ua brands do not match payload client hints brands.",
				))
			case similarity < 1.0:
				signals = append(signals, models.NewSignal(
					"CH_BRANDS_PARTIAL_MISMATCH", 10,
					"sec-ch-ua brands partially mismatch payload client hints brands.",
				))
			}
		}
	}

	if isChromiumUA(derived.UA) && headerChUA == "" && ch != nil {
		signals = append(signals, models.NewSignal(
			"CH_HEADERS_MISSING", 8,
			"User-AgentData is present but sec-ch-ua headers are missing.",
		))
	}

	return signals
}

func setsIntersect(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
