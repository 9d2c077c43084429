package rules

import (
	"testing"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

func TestParseAcceptLanguagePreservesOrder(t *testing.T) {
	langs := parseAcceptLanguage("en-US,en;q=0.9, de;q=0.8")
	if len(langs) != 3 || langs[0] != "en-US" || langs[1] != "en" || langs[2] != "de" {
		t.Errorf("parseAcceptLanguage() = %+v", langs)
	}
}

func TestParseSecChUABrands(t *testing.T) {
	brands := parseSecChUABrands(`"Chromium";v="120", "Not=A?Brand";v="24", "Google Chrome";v="120"`)
	if len(brands) != 3 {
		t.Fatalf("expected 3 brands, got %+v", brands)
	}
	if brands[0] != "Chromium" || brands[1] != "Not=A?Brand" || brands[2] != "Google Chrome" {
		t.Errorf("unexpected brands: %+v", brands)
	}
	if got := parseSecChUABrands(""); len(got) != 0 {
		t.Errorf("expected no brands from an empty header, got %+v", got)
	}
}

func TestJaccardSimilarity(t *testing.T) {
	a := normalizeBrandSet([]string{"Chromium", "Google Chrome"})
	b := normalizeBrandSet([]string{"chromium", "google  chrome"})
	if got := jaccardSimilarity(a, b); got != 1.0 {
		t.Errorf("normalized identical sets should score 1.0, got %v", got)
	}

	c := normalizeBrandSet([]string{"Firefox"})
	if got := jaccardSimilarity(a, c); got != 0.0 {
		t.Errorf("disjoint sets should score 0.0, got %v", got)
	}

	if got := jaccardSimilarity(nil, nil); got != 1.0 {
		t.Errorf("two empty sets should score 1.0, got %v", got)
	}
}

func TestHeadersRuleUAHeaderPayloadMismatch(t *testing.T) {
	rule := NewHeadersRule()
	payload := &models.FraudCheckRequest{
		Navigator: models.NavigatorSignals{UserAgent: "Mozilla/5.0 (Windows NT 10.0)"},
	}
	signals := rule.Collect(payload, Derived{
		UA:      "mozilla/5.0 (windows nt 10.0)",
		Headers: map[string]string{"user-agent": "curl/8.4.0"},
	})
	if !hasSignal(signals, "UA_HEADER_PAYLOAD_MISMATCH") {
		t.Errorf("expected UA_HEADER_PAYLOAD_MISMATCH, got %+v", signals)
	}

	same := rule.Collect(payload, Derived{
		UA:      "mozilla/5.0 (windows nt 10.0)",
		Headers: map[string]string{"user-agent": "Mozilla/5.0  (Windows NT 10.0)"},
	})
	if hasSignal(same, "UA_HEADER_PAYLOAD_MISMATCH") {
		t.Errorf("whitespace/case differences must not trigger a mismatch, got %+v", same)
	}
}

func TestHeadersRuleClientHintsMismatches(t *testing.T) {
	mobile := false
	payload := &models.FraudCheckRequest{
		Navigator: models.NavigatorSignals{UserAgent: "Mozilla/5.0 Chrome/120.0"},
		ClientHints: &models.ClientHintsSignals{
			Mobile:   &mobile,
			Platform: "Windows",
			Brands:   []string{"Chromium", "Google Chrome"},
		},
	}
	rule := NewHeadersRule()

	signals := rule.Collect(payload, Derived{
		UA: "mozilla/5.0 chrome/120.0",
		Headers: map[string]string{
			"sec-ch-ua-mobile":   "?1",
			"sec-ch-ua-platform": `"macOS"`,
			"sec-ch-ua":          `"Firefox";v="120"`,
		},
	})
	for _, want := range []string{"CH_MOBILE_MISMATCH", "CH_PLATFORM_MISMATCH", "CH_BRANDS_MISMATCH"} {
		if !hasSignal(signals, want) {
			t.Errorf("expected %s, got %+v", want, signals)
		}
	}
}

func TestHeadersRulePartialBrandOverlap(t *testing.T) {
	payload := &models.FraudCheckRequest{
		Navigator: models.NavigatorSignals{UserAgent: "Mozilla/5.0 Chrome/120.0"},
		ClientHints: &models.ClientHintsSignals{
			Brands: []string{"Chromium", "Google Chrome"},
		},
	}
	signals := NewHeadersRule().Collect(payload, Derived{
		UA: "mozilla/5.0 chrome/120.0",
		Headers: map[string]string{
			"sec-ch-ua": `"Chromium";v="120", "Google Chrome";v="120", "Not=A?Brand";v="24"`,
		},
	})
	if !hasSignal(signals, "CH_BRANDS_PARTIAL_MISMATCH") {
		t.Errorf("expected CH_BRANDS_PARTIAL_MISMATCH for a 2/3 overlap, got %+v", signals)
	}
	if hasSignal(signals, "CH_BRANDS_MISMATCH") {
		t.Errorf("a 2/3 overlap is above the 0.5 cutoff, got %+v", signals)
	}
}

func TestHeadersRuleChromiumMissingClientHintHeaders(t *testing.T) {
	payload := &models.FraudCheckRequest{
		Navigator:   models.NavigatorSignals{UserAgent: "Mozilla/5.0 Chrome/120.0"},
		ClientHints: &models.ClientHintsSignals{Platform: "Windows"},
	}
	signals := NewHeadersRule().Collect(payload, Derived{
		UA:      "mozilla/5.0 chrome/120.0",
		Headers: map[string]string{},
	})
	if !hasSignal(signals, "CH_HEADERS_MISSING") {
		t.Errorf("expected CH_HEADERS_MISSING, got %+v", signals)
	}
}

func TestHeadersRuleAcceptLanguageMismatches(t *testing.T) {
	payload := &models.FraudCheckRequest{
		Navigator: models.NavigatorSignals{
			UserAgent: "Mozilla/5.0",
			Language:  "en-US",
			Languages: []string{"en-US", "en"},
		},
	}
	rule := NewHeadersRule()

	signals := rule.Collect(payload, Derived{
		UA:      "mozilla/5.0",
		Headers: map[string]string{"accept-language": "de-DE,de;q=0.9"},
	})
	if !hasSignal(signals, "ACCEPT_LANGUAGE_MISMATCH") {
		t.Errorf("expected ACCEPT_LANGUAGE_MISMATCH, got %+v", signals)
	}
	if !hasSignal(signals, "ACCEPT_LANGUAGE_LIST_MISMATCH") {
		t.Errorf("expected ACCEPT_LANGUAGE_LIST_MISMATCH, got %+v", signals)
	}

	consistent := rule.Collect(payload, Derived{
		UA:      "mozilla/5.0",
		Headers: map[string]string{"accept-language": "en-US,en;q=0.9"},
	})
	if len(consistent) != 0 {
		t.Errorf("consistent accept-language should yield no signals, got %+v", consistent)
	}
}
