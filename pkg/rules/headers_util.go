package rules

import (
	"regexp"
	"strings"
)

// secChUABrandPattern matches entries like `"Chromium";v="120"` in the
// sec-ch-ua header.
var secChUABrandPattern = regexp.MustCompile(`"([^"]+)"\s*;\s*v\s*=\s*"?(\d+)"?`)

// parseSecChUABrands extracts quoted brand names from a sec-ch-ua header
// value.
func parseSecChUABrands(header string) []string {
	matches := secChUABrandPattern.FindAllStringSubmatch(header, -1)
	brands := make([]string, 0, len(matches))
	for _, m := range matches {
		brands = append(brands, m[1])
	}
	return brands
}

// normalizeBrand lowercases and collapses whitespace in a brand name so
// brand sets from different sources compare equal.
func normalizeBrand(brand string) string {
	return strings.ToLower(strings.Join(strings.Fields(brand), " "))
}

func normalizeBrandSet(brands []string) map[string]struct{} {
	set := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		set[normalizeBrand(b)] = struct{}{}
	}
	return set
}

// jaccardSimilarity returns |A∩B|/|A∪B|, defined as 1.0 when both sets are
// empty.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// parseAcceptLanguage splits on commas, keeps the first `;`-delimited
// segment of each token trimmed, and preserves order.
func parseAcceptLanguage(header string) []string {
	tokens := strings.Split(header, ",")
	langs := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		first := strings.TrimSpace(strings.SplitN(tok, ";", 2)[0])
		if first != "" {
			langs = append(langs, first)
		}
	}
	return langs
}

// languageBase returns the primary subtag of a BCP-47 language code,
// lowercased (e.g. "en-US" -> "en").
func languageBase(lang string) string {
	return strings.ToLower(strings.SplitN(lang, "-", 2)[0])
}

func languageBaseSet(langs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		set[languageBase(l)] = struct{}{}
	}
	return set
}
