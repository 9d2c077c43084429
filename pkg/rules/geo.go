package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

// GeoRule compares the client's self-reported location against the
// resolved IP geolocation: hosting-provider IPs, country/timezone/UTC
// offset disagreement, and implausible browser-geolocation-vs-IP
// distance given the reported accuracy.
type GeoRule struct{}

func NewGeoRule() *GeoRule {
	return &GeoRule{}
}

func (r *GeoRule) Name() string {
	return "GeoConsistency"
}

func (r *GeoRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	ipGeo := derived.IPGeo
	if ipGeo == nil {
		return nil
	}

	var signals []models.Signal

	if ipGeo.IsHosting {
		signals = append(signals, models.NewSignal(
			"HOSTING_PROVIDER_IP", 20,
			"IP appears to belong to a hosting/data-center provider.",
		))
	}

	loc := payload.Location
	if loc == nil {
		return signals
	}

	if loc.CountryISO != "" && ipGeo.CountryISO != "" &&
		!equalFoldASCII(loc.CountryISO, ipGeo.CountryISO) {
		signals = append(signals, models.NewSignal(
			"IP_COUNTRY_MISMATCH", 35,
			"Location country does not match IP geolocation country.",
		))
	}

	if loc.Timezone != "" && ipGeo.Timezone != "" && loc.Timezone != ipGeo.Timezone {
		signals = append(signals, models.NewSignal(
			"IP_TIMEZONE_MISMATCH", 15,
			"Reported timezone does not match IP geolocation timezone.",
		))
	}

	if loc.UTCOffsetMinutes != nil && ipGeo.UTCOffsetMinutes != nil &&
		abs(*loc.UTCOffsetMinutes-*ipGeo.UTCOffsetMinutes) > 60 {
		signals = append(signals, models.NewSignal(
			"IP_UTC_OFFSET_MISMATCH", 18,
			"Reported UTC offset does not match IP geolocation UTC offset.",
		))
	}

	if loc.Latitude != nil && loc.Longitude != nil && loc.AccuracyMeters != nil &&
		*loc.AccuracyMeters <= 50000 && ipGeo.Latitude != nil && ipGeo.Longitude != nil {
		distanceKm := haversine(*loc.Latitude, *loc.Longitude, *ipGeo.Latitude, *ipGeo.Longitude)
		if distanceKm >= 800 {
			signals = append(signals, models.NewSignal(
				"GEOLOCATION_DISTANCE_MISMATCH", 25,
				"Browser geolocation is too far from IP geolocation for the reported accuracy.",
			))
		}
	}

	return signals
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
