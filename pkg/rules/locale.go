package rules

import (
	"time"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

// LocaleRule checks navigator.language against navigator.languages for
// self-consistency, and the reported timezone against the reported UTC
// offset.
type LocaleRule struct{}

func NewLocaleRule() *LocaleRule {
	return &LocaleRule{}
}

func (r *LocaleRule) Name() string {
	return "Locale"
}

func (r *LocaleRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	var signals []models.Signal

	language := payload.Navigator.Language
	languages := payload.Navigator.Languages

	if language == "" && len(languages) == 0 {
		signals = append(signals, models.NewSignal(
			"MISSING_LANGUAGE_DATA", 10,
			"Browser language signals are missing.",
		))
	}

	if language != "" && len(languages) > 0 {
		bases := languageBaseSet(languages)
		if _, ok := bases[languageBase(language)]; !ok {
			signals = append(signals, models.NewSignal(
				"LANGUAGE_MISMATCH", 10,
				"navigator.language is inconsistent with navigator.languages.",
			))
		}
	}

	loc := payload.Location
	if loc == nil || loc.Timezone == "" || loc.UTCOffsetMinutes == nil {
		return signals
	}

	at := derived.Now
	if payload.CollectedAt != nil {
		at = *payload.CollectedAt
	}
	expected, ok := timezoneOffsetMinutes(loc.Timezone, at)
	if !ok {
		return signals
	}

	if abs(expected-*loc.UTCOffsetMinutes) > 60 {
		signals = append(signals, models.NewSignal(
			"TIMEZONE_OFFSET_MISMATCH", 20,
			"Reported timezone and UTC offset are inconsistent.",
		))
	}

	return signals
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// timezoneOffsetMinutes resolves an IANA zone name's UTC offset at the
// given instant. Returns ok=false for zone names the runtime's tzdata
// does not recognize, in which case the caller skips the check rather
// than guessing.
func timezoneOffsetMinutes(zone string, at time.Time) (int, bool) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return 0, false
	}
	_, offsetSeconds := at.In(loc).Zone()
	return offsetSeconds / 60, true
}
