package models

import "time"

// FraudCheckResponse is returned by both /fraud/check and
// /fraud/captcha/verify (the latter either echoing the original verdict or
// upgrading it to allow).
type FraudCheckResponse struct {
	Decision          string    `json:"decision"`
	RiskScore         int       `json:"risk_score"`
	FingerprintID     string    `json:"fingerprint_id"`
	RequestIP         string    `json:"request_ip,omitempty"`
	IPCountryISO      string    `json:"ip_country_iso,omitempty"`
	Signals           []Signal  `json:"signals"`
	CaptchaRequired   bool      `json:"captcha_required"`
	CaptchaVerified   bool      `json:"captcha_verified"`
	CaptchaProvider   string    `json:"captcha_provider,omitempty"`
	CaptchaSiteKey    string    `json:"captcha_site_key,omitempty"`
	CaptchaErrorCodes []string  `json:"captcha_error_codes,omitempty"`
	ChallengeID       string    `json:"challenge_id,omitempty"`
	EvaluatedAt       time.Time `json:"evaluated_at"`
}

// Clone returns a deep copy so a stored challenge snapshot is never mutated
// by later changes to the live response (captcha fields are attached after
// the snapshot is taken).
func (r FraudCheckResponse) Clone() FraudCheckResponse {
	clone := r
	if r.Signals != nil {
		clone.Signals = make([]Signal, len(r.Signals))
		copy(clone.Signals, r.Signals)
	}
	if r.CaptchaErrorCodes != nil {
		clone.CaptchaErrorCodes = make([]string, len(r.CaptchaErrorCodes))
		copy(clone.CaptchaErrorCodes, r.CaptchaErrorCodes)
	}
	return clone
}
