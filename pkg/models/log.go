package models

import "time"

// FraudCheckLog is the append-only audit row written once per check and
// once per verify result.
type FraudCheckLog struct {
	ID                int64     `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	RequestIP         string    `json:"request_ip,omitempty"`
	IPCountryISO      string    `json:"ip_country_iso,omitempty"`
	FingerprintID     string    `json:"fingerprint_id"`
	Origin            string    `json:"origin,omitempty"`
	RequestPayload    string    `json:"request_payload,omitempty"`
	Decision          string    `json:"decision"`
	RiskScore         int       `json:"risk_score"`
	Signals           []Signal  `json:"signals"`
	CaptchaRequired   bool      `json:"captcha_required"`
	CaptchaVerified   bool      `json:"captcha_verified"`
	ChallengeID       string    `json:"challenge_id,omitempty"`
}
