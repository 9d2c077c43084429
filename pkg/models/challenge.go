package models

import "time"

// CaptchaChallenge is a single-use server-side record binding a pending
// CAPTCHA attempt to the request IP/origin it was issued under and the
// verdict snapshot it will resolve to on success.
type CaptchaChallenge struct {
	Response  FraudCheckResponse
	RequestIP string
	Origin    string
	ExpiresAt time.Time // monotonic-backed deadline
	Attempts  int
}
