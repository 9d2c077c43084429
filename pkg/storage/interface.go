package storage

import "github.com/gokaycavdar/fraudguard/pkg/models"

// ChallengeStore defines the interface for storing and retrieving
// short-lived CAPTCHA challenges. Implementations can use any backend:
// in-memory, Redis, etc.
//
// This backs the two-step flow: /fraud/check performs fraud evaluation and
// may require a captcha, returning a challenge_id; /fraud/captcha/verify
// verifies the captcha token and finalizes the decision by replaying the
// stored response snapshot, without re-evaluating fraud.
type ChallengeStore interface {
	// Create persists a new challenge and returns its ID.
	Create(response models.FraudCheckResponse, requestIP, origin string) (string, error)

	// Get retrieves an active challenge, returning nil, nil if it does not
	// exist or has expired/exhausted its attempt budget.
	Get(challengeID string) (*models.CaptchaChallenge, error)

	// IncrementAttempts records one verification attempt and returns the
	// new attempt count, or nil if the challenge is gone.
	IncrementAttempts(challengeID string) (*int, error)

	// Consume removes and returns an active challenge. Used after
	// successful captcha verification so a challenge can be redeemed once.
	Consume(challengeID string) (*models.CaptchaChallenge, error)
}
