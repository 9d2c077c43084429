// Package engine implements the scoring orchestrator: the single facade
// that turns one browser telemetry payload into a FraudCheckResponse, and
// resolves a CAPTCHA verification back into a final verdict.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokaycavdar/fraudguard/pkg/captcha"
	"github.com/gokaycavdar/fraudguard/pkg/counters"
	"github.com/gokaycavdar/fraudguard/pkg/models"
	"github.com/gokaycavdar/fraudguard/pkg/rules"
	"github.com/gokaycavdar/fraudguard/pkg/storage"
)

// Sentinel errors surfaced by Verify. The HTTP layer maps these to status
// codes with errors.Is rather than inspecting error strings.
var (
	ErrChallengeNotFound       = errors.New("engine: challenge not found")
	ErrChallengeIPMissing      = errors.New("engine: challenge requires a request ip")
	ErrChallengeIPMismatch     = errors.New("engine: challenge ip mismatch")
	ErrChallengeOriginMissing  = errors.New("engine: challenge requires an origin")
	ErrChallengeOriginMismatch = errors.New("engine: challenge origin mismatch")
)

// GeoResolver resolves a request IP's coarse geolocation. Defined here
// (consumer side) so the engine depends only on the method shape it needs,
// not on pkg/geoclient's concrete type.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (*models.IpGeoResult, error)
}

// AuditSink appends one audit row per check/verify outcome. Defined here so
// the engine does not import pkg/audit directly.
type AuditSink interface {
	Append(ctx context.Context, log models.FraudCheckLog) error
}

// Config carries the engine's own scoring thresholds. Every other tunable
// (rate-limit window, velocity tiers, behavior tolerances, captcha TTL) is
// owned by the component it configures and injected as a ready dependency.
type Config struct {
	BlockScoreThreshold  int
	ReviewScoreThreshold int
}

// FraudEngine is the scoring orchestrator. It holds no package-level state;
// every dependency arrives through NewFraudEngine.
type FraudEngine struct {
	cfg Config

	rateLimiter *counters.RateLimiter
	collector   *rules.Collector
	geo         GeoResolver
	velocity    *counters.FingerprintVelocity
	behavior    *counters.BehaviorSimilarity
	challenges  storage.ChallengeStore
	verifier    captcha.Verifier
	audit       AuditSink

	logger zerolog.Logger
}

// NewFraudEngine wires every dependency the orchestrator needs. geo and
// verifier may be nil, meaning IP-geo resolution and CAPTCHA issuance are
// both disabled.
func NewFraudEngine(
	cfg Config,
	rateLimiter *counters.RateLimiter,
	collector *rules.Collector,
	geo GeoResolver,
	velocity *counters.FingerprintVelocity,
	behavior *counters.BehaviorSimilarity,
	challenges storage.ChallengeStore,
	verifier captcha.Verifier,
	audit AuditSink,
	logger zerolog.Logger,
) *FraudEngine {
	return &FraudEngine{
		cfg:         cfg,
		rateLimiter: rateLimiter,
		collector:   collector,
		geo:         geo,
		velocity:    velocity,
		behavior:    behavior,
		challenges:  challenges,
		verifier:    verifier,
		audit:       audit,
		logger:      logger.With().Str("component", "engine").Logger(),
	}
}

// Check runs the full scoring pipeline for one payload and returns the
// resulting verdict. It never returns an error for model-level outcomes —
// every signal, even a rate-limit block, is expressed in the returned
// response, matching the propagation policy that only protocol violations
// produce a non-nil error.
func (e *FraudEngine) Check(ctx context.Context, payload *models.FraudCheckRequest, requestIP string, headers map[string]string, origin string) (*models.FraudCheckResponse, error) {
	requestIP = rules.NormalizeIP(requestIP)
	fingerprintID := computeFingerprint(payload)
	now := time.Now()

	if !e.rateLimiter.Allow(requestIP) {
		response := &models.FraudCheckResponse{
			Decision:      models.DecisionBlock,
			RiskScore:     100,
			FingerprintID: fingerprintID,
			RequestIP:     requestIP,
			Signals:       []models.Signal{models.NewSignal("RATE_LIMIT_EXCEEDED", 100, "Request rate limit exceeded for this IP.")},
			EvaluatedAt:   now,
		}
		e.appendAudit(ctx, payload, response, origin)
		return response, nil
	}

	ua := rules.NormalizeText(payload.Navigator.UserAgent)
	derived := rules.Derived{
		UA:        ua,
		Platform:  rules.NormalizeText(payload.Navigator.Platform),
		RequestIP: requestIP,
		Headers:   rules.NormalizeHeaders(headers),
		Now:       now,
	}
	derived.IsMobileUA = rules.HasMobileUA(ua)
	derived.IsDesktopUA = !derived.IsMobileUA

	signals := e.collector.CollectStateless(payload, derived)

	var ipCountry string
	if e.geo != nil {
		geoResult, err := e.geo.Resolve(ctx, requestIP)
		if err != nil {
			e.logger.Warn().Err(err).Msg("ip geolocation lookup failed")
		}
		if geoResult != nil {
			derived.IPGeo = geoResult
			ipCountry = geoResult.CountryISO
			signals = append(signals, e.collector.CollectGeo(payload, derived)...)
		}
	}

	signals = append(signals, e.velocity.RecordAndCheck(fingerprintID)...)
	signals = append(signals, e.behavior.RecordAndCheck(fingerprintID, payload.Behavior)...)

	score := models.SumWeights(signals)
	decision := models.DecisionForScore(score, e.cfg.BlockScoreThreshold, e.cfg.ReviewScoreThreshold)

	response := &models.FraudCheckResponse{
		Decision:      decision,
		RiskScore:     score,
		FingerprintID: fingerprintID,
		RequestIP:     requestIP,
		IPCountryISO:  ipCountry,
		Signals:       signals,
		EvaluatedAt:   now,
	}

	if decision == models.DecisionReview && e.verifier != nil && e.verifier.IsConfigured() && e.challenges != nil {
		challengeID, err := e.challenges.Create(response.Clone(), requestIP, origin)
		if err != nil {
			e.logger.Error().Err(err).Msg("failed to create captcha challenge")
		} else {
			response.CaptchaRequired = true
			response.CaptchaProvider = e.verifier.Provider()
			response.CaptchaSiteKey = e.verifier.SiteKey()
			response.ChallengeID = challengeID
		}
	}

	e.appendAudit(ctx, payload, response, origin)
	return response, nil
}

// Verify resolves a pending challenge against a submitted CAPTCHA token.
// Only protocol-level failures (challenge absent, binding mismatch) are
// returned as errors; rate-limiting and verifier failures are expressed
// in-band in the returned response, per the check/verify propagation
// policy.
func (e *FraudEngine) Verify(ctx context.Context, challengeID, token, requestIP, origin string) (*models.FraudCheckResponse, error) {
	requestIP = rules.NormalizeIP(requestIP)

	challenge, err := e.challenges.Get(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	if !e.rateLimiter.Allow(requestIP) {
		return &models.FraudCheckResponse{
			Decision:      models.DecisionBlock,
			RiskScore:     100,
			FingerprintID: challenge.Response.FingerprintID,
			RequestIP:     requestIP,
			Signals:       []models.Signal{models.NewSignal("RATE_LIMIT_EXCEEDED", 100, "Request rate limit exceeded for this IP.")},
			EvaluatedAt:   time.Now(),
		}, nil
	}

	if err := bindingError(challenge.RequestIP, requestIP, challenge.Origin, origin); err != nil {
		return nil, err
	}

	result := e.verifier.Verify(ctx, token, requestIP)

	if result.Success {
		consumed, err := e.challenges.Consume(challengeID)
		if err != nil {
			return nil, err
		}
		if consumed == nil {
			return nil, ErrChallengeNotFound
		}
		response := consumed.Response.Clone()
		response.Decision = models.DecisionAllow
		response.CaptchaRequired = false
		response.CaptchaVerified = true
		response.CaptchaErrorCodes = nil
		response.ChallengeID = challengeID
		response.EvaluatedAt = time.Now()
		e.appendAudit(ctx, nil, &response, origin)
		return &response, nil
	}

	if _, err := e.challenges.IncrementAttempts(challengeID); err != nil {
		e.logger.Error().Err(err).Msg("failed to increment captcha attempts")
	}

	response := challenge.Response.Clone()
	response.CaptchaRequired = true
	response.CaptchaVerified = false
	response.CaptchaErrorCodes = result.ErrorCodes
	response.ChallengeID = challengeID
	response.EvaluatedAt = time.Now()
	e.appendAudit(ctx, nil, &response, origin)
	return &response, nil
}

// bindingError enforces the challenge's recorded IP/origin, if any, against
// the values presented at verify time.
func bindingError(boundIP, requestIP, boundOrigin, requestOrigin string) error {
	if boundIP != "" {
		if requestIP == "" {
			return ErrChallengeIPMissing
		}
		if requestIP != boundIP {
			return ErrChallengeIPMismatch
		}
	}
	if boundOrigin != "" {
		normalizedRequestOrigin := strings.ToLower(strings.TrimSpace(requestOrigin))
		normalizedBoundOrigin := strings.ToLower(strings.TrimSpace(boundOrigin))
		if normalizedRequestOrigin == "" {
			return ErrChallengeOriginMissing
		}
		if normalizedRequestOrigin != normalizedBoundOrigin {
			return ErrChallengeOriginMismatch
		}
	}
	return nil
}

// appendAudit builds and writes one audit row. payload is nil for verify
// outcomes, which carry no request body to record.
func (e *FraudEngine) appendAudit(ctx context.Context, payload *models.FraudCheckRequest, response *models.FraudCheckResponse, origin string) {
	if e.audit == nil {
		return
	}
	log := models.FraudCheckLog{
		CreatedAt:       response.EvaluatedAt,
		RequestIP:       response.RequestIP,
		IPCountryISO:    response.IPCountryISO,
		FingerprintID:   response.FingerprintID,
		Origin:          origin,
		Decision:        response.Decision,
		RiskScore:       response.RiskScore,
		Signals:         response.Signals,
		CaptchaRequired: response.CaptchaRequired,
		CaptchaVerified: response.CaptchaVerified,
		ChallengeID:     response.ChallengeID,
	}
	if payload != nil {
		log.RequestPayload = marshalPayloadBestEffort(payload)
	}
	if err := e.audit.Append(ctx, log); err != nil {
		e.logger.Error().Err(err).Msg("audit append failed")
	}
}
