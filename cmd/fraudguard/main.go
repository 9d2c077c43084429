// Command fraudguard runs the fraud-scoring HTTP service: it loads
// configuration from the environment, wires every component by explicit
// constructor call, and serves the gin router.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gokaycavdar/fraudguard/internal/config"
	"github.com/gokaycavdar/fraudguard/internal/httpapi"
	"github.com/gokaycavdar/fraudguard/internal/logging"
	"github.com/gokaycavdar/fraudguard/pkg/audit"
	"github.com/gokaycavdar/fraudguard/pkg/captcha"
	"github.com/gokaycavdar/fraudguard/pkg/counters"
	"github.com/gokaycavdar/fraudguard/pkg/engine"
	"github.com/gokaycavdar/fraudguard/pkg/geoclient"
	"github.com/gokaycavdar/fraudguard/pkg/rules"
	"github.com/gokaycavdar/fraudguard/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	rateLimiter := counters.NewRateLimiter(
		time.Duration(cfg.Fraud.RateLimitWindowSeconds)*time.Second,
		cfg.Fraud.RateLimitMaxRequestsPerIP,
	)

	velocity := counters.NewFingerprintVelocity(counters.VelocityConfig{
		WindowSeconds:       cfg.Fraud.FingerprintVelocityWindowSeconds,
		CriticalThreshold:   cfg.Fraud.FingerprintVelocityCriticalThreshold,
		CriticalWeight:      cfg.Fraud.FingerprintVelocityCriticalWeight,
		SuspiciousThreshold: cfg.Fraud.FingerprintVelocitySuspiciousThreshold,
		SuspiciousWeight:    cfg.Fraud.FingerprintVelocitySuspiciousWeight,
		WarnThreshold:       cfg.Fraud.FingerprintVelocityWarnThreshold,
		WarnWeight:          cfg.Fraud.FingerprintVelocityWarnWeight,
	})

	behavior := counters.NewBehaviorSimilarity(counters.BehaviorSimilarityConfig{
		HistorySize:         cfg.Fraud.BehaviorSimilarityHistorySize,
		WindowSeconds:       cfg.Fraud.BehaviorSimilarityWindowSeconds,
		TolerancePct:        cfg.Fraud.BehaviorSimilarityTolerancePct,
		MatchRatio:          cfg.Fraud.BehaviorSimilarityMatchRatio,
		WarnThreshold:       cfg.Fraud.BehaviorSimilarityWarnThreshold,
		WarnWeight:          cfg.Fraud.BehaviorSimilarityWarnWeight,
		SuspiciousThreshold: cfg.Fraud.BehaviorSimilaritySuspiciousThreshold,
		SuspiciousWeight:    cfg.Fraud.BehaviorSimilaritySuspiciousWeight,
	})

	geo := geoclient.New(geoclient.Config{
		Enabled:         cfg.Fraud.IPGeolocationEnabled,
		BaseURL:         cfg.Fraud.IPGeolocationBaseURL,
		TimeoutSeconds:  cfg.Fraud.IPGeolocationTimeoutSeconds,
		CacheTTLSeconds: cfg.Fraud.IPGeolocationCacheTTLSeconds,
	})

	var verifier captcha.Verifier
	switch cfg.Fraud.CaptchaProvider {
	case "turnstile":
		verifier = captcha.NewTurnstileVerifier(captcha.TurnstileConfig{
			SiteKey:        cfg.Fraud.TurnstileSiteKey,
			SecretKey:      cfg.Fraud.TurnstileSecretKey,
			VerifyURL:      cfg.Fraud.TurnstileVerifyURL,
			TimeoutSeconds: cfg.Fraud.TurnstileTimeoutSeconds,
		})
	case "hcaptcha", "recaptcha":
		verifier = captcha.NewProviderVerifier(captcha.Config{
			Enabled:        true,
			Provider:       cfg.Fraud.CaptchaProvider,
			SiteKey:        cfg.Fraud.CaptchaSiteKey,
			SecretKey:      cfg.Fraud.CaptchaSecretKey,
			VerifyURL:      cfg.Fraud.CaptchaVerifyURL,
			TimeoutSeconds: cfg.Fraud.CaptchaTimeoutSeconds,
		})
	}

	challengeTTL := time.Duration(cfg.Fraud.TurnstileChallengeTTLSeconds) * time.Second
	challenges := storage.NewMemoryChallengeStore(challengeTTL, cfg.Fraud.CaptchaMaxAttempts)

	auditSink, err := audit.Open(cfg.Audit.SqlitePath)
	if err != nil {
		logger.Error().Err(err).Msg("audit sink unavailable, continuing without persistence")
		auditSink = nil
	} else {
		defer auditSink.Close()
	}

	eng := engine.NewFraudEngine(
		engine.Config{
			BlockScoreThreshold:  cfg.Fraud.BlockScoreThreshold,
			ReviewScoreThreshold: cfg.Fraud.ReviewScoreThreshold,
		},
		rateLimiter,
		rules.NewCollector(),
		geo,
		velocity,
		behavior,
		challenges,
		verifier,
		auditSink,
		logger,
	)

	server := httpapi.New(*cfg, eng, auditSink, logger)
	router := server.Router()

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	logger.Info().Str("addr", addr).Msg("fraudguard listening")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
