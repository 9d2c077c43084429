// Package config loads every runtime setting from the environment via
// spf13/viper: no config file, a fixed env prefix, and defaults registered
// in code so the service boots with zero configuration.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envPrefix already carries the trailing separator: viper's SetEnvPrefix
// joins it to every key with one more "_", so "APP_" + "_" + "FRAUD__..."
// yields the APP__FRAUD__... double-underscore shape.
const (
	envPrefix    = "APP_"
	envDelimiter = "__"
)

// APIConfig configures the HTTP surface's own identity and auth.
type APIConfig struct {
	Title        string
	Version      string
	Host         string
	Port         int
	AllowedHosts []string
	APIKey       string
}

// FraudConfig configures every tunable of the scoring pipeline.
type FraudConfig struct {
	BlockScoreThreshold  int
	ReviewScoreThreshold int

	TrustForwardedIP bool

	RateLimitWindowSeconds        int
	RateLimitMaxRequestsPerIP     int

	IPGeolocationEnabled         bool
	IPGeolocationTimeoutSeconds  int
	IPGeolocationBaseURL         string
	IPGeolocationCacheTTLSeconds int

	CaptchaProvider      string
	CaptchaSiteKey       string
	CaptchaSecretKey     string
	CaptchaVerifyURL     string
	CaptchaTimeoutSeconds int
	CaptchaMaxAttempts   int

	TurnstileSiteKey             string
	TurnstileSecretKey           string
	TurnstileVerifyURL           string
	TurnstileJSURL               string
	TurnstileTimeoutSeconds      int
	TurnstileChallengeTTLSeconds int

	FingerprintVelocityWindowSeconds       int
	FingerprintVelocityCriticalThreshold   int
	FingerprintVelocityCriticalWeight      int
	FingerprintVelocitySuspiciousThreshold int
	FingerprintVelocitySuspiciousWeight    int
	FingerprintVelocityWarnThreshold       int
	FingerprintVelocityWarnWeight          int

	BehaviorSimilarityHistorySize         int
	BehaviorSimilarityWindowSeconds       int
	BehaviorSimilarityTolerancePct        float64
	BehaviorSimilarityMatchRatio          float64
	BehaviorSimilarityWarnThreshold       int
	BehaviorSimilarityWarnWeight          int
	BehaviorSimilaritySuspiciousThreshold int
	BehaviorSimilaritySuspiciousWeight    int
}

// AuditConfig configures the sqlite audit sink.
type AuditConfig struct {
	SqlitePath string
}

// LogConfig configures zerolog's level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Env   string
	API   APIConfig
	Fraud FraudConfig
	Audit AuditConfig
	Log   LogConfig
}

// Load reads APP__-prefixed environment variables into a Config, applying
// defaults for every key so the service never requires an env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envDelimiter))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	return &Config{
		Env: v.GetString("env"),
		API: APIConfig{
			Title:        v.GetString("api.title"),
			Version:      v.GetString("api.version"),
			Host:         v.GetString("api.host"),
			Port:         v.GetInt("api.port"),
			AllowedHosts: v.GetStringSlice("api.allowed_hosts"),
			APIKey:       v.GetString("api.api_key"),
		},
		Fraud: FraudConfig{
			BlockScoreThreshold:  v.GetInt("fraud.block_score_threshold"),
			ReviewScoreThreshold: v.GetInt("fraud.review_score_threshold"),

			TrustForwardedIP: v.GetBool("fraud.trust_forwarded_ip"),

			RateLimitWindowSeconds:    v.GetInt("fraud.rate_limit_window_seconds"),
			RateLimitMaxRequestsPerIP: v.GetInt("fraud.rate_limit_max_requests_per_ip"),

			IPGeolocationEnabled:         v.GetBool("fraud.ip_geolocation_enabled"),
			IPGeolocationTimeoutSeconds:  v.GetInt("fraud.ip_geolocation_timeout_seconds"),
			IPGeolocationBaseURL:         v.GetString("fraud.ip_geolocation_base_url"),
			IPGeolocationCacheTTLSeconds: v.GetInt("fraud.ip_geolocation_cache_ttl_seconds"),

			CaptchaProvider:       v.GetString("fraud.captcha_provider"),
			CaptchaSiteKey:        v.GetString("fraud.captcha_site_key"),
			CaptchaSecretKey:      v.GetString("fraud.captcha_secret_key"),
			CaptchaVerifyURL:      v.GetString("fraud.captcha_verify_url"),
			CaptchaTimeoutSeconds: v.GetInt("fraud.captcha_timeout_seconds"),
			CaptchaMaxAttempts:    v.GetInt("fraud.captcha_max_attempts"),

			TurnstileSiteKey:             v.GetString("fraud.turnstile_site_key"),
			TurnstileSecretKey:           v.GetString("fraud.turnstile_secret_key"),
			TurnstileVerifyURL:           v.GetString("fraud.turnstile_verify_url"),
			TurnstileJSURL:               v.GetString("fraud.turnstile_js_url"),
			TurnstileTimeoutSeconds:      v.GetInt("fraud.turnstile_timeout_seconds"),
			TurnstileChallengeTTLSeconds: v.GetInt("fraud.turnstile_challenge_ttl_seconds"),

			FingerprintVelocityWindowSeconds:       v.GetInt("fraud.fingerprint_velocity_window_seconds"),
			FingerprintVelocityCriticalThreshold:   v.GetInt("fraud.fingerprint_velocity_critical_threshold"),
			FingerprintVelocityCriticalWeight:      v.GetInt("fraud.fingerprint_velocity_critical_weight"),
			FingerprintVelocitySuspiciousThreshold: v.GetInt("fraud.fingerprint_velocity_suspicious_threshold"),
			FingerprintVelocitySuspiciousWeight:    v.GetInt("fraud.fingerprint_velocity_suspicious_weight"),
			FingerprintVelocityWarnThreshold:       v.GetInt("fraud.fingerprint_velocity_warn_threshold"),
			FingerprintVelocityWarnWeight:          v.GetInt("fraud.fingerprint_velocity_warn_weight"),

			BehaviorSimilarityHistorySize:         v.GetInt("fraud.behavior_similarity_history_size"),
			BehaviorSimilarityWindowSeconds:       v.GetInt("fraud.behavior_similarity_window_seconds"),
			BehaviorSimilarityTolerancePct:        v.GetFloat64("fraud.behavior_similarity_tolerance_pct"),
			BehaviorSimilarityMatchRatio:          v.GetFloat64("fraud.behavior_similarity_match_ratio"),
			BehaviorSimilarityWarnThreshold:       v.GetInt("fraud.behavior_similarity_warn_threshold"),
			BehaviorSimilarityWarnWeight:          v.GetInt("fraud.behavior_similarity_warn_weight"),
			BehaviorSimilaritySuspiciousThreshold: v.GetInt("fraud.behavior_similarity_suspicious_threshold"),
			BehaviorSimilaritySuspiciousWeight:    v.GetInt("fraud.behavior_similarity_suspicious_weight"),
		},
		Audit: AuditConfig{
			SqlitePath: v.GetString("audit.sqlite_path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")

	v.SetDefault("api.title", "fraudguard")
	v.SetDefault("api.version", "0.1.0")
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.allowed_hosts", []string{"*"})
	v.SetDefault("api.api_key", "")

	v.SetDefault("fraud.block_score_threshold", 70)
	v.SetDefault("fraud.review_score_threshold", 35)

	v.SetDefault("fraud.trust_forwarded_ip", false)

	v.SetDefault("fraud.rate_limit_window_seconds", 60)
	v.SetDefault("fraud.rate_limit_max_requests_per_ip", 30)

	v.SetDefault("fraud.ip_geolocation_enabled", false)
	v.SetDefault("fraud.ip_geolocation_timeout_seconds", 3)
	v.SetDefault("fraud.ip_geolocation_base_url", "https://ipapi.co")
	v.SetDefault("fraud.ip_geolocation_cache_ttl_seconds", 3600)

	v.SetDefault("fraud.captcha_provider", "")
	v.SetDefault("fraud.captcha_site_key", "")
	v.SetDefault("fraud.captcha_secret_key", "")
	v.SetDefault("fraud.captcha_verify_url", "")
	v.SetDefault("fraud.captcha_timeout_seconds", 5)
	v.SetDefault("fraud.captcha_max_attempts", 3)

	v.SetDefault("fraud.turnstile_site_key", "")
	v.SetDefault("fraud.turnstile_secret_key", "")
	v.SetDefault("fraud.turnstile_verify_url", "https://challenges.cloudflare.com/turnstile/v0/siteverify")
	v.SetDefault("fraud.turnstile_js_url", "https://challenges.cloudflare.com/turnstile/v0/api.js")
	v.SetDefault("fraud.turnstile_timeout_seconds", 5)
	v.SetDefault("fraud.turnstile_challenge_ttl_seconds", 300)

	v.SetDefault("fraud.fingerprint_velocity_window_seconds", 300)
	v.SetDefault("fraud.fingerprint_velocity_critical_threshold", 20)
	v.SetDefault("fraud.fingerprint_velocity_critical_weight", 40)
	v.SetDefault("fraud.fingerprint_velocity_suspicious_threshold", 10)
	v.SetDefault("fraud.fingerprint_velocity_suspicious_weight", 25)
	v.SetDefault("fraud.fingerprint_velocity_warn_threshold", 5)
	v.SetDefault("fraud.fingerprint_velocity_warn_weight", 12)

	v.SetDefault("fraud.behavior_similarity_history_size", 20)
	v.SetDefault("fraud.behavior_similarity_window_seconds", 1800)
	v.SetDefault("fraud.behavior_similarity_tolerance_pct", 0.05)
	v.SetDefault("fraud.behavior_similarity_match_ratio", 0.8)
	v.SetDefault("fraud.behavior_similarity_warn_threshold", 3)
	v.SetDefault("fraud.behavior_similarity_warn_weight", 12)
	v.SetDefault("fraud.behavior_similarity_suspicious_threshold", 6)
	v.SetDefault("fraud.behavior_similarity_suspicious_weight", 25)

	v.SetDefault("audit.sqlite_path", "fraudguard.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// bindEnv binds each key that has a registered default to its explicit
// upper-cased APP__... environment name, joining nested dotted keys through
// envDelimiter. v.AllKeys() only lists keys that have a default (no config
// file is read), so a key without one is not bound here and resolves only
// through viper.AutomaticEnv.
func bindEnv(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		envKey := strings.ToUpper(envPrefix + "_" + strings.ReplaceAll(key, ".", envDelimiter))
		_ = v.BindEnv(key, envKey)
	}
}
