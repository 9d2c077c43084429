package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gokaycavdar/fraudguard/internal/config"
	"github.com/gokaycavdar/fraudguard/pkg/captcha"
	"github.com/gokaycavdar/fraudguard/pkg/counters"
	"github.com/gokaycavdar/fraudguard/pkg/engine"
	"github.com/gokaycavdar/fraudguard/pkg/models"
	"github.com/gokaycavdar/fraudguard/pkg/rules"
	"github.com/gokaycavdar/fraudguard/pkg/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubVerifier struct {
	configured bool
	result     captcha.VerificationResult
}

func (s *stubVerifier) Provider() string   { return "turnstile" }
func (s *stubVerifier) SiteKey() string    { return "stub-site-key" }
func (s *stubVerifier) IsConfigured() bool { return s.configured }
func (s *stubVerifier) Verify(ctx context.Context, token, remoteIP string) captcha.VerificationResult {
	return s.result
}

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.API.Title = "fraudguard"
	cfg.Fraud.TrustForwardedIP = true
	return cfg
}

func newTestServer(t *testing.T, cfg config.Config, verifier captcha.Verifier) *Server {
	t.Helper()
	eng := engine.NewFraudEngine(
		engine.Config{BlockScoreThreshold: 70, ReviewScoreThreshold: 30},
		counters.NewRateLimiter(60*time.Second, 2),
		rules.NewCollector(),
		nil,
		counters.NewFingerprintVelocity(counters.VelocityConfig{WindowSeconds: 60, CriticalThreshold: 1000, SuspiciousThreshold: 1000, WarnThreshold: 1000}),
		counters.NewBehaviorSimilarity(counters.BehaviorSimilarityConfig{HistorySize: 20, WindowSeconds: 600, TolerancePct: 0.1, MatchRatio: 0.8, WarnThreshold: 1000, SuspiciousThreshold: 1000}),
		storage.NewMemoryChallengeStore(60*time.Second, 3),
		verifier,
		nil,
		zerolog.Nop(),
	)
	return New(cfg, eng, nil, zerolog.Nop())
}

func cleanPayloadJSON() []byte {
	payload := models.FraudCheckRequest{
		Navigator: models.NavigatorSignals{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			Platform:  "Win32",
		},
		Screen:   models.ScreenSignals{Width: 1920, Height: 1080},
		Viewport: models.ViewportSignals{Width: 1280, Height: 800},
	}
	body, _ := json.Marshal(payload)
	return body
}

func TestHandleCheckReturnsAllowForCleanPayload(t *testing.T) {
	server := newTestServer(t, testConfig(), nil)
	router := server.Router()

	req := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader(cleanPayloadJSON()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.FraudCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Decision != models.DecisionAllow {
		t.Errorf("expected allow, got %s (signals: %+v)", resp.Decision, resp.Signals)
	}
}

func TestHandleCheckRejectsUnknownFields(t *testing.T) {
	server := newTestServer(t, testConfig(), nil)
	router := server.Router()

	body := append(bytes.TrimSuffix(cleanPayloadJSON(), []byte("}")), []byte(`,"unknown_field":true}`)...)
	req := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for an unknown field, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCheckRateLimitsThirdRequestFromSameIP(t *testing.T) {
	server := newTestServer(t, testConfig(), nil)
	router := server.Router()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader(cleanPayloadJSON()))
		req.Header.Set("X-Real-Ip", "198.51.100.20")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader(cleanPayloadJSON()))
	req.Header.Set("X-Real-Ip", "198.51.100.20")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp models.FraudCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Decision != models.DecisionBlock {
		t.Errorf("expected the 3rd request to be rate-limited, got %s", resp.Decision)
	}
}

func TestHandleVerifyNotFoundForUnknownChallenge(t *testing.T) {
	server := newTestServer(t, testConfig(), &stubVerifier{configured: true, result: captcha.VerificationResult{Success: true}})
	router := server.Router()

	body, _ := json.Marshal(map[string]string{
		"challenge_id":  "unknown-challenge-id-00000000",
		"captcha_token": "some-token-value-1234567890",
	})
	req := httptest.NewRequest(http.MethodPost, "/fraud/captcha/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown challenge, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCollectorJSServesWithoutAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.API.APIKey = "super-secret"
	server := newTestServer(t, cfg, nil)
	router := server.Router()

	req := httptest.NewRequest(http.MethodGet, "/fraud/collector.js", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected collector.js to be exempt from the API key check, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/javascript" {
		t.Errorf("expected application/javascript content type, got %q", rec.Header().Get("Content-Type"))
	}
}

func TestHandleCheckRequiresAPIKeyWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.API.APIKey = "super-secret"
	server := newTestServer(t, cfg, nil)
	router := server.Router()

	req := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader(cleanPayloadJSON()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without an API key, got %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/fraud/check", bytes.NewReader(cleanPayloadJSON()))
	req2.Header.Set("X-Api-Key", "super-secret")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid API key, got %d: %s", rec2.Code, rec2.Body.String())
	}
}
