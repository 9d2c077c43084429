package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTurnstileVerifierSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.FormValue("secret") != "secret-value" || r.FormValue("response") != "token-value" {
			t.Errorf("unexpected form values: %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"hostname":"example.com"}`))
	}))
	defer server.Close()

	v := NewTurnstileVerifier(TurnstileConfig{
		SiteKey: "site-key", SecretKey: "secret-value", VerifyURL: server.URL, TimeoutSeconds: 5,
	})
	if !v.IsConfigured() {
		t.Fatal("expected verifier to be configured")
	}

	result := v.Verify(context.Background(), "token-value", "1.2.3.4")
	if !result.Success {
		t.Errorf("expected success, got %+v", result)
	}
	if result.Hostname != "example.com" {
		t.Errorf("expected hostname to be parsed, got %q", result.Hostname)
	}
}

func TestTurnstileVerifierFailureReturnsErrorCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer server.Close()

	v := NewTurnstileVerifier(TurnstileConfig{SiteKey: "site-key", SecretKey: "secret-value", VerifyURL: server.URL, TimeoutSeconds: 5})
	result := v.Verify(context.Background(), "bad-token", "1.2.3.4")
	if result.Success {
		t.Error("expected failure")
	}
	if len(result.ErrorCodes) != 1 || result.ErrorCodes[0] != "invalid-input-response" {
		t.Errorf("expected error codes to be parsed, got %+v", result.ErrorCodes)
	}
}

func TestProviderVerifierAcceptsUnderscoreErrorCodesField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error_codes":["invalid-input-secret"]}`))
	}))
	defer server.Close()

	v := NewProviderVerifier(Config{
		Enabled: true, Provider: "hcaptcha", SiteKey: "site-key", SecretKey: "secret-value",
		VerifyURL: server.URL, TimeoutSeconds: 5,
	})
	result := v.Verify(context.Background(), "bad-token", "1.2.3.4")
	if result.Success {
		t.Error("expected failure")
	}
	if len(result.ErrorCodes) != 1 || result.ErrorCodes[0] != "invalid-input-secret" {
		t.Errorf("expected underscore error_codes field to be parsed, got %+v", result.ErrorCodes)
	}
}

func TestVerifierNetworkFailureMapsToNetworkErrorCode(t *testing.T) {
	v := NewTurnstileVerifier(TurnstileConfig{
		SiteKey: "site-key", SecretKey: "secret-value", VerifyURL: "http://127.0.0.1:0/siteverify", TimeoutSeconds: 1,
	})
	result := v.Verify(context.Background(), "token", "1.2.3.4")
	if result.Success {
		t.Fatal("expected failure for an unreachable endpoint")
	}
	if len(result.ErrorCodes) != 1 || result.ErrorCodes[0] != "turnstile_network_error" {
		t.Errorf("expected a network error code, got %+v", result.ErrorCodes)
	}
}

func TestUnconfiguredVerifierFailsWithoutNetworkCall(t *testing.T) {
	v := NewTurnstileVerifier(TurnstileConfig{})
	if v.IsConfigured() {
		t.Fatal("expected an empty config to be unconfigured")
	}
	result := v.Verify(context.Background(), "token", "1.2.3.4")
	if result.Success {
		t.Error("expected failure")
	}
	if len(result.ErrorCodes) != 1 || result.ErrorCodes[0] != "turnstile_not_configured" {
		t.Errorf("expected turnstile_not_configured, got %+v", result.ErrorCodes)
	}
}
