package geoclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestResolveParsesFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"country_code":"us","org":"Example Hosting LLC","timezone":"America/New_York","utc_offset":"-0500","latitude":40.7,"longitude":-74.0}`))
	}))
	defer server.Close()

	client := New(Config{Enabled: true, BaseURL: server.URL, TimeoutSeconds: 5, CacheTTLSeconds: 60})
	result, err := client.Resolve(context.Background(), "203.0.113.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.CountryISO != "US" {
		t.Errorf("expected uppercased country, got %q", result.CountryISO)
	}
	if !result.IsHosting {
		t.Error("expected hosting-provider org name to set IsHosting")
	}
	if result.UTCOffsetMinutes == nil || *result.UTCOffsetMinutes != -300 {
		t.Errorf("expected utc offset -300, got %v", result.UTCOffsetMinutes)
	}
}

func TestResolveDisabledReturnsNil(t *testing.T) {
	client := New(Config{Enabled: false, BaseURL: "http://unused", TimeoutSeconds: 5})
	result, err := client.Resolve(context.Background(), "203.0.113.5")
	if err != nil || result != nil {
		t.Errorf("expected nil, nil when disabled, got %+v, %v", result, err)
	}
}

func TestResolveCachesSecondLookup(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"country_code":"de"}`))
	}))
	defer server.Close()

	client := New(Config{Enabled: true, BaseURL: server.URL, TimeoutSeconds: 5, CacheTTLSeconds: 60})
	if _, err := client.Resolve(context.Background(), "198.51.100.1"); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if _, err := client.Resolve(context.Background(), "198.51.100.1"); err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected the second lookup to hit the cache, got %d upstream calls", got)
	}
}

func TestResolveUpstreamFailureDegradesToNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(Config{Enabled: true, BaseURL: server.URL, TimeoutSeconds: 5})
	result, err := client.Resolve(context.Background(), "203.0.113.9")
	if err != nil {
		t.Errorf("upstream failure must not surface as an error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result on upstream failure, got %+v", result)
	}
}
