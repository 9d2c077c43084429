// Package geoclient resolves an IP address's coarse geolocation and
// hosting-provider status against an external HTTP JSON service, with a
// bounded in-memory cache.
package geoclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

// geoCacheMaxSize bounds the client's in-memory cache so a long-lived
// process with many distinct client IPs cannot grow it without limit.
const geoCacheMaxSize = 4096

var hostingSignatures = []string{
	"hosting", "data center", "datacenter", "cloud", "colo", "vpn", "proxy",
}

// Config configures Client. Field names mirror the
// APP__FRAUD__IP_GEOLOCATION_* environment keys.
type Config struct {
	Enabled        bool
	BaseURL        string
	TimeoutSeconds int
	CacheTTLSeconds int
}

type cacheEntry struct {
	expiresAt time.Time
	result    models.IpGeoResult
}

// Client resolves IP geolocation over HTTP, matching the `GET
// {base_url}/{ip}/json/` contract of ipapi.co-style services.
type Client struct {
	cfg    Config
	client *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: 5 * time.Second,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		cache: make(map[string]cacheEntry),
	}
}

type lookupResponse struct {
	Error      bool    `json:"error"`
	CountryISO string  `json:"country_code"`
	Org        string  `json:"org"`
	Timezone   string  `json:"timezone"`
	UTCOffset  string  `json:"utc_offset"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// Resolve looks up ip's geolocation, consulting and refreshing the cache
// as configured. It returns nil, nil (not an error) whenever the lookup is
// disabled, the IP is unresolvable, or the upstream call fails — a geo
// lookup failure should degrade the fraud check gracefully, not fail it.
func (c *Client) Resolve(ctx context.Context, ip string) (*models.IpGeoResult, error) {
	if !c.cfg.Enabled || ip == "" {
		return nil, nil
	}

	now := time.Now()
	if c.cfg.CacheTTLSeconds > 0 {
		c.mu.Lock()
		if entry, ok := c.cache[ip]; ok && entry.expiresAt.After(now) {
			c.mu.Unlock()
			result := entry.result
			return &result, nil
		}
		c.mu.Unlock()
	}

	url := fmt.Sprintf("%s/%s/json/", strings.TrimRight(c.cfg.BaseURL, "/"), ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, nil
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error {
		return nil, nil
	}

	result := models.IpGeoResult{
		IsHosting: looksLikeHostingProvider(parsed.Org),
	}
	if parsed.CountryISO != "" {
		result.CountryISO = strings.ToUpper(parsed.CountryISO)
	}
	if parsed.Timezone != "" {
		result.Timezone = parsed.Timezone
	}
	if offset, ok := parseUTCOffsetMinutes(parsed.UTCOffset); ok {
		result.UTCOffsetMinutes = &offset
	}
	result.Latitude = parsed.Latitude
	result.Longitude = parsed.Longitude

	if c.cfg.CacheTTLSeconds > 0 {
		c.store(ip, result, now)
	}

	return &result, nil
}

// store inserts result into the cache. Only when the cache is at capacity
// does it first evict expired entries and then (if still at capacity) the
// single oldest-expiring entry.
func (c *Client) store(ip string, result models.IpGeoResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cache) >= geoCacheMaxSize {
		for k, entry := range c.cache {
			if !entry.expiresAt.After(now) {
				delete(c.cache, k)
			}
		}
		if len(c.cache) >= geoCacheMaxSize {
			var oldestKey string
			var oldestAt time.Time
			first := true
			for k, entry := range c.cache {
				if first || entry.expiresAt.Before(oldestAt) {
					oldestKey, oldestAt, first = k, entry.expiresAt, false
				}
			}
			if oldestKey != "" {
				delete(c.cache, oldestKey)
			}
		}
	}

	c.cache[ip] = cacheEntry{
		expiresAt: now.Add(time.Duration(c.cfg.CacheTTLSeconds) * time.Second),
		result:    result,
	}
}

func looksLikeHostingProvider(org string) bool {
	if org == "" {
		return false
	}
	marker := strings.ToLower(org)
	for _, signature := range hostingSignatures {
		if strings.Contains(marker, signature) {
			return true
		}
	}
	return false
}

// parseUTCOffsetMinutes parses a "+HHMM"/"-HHMM" offset string.
func parseUTCOffsetMinutes(value string) (int, bool) {
	if len(value) != 5 || (value[0] != '+' && value[0] != '-') {
		return 0, false
	}
	sign := 1
	if value[0] == '-' {
		sign = -1
	}
	hours, err := strconv.Atoi(value[1:3])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(value[3:5])
	if err != nil {
		return 0, false
	}
	if hours > 14 || minutes >= 60 {
		return 0, false
	}
	return sign * (hours*60 + minutes), true
}
