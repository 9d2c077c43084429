package counters

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

// VelocityConfig configures FingerprintVelocity's three escalating
// thresholds. Field names mirror the APP__FRAUD__FINGERPRINT_VELOCITY_*
// environment keys.
type VelocityConfig struct {
	WindowSeconds      int
	CriticalThreshold  int
	CriticalWeight     int
	SuspiciousThreshold int
	SuspiciousWeight   int
	WarnThreshold      int
	WarnWeight         int
}

type velocityTier struct {
	threshold int
	weight    int
	code      string
}

// FingerprintVelocity is an in-memory sliding-window counter per
// fingerprint_id. It returns at most one escalating signal when a single
// device fingerprint makes too many requests within the configured window.
type FingerprintVelocity struct {
	window time.Duration
	tiers  []velocityTier

	mu        sync.Mutex
	events    map[string][]time.Time
	callCount int
}

// NewFingerprintVelocity builds a FingerprintVelocity from cfg, ordering the
// three tiers from highest threshold to lowest so the first match wins.
func NewFingerprintVelocity(cfg VelocityConfig) *FingerprintVelocity {
	tiers := []velocityTier{
		{cfg.CriticalThreshold, cfg.CriticalWeight, "FINGERPRINT_VELOCITY_CRITICAL"},
		{cfg.SuspiciousThreshold, cfg.SuspiciousWeight, "FINGERPRINT_VELOCITY_SUSPICIOUS"},
		{cfg.WarnThreshold, cfg.WarnWeight, "FINGERPRINT_VELOCITY_WARN"},
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].threshold > tiers[j].threshold })

	return &FingerprintVelocity{
		window: time.Duration(cfg.WindowSeconds) * time.Second,
		tiers:  tiers,
		events: make(map[string][]time.Time),
	}
}

// RecordAndCheck registers one request for fingerprintID and returns the
// single highest-tier signal whose threshold the resulting count has
// reached, or nil if none is reached.
func (v *FingerprintVelocity) RecordAndCheck(fingerprintID string) []models.Signal {
	if fingerprintID == "" {
		return nil
	}

	now := time.Now()
	cutoff := now.Add(-v.window)

	v.mu.Lock()
	v.callCount++
	if v.callCount >= purgeEvery {
		v.callCount = 0
		v.purgeStale(cutoff)
	}

	events := dropBefore(v.events[fingerprintID], cutoff)
	events = append(events, now)
	v.events[fingerprintID] = events
	count := len(events)
	v.mu.Unlock()

	for _, tier := range v.tiers {
		if count >= tier.threshold {
			minutes := v.window / time.Minute
			return []models.Signal{models.NewSignal(
				tier.code, tier.weight,
				fmt.Sprintf("Fingerprint submitted %d requests in the last %d minutes.", count, minutes),
			)}
		}
	}
	return nil
}

func (v *FingerprintVelocity) purgeStale(threshold time.Time) {
	for fp, events := range v.events {
		if len(events) == 0 || events[len(events)-1].Before(threshold) {
			delete(v.events, fp)
		}
	}
}
