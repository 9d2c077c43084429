package counters

import (
	"fmt"
	"sync"
	"time"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

const behaviorPurgeEvery = 256

var behaviorMetrics = []func(behaviorSnapshot) int{
	func(s behaviorSnapshot) int { return s.maxScrollY },
	func(s behaviorSnapshot) int { return s.scrollCount },
	func(s behaviorSnapshot) int { return s.keydownCount },
	func(s behaviorSnapshot) int { return s.mouseMoveCount },
	func(s behaviorSnapshot) int { return s.touchCount },
}

type behaviorSnapshot struct {
	timestamp      time.Time
	maxScrollY     int
	scrollCount    int
	keydownCount   int
	mouseMoveCount int
	touchCount     int
}

// BehaviorSimilarityConfig configures BehaviorSimilarity's history depth,
// match tolerance, and escalation thresholds. Field names mirror the
// APP__FRAUD__BEHAVIOR_SIMILARITY_* environment keys.
type BehaviorSimilarityConfig struct {
	HistorySize          int
	WindowSeconds         int
	TolerancePct          float64
	MatchRatio            float64
	WarnThreshold         int
	WarnWeight            int
	SuspiciousThreshold   int
	SuspiciousWeight      int
}

// BehaviorSimilarity detects when the same fingerprint produces
// suspiciously similar passive-interaction telemetry across multiple
// requests, which is characteristic of scripted replay rather than a human
// operator.
type BehaviorSimilarity struct {
	cfg BehaviorSimilarityConfig

	mu        sync.Mutex
	history   map[string][]behaviorSnapshot
	callCount int
}

// NewBehaviorSimilarity builds a BehaviorSimilarity tracker from cfg.
func NewBehaviorSimilarity(cfg BehaviorSimilarityConfig) *BehaviorSimilarity {
	return &BehaviorSimilarity{
		cfg:     cfg,
		history: make(map[string][]behaviorSnapshot),
	}
}

// RecordAndCheck snapshots behavior for fingerprintID, compares it against
// the fingerprint's recent history, and returns an escalating signal once
// the match count crosses the warn/suspicious thresholds.
func (b *BehaviorSimilarity) RecordAndCheck(fingerprintID string, behavior *models.BehaviorSignals) []models.Signal {
	if fingerprintID == "" || behavior == nil {
		return nil
	}

	snapshot := behaviorSnapshot{
		timestamp:      time.Now(),
		maxScrollY:     intOrZero(behavior.MaxScrollY),
		scrollCount:    intOrZero(behavior.ScrollCount),
		keydownCount:   intOrZero(behavior.KeydownCount),
		mouseMoveCount: intOrZero(behavior.MouseMoveCount),
		touchCount:     intOrZero(behavior.TouchCount),
	}

	cutoff := snapshot.timestamp.Add(-time.Duration(b.cfg.WindowSeconds) * time.Second)

	b.mu.Lock()
	b.callCount++
	if b.callCount >= behaviorPurgeEvery {
		b.callCount = 0
		b.purgeStale(cutoff)
	}

	history := dropStaleBehavior(b.history[fingerprintID], cutoff)
	similarCount := b.countSimilar(snapshot, history)
	history = append(history, snapshot)
	if len(history) > b.cfg.HistorySize {
		history = history[len(history)-b.cfg.HistorySize:]
	}
	b.history[fingerprintID] = history
	b.mu.Unlock()

	switch {
	case similarCount >= b.cfg.SuspiciousThreshold:
		return []models.Signal{models.NewSignal(
			"BEHAVIOR_SIMILARITY_SUSPICIOUS", b.cfg.SuspiciousWeight,
			fmt.Sprintf("Fingerprint produced %d behaviorally similar requests. Human behavior is rarely this consistent.", similarCount),
		)}
	case similarCount >= b.cfg.WarnThreshold:
		return []models.Signal{models.NewSignal(
			"BEHAVIOR_SIMILARITY_WARN", b.cfg.WarnWeight,
			fmt.Sprintf("Fingerprint produced %d behaviorally similar requests, suggesting automated activity.", similarCount),
		)}
	default:
		return nil
	}
}

func (b *BehaviorSimilarity) countSimilar(snapshot behaviorSnapshot, history []behaviorSnapshot) int {
	similar := 0
	for _, past := range history {
		matching := 0
		for _, metric := range behaviorMetrics {
			if valuesAreSimilar(metric(snapshot), metric(past), b.cfg.TolerancePct) {
				matching++
			}
		}
		if float64(matching)/float64(len(behaviorMetrics)) >= b.cfg.MatchRatio {
			similar++
		}
	}
	return similar
}

func (b *BehaviorSimilarity) purgeStale(threshold time.Time) {
	for fp, snaps := range b.history {
		if len(snaps) == 0 || snaps[len(snaps)-1].timestamp.Before(threshold) {
			delete(b.history, fp)
		}
	}
}

// valuesAreSimilar treats two zero values as a match and otherwise compares
// relative difference against tolerance. The reference floor of 1 guards
// the division when one side is zero.
func valuesAreSimilar(newVal, oldVal int, tolerance float64) bool {
	if newVal == 0 && oldVal == 0 {
		return true
	}
	reference := newVal
	if oldVal > reference {
		reference = oldVal
	}
	if reference < 1 {
		reference = 1
	}
	diff := newVal - oldVal
	if diff < 0 {
		diff = -diff
	}
	return float64(diff)/float64(reference) <= tolerance
}

func dropStaleBehavior(snaps []behaviorSnapshot, threshold time.Time) []behaviorSnapshot {
	i := 0
	for i < len(snaps) && snaps[i].timestamp.Before(threshold) {
		i++
	}
	if i == 0 {
		return snaps
	}
	return append([]behaviorSnapshot(nil), snaps[i:]...)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
