package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gokaycavdar/fraudguard/pkg/models"
)

// fingerprintHexLength is the number of hex characters kept from the full
// SHA-256 digest; 24 hex chars is 96 bits, plenty to key the in-memory
// counters without carrying the full 64-char digest around.
const fingerprintHexLength = 24

// computeFingerprint hashes the device/browser-identifying subset of the
// payload into a stable ID. json.Marshal on a map[string]interface{} sorts
// keys lexicographically, which is exactly the canonicalization this needs
// without hand-rolling a sorter.
func computeFingerprint(payload *models.FraudCheckRequest) string {
	canonical := map[string]interface{}{
		"user_agent": payload.Navigator.UserAgent,
		"platform":   payload.Navigator.Platform,
		"language":   payload.Navigator.Language,
		"languages":  payload.Navigator.Languages,
		"screen":     payload.Screen,
		"viewport":   payload.Viewport,
		"webgl":      payload.WebGL,
		"client_hints": payload.ClientHints,
	}

	// Marshal errors cannot occur for this shape (no channels, funcs, or
	// cyclic pointers), so the fingerprint never needs an error return.
	body, _ := json.Marshal(canonical)
	// Round-trip through a generic value so the struct-valued fields
	// (screen, viewport, webgl, client_hints) are re-encoded as maps with
	// their keys sorted too, not in struct declaration order.
	var generic interface{}
	_ = json.Unmarshal(body, &generic)
	body, _ = json.Marshal(generic)
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])[:fingerprintHexLength]
}

// marshalPayloadBestEffort serializes a request payload for the audit log.
// A marshal failure is not possible for this struct shape, but the audit
// sink treats an empty string as "payload omitted" rather than failing the
// whole append.
func marshalPayloadBestEffort(payload *models.FraudCheckRequest) string {
	body, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(body)
}
