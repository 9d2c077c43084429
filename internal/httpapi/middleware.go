package httpapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware stamps every request with a UUID, reusing a
// caller-supplied one if present, so logs and responses can be correlated.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs one structured line per request: route, status,
// latency, and the request id.
func loggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestID, _ := c.Get("request_id")
		logger.Info().
			Str("request_id", toString(requestID)).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency_ms", time.Since(start)).
			Msg("request handled")
	}
}

// recoveryMiddleware converts a panic in any handler into a 500 response
// instead of crashing the process, logging the panic value without
// leaking it to the client.
func recoveryMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Str("route", c.FullPath()).Msg("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			}
		}()
		c.Next()
	}
}

// apiKeyExemptPaths lists routes the API-key middleware never enforces.
var apiKeyExemptPaths = map[string]bool{
	"/fraud/collector.js": true,
	"/healthz":            true,
	"/metrics":            true,
}

// apiKeyMiddleware rejects requests missing a valid X-Api-Key header,
// comparing in constant time to avoid a timing side-channel on the key. A
// blank configured key disables the check entirely (local/dev mode).
func apiKeyMiddleware(expectedKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expectedKey == "" || apiKeyExemptPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		provided := c.GetHeader("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expectedKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_api_key"})
			return
		}
		c.Next()
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}
