package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gokaycavdar/fraudguard/pkg/engine"
	"github.com/gokaycavdar/fraudguard/pkg/models"
)

func (s *Server) handleCheck(c *gin.Context) {
	var req models.FraudCheckRequest
	if err := bindStrict(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_request", "detail": err.Error()})
		return
	}

	requestIP := resolveRequestIP(c, s.cfg.Fraud.TrustForwardedIP)
	headers := requestHeaders(c)
	origin := c.GetHeader("Origin")

	response, err := s.engine.Check(c.Request.Context(), &req, requestIP, headers, origin)
	if err != nil {
		s.logger.Error().Err(err).Msg("check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check_failed"})
		return
	}

	s.metrics.decisionsTotal.WithLabelValues(response.Decision).Inc()
	s.metrics.requestsTotal.WithLabelValues("/fraud/check", strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleVerify(c *gin.Context) {
	var req models.CaptchaVerifyRequest
	if err := bindStrict(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_request", "detail": err.Error()})
		return
	}

	requestIP := resolveRequestIP(c, s.cfg.Fraud.TrustForwardedIP)
	origin := c.GetHeader("Origin")

	response, err := s.engine.Verify(c.Request.Context(), req.ChallengeID, req.CaptchaToken, requestIP, origin)
	if err != nil {
		status, code := verifyErrorStatus(err)
		c.JSON(status, gin.H{"error": code})
		return
	}

	s.metrics.decisionsTotal.WithLabelValues(response.Decision).Inc()
	s.metrics.requestsTotal.WithLabelValues("/fraud/captcha/verify", strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, response)
}

// verifyErrorStatus maps the engine's sentinel errors to the status codes
// and machine-readable codes the verify protocol specifies.
func verifyErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrChallengeNotFound):
		return http.StatusNotFound, "captcha_challenge_not_found"
	case errors.Is(err, engine.ErrChallengeIPMissing):
		return http.StatusBadRequest, "captcha_challenge_ip_missing"
	case errors.Is(err, engine.ErrChallengeIPMismatch):
		return http.StatusBadRequest, "captcha_challenge_ip_mismatch"
	case errors.Is(err, engine.ErrChallengeOriginMissing):
		return http.StatusBadRequest, "captcha_challenge_origin_missing"
	case errors.Is(err, engine.ErrChallengeOriginMismatch):
		return http.StatusBadRequest, "captcha_challenge_origin_mismatch"
	default:
		return http.StatusInternalServerError, "verify_failed"
	}
}

func (s *Server) handleLogs(c *gin.Context) {
	if s.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit_not_configured"})
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	pageSize := parsePositiveInt(c.Query("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100
	}

	logs, err := s.audit.List(c.Request.Context(), page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list audit logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logs_unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page, "page_size": pageSize, "logs": logs})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
