// Package httpapi wires the gin HTTP surface: routing, middleware, request
// IP resolution, and the handlers that translate engine results into
// JSON responses.
package httpapi

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokaycavdar/fraudguard/internal/config"
	"github.com/gokaycavdar/fraudguard/pkg/audit"
	"github.com/gokaycavdar/fraudguard/pkg/engine"
)

// embeddedJS embeds the collector script so the binary serves it without
// any file on disk at runtime.
//
//go:embed static/js/collector.js
var embeddedJS embed.FS

// Server holds every dependency the HTTP surface needs to serve a request.
type Server struct {
	cfg     config.Config
	engine  *engine.FraudEngine
	audit   *audit.SQLiteSink
	logger  zerolog.Logger
	metrics *metrics
}

// New builds a Server from its dependencies. audit may be nil if the sink
// failed to open; GET /fraud/logs then returns 503.
func New(cfg config.Config, eng *engine.FraudEngine, auditSink *audit.SQLiteSink, logger zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		engine:  eng,
		audit:   auditSink,
		logger:  logger.With().Str("component", "httpapi").Logger(),
		metrics: newMetrics(),
	}
}

// Router assembles the gin.Engine with every route and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware(), loggingMiddleware(s.logger), recoveryMiddleware(s.logger), apiKeyMiddleware(s.cfg.API.APIKey))

	r.POST("/fraud/check", s.handleCheck)
	r.POST("/fraud/captcha/verify", s.handleVerify)
	r.GET("/fraud/collector.js", s.handleCollectorJS)
	r.GET("/fraud/logs", s.handleLogs)
	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	return r
}

func (s *Server) handleCollectorJS(c *gin.Context) {
	body, err := embeddedJS.ReadFile("static/js/collector.js")
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/javascript", body)
}
