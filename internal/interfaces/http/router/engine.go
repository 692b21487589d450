package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"github.com/moodtrack/backend/internal/interfaces/http/handler"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
	"github.com/moodtrack/backend/internal/interfaces/http/view"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig tunes the gin engine
type EngineConfig struct {
	Production     bool
	TrustedProxies []string
	MaxBodySize    int64
	Security       middleware.SecurityConfig

	// ServiceName enables otelgin spans when non-empty
	ServiceName string
	// Meter enables HTTP request metrics when non-nil
	Meter metric.Meter
}

// Sessions resolves the session cookie of each request
type Sessions struct {
	Validator middleware.SessionValidator
	Cookie    middleware.SessionCookie
}

// NewEngine builds the gin engine with templates, static assets and the
// shared middleware chain. Routes are added afterwards through a Router.
func NewEngine(cfg EngineConfig, log *zap.Logger, sessions Sessions, base handler.BaseHandler) (*gin.Engine, error) {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log, base.InternalError))
	engine.Use(middleware.Secure(cfg.Security))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize, base.TooLarge))
	}
	if cfg.ServiceName != "" {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(middleware.Session(sessions.Validator, sessions.Cookie, base.HandleError))
	if cfg.ServiceName != "" {
		engine.Use(middleware.SpanAttributes())
	}
	if cfg.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
		}
		engine.Use(httpMetrics)
	}

	engine.StaticFS("/static", view.Static())
	engine.NoRoute(base.NotFound)
	return engine, nil
}
