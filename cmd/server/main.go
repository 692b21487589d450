package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	identityapp "github.com/moodtrack/backend/internal/application/identity"
	inventoryapp "github.com/moodtrack/backend/internal/application/inventory"
	moodapp "github.com/moodtrack/backend/internal/application/mood"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/infrastructure/auth"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"github.com/moodtrack/backend/internal/infrastructure/mail"
	"github.com/moodtrack/backend/internal/infrastructure/persistence"
	"github.com/moodtrack/backend/internal/infrastructure/telemetry"
	"github.com/moodtrack/backend/internal/interfaces/http/handler"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
	"github.com/moodtrack/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const meterName = "github.com/moodtrack/backend"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
		Env:        cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// OpenTelemetry; every provider is a no-op when telemetry is disabled
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	otelProviders, err := telemetry.Setup(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = otelProviders.Bridge(log, zapcore.InfoLevel)

	log.Info("Starting mood tracker", zap.String("port", cfg.App.Port))

	meter := otelProviders.Meter(meterName)
	metrics, err := telemetry.NewAppMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register application metrics", zap.Error(err))
	}

	// Record store; mongo falls back to the in-memory store when unreachable
	store, err := persistence.Open(ctx, cfg.Store, log,
		persistence.WithSQLLogLevel(cfg.Log.Level),
		persistence.WithTracing(cfg.Telemetry.Enabled),
	)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}
	mode := store.Mode()
	metrics.StoreMode(ctx, mode.String(), mode.Degraded())
	if mode.Degraded() {
		log.Warn("Running in degraded mode", zap.Stringer("store_mode", mode))
	} else {
		log.Info("Record store ready", zap.Stringer("store_mode", mode))
	}

	// Sessions; revocations live in Redis when it is reachable
	revocations, redisClient := auth.NewRevocationList(ctx, cfg.Redis, log)
	sessions := auth.NewSessionManager(cfg.Session, revocations)
	cookie := middleware.NewSessionCookie(cfg.Session)

	// Mail
	mailer := mail.NewAccountMailer(mail.NewSender(cfg.SMTP, log), cfg.SMTP.LoginURL)
	if !cfg.SMTP.Enabled() {
		log.Info("SMTP not configured, welcome emails are disabled")
	}

	// Application services
	policy, err := mood.ParseDuplicatePolicy(cfg.Mood.DuplicatePolicy)
	if err != nil {
		log.Fatal("Invalid mood configuration", zap.Error(err))
	}
	itemService := inventoryapp.NewItemService(store.Items(), metrics, log)
	entryService := moodapp.NewEntryService(store.Entries(), moodapp.EntryServiceConfig{
		ScoreMax:        cfg.Mood.ScoreMax,
		DuplicatePolicy: policy,
	}, metrics, log)
	authService := identityapp.NewAuthService(store.Users(), sessions, metrics, log)
	userService := identityapp.NewUserService(store.Users(), store.Entries(), mailer, sessions, metrics, log)

	seedAdmin(ctx, cfg, userService, log)

	// HTTP
	base := handler.NewBaseHandler(store)
	engineCfg := router.EngineConfig{
		Production:     cfg.IsProduction(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Security:       middleware.DefaultSecurityConfig(),
	}
	engineCfg.Security.HSTSEnabled = cfg.Session.Secure
	if otelProviders.Enabled() {
		engineCfg.ServiceName = cfg.Telemetry.ServiceName
		engineCfg.Meter = meter
	}
	engine, err := router.NewEngine(engineCfg, log, router.Sessions{Validator: sessions, Cookie: cookie}, base)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	// Login attempts are limited per client IP
	var loginLimit gin.HandlerFunc
	if cfg.HTTP.LoginRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitRequests, cfg.HTTP.LoginRateLimitWindow)
		defer limiter.Stop()
		loginLimit = middleware.RateLimit(limiter, base.TooManyRequests)
		log.Info("Login rate limiting enabled",
			zap.Int("requests", cfg.HTTP.LoginRateLimitRequests),
			zap.Duration("window", cfg.HTTP.LoginRateLimitWindow),
		)
	}

	routes := router.Site(router.NewRouter(engine), router.Handlers{
		Inventory: handler.NewInventoryHandler(base, itemService),
		Mood:      handler.NewMoodHandler(base, entryService),
		Auth:      handler.NewAuthHandler(base, authService, cookie),
		Admin:     handler.NewAdminHandler(base, userService),
		Health:    handler.NewHealthHandler(store),
	}, router.InventoryGate(cfg.Inventory.RequireAuth), loginLimit)
	for _, rt := range routes {
		log.Debug("Route", zap.String("section", rt.Section), zap.String("method", rt.Method), zap.String("path", rt.Path))
	}
	log.Info("Routes registered", zap.Int("count", len(routes)), zap.Bool("inventory_requires_auth", cfg.Inventory.RequireAuth))

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.Stringer("store_mode", mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := store.Close(shutdownCtx); err != nil {
		log.Error("Error closing record store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// seedAdmin ensures the configured admin account exists. Without a password
// the step is skipped; config validation already demands one in production.
func seedAdmin(ctx context.Context, cfg *config.Config, users *identityapp.UserService, log *zap.Logger) {
	if cfg.Admin.Password == "" {
		log.Warn("admin.password not set, skipping admin account seeding",
			zap.String("email", cfg.Admin.Email))
		return
	}
	created, err := users.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}
	if created {
		log.Info("Admin account created", zap.String("email", cfg.Admin.Email))
	}
}
