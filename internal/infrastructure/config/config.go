package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Store     StoreConfig
	Redis     RedisConfig
	Session   SessionConfig
	SMTP      SMTPConfig
	Admin     AdminConfig
	Mood      MoodConfig
	Inventory InventoryConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout            time.Duration
	WriteTimeout           time.Duration
	IdleTimeout            time.Duration
	ShutdownTimeout        time.Duration
	MaxHeaderBytes         int
	MaxBodySize            int64
	LoginRateLimitEnabled  bool
	LoginRateLimitRequests int           // Max login attempts per window (default: 5)
	LoginRateLimitWindow   time.Duration // Login rate limit window (default: 1 minute)
	TrustedProxies         []string
}

// StoreConfig selects and tunes the record store
type StoreConfig struct {
	Driver         string        // mongo, postgres or memory
	MongoURI       string        // MONGODB_URI
	Database       string        // database name holding the collections
	ConnectTimeout time.Duration // bound on the startup ping
	Fallback       bool          // open the in-memory store when mongo is unreachable
	SQLDSN         string        // postgres DSN when Driver is postgres
	MaxOpenConns   int
	MaxIdleConns   int
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds session cookie and token settings
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Issuer     string
	Domain     string
	Secure     bool
	SameSite   string // strict, lax or none
}

// SMTPConfig holds outgoing mail settings. An empty Host disables mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	LoginURL string // link included in welcome emails
}

// Enabled reports whether an SMTP relay is configured
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// AdminConfig holds the seeded admin account
type AdminConfig struct {
	Email    string
	Password string
}

// MoodConfig holds mood tracker rules
type MoodConfig struct {
	ScoreMax        int
	DuplicatePolicy string // allow, reject or replace
}

// InventoryConfig holds inventory settings
type InventoryConfig struct {
	RequireAuth bool
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
}

// envAliases maps config keys to the unprefixed variables operators already use.
var envAliases = map[string]string{
	"app.port":        "PORT",
	"store.mongo_uri": "MONGODB_URI",
	"redis.addr":      "REDIS_ADDR",
	"session.secret":  "SESSION_SECRET",
	"smtp.host":       "SMTP_HOST",
	"smtp.port":       "SMTP_PORT",
	"smtp.username":   "SMTP_USERNAME",
	"smtp.password":   "SMTP_PASSWORD",
	"smtp.from":       "SMTP_FROM",
	"admin.email":     "ADMIN_EMAIL",
	"admin.password":  "ADMIN_PASSWORD",
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MOODTRACK_ prefix (e.g., MOODTRACK_LOG_LEVEL)
// 2. Unprefixed aliases (PORT, MONGODB_URI, SMTP_HOST, ...)
// 3. config.toml
// 4. Built-in defaults
//
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/moodtrack")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("MOODTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		prefixed := "MOODTRACK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	// Booleans that default to true cannot be told apart from unset after Get.
	v.SetDefault("store.fallback", true)
	v.SetDefault("http.login_rate_limit_enabled", true)
	v.SetDefault("session.secure", false)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:            v.GetDuration("http.read_timeout"),
			WriteTimeout:           v.GetDuration("http.write_timeout"),
			IdleTimeout:            v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:        v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:         v.GetInt("http.max_header_bytes"),
			MaxBodySize:            v.GetInt64("http.max_body_size"),
			LoginRateLimitEnabled:  v.GetBool("http.login_rate_limit_enabled"),
			LoginRateLimitRequests: v.GetInt("http.login_rate_limit_requests"),
			LoginRateLimitWindow:   v.GetDuration("http.login_rate_limit_window"),
			TrustedProxies:         v.GetStringSlice("http.trusted_proxies"),
		},
		Store: StoreConfig{
			Driver:         v.GetString("store.driver"),
			MongoURI:       v.GetString("store.mongo_uri"),
			Database:       v.GetString("store.database"),
			ConnectTimeout: v.GetDuration("store.connect_timeout"),
			Fallback:       v.GetBool("store.fallback"),
			SQLDSN:         v.GetString("store.sql_dsn"),
			MaxOpenConns:   v.GetInt("store.max_open_conns"),
			MaxIdleConns:   v.GetInt("store.max_idle_conns"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Secret:     v.GetString("session.secret"),
			CookieName: v.GetString("session.cookie_name"),
			TTL:        v.GetDuration("session.ttl"),
			Issuer:     v.GetString("session.issuer"),
			Domain:     v.GetString("session.domain"),
			Secure:     v.GetBool("session.secure"),
			SameSite:   v.GetString("session.same_site"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
			Timeout:  v.GetDuration("smtp.timeout"),
			LoginURL: v.GetString("smtp.login_url"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
		Mood: MoodConfig{
			ScoreMax:        v.GetInt("mood.score_max"),
			DuplicatePolicy: v.GetString("mood.duplicate_policy"),
		},
		Inventory: InventoryConfig{
			RequireAuth: v.GetBool("inventory.require_auth"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "moodtrack"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "5000"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // forms only
	}
	if cfg.HTTP.LoginRateLimitRequests == 0 {
		cfg.HTTP.LoginRateLimitRequests = 5
	}
	if cfg.HTTP.LoginRateLimitWindow == 0 {
		cfg.HTTP.LoginRateLimitWindow = time.Minute
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "mongo"
	}
	if cfg.Store.MongoURI == "" {
		cfg.Store.MongoURI = "mongodb://localhost:27017/"
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "moodtrack"
	}
	if cfg.Store.ConnectTimeout == 0 {
		cfg.Store.ConnectTimeout = 500 * time.Millisecond
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = 10
	}
	if cfg.Store.MaxIdleConns == 0 {
		cfg.Store.MaxIdleConns = 2
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "session"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.Session.Issuer == "" {
		cfg.Session.Issuer = cfg.App.Name
	}
	if cfg.Session.SameSite == "" {
		cfg.Session.SameSite = "lax"
	}
	if cfg.Session.Secret == "" && cfg.App.Env != "production" {
		cfg.Session.Secret = "moodtrack-development-secret-change-me"
	}

	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.Timeout == 0 {
		cfg.SMTP.Timeout = 10 * time.Second
	}
	if cfg.SMTP.LoginURL == "" {
		cfg.SMTP.LoginURL = "http://localhost:" + cfg.App.Port + "/login"
	}

	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@moodtrack.local"
	}

	if cfg.Mood.ScoreMax == 0 {
		cfg.Mood.ScoreMax = 10
	}
	if cfg.Mood.DuplicatePolicy == "" {
		cfg.Mood.DuplicatePolicy = "allow"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Store.Driver {
	case "mongo", "memory":
	case "postgres":
		if c.Store.SQLDSN == "" {
			return fmt.Errorf("store.sql_dsn is required when store.driver is postgres")
		}
	default:
		return fmt.Errorf("store.driver must be mongo, postgres or memory, got %q", c.Store.Driver)
	}
	if c.Store.MaxIdleConns > c.Store.MaxOpenConns {
		return fmt.Errorf("store.max_idle_conns (%d) cannot exceed store.max_open_conns (%d)",
			c.Store.MaxIdleConns, c.Store.MaxOpenConns)
	}

	if c.Mood.ScoreMax < 1 {
		return fmt.Errorf("mood.score_max must be positive")
	}
	switch c.Mood.DuplicatePolicy {
	case "allow", "reject", "replace":
	default:
		return fmt.Errorf("mood.duplicate_policy must be allow, reject or replace, got %q", c.Mood.DuplicatePolicy)
	}

	switch c.Session.SameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("session.same_site must be strict, lax or none, got %q", c.Session.SameSite)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}

	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1")
	}

	if c.App.Env == "production" {
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		if !c.Session.Secure {
			return fmt.Errorf("session.secure must be true in production (HTTPS required for secure cookies)")
		}
		if c.Admin.Password == "" {
			return fmt.Errorf("admin.password is required in production")
		}
	}
	if c.Session.SameSite == "none" && !c.Session.Secure {
		return fmt.Errorf("session.same_site=none requires session.secure=true")
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.App.Port
}
