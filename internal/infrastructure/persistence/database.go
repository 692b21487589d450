package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"github.com/moodtrack/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQL dialects understood by the GORM repositories
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgresql"
)

// memoryDSN opens a database that lives as long as its connection.
const memoryDSN = ":memory:"

// Database holds a GORM connection and provides methods for database operations
type Database struct {
	DB      *gorm.DB
	Dialect string
}

// DatabaseOption configures how the GORM connection is opened
type DatabaseOption func(*gorm.Config)

// WithGormLogger routes GORM statement logs through zap at the given level
func WithGormLogger(log *zap.Logger, level string) DatabaseOption {
	return func(c *gorm.Config) {
		c.Logger = logger.NewSQLLogger(log, level)
	}
}

func gormConfig(opts []DatabaseOption) *gorm.Config {
	cfg := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// OpenPostgres connects to PostgreSQL using the store DSN and migrates the schema
func OpenPostgres(ctx context.Context, cfg config.StoreConfig, opts ...DatabaseOption) (*Database, error) {
	gc := gormConfig(opts)
	gc.PrepareStmt = true

	db, err := gorm.Open(postgres.Open(cfg.SQLDSN), gc)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	d := &Database{DB: db, Dialect: DialectPostgres}
	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := d.Migrate(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemoryDatabase opens a private in-memory SQLite database and migrates the schema.
// Its contents are lost when the process exits.
func OpenInMemoryDatabase(ctx context.Context, opts ...DatabaseOption) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(memoryDSN), gormConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// Every connection to :memory: is a separate database; pin exactly one.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	d := &Database{DB: db, Dialect: DialectSQLite}
	if err := d.Migrate(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// Migrate creates or updates the items, moods and users tables
func (d *Database) Migrate(ctx context.Context) error {
	if err := d.DB.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Stats returns database connection pool statistics and an error if unable to retrieve
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}
