package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/moodtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Mode says which backend serves the repositories
type Mode string

const (
	// ModeMongo is the primary document store
	ModeMongo Mode = "mongo"
	// ModePostgres serves the SQL repositories from PostgreSQL
	ModePostgres Mode = "postgres"
	// ModeMemory is the degraded in-process store; data does not survive a restart
	ModeMemory Mode = "memory"
)

// Degraded reports whether writes are lost on restart
func (m Mode) Degraded() bool {
	return m == ModeMemory
}

func (m Mode) String() string {
	return string(m)
}

// Store is the process-wide record store handle. It is opened once at
// startup and never reconnects.
type Store struct {
	mode    Mode
	items   inventory.ItemRepository
	entries mood.EntryRepository
	users   identity.UserRepository

	mongo *MongoDB
	sql   *Database
}

type storeOptions struct {
	sqlLogLevel string
	tracing     bool
}

// StoreOption configures Open
type StoreOption func(*storeOptions)

// WithSQLLogLevel sets the level of GORM statement logs (silent, error, warn, debug)
func WithSQLLogLevel(level string) StoreOption {
	return func(o *storeOptions) { o.sqlLogLevel = level }
}

// WithTracing attaches OpenTelemetry spans to SQL statements
func WithTracing(enabled bool) StoreOption {
	return func(o *storeOptions) { o.tracing = enabled }
}

// Open connects the configured backend. With the mongo driver an unreachable
// server falls back to the in-memory store when cfg.Fallback is set, and is
// an error otherwise.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger, opts ...StoreOption) (*Store, error) {
	o := storeOptions{sqlLogLevel: "warn"}
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Driver {
	case "memory":
		return openMemoryStore(ctx, log, o)
	case "postgres":
		db, err := OpenPostgres(ctx, cfg, WithGormLogger(log, o.sqlLogLevel))
		if err != nil {
			return nil, err
		}
		return newSQLStore(db, ModePostgres, log, o)
	}

	m, err := ConnectMongo(ctx, cfg)
	if err == nil {
		log.Info("Connected to MongoDB", zap.String("database", cfg.Database))
		return &Store{
			mode:    ModeMongo,
			items:   NewMongoItemRepository(m.DB),
			entries: NewMongoEntryRepository(m.DB),
			users:   NewMongoUserRepository(m.DB),
			mongo:   m,
		}, nil
	}
	if !cfg.Fallback {
		return nil, fmt.Errorf("record store unavailable: %w", err)
	}

	log.Warn("MongoDB unreachable, serving from in-memory store; data will not survive a restart",
		zap.Duration("connect_timeout", cfg.ConnectTimeout),
		zap.Error(err))
	return openMemoryStore(ctx, log, o)
}

// OpenMemory opens a store backed by a fresh in-memory database
func OpenMemory(ctx context.Context, log *zap.Logger, opts ...StoreOption) (*Store, error) {
	o := storeOptions{sqlLogLevel: "warn"}
	for _, opt := range opts {
		opt(&o)
	}
	return openMemoryStore(ctx, log, o)
}

func openMemoryStore(ctx context.Context, log *zap.Logger, o storeOptions) (*Store, error) {
	db, err := OpenInMemoryDatabase(ctx, WithGormLogger(log, o.sqlLogLevel))
	if err != nil {
		return nil, err
	}
	return newSQLStore(db, ModeMemory, log, o)
}

func newSQLStore(db *Database, mode Mode, log *zap.Logger, o storeOptions) (*Store, error) {
	if o.tracing {
		if err := telemetry.RegisterGormTracing(db.DB, db.Dialect, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable database tracing: %w", err)
		}
	}
	return &Store{
		mode:    mode,
		items:   NewGormItemRepository(db.DB),
		entries: NewGormEntryRepository(db.DB),
		users:   NewGormUserRepository(db.DB),
		sql:     db,
	}, nil
}

// Mode returns the backend serving the repositories
func (s *Store) Mode() Mode {
	return s.mode
}

// Items returns the inventory repository
func (s *Store) Items() inventory.ItemRepository {
	return s.items
}

// Entries returns the mood entry repository
func (s *Store) Entries() mood.EntryRepository {
	return s.entries
}

// Users returns the account repository
func (s *Store) Users() identity.UserRepository {
	return s.users
}

// Ping checks the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.mongo != nil {
		return s.mongo.Ping(ctx)
	}
	if s.sql != nil {
		return s.sql.Ping(ctx)
	}
	return errors.New("store is not open")
}

// Close releases the backend connection
func (s *Store) Close(ctx context.Context) error {
	if s.mongo != nil {
		return s.mongo.Close(ctx)
	}
	if s.sql != nil {
		return s.sql.Close()
	}
	return nil
}
