//go:build integration

package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start MongoDB container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)
	return fmt.Sprintf("mongodb://%s:%s/", host, port.Port())
}

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("moodtrack_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// exerciseStore runs the same ownership scenario against any backend
func exerciseStore(t *testing.T, store *Store) {
	ctx := context.Background()
	alice, bob := shared.NewID(), shared.NewID()

	first := newEntry(t, alice, "2024-01-02", 1, 2, 3)
	require.NoError(t, store.Entries().Create(ctx, first))
	require.NoError(t, store.Entries().Create(ctx, newEntry(t, alice, "2024-01-01", 7, 6, 5)))

	assert.ErrorIs(t, store.Entries().DeleteForUser(ctx, bob, first.ID), shared.ErrNotFound)

	entries, err := store.Entries().FindByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-01", entries[0].Date)

	user := newTestUser(t, "it@example.com", "participant")
	require.NoError(t, store.Users().Create(ctx, user))
	assert.ErrorIs(t, store.Users().Create(ctx, newTestUser(t, "it@example.com", "admin")), shared.ErrAlreadyExists)
}

func TestStore_Mongo(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()

	store, err := Open(ctx, config.StoreConfig{
		Driver:         "mongo",
		MongoURI:       uri,
		Database:       "moodtrack_it",
		ConnectTimeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close(ctx)

	assert.Equal(t, ModeMongo, store.Mode())
	exerciseStore(t, store)
}

func TestStore_Postgres(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	store, err := Open(ctx, config.StoreConfig{
		Driver:       "postgres",
		SQLDSN:       dsn,
		MaxOpenConns: 5,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close(ctx)

	assert.Equal(t, ModePostgres, store.Mode())
	exerciseStore(t, store)
}
