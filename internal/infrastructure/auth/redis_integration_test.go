//go:build integration

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/moodtrack/backend/internal/infrastructure/auth"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisRevocationList(t *testing.T) {
	ctx := context.Background()
	client, err := auth.NewRedisClient(ctx, config.RedisConfig{Addr: startRedis(t)})
	require.NoError(t, err)
	defer client.Close()

	list := auth.NewRedisRevocationList(client)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	at := time.Now()
	require.NoError(t, list.RevokeUser(ctx, "u1", at, time.Minute))
	revoked, err = list.IsUserRevoked(ctx, "u1", at.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = list.IsUserRevoked(ctx, "u1", at.Add(time.Millisecond))
	require.NoError(t, err)
	assert.False(t, revoked)
}
