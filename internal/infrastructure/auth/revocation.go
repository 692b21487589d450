package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records session tokens invalidated before they expire,
// either one token at a time (logout) or every token of a user.
type RevocationList interface {
	// Revoke adds a token's JTI; ttl should be the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if a token's JTI was revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser invalidates tokens of userID issued before at
	RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error

	// IsUserRevoked checks if a token issued at issuedAt was invalidated by RevokeUser
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// RedisRevocationList implements RevocationList using Redis keys with TTLs
type RedisRevocationList struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRevocationList creates a revocation list with an existing Redis client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{
		client:    client,
		keyPrefix: "moodtrack:session:revoked:",
	}
}

// jtiKey returns the Redis key for a JTI
func (l *RedisRevocationList) jtiKey(jti string) string {
	return l.keyPrefix + "jti:" + jti
}

// userKey returns the Redis key for user token invalidation
func (l *RedisRevocationList) userKey(userID string) string {
	return l.keyPrefix + "user:" + userID
}

// Revoke adds a token's JTI to the list
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := l.client.Set(ctx, l.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks if a token's JTI is in the list
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := l.client.Exists(ctx, l.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}

// RevokeUser stores the invalidation time as Unix microseconds
func (l *RedisRevocationList) RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	if err := l.client.Set(ctx, l.userKey(userID), at.UnixMicro(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return nil
}

// IsUserRevoked checks if a token was issued before the user's invalidation time
func (l *RedisRevocationList) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := l.client.Get(ctx, l.userKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user session revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.UnixMicro() < revokedAt, nil
}

// Ensure RedisRevocationList implements RevocationList
var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList keeps revocations in process memory.
// Entries are lost on restart.
type InMemoryRevocationList struct {
	mu    sync.Mutex
	jtis  map[string]time.Time // JTI -> expiration time
	users map[string]time.Time // userID -> invalidation time
	now   func() time.Time
}

// NewInMemoryRevocationList creates an empty in-memory revocation list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		jtis:  make(map[string]time.Time),
		users: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Revoke adds a token's JTI to the list
func (l *InMemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jtis[jti] = l.now().Add(ttl)
	return nil
}

// IsRevoked checks if a token's JTI is revoked and not yet expired
func (l *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiration, ok := l.jtis[jti]
	if !ok {
		return false, nil
	}
	if l.now().After(expiration) {
		delete(l.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser invalidates tokens of userID issued before at
func (l *InMemoryRevocationList) RevokeUser(_ context.Context, userID string, at time.Time, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users[userID] = at
	return nil
}

// IsUserRevoked compares at microsecond precision, the resolution of token timestamps
func (l *InMemoryRevocationList) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	at, ok := l.users[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.UnixMicro() < at.UnixMicro(), nil
}

// Ensure InMemoryRevocationList implements RevocationList
var _ RevocationList = (*InMemoryRevocationList)(nil)
