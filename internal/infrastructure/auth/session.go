package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/moodtrack/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrMissingUserID = errors.New("missing user_id in claims")
	ErrTokenRevoked  = errors.New("token has been revoked")
)

// Claims represents the session token claims
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	// IssuedAtMicro is iat at microsecond precision; iat itself is whole seconds
	IssuedAtMicro int64 `json:"iat_us,omitempty"`
}

// IssuedAtTime returns the token's issued-at time as time.Time
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAtMicro != 0 {
		return time.UnixMicro(c.IssuedAtMicro)
	}
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns the time left until expiry as seen at now
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Identity is the authenticated principal a session carries
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IssuedSession is a signed token and its expiry
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// SessionManager signs, validates and revokes HS256 session tokens.
// Tokens are never renewed; a new login issues a new token.
type SessionManager struct {
	secret      []byte
	ttl         time.Duration
	issuer      string
	revocations RevocationList
	now         func() time.Time
}

// SessionOption configures a SessionManager
type SessionOption func(*SessionManager)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager creates a session manager backed by revocations
func NewSessionManager(cfg config.SessionConfig, revocations RevocationList, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		secret:      []byte(cfg.Secret),
		ttl:         cfg.TTL,
		issuer:      cfg.Issuer,
		revocations: revocations,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime of issued tokens
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new session token for id
func (m *SessionManager) Issue(id Identity) (*IssuedSession, error) {
	if id.UserID == "" {
		return nil, ErrMissingUserID
	}
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    m.issuer,
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:        id.UserID,
		Email:         id.Email,
		Role:          id.Role,
		IssuedAtMicro: now.UnixMicro(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &IssuedSession{Token: token, ExpiresAt: expiresAt}, nil
}

// parse verifies signature and shape; expiry is checked unless allowExpired
func (m *SessionManager) parse(tokenString string, allowExpired bool) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrInvalidToken
		case errors.Is(err, jwt.ErrTokenExpired):
			if !allowExpired {
				return nil, ErrExpiredToken
			}
		default:
			return nil, ErrInvalidToken
		}
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if claims.ID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Validate returns the claims of a live, unrevoked token
func (m *SessionManager) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString, false)
	if err != nil {
		return nil, err
	}

	revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	revoked, err = m.revocations.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates a token until it would have expired.
// Expired tokens need no entry and are accepted silently.
func (m *SessionManager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.parse(tokenString, true)
	if err != nil {
		return err
	}
	ttl := claims.RemainingTTL(m.now())
	if ttl == 0 {
		return nil
	}
	return m.revocations.Revoke(ctx, claims.ID, ttl)
}

// RevokeUser invalidates every token issued to userID before now
func (m *SessionManager) RevokeUser(ctx context.Context, userID string) error {
	return m.revocations.RevokeUser(ctx, userID, m.now(), m.ttl)
}
