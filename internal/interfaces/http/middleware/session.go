package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/backend/internal/infrastructure/auth"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SessionClaimsKey holds the verified *auth.Claims in the gin context
const SessionClaimsKey = "session_claims"

// SessionValidator verifies a session token
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.Claims, error)
}

// SessionCookie describes the session cookie
type SessionCookie struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// NewSessionCookie builds the cookie settings from config
func NewSessionCookie(cfg config.SessionConfig) SessionCookie {
	sameSite := http.SameSiteLaxMode
	switch strings.ToLower(cfg.SameSite) {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}
	return SessionCookie{
		Name:     cfg.CookieName,
		Domain:   cfg.Domain,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	}
}

// Set writes the session cookie, expiring with the token
func (sc SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		Domain:   sc.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.SameSite,
	})
}

// Clear removes the session cookie
func (sc SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		Domain:   sc.Domain,
		MaxAge:   -1,
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.SameSite,
	})
}

// Token returns the raw session token of the request, if any
func (sc SessionCookie) Token(c *gin.Context) string {
	cookie, err := c.Request.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// isTokenError reports whether err condemns the token itself, as opposed to
// a failure of the revocation backend
func isTokenError(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, auth.ErrTokenRevoked) ||
		errors.Is(err, auth.ErrInvalidClaims) ||
		errors.Is(err, auth.ErrMissingUserID)
}

// Session resolves the session cookie into claims. A bad token is dropped
// and the request continues anonymously; gates decide what it may reach.
// Any other validation failure keeps the cookie and goes to onError.
func Session(validator SessionValidator, cookie SessionCookie, onError func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.Token(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil && !isTokenError(err) {
			onError(c, err)
			c.Abort()
			return
		}
		if err != nil {
			logger.GetGinLogger(c).Debug("Discarding session cookie", zap.Error(err))
			cookie.Clear(c)
			c.Next()
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(logger.GinUserIDKey, claims.UserID)

		ctx, reqLogger := logger.WithUserID(c.Request.Context(), logger.GetGinLogger(c), claims.UserID)
		c.Set(logger.GinLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CurrentClaims returns the session claims, or nil for anonymous requests
func CurrentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(SessionClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// CurrentUserID returns the signed-in user's id or an empty string
func CurrentUserID(c *gin.Context) string {
	if claims := CurrentClaims(c); claims != nil {
		return claims.UserID
	}
	return ""
}
