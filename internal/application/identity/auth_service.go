package identity

import (
	"context"
	"errors"

	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/auth"
	"github.com/moodtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuthService handles sign-in, sign-out and self-service password changes
type AuthService struct {
	userRepo identity.UserRepository
	sessions *auth.SessionManager
	metrics  *telemetry.AppMetrics
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service. metrics may be nil.
func NewAuthService(
	userRepo identity.UserRepository,
	sessions *auth.SessionManager,
	metrics *telemetry.AppMetrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.logger.Warn("Login for unknown email", zap.String("email", identity.NormalizeEmail(email)))
		s.metrics.Login(ctx, false)
		return nil, shared.ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		s.logger.Warn("Login with wrong password", zap.String("user_id", user.ID))
		s.metrics.Login(ctx, false)
		return nil, shared.ErrInvalidCredentials
	}
	if !user.Active {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID))
		s.metrics.Login(ctx, false)
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	session, err := s.sessions.Issue(auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.Login(ctx, true)
	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", user.Role.String()))
	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// Logout revokes the session token. Tokens that fail validation are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrMissingUserID) || errors.Is(err, auth.ErrInvalidClaims) {
			return nil
		}
		return err
	}
	return nil
}

// ChangePassword replaces the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "change_password", "user_id", userID)
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(current, next); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.logger.Info("Password changed", zap.String("user_id", userID))
	return nil
}
