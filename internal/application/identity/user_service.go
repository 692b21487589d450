package identity

import (
	"context"
	"errors"

	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// WelcomeNotifier tells a new user their sign-in details
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, email, password string) error
}

// SessionRevoker invalidates every session of a user
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// Errors returned to admins acting on their own account
var (
	ErrCannotDeleteSelf = shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	ErrCannotDemoteSelf = shared.NewDomainError("CANNOT_DEMOTE_SELF", "You cannot remove your own admin role")
	ErrEmailTaken       = shared.NewDomainError(shared.ErrAlreadyExists.Code, "A user with this email already exists")
)

// UserService handles account administration
type UserService struct {
	userRepo  identity.UserRepository
	entryRepo mood.EntryRepository
	notifier  WelcomeNotifier
	revoker   SessionRevoker
	metrics   *telemetry.AppMetrics
	logger    *zap.Logger
}

// NewUserService creates a new UserService. metrics may be nil.
func NewUserService(
	userRepo identity.UserRepository,
	entryRepo mood.EntryRepository,
	notifier WelcomeNotifier,
	revoker SessionRevoker,
	metrics *telemetry.AppMetrics,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		entryRepo: entryRepo,
		notifier:  notifier,
		revoker:   revoker,
		metrics:   metrics,
		logger:    logger,
	}
}

// List returns all accounts ordered by creation time
func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out, nil
}

// Get returns one account
func (s *UserService) Get(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByEmail returns the account registered under email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Create adds an account and sends the welcome email. A failed email is
// reported in the result and never undoes the account.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*CreateUserResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "create", "role", input.Role)
	defer span.End()

	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user, err := identity.NewUser(input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.logger.Info("User created", zap.String("user_id", user.ID), zap.String("role", role.String()))

	result := &CreateUserResult{User: ToUserResponse(user)}
	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, user.Email, input.Password); err != nil {
			s.logger.Warn("Welcome email not sent", zap.String("user_id", user.ID), zap.Error(err))
			result.EmailError = err
			s.metrics.Email(ctx, false)
		} else {
			result.EmailSent = true
			s.metrics.Email(ctx, true)
		}
	}
	return result, nil
}

// Delete removes an account and all of its mood entries. Admins cannot
// delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "delete", "user_id", id)
	defer span.End()

	if actorID == id {
		return ErrCannotDeleteSelf
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	removed, err := s.entryRepo.DeleteAllForUser(ctx, user.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.revoke(ctx, user.ID)

	s.logger.Info("User deleted",
		zap.String("user_id", user.ID),
		zap.String("actor_id", actorID),
		zap.Int64("entries_removed", removed))
	return nil
}

// UpdateRole assigns a role. Admins cannot demote themselves.
func (s *UserService) UpdateRole(ctx context.Context, actorID, id, roleName string) error {
	role, err := identity.ParseRole(roleName)
	if err != nil {
		return err
	}
	if actorID == id && role != identity.RoleAdmin {
		return ErrCannotDemoteSelf
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}
	if err := user.ChangeRole(role); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	// Outstanding sessions still carry the old role.
	s.revoke(ctx, user.ID)

	s.logger.Info("User role changed", zap.String("user_id", user.ID), zap.String("role", role.String()))
	return nil
}

// ResetPassword sets a new password without the old one and signs the user out everywhere
func (s *UserService) ResetPassword(ctx context.Context, id, password string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.revoke(ctx, user.ID)

	s.logger.Info("Password reset", zap.String("user_id", user.ID))
	return nil
}

// SeedAdmin creates the admin account unless a user with that email exists.
// It reports whether an account was created.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			s.logger.Warn("Seed admin email belongs to a non-admin account", zap.String("user_id", existing.ID))
		}
		return false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}

	admin, err := identity.NewUser(email, password, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("Admin account seeded", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
	return true, nil
}

func (s *UserService) revoke(ctx context.Context, userID string) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUser(ctx, userID); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", userID), zap.Error(err))
	}
}
