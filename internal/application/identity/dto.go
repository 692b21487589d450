package identity

import (
	"time"

	"github.com/moodtrack/backend/internal/domain/identity"
)

// UserResponse represents an account in admin pages
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResult contains the session issued by a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserResponse
}

// CreateUserInput contains the fields of a new account
type CreateUserInput struct {
	Email    string
	Password string
	Role     string
}

// CreateUserResult reports the new account and whether the welcome email went out.
// EmailError is set when delivery failed; the account is kept either way.
type CreateUserResult struct {
	User       UserResponse
	EmailSent  bool
	EmailError error
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
