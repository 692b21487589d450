package identity

import "context"

// UserRepository stores accounts. Emails are compared in their normalized
// form and lookups of an unknown account return shared.ErrNotFound.
type UserRepository interface {
	// Create inserts user; a taken email yields shared.ErrAlreadyExists
	Create(ctx context.Context, user *User) error
	// Update writes password hash, role and active flag
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAll lists accounts oldest first
	FindAll(ctx context.Context) ([]*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
