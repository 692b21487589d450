package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUser(t *testing.T, email string, role identity.Role) *identity.User {
	t.Helper()
	prev := identity.BcryptCost
	identity.BcryptCost = bcrypt.MinCost
	defer func() { identity.BcryptCost = prev }()

	u, err := identity.NewUser(email, "password123", role)
	require.NoError(t, err)
	return u
}

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newMemoryDB(t))

	admin := newTestUser(t, "admin@example.com", identity.RoleAdmin)
	admin.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, admin))

	participant := newTestUser(t, "p@example.com", identity.RoleParticipant)
	participant.CreatedAt = admin.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, participant))

	t.Run("email is unique", func(t *testing.T) {
		dup := newTestUser(t, "ADMIN@example.com", identity.RoleParticipant)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("FindByEmail normalizes", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "  Admin@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)
		assert.True(t, got.VerifyPassword("password123"))

		_, err = repo.FindByEmail(ctx, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ExistsByEmail", func(t *testing.T) {
		ok, err := repo.ExistsByEmail(ctx, "p@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Update writes false flags", func(t *testing.T) {
		participant.Deactivate()
		require.NoError(t, participant.ChangeRole(identity.RoleAdmin))
		require.NoError(t, repo.Update(ctx, participant))

		got, err := repo.FindByID(ctx, participant.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
		assert.Equal(t, identity.RoleAdmin, got.Role)
	})

	t.Run("FindAll orders by creation", func(t *testing.T) {
		users, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, admin.ID, users[0].ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, participant.ID))
		assert.ErrorIs(t, repo.Delete(ctx, participant.ID), shared.ErrNotFound)
		_, err := repo.FindByID(ctx, "bad")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
