package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	identityapp "github.com/moodtrack/backend/internal/application/identity"
	moodapp "github.com/moodtrack/backend/internal/application/mood"
	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/auth"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/moodtrack/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type stubNotifier struct{}

func (stubNotifier) SendWelcome(context.Context, string, string) error { return nil }

func setupContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	prevCost := identity.BcryptCost
	identity.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { identity.BcryptCost = prevCost })

	ctx := context.Background()
	store, err := persistence.OpenMemory(ctx, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	sessions := auth.NewSessionManager(config.SessionConfig{
		Secret: "cli-test-secret-0123456789abcdef",
		TTL:    time.Hour,
	}, auth.NewInMemoryRevocationList())

	out := &bytes.Buffer{}
	return &Context{
		Ctx:     ctx,
		Users:   identityapp.NewUserService(store.Users(), store.Entries(), stubNotifier{}, sessions, nil, zap.NewNop()),
		Entries: moodapp.NewEntryService(store.Entries(), moodapp.EntryServiceConfig{}, nil, zap.NewNop()),
		Admin:   config.AdminConfig{Email: "admin@moodtrack.local", Password: "admin-password"},
		Out:     out,
		Now:     func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) },
	}, out
}

func TestSeedAdminCmd(t *testing.T) {
	app, out := setupContext(t)

	require.NoError(t, (&SeedAdminCmd{}).Run(app))
	assert.Contains(t, out.String(), "created admin admin@moodtrack.local")

	out.Reset()
	require.NoError(t, (&SeedAdminCmd{}).Run(app))
	assert.Contains(t, out.String(), "already exists")

	user, err := app.Users.GetByEmail(app.Ctx, "admin@moodtrack.local")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
}

func TestSeedAdminCmd_NoPassword(t *testing.T) {
	app, _ := setupContext(t)
	app.Admin.Password = ""

	err := (&SeedAdminCmd{}).Run(app)
	assert.Error(t, err)
}

func TestCreateUserCmd(t *testing.T) {
	app, out := setupContext(t)

	cmd := &CreateUserCmd{Email: "alice@example.com", Password: "password123", Role: "participant"}
	require.NoError(t, cmd.Run(app))
	assert.Contains(t, out.String(), "created participant alice@example.com")

	err := cmd.Run(app)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestResetPasswordCmd(t *testing.T) {
	app, out := setupContext(t)
	require.NoError(t, (&CreateUserCmd{Email: "alice@example.com", Password: "password123", Role: "participant"}).Run(app))

	require.NoError(t, (&ResetPasswordCmd{Email: "alice@example.com", Password: "new-password"}).Run(app))
	assert.Contains(t, out.String(), "password reset for alice@example.com")

	err := (&ResetPasswordCmd{Email: "ghost@example.com", Password: "new-password"}).Run(app)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUsersCmd(t *testing.T) {
	app, out := setupContext(t)
	require.NoError(t, (&CreateUserCmd{Email: "alice@example.com", Password: "password123", Role: "participant"}).Run(app))
	out.Reset()

	require.NoError(t, (&UsersCmd{}).Run(app))
	assert.Contains(t, out.String(), "EMAIL")
	assert.Contains(t, out.String(), "alice@example.com")
}

func TestChartCmd(t *testing.T) {
	app, out := setupContext(t)
	require.NoError(t, (&CreateUserCmd{Email: "alice@example.com", Password: "password123", Role: "participant"}).Run(app))
	user, err := app.Users.GetByEmail(app.Ctx, "alice@example.com")
	require.NoError(t, err)

	for _, in := range []mood.EntryInput{
		{Date: "2023-12-01", Motivation: 9, Mood: 9, Wellbeing: 9},
		{Date: "2024-01-01", Motivation: 5, Mood: 5, Wellbeing: 5},
		{Date: "2024-01-01", Motivation: 3, Mood: 3, Wellbeing: 3},
		{Date: "2024-01-02", Motivation: 2, Mood: 2, Wellbeing: 2},
	} {
		_, err := app.Entries.Add(app.Ctx, user.ID, in)
		require.NoError(t, err)
	}

	t.Run("all entries", func(t *testing.T) {
		out.Reset()
		require.NoError(t, (&ChartCmd{Email: "alice@example.com"}).Run(app))

		var series mood.ChartSeries
		require.NoError(t, json.Unmarshal(out.Bytes(), &series))
		assert.Equal(t, []string{"2023-12-01", "2024-01-01", "2024-01-02"}, series.Labels)
		assert.Equal(t, []float64{9, 4, 2}, series.Mood)
	})

	t.Run("weekly", func(t *testing.T) {
		out.Reset()
		require.NoError(t, (&ChartCmd{Email: "alice@example.com", Weekly: true}).Run(app))

		var series mood.ChartSeries
		require.NoError(t, json.Unmarshal(out.Bytes(), &series))
		assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, series.Labels)
		assert.Equal(t, []float64{4, 2}, series.Motivation)
	})
}

func TestKongParsing(t *testing.T) {
	var grammar struct {
		CreateUser CreateUserCmd `cmd:""`
		Chart      ChartCmd      `cmd:""`
	}
	parser, err := kong.New(&grammar, kong.Name("moodctl"), kong.Exit(func(int) {}))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"create-user", "--email", "bob@example.com", "--password", "password123"})
	require.NoError(t, err)
	assert.Equal(t, "create-user", kctx.Command())
	assert.Equal(t, "participant", grammar.CreateUser.Role)

	_, err = parser.Parse([]string{"create-user", "--email", "bob@example.com", "--password", "password123", "--role", "owner"})
	assert.Error(t, err)

	kctx, err = parser.Parse([]string{"chart", "--email", "bob@example.com", "--weekly"})
	require.NoError(t, err)
	assert.Equal(t, "chart", kctx.Command())
	assert.True(t, grammar.Chart.Weekly)
}
