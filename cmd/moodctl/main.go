package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	identityapp "github.com/moodtrack/backend/internal/application/identity"
	moodapp "github.com/moodtrack/backend/internal/application/mood"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/infrastructure/auth"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"github.com/moodtrack/backend/internal/infrastructure/mail"
	"github.com/moodtrack/backend/internal/infrastructure/persistence"
	"github.com/moodtrack/backend/internal/interfaces/cli"
	"go.uber.org/zap"
)

var CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"warn"`

	SeedAdmin     cli.SeedAdminCmd     `cmd:"" help:"Create the configured admin account if missing."`
	CreateUser    cli.CreateUserCmd    `cmd:"" help:"Create an account and send the welcome email."`
	ResetPassword cli.ResetPasswordCmd `cmd:"" help:"Set a new password for an account."`
	Users         cli.UsersCmd         `cmd:"" help:"List accounts."`
	Chart         cli.ChartCmd         `cmd:"" help:"Print a user's chart series as JSON."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("moodctl"),
		kong.Description("Administration tool for the mood tracker"),
		kong.UsageOnError(),
	)

	if err := run(kctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:   CLI.LogLevel,
		Format:  "console",
		Output:  "stderr",
		Service: "moodctl",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Writes to the throwaway in-memory store would be lost on exit
	if cfg.Store.Driver != "memory" {
		cfg.Store.Fallback = false
	}
	store, err := persistence.Open(ctx, cfg.Store, log, persistence.WithSQLLogLevel(CLI.LogLevel))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("Error closing record store", zap.Error(err))
		}
	}()

	revocations, redisClient := auth.NewRevocationList(ctx, cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}
	sessions := auth.NewSessionManager(cfg.Session, revocations)

	policy, err := mood.ParseDuplicatePolicy(cfg.Mood.DuplicatePolicy)
	if err != nil {
		return err
	}
	mailer := mail.NewAccountMailer(mail.NewSender(cfg.SMTP, log), cfg.SMTP.LoginURL)

	app := &cli.Context{
		Ctx:   ctx,
		Users: identityapp.NewUserService(store.Users(), store.Entries(), mailer, sessions, nil, log),
		Entries: moodapp.NewEntryService(store.Entries(), moodapp.EntryServiceConfig{
			ScoreMax:        cfg.Mood.ScoreMax,
			DuplicatePolicy: policy,
		}, nil, log),
		Admin: cfg.Admin,
		Out:   os.Stdout,
		Now:   time.Now,
	}
	return kctx.Run(app)
}
