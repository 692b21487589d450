// Package cli implements the moodctl admin commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	identityapp "github.com/moodtrack/backend/internal/application/identity"
	moodapp "github.com/moodtrack/backend/internal/application/mood"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/infrastructure/config"
)

// Context carries the services shared by every command
type Context struct {
	Ctx     context.Context
	Users   *identityapp.UserService
	Entries *moodapp.EntryService
	Admin   config.AdminConfig
	Out     io.Writer
	Now     func() time.Time
}

// SeedAdminCmd creates the configured admin account if it is missing
type SeedAdminCmd struct {
	Email    string `help:"Admin email; defaults to admin.email."`
	Password string `help:"Admin password; defaults to admin.password."`
}

func (c *SeedAdminCmd) Run(app *Context) error {
	email, password := c.Email, c.Password
	if email == "" {
		email = app.Admin.Email
	}
	if password == "" {
		password = app.Admin.Password
	}
	if password == "" {
		return fmt.Errorf("no admin password: pass --password or set admin.password")
	}

	created, err := app.Users.SeedAdmin(app.Ctx, email, password)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(app.Out, "created admin %s\n", email)
	} else {
		fmt.Fprintf(app.Out, "admin %s already exists\n", email)
	}
	return nil
}

// CreateUserCmd adds an account and sends the welcome email
type CreateUserCmd struct {
	Email    string `required:"" help:"Email address of the new account."`
	Password string `required:"" help:"Initial password (at least 8 characters)."`
	Role     string `default:"participant" enum:"participant,admin" help:"Account role."`
}

func (c *CreateUserCmd) Run(app *Context) error {
	result, err := app.Users.Create(app.Ctx, identityapp.CreateUserInput{
		Email:    c.Email,
		Password: c.Password,
		Role:     c.Role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "created %s %s (%s)\n", result.User.Role, result.User.Email, result.User.ID)
	if !result.EmailSent {
		fmt.Fprintf(app.Out, "welcome email not sent: %v\n", result.EmailError)
	}
	return nil
}

// ResetPasswordCmd sets a new password and signs the user out everywhere
type ResetPasswordCmd struct {
	Email    string `required:"" help:"Email address of the account."`
	Password string `required:"" help:"New password (at least 8 characters)."`
}

func (c *ResetPasswordCmd) Run(app *Context) error {
	user, err := app.Users.GetByEmail(app.Ctx, c.Email)
	if err != nil {
		return err
	}
	if err := app.Users.ResetPassword(app.Ctx, user.ID, c.Password); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "password reset for %s\n", user.Email)
	return nil
}

// UsersCmd lists every account
type UsersCmd struct{}

func (c *UsersCmd) Run(app *Context) error {
	users, err := app.Users.List(app.Ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tROLE\tACTIVE\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", u.ID, u.Email, u.Role, u.Active, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// ChartCmd prints the chart series of one user as JSON
type ChartCmd struct {
	Email  string `required:"" help:"Email address of the account."`
	Weekly bool   `help:"Only the last seven days."`
}

func (c *ChartCmd) Run(app *Context) error {
	user, err := app.Users.GetByEmail(app.Ctx, c.Email)
	if err != nil {
		return err
	}

	var series mood.ChartSeries
	if c.Weekly {
		series, err = app.Entries.WeeklyChartData(app.Ctx, user.ID, app.Now())
	} else {
		series, err = app.Entries.ChartData(app.Ctx, user.ID)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(app.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(series)
}
