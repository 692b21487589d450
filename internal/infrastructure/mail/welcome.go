package mail

import (
	"bytes"
	"context"
	"text/template"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`Hello,

An account has been created for you on the mood tracker.

  Email:    {{.Email}}
  Password: {{.Password}}
{{if .LoginURL}}
Sign in at {{.LoginURL}} and change your password from the account menu.
{{else}}
Please sign in and change your password from the account menu.
{{end}}`))

// AccountMailer sends account notifications
type AccountMailer struct {
	sender   Sender
	loginURL string
}

// NewAccountMailer creates an AccountMailer. loginURL may be empty.
func NewAccountMailer(sender Sender, loginURL string) *AccountMailer {
	return &AccountMailer{sender: sender, loginURL: loginURL}
}

// SendWelcome tells a new user their sign-in details
func (m *AccountMailer) SendWelcome(ctx context.Context, email, password string) error {
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, struct {
		Email, Password, LoginURL string
	}{email, password, m.loginURL}); err != nil {
		return err
	}
	return m.sender.Send(ctx, Message{
		To:      email,
		Subject: "Your mood tracker account",
		Body:    body.String(),
	})
}
