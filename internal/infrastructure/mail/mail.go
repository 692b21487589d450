// Package mail delivers account notifications over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/moodtrack/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// ErrDisabled is returned by the no-op sender when no SMTP relay is configured
var ErrDisabled = errors.New("email delivery is not configured")

// Message is a plain-text email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message. Delivery is synchronous and never retried.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers through an SMTP relay with go-mail
type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPSender creates a sender for the configured relay
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

// NewSender returns an SMTP sender when a relay is configured and a no-op sender otherwise
func NewSender(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled() {
		logger.Info("SMTP not configured, account emails disabled")
		return NoopSender{logger: logger}
	}
	return NewSMTPSender(cfg, logger)
}

func (s *SMTPSender) buildMessage(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}

func (s *SMTPSender) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(s.cfg.Timeout),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return gomail.NewClient(s.cfg.Host, opts...)
}

// Send dials the relay, delivers msg and hangs up
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Warn("Email delivery failed",
			zap.String("to", msg.To),
			zap.String("host", s.cfg.Host),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// NoopSender drops every message
type NoopSender struct {
	logger *zap.Logger
}

// Send logs the skipped message and returns ErrDisabled
func (s NoopSender) Send(_ context.Context, msg Message) error {
	if s.logger != nil {
		s.logger.Debug("Email skipped, SMTP not configured", zap.String("to", msg.To))
	}
	return ErrDisabled
}
