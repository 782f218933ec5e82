// Package mail delivers account verification codes over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/uden-ai/uden-server/internal/config"
)

// Mailer sends a verification code to one recipient. Failure is a hard
// error for the calling workflow.
type Mailer interface {
	SendVerificationCode(ctx context.Context, username, email, code string) error
}

// SMTPMailer implements Mailer over an authenticated TLS SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer constructs an SMTPMailer from relay settings.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerificationCode sends the plaintext verification message.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, username, email, code string) error {
	msg := gomail.NewMsg()
	if errFrom := msg.FromFormat("Uden AI", m.cfg.From); errFrom != nil {
		return fmt.Errorf("mail: set from: %w", errFrom)
	}
	if errTo := msg.AddToFormat(username, email); errTo != nil {
		return fmt.Errorf("mail: set recipient: %w", errTo)
	}
	msg.Subject("Uden AI Email Verification")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf("Your Uden AI verification code is: %s", code))

	client, errClient := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if errClient != nil {
		return fmt.Errorf("mail: smtp client: %w", errClient)
	}

	if errSend := client.DialAndSendWithContext(ctx, msg); errSend != nil {
		return fmt.Errorf("mail: send verification: %w", errSend)
	}
	return nil
}
