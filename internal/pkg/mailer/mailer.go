// Package mailer delivers the rendered gallery as a zip attachment through
// an external SMTP relay.
package mailer

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"gopkg.in/gomail.v2"

	"fable/internal/config"
)

// ErrNotConfigured is returned when the relay credentials are missing.
// Credentials come from the environment (FABLE_MAIL_USERNAME /
// FABLE_MAIL_PASSWORD); their absence is a configuration error, not a
// silent no-op.
var ErrNotConfigured = errors.New("mail relay is not configured: set FABLE_MAIL_USERNAME and FABLE_MAIL_PASSWORD")

// Mailer sends gallery archives through the configured relay.
type Mailer struct {
	cfg *config.MailConfig
}

// New creates a Mailer.
func New(cfg *config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// ValidateAddress checks that addr is a well-formed address at the allowed
// consumer mail domain.
func (m *Mailer) ValidateAddress(addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	domain := m.cfg.AllowedDomain
	if domain == "" {
		return nil
	}
	if !strings.HasSuffix(strings.ToLower(parsed.Address), "@"+strings.ToLower(domain)) {
		return fmt.Errorf("email address must be a %s address", domain)
	}
	return nil
}

// SendZip mails data as a single zip attachment to the given address.
func (m *Mailer) SendZip(to string, data []byte, filename string) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return ErrNotConfigured
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your illustrated story")
	msg.SetBody("text/plain", "Your generated story pages are attached as a zip archive.")
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
