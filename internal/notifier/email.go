package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/pkg/models"

	"gopkg.in/mail.v2"
)

// EmailNotifier implements email notifications over SMTP
type EmailNotifier struct {
	config *config.Config
	dialer *mail.Dialer
}

// NewEmailNotifier creates a new email notifier.
// Port 465 gets implicit TLS, anything else STARTTLS (mandatory unless
// require_tls is off, which is only meant for local relays).
func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	smtp := cfg.Notifiers.SMTP

	d := mail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Password)
	d.TLSConfig = &tls.Config{ServerName: smtp.Host}
	d.RetryFailure = false
	if smtp.TimeoutSeconds > 0 {
		d.Timeout = time.Duration(smtp.TimeoutSeconds) * time.Second
	}
	if smtp.RequireTLS {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	} else {
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}

	return &EmailNotifier{config: cfg, dialer: d}
}

// Notify sends one summary email for the stale issues
func (e *EmailNotifier) Notify(ctx context.Context, report models.StaleReport) error {
	if len(report.URLs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := e.buildMessage(report)
	if err != nil {
		return fmt.Errorf("error generating email body: %w", err)
	}
	return e.sendEmail(m)
}

// buildMessage returns a multipart/alternative message: the plain-text list
// first, then the same list as HTML links
func (e *EmailNotifier) buildMessage(report models.StaleReport) (*mail.Message, error) {
	smtp := e.config.Notifiers.SMTP

	html, err := ComposeHTMLBody(report)
	if err != nil {
		return nil, err
	}

	m := mail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", Recipients(smtp.To)...)
	m.SetHeader("Subject", ComposeSubject(report))
	m.SetBody("text/plain", ComposeBody(report))
	m.AddAlternative("text/html", html)
	return m, nil
}

// sendEmail opens one SMTP session, sends the message and always closes the
// session again, whatever step fails
func (e *EmailNotifier) sendEmail(m *mail.Message) error {
	addr := fmt.Sprintf("%s:%d", e.dialer.Host, e.dialer.Port)

	sc, err := e.dialer.Dial()
	if err != nil {
		slog.Error("Failed to open SMTP session", "addr", addr, "error", err)
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer func() {
		if err := sc.Close(); err != nil {
			slog.Warn("Error closing SMTP session", "error", err)
		}
	}()

	if err := mail.Send(sc, m); err != nil {
		slog.Error("Failed to send email", "addr", addr, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email notification sent successfully", "recipients", e.config.Notifiers.SMTP.To)
	return nil
}
