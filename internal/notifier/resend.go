package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/pkg/models"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends the summary through the Resend HTTP API
type ResendNotifier struct {
	config *config.Config
	client *resend.Client
}

// NewResendNotifier creates a Resend notifier from notifiers.resend
func NewResendNotifier(cfg *config.Config) (*ResendNotifier, error) {
	client := resend.NewClient(cfg.Notifiers.Resend.APIKey)
	if raw := cfg.Notifiers.Resend.BaseURL; raw != "" {
		base, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid Resend base URL %q: %w", raw, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		client.BaseURL = base
	}
	return &ResendNotifier{config: cfg, client: client}, nil
}

// Notify sends one summary email for the stale issues
func (r *ResendNotifier) Notify(ctx context.Context, report models.StaleReport) error {
	if len(report.URLs) == 0 {
		return nil
	}

	html, err := ComposeHTMLBody(report)
	if err != nil {
		return fmt.Errorf("error generating email body: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    r.config.Notifiers.SMTP.From,
		To:      Recipients(r.config.Notifiers.SMTP.To),
		Subject: ComposeSubject(report),
		Text:    ComposeBody(report),
		Html:    html,
	}

	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("Resend send failed", "error", err, "to", params.To)
		return fmt.Errorf("resend send failed: %w", err)
	}

	slog.Info("Email notification sent successfully", "provider", "resend", "id", sent.Id)
	return nil
}
