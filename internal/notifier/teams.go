package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/pkg/models"
)

// TeamsNotifier implements Microsoft Teams notifications
type TeamsNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewTeamsNotifier creates a new Teams notifier
func NewTeamsNotifier(cfg *config.Config) *TeamsNotifier {
	return &TeamsNotifier{
		webhookURL: cfg.Notifiers.Teams.WebhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Notify posts the stale issues to the Teams channel
func (t *TeamsNotifier) Notify(ctx context.Context, report models.StaleReport) error {
	if len(report.URLs) == 0 {
		return nil
	}

	payload, err := t.generateTeamsPayload(report)
	if err != nil {
		return fmt.Errorf("error generating Teams payload: %w", err)
	}

	return t.sendTeamsNotification(ctx, payload)
}

// generateTeamsPayload creates the Teams message payload
func (t *TeamsNotifier) generateTeamsPayload(report models.StaleReport) ([]byte, error) {
	var facts []map[string]interface{}
	for i, u := range report.URLs {
		facts = append(facts, map[string]interface{}{
			"name":  fmt.Sprintf("#%d", i+1),
			"value": fmt.Sprintf("[%s](%s)", u, u),
		})
	}

	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": "FF0000",
		"summary":    ComposeSubject(report),
		"sections": []map[string]interface{}{
			{
				"activityTitle":    "⚠️ Stale GitHub Incidents",
				"activitySubtitle": fmt.Sprintf("%d open issues inactive for more than %s (reporter: %s)", len(report.URLs), pluralDays(report.StaleAfterDays), report.Reporter),
				"facts":            facts,
			},
		},
	}

	return json.Marshal(payload)
}

// sendTeamsNotification sends the notification to Microsoft Teams
func (t *TeamsNotifier) sendTeamsNotification(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("error creating Teams request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		slog.Error("Failed to send Teams notification", "error", err)
		return fmt.Errorf("failed to send Teams notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("Teams notification failed", "status", resp.StatusCode)
		return fmt.Errorf("Teams notification failed with status: %d", resp.StatusCode)
	}

	slog.Info("Teams notification sent successfully")
	return nil
}
