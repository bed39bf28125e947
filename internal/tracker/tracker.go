package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/internal/ghclient"
	"stale-issues-notifier/internal/notifier"
	"stale-issues-notifier/pkg/models"
)

// Result messages
const (
	MsgEmailSent     = "✅ Email sent"
	MsgNoStaleIssues = "ℹ️ No stale issues found"
	msgEmailFailed   = "❌ Email sending failed: "
)

// IssueSearcher runs one GitHub issue search
type IssueSearcher interface {
	SearchIssues(ctx context.Context, query string) ([]models.Issue, error)
}

// Tracker finds stale issues and reports them, once per Run
type Tracker struct {
	config   *config.Config
	searcher IssueSearcher
	mailer   notifier.Notifier
	extras   []notifier.Notifier
	now      func() time.Time
}

// New creates a tracker. extras are notified after the mailer on a best-effort basis.
func New(cfg *config.Config, searcher IssueSearcher, mailer notifier.Notifier, extras ...notifier.Notifier) *Tracker {
	return &Tracker{
		config:   cfg,
		searcher: searcher,
		mailer:   mailer,
		extras:   extras,
		now:      time.Now,
	}
}

// Run performs one invocation. Every outcome the caller can act on is a
// Result; the returned error is reserved for a malformed updated_at under the
// abort policy, which the host runtime reports as a failed invocation.
func (t *Tracker) Run(ctx context.Context) (models.Result, error) {
	cfg := t.config

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		return models.MessageResult(http.StatusBadRequest, err.Error()), nil
	}

	query := ghclient.BuildQuery(cfg.GitHub.Repository, cfg.GitHub.Reporter)
	slog.Info("Searching for open issues", "repo", cfg.GitHub.Repository, "reporter", cfg.GitHub.Reporter)

	issues, err := t.searcher.SearchIssues(ctx, query)
	if err != nil {
		return searchFailure(err), nil
	}

	cutoff := ghclient.StaleCutoff(t.now(), cfg.IssueFilter.StaleAfterDays)
	skip := cfg.IssueFilter.OnBadTimestamp == config.OnBadTimestampSkip
	stale, err := ghclient.FindStale(issues, cutoff, skip)
	if err != nil {
		slog.Error("Error parsing issue timestamps", "error", err)
		return models.Result{}, err
	}
	slog.Info("Issues after staleness filter", "total", len(issues), "stale", len(stale), "cutoff", cutoff)

	if len(stale) == 0 {
		slog.Info("No stale issues to notify in this run.")
		return models.MessageResult(http.StatusOK, MsgNoStaleIssues), nil
	}

	report := models.StaleReport{
		Reporter:       cfg.GitHub.Reporter,
		StaleAfterDays: cfg.IssueFilter.StaleAfterDays,
		URLs:           stale,
	}

	slog.Info("Sending summary notification email", "issues_to_notify", len(stale))
	if err := t.mailer.Notify(ctx, report); err != nil {
		slog.Error("Error notifying", "error", err)
		return models.MessageResult(http.StatusInternalServerError, msgEmailFailed+err.Error()), nil
	}

	for _, n := range t.extras {
		if err := n.Notify(ctx, report); err != nil {
			slog.Error("Error notifying", "notifier", fmt.Sprintf("%T", n), "error", err)
		}
	}

	return models.MessageResult(http.StatusOK, MsgEmailSent), nil
}

func searchFailure(err error) models.Result {
	var apiErr *ghclient.APIError
	var decErr *ghclient.DecodeError

	switch {
	case errors.As(err, &apiErr):
		// upstream status and body go back untouched
		return models.RawResult(apiErr.StatusCode, apiErr.Body)
	case errors.As(err, &decErr):
		slog.Error("Unparseable GitHub response", "error", decErr.Err, "body", decErr.Body)
		return models.MessageResult(http.StatusInternalServerError,
			fmt.Sprintf("Failed to parse GitHub API response: %s", decErr.Body))
	default:
		slog.Error("GitHub API request failed", "error", err)
		return models.MessageResult(http.StatusBadGateway, "GitHub API request failed: "+err.Error())
	}
}
