package ghclient

import (
	"fmt"
	"log/slog"
	"time"

	"stale-issues-notifier/pkg/models"
)

// UpdatedAtLayout is the only accepted shape for updated_at
const UpdatedAtLayout = "2006-01-02T15:04:05Z"

// TimestampError reports an issue whose updated_at does not match UpdatedAtLayout
type TimestampError struct {
	URL   string
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("issue %s has unexpected updated_at %q: %v", e.URL, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// ParseUpdatedAt parses a UTC timestamp with seconds precision.
// time.Parse tolerates fractional seconds the layout does not mention, so the
// length is checked first.
func ParseUpdatedAt(value string) (time.Time, error) {
	if len(value) != len(UpdatedAtLayout) {
		return time.Time{}, fmt.Errorf("expected layout %s", UpdatedAtLayout)
	}
	return time.Parse(UpdatedAtLayout, value)
}

// StaleCutoff returns the instant before which an issue counts as stale
func StaleCutoff(now time.Time, staleAfterDays int) time.Time {
	return now.UTC().Add(-time.Duration(staleAfterDays) * 24 * time.Hour)
}

// FindStale returns the URLs of issues last updated strictly before cutoff,
// in input order. The first malformed timestamp aborts with a *TimestampError
// unless skipMalformed is set, in which case the issue is logged and dropped.
func FindStale(issues []models.Issue, cutoff time.Time, skipMalformed bool) ([]string, error) {
	stale := []string{}
	for _, issue := range issues {
		updated, err := ParseUpdatedAt(issue.UpdatedAt)
		if err != nil {
			tsErr := &TimestampError{URL: issue.HTMLURL, Value: issue.UpdatedAt, Err: err}
			if !skipMalformed {
				return nil, tsErr
			}
			slog.Warn("Skipping issue with unparseable updated_at", "url", issue.HTMLURL,
				"updated_at", issue.UpdatedAt, "error", err)
			continue
		}
		if updated.Before(cutoff) {
			stale = append(stale, issue.HTMLURL)
		}
	}
	return stale, nil
}
