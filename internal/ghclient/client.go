package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/pkg/models"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client represents a GitHub issue search client
type Client struct {
	Config *config.Config
	gh     *github.Client
}

// NewClient creates a GitHub client authenticating with the configured token.
// The token is sent as "Authorization: token <TOKEN>".
func NewClient(cfg *config.Config) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.GitHub.Token,
		TokenType:   "token",
	})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = time.Duration(cfg.GitHub.TimeoutSeconds) * time.Second

	gh := github.NewClient(hc)
	if cfg.GitHub.APIURL != "" {
		base, err := url.Parse(cfg.GitHub.APIURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.GitHub.APIURL, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		gh.BaseURL = base
	}

	return &Client{Config: cfg, gh: gh}, nil
}

// APIError is a non-success answer from the search endpoint
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API returned %d: %s", e.StatusCode, e.Body)
}

// DecodeError means the search endpoint answered 2xx with a body that is not
// a search result
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding GitHub response: %v (Body: %s)", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SearchIssues runs one search query and returns the first page of items.
// A missing "items" key yields an empty slice.
func (c *Client) SearchIssues(ctx context.Context, query string) ([]models.Issue, error) {
	u := "search/issues?" + url.Values{"q": {query}}.Encode()
	req, err := c.gh.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating search request: %w", err)
	}

	slog.Debug("Searching GitHub issues", "url", req.URL.String())

	var body bytes.Buffer
	resp, err := c.gh.Do(ctx, req, &body)
	if err != nil {
		if resp != nil && resp.Response != nil {
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: errorBody(resp.Response, err)}
			slog.Error("GitHub search failed", "status", apiErr.StatusCode, "body", apiErr.Body)
			return nil, apiErr
		}
		return nil, fmt.Errorf("error connecting to GitHub: %w", err)
	}

	var sr models.SearchResponse
	if err := json.Unmarshal(body.Bytes(), &sr); err != nil {
		return nil, &DecodeError{Body: body.String(), Err: err}
	}
	if sr.Items == nil {
		sr.Items = []models.Issue{}
	}

	slog.Info("GitHub search returned", "total_count", sr.TotalCount, "items", len(sr.Items),
		"incomplete_results", sr.IncompleteResults)
	return sr.Items, nil
}

// errorBody returns the upstream body verbatim, empty included; go-github
// re-populates the body after reading it for its own error type. The error
// text is only used when the body cannot be read at all.
func errorBody(resp *http.Response, err error) string {
	if resp.Body == nil {
		return err.Error()
	}
	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		slog.Warn("Could not read GitHub error body", "error", readErr)
		return err.Error()
	}
	return string(data)
}
