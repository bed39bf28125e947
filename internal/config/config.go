package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding an optional config file path
const PathEnv = "STALE_ISSUES_CONFIG"

// Config represents the application configuration
type Config struct {
	GitHub struct {
		Token           string `yaml:"token"`
		APIURL          string `yaml:"api_url"`
		Repository      string `yaml:"repository"`
		Reporter        string `yaml:"reporter"`
		RequireReporter bool   `yaml:"require_reporter"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
	} `yaml:"github"`
	IssueFilter struct {
		StaleAfterDays int    `yaml:"stale_after_days"`
		OnBadTimestamp string `yaml:"on_bad_timestamp"`
	} `yaml:"issue_filter"`
	Notifiers struct {
		Provider string `yaml:"provider"`
		SMTP     struct {
			Host           string `yaml:"host"`
			Port           int    `yaml:"port"`
			User           string `yaml:"user"`
			Password       string `yaml:"password"`
			From           string `yaml:"from"`
			To             string `yaml:"to"`
			RequireTLS     bool   `yaml:"require_tls"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"smtp"`
		Resend struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"resend"`
		Teams struct {
			WebhookURL string `yaml:"webhook_url"`
		} `yaml:"teams"`
	} `yaml:"notifiers"`
	Log struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
		Stdout     bool   `yaml:"stdout"`
	} `yaml:"log"`
}

// Bad timestamp policies
const (
	OnBadTimestampAbort = "abort"
	OnBadTimestampSkip  = "skip"
)

// Mail providers
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// Default returns a config populated with the built-in defaults
func Default() *Config {
	var cfg Config
	cfg.GitHub.APIURL = "https://api.github.com/"
	cfg.GitHub.Repository = "urbanpiper/incidents"
	cfg.GitHub.RequireReporter = true
	cfg.GitHub.TimeoutSeconds = 15
	cfg.IssueFilter.StaleAfterDays = 2
	cfg.IssueFilter.OnBadTimestamp = OnBadTimestampAbort
	cfg.Notifiers.Provider = ProviderSMTP
	cfg.Notifiers.SMTP.Host = "smtp.gmail.com"
	cfg.Notifiers.SMTP.Port = 587
	cfg.Notifiers.SMTP.RequireTLS = true
	cfg.Notifiers.SMTP.TimeoutSeconds = 10
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 7
	cfg.Log.Stdout = true
	return &cfg
}

// Load builds the configuration from defaults, the optional YAML file at
// path and finally the process environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading configuration file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.trimCredentials()
	return cfg, nil
}

// applyEnv overlays environment variables on top of the file values.
// Only variables that are set override; an empty value still counts as set.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"GITHUB_TOKEN":            &c.GitHub.Token,
		"REPORTER_NAME":           &c.GitHub.Reporter,
		"STALE_ISSUES_REPOSITORY": &c.GitHub.Repository,
		"EMAIL_PASS":              &c.Notifiers.SMTP.Password,
		"TO_EMAIL":                &c.Notifiers.SMTP.To,
		"RESEND_API_KEY":          &c.Notifiers.Resend.APIKey,
		"TEAMS_WEBHOOK_URL":       &c.Notifiers.Teams.WebhookURL,
		"LOG_LEVEL":               &c.Log.Level,
		"LOG_FORMAT":              &c.Log.Format,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	// EMAIL_USER is both the SMTP login and the From address
	if v, ok := lookup("EMAIL_USER"); ok {
		c.Notifiers.SMTP.User = v
		c.Notifiers.SMTP.From = v
	}

	if v, ok := lookup("STALE_AFTER_DAYS"); ok {
		days, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid STALE_AFTER_DAYS %q: %w", v, err)
		}
		c.IssueFilter.StaleAfterDays = days
	}
	return nil
}

func (c *Config) trimCredentials() {
	fields := map[string]*string{
		"github token":  &c.GitHub.Token,
		"smtp user":     &c.Notifiers.SMTP.User,
		"smtp password": &c.Notifiers.SMTP.Password,
		"smtp from":     &c.Notifiers.SMTP.From,
		"smtp to":       &c.Notifiers.SMTP.To,
	}
	for name, v := range fields {
		trimmed := strings.TrimSpace(*v)
		if trimmed != *v {
			slog.Debug("Trimmed spaces from config value", "field", name)
			*v = trimmed
		}
	}
}

// ValidationError lists the configuration values that are missing or invalid
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks that everything one invocation needs is present.
// It never touches the network.
func (c *Config) Validate() error {
	var problems []string
	missing := func(name string) {
		problems = append(problems, name+" is required")
	}

	if c.GitHub.Token == "" {
		missing("GITHUB_TOKEN")
	}
	if c.GitHub.RequireReporter && strings.TrimSpace(c.GitHub.Reporter) == "" {
		missing("REPORTER_NAME")
	}
	if c.GitHub.Repository == "" {
		missing("github.repository")
	}
	if c.IssueFilter.StaleAfterDays <= 0 {
		problems = append(problems, "issue_filter.stale_after_days must be positive")
	}
	switch c.IssueFilter.OnBadTimestamp {
	case OnBadTimestampAbort, OnBadTimestampSkip:
	default:
		problems = append(problems, fmt.Sprintf("unknown issue_filter.on_bad_timestamp %q", c.IssueFilter.OnBadTimestamp))
	}

	if c.Notifiers.SMTP.From == "" {
		missing("EMAIL_USER")
	}
	if c.Notifiers.SMTP.To == "" {
		missing("TO_EMAIL")
	}
	switch c.Notifiers.Provider {
	case ProviderSMTP, "":
		if c.Notifiers.SMTP.Password == "" {
			missing("EMAIL_PASS")
		}
		if c.Notifiers.SMTP.Host == "" || c.Notifiers.SMTP.Port <= 0 {
			problems = append(problems, "notifiers.smtp host and port are required")
		}
	case ProviderResend:
		if c.Notifiers.Resend.APIKey == "" {
			missing("RESEND_API_KEY")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown notifiers.provider %q", c.Notifiers.Provider))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
