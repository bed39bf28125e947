package notifier

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/pkg/models"
)

// Notifier interface defines the contract for notification services
type Notifier interface {
	Notify(ctx context.Context, report models.StaleReport) error
}

const bodyPreamble = "These incidents are still open and inactive:\n\n"

var htmlBody = template.Must(template.New("email").Parse(`<p>These incidents are still open and inactive:</p>
<ul>
{{range .URLs}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ul>
`))

// New returns the mail notifier selected by notifiers.provider
func New(cfg *config.Config) (Notifier, error) {
	switch cfg.Notifiers.Provider {
	case config.ProviderSMTP, "":
		return NewEmailNotifier(cfg), nil
	case config.ProviderResend:
		return NewResendNotifier(cfg)
	default:
		return nil, fmt.Errorf("unknown notification provider %q", cfg.Notifiers.Provider)
	}
}

// Extras returns the optional notifiers that run after the mail notifier
func Extras(cfg *config.Config) []Notifier {
	var extras []Notifier
	if cfg.Notifiers.Teams.WebhookURL != "" {
		extras = append(extras, NewTeamsNotifier(cfg))
	}
	return extras
}

// ComposeSubject builds the summary subject line
func ComposeSubject(report models.StaleReport) string {
	return fmt.Sprintf("⚠️ Stale GitHub Incidents (>%s old, reporter: %s)",
		pluralDays(report.StaleAfterDays), report.Reporter)
}

// ComposeBody builds the plain-text body: the preamble, then one URL per line
func ComposeBody(report models.StaleReport) string {
	return bodyPreamble + strings.Join(report.URLs, "\n")
}

// ComposeHTMLBody renders the same list as links, for the HTML alternative
func ComposeHTMLBody(report models.StaleReport) (string, error) {
	var body strings.Builder
	if err := htmlBody.Execute(&body, report); err != nil {
		return "", err
	}
	return body.String(), nil
}

// Recipients splits a comma separated address list
func Recipients(to string) []string {
	var out []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
