package notifier

import (
	"strings"
	"testing"

	"stale-issues-notifier/internal/config"
	"stale-issues-notifier/pkg/models"
)

func testReport() models.StaleReport {
	return models.StaleReport{
		Reporter:       "alice",
		StaleAfterDays: 2,
		URLs: []string{
			"https://github.com/urbanpiper/incidents/issues/1",
			"https://github.com/urbanpiper/incidents/issues/2",
		},
	}
}

func TestComposeSubject(t *testing.T) {
	report := testReport()
	expected := "⚠️ Stale GitHub Incidents (>2 days old, reporter: alice)"
	if got := ComposeSubject(report); got != expected {
		t.Errorf("Expected '%s', got '%s'", expected, got)
	}

	report.StaleAfterDays = 1
	if got := ComposeSubject(report); got != "⚠️ Stale GitHub Incidents (>1 day old, reporter: alice)" {
		t.Errorf("Unexpected singular subject: '%s'", got)
	}
}

func TestComposeBody(t *testing.T) {
	report := testReport()
	report.URLs = append(report.URLs, report.URLs[0])

	expected := "These incidents are still open and inactive:\n\n" +
		"https://github.com/urbanpiper/incidents/issues/1\n" +
		"https://github.com/urbanpiper/incidents/issues/2\n" +
		"https://github.com/urbanpiper/incidents/issues/1"
	if got := ComposeBody(report); got != expected {
		t.Errorf("Expected body:\n%q\ngot:\n%q", expected, got)
	}
}

func TestComposeHTMLBody(t *testing.T) {
	report := testReport()
	report.URLs = append(report.URLs, `https://github.com/a/b/issues/3?x=<script>`)

	got, err := ComposeHTMLBody(report)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.HasPrefix(got, "<p>These incidents are still open and inactive:</p>") {
		t.Errorf("Expected the preamble first, got %q", got)
	}
	if strings.Count(got, "<li>") != 3 {
		t.Errorf("Expected one list item per URL, got %q", got)
	}
	first := strings.Index(got, report.URLs[0])
	second := strings.Index(got, report.URLs[1])
	if first < 0 || second < first {
		t.Errorf("Expected links in report order, got %q", got)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("Expected URLs to be escaped, got %q", got)
	}
}

func TestRecipients(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{"oncall@example.com", []string{"oncall@example.com"}},
		{"a@example.com, b@example.com", []string{"a@example.com", "b@example.com"}},
		{" a@example.com ,, ", []string{"a@example.com"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := Recipients(tt.in)
		if len(got) != len(tt.expected) {
			t.Errorf("Recipients(%q): expected %v, got %v", tt.in, tt.expected, got)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("Recipients(%q): expected %v, got %v", tt.in, tt.expected, got)
			}
		}
	}
}

func TestNew(t *testing.T) {
	cfg := config.Default()

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok := n.(*EmailNotifier); !ok {
		t.Errorf("Expected *EmailNotifier for smtp provider, got %T", n)
	}

	cfg.Notifiers.Provider = config.ProviderResend
	cfg.Notifiers.Resend.APIKey = "re_test"
	n, err = New(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok := n.(*ResendNotifier); !ok {
		t.Errorf("Expected *ResendNotifier for resend provider, got %T", n)
	}

	cfg.Notifiers.Provider = "pigeon"
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestExtras(t *testing.T) {
	cfg := config.Default()
	if extras := Extras(cfg); len(extras) != 0 {
		t.Errorf("Expected no extras without a webhook, got %d", len(extras))
	}

	cfg.Notifiers.Teams.WebhookURL = "https://webhook.url"
	extras := Extras(cfg)
	if len(extras) != 1 {
		t.Fatalf("Expected 1 extra notifier, got %d", len(extras))
	}
	if _, ok := extras[0].(*TeamsNotifier); !ok {
		t.Errorf("Expected *TeamsNotifier, got %T", extras[0])
	}
}
