package ghclient

import "testing"

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		repo     string
		reporter string
		expected string
	}{
		{"with reporter", "urbanpiper/incidents", "alice", "repo:urbanpiper/incidents is:issue is:open alice"},
		{"search qualifier passes through", "urbanpiper/incidents", "author:bob", "repo:urbanpiper/incidents is:issue is:open author:bob"},
		{"quoted phrase passes through", "acme/ops", `"Jane Doe"`, `repo:acme/ops is:issue is:open "Jane Doe"`},
		{"no reporter", "acme/ops", "", "repo:acme/ops is:issue is:open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.repo, tt.reporter); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}
