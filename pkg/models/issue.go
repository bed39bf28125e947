package models

// Issue represents a GitHub issue search result item.
// Only the fields the notifier reads are kept.
type Issue struct {
	HTMLURL   string `json:"html_url"`
	UpdatedAt string `json:"updated_at"` // e.g. 2024-01-01T12:00:00Z
}

// SearchResponse is the body of GET /search/issues
type SearchResponse struct {
	TotalCount        int     `json:"total_count"`
	IncompleteResults bool    `json:"incomplete_results"`
	Items             []Issue `json:"items"`
}

// StaleReport is what gets handed to notifiers
type StaleReport struct {
	Reporter       string
	StaleAfterDays int
	URLs           []string
}
