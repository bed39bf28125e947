package ghclient

import "fmt"

// BuildQuery returns the search query for open issues in repo narrowed by the
// reporter filter. The filter is free text in GitHub's search syntax and is
// appended as given; any escaping has to happen here.
func BuildQuery(repo, reporter string) string {
	q := fmt.Sprintf("repo:%s is:issue is:open", repo)
	if reporter != "" {
		q += " " + reporter
	}
	return q
}
