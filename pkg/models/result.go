package models

import (
	"encoding/json"
	"net/http"
)

// Result is the outcome of one invocation as seen by the host runtime
type Result struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MessageResult builds a JSON {"message": ...} result
func MessageResult(statusCode int, message string) Result {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		// a map of strings always marshals; keep the message readable anyway
		body = []byte(message)
	}
	return Result{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// RawResult passes a body through untouched
func RawResult(statusCode int, body string) Result {
	return Result{StatusCode: statusCode, Body: body}
}

// OK reports whether the status code is a 2xx
func (r Result) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}
