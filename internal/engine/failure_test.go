package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gh "depversion/internal/github"
	"depversion/internal/manifest"
)

func TestNewErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantStatus int
	}{
		{name: "api error kept verbatim", err: &gh.APIError{StatusCode: 404, Message: "Not Found"}, wantMsg: "Not Found", wantStatus: 404},
		{name: "wrapped api error", err: fmt.Errorf("fetch: %w", &gh.APIError{StatusCode: 403, Message: "Forbidden"}), wantMsg: "Forbidden", wantStatus: 403},
		{name: "api error without message", err: &gh.APIError{StatusCode: 500}, wantMsg: "GitHub API request failed", wantStatus: 500},
		{name: "decode error", err: &manifest.DecodeError{Stage: "json", Err: errors.New("unexpected end of JSON input")}, wantMsg: "invalid package.json: invalid json: unexpected end of JSON input"},
		{name: "deadline", err: fmt.Errorf("GET x: %w", context.DeadlineExceeded), wantMsg: "request timed out"},
		{name: "canceled", err: context.Canceled, wantMsg: "request canceled"},
		{name: "request prefix scrubbed", err: errors.New("GET /repos/acme/app/contents/package.json: dial tcp: no such host"), wantMsg: "dial tcp: no such host"},
		{name: "plain error", err: errors.New("something odd"), wantMsg: "something odd"},
		{name: "nil error", err: nil, wantMsg: "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newErrorDetail("app", tt.err)
			if got.RepoName != "app" {
				t.Fatalf("RepoName = %q, want app", got.RepoName)
			}
			if got.Message != tt.wantMsg {
				t.Fatalf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
			if got.StatusCode != tt.wantStatus {
				t.Fatalf("StatusCode = %d, want %d", got.StatusCode, tt.wantStatus)
			}
		})
	}
}
