package engine

import (
	"context"
	"errors"
	"strings"

	gh "depversion/internal/github"
	"depversion/internal/manifest"
	"depversion/internal/report"
)

// newErrorDetail attributes err to repo and picks the message users see.
// Forge messages are kept verbatim so benign ones ("Not Found") can be
// recognised downstream.
func newErrorDetail(repo string, err error) report.ErrorDetail {
	detail := report.ErrorDetail{RepoName: repo, Err: err}
	if err == nil {
		detail.Message = "unknown error"
		return detail
	}

	var apiErr *gh.APIError
	if errors.As(err, &apiErr) {
		detail.StatusCode = apiErr.StatusCode
		detail.Message = apiErr.Message
		if detail.Message == "" {
			detail.Message = "GitHub API request failed"
		}
		return detail
	}

	var decodeErr *manifest.DecodeError
	if errors.As(err, &decodeErr) {
		detail.Message = "invalid " + gh.ManifestFile + ": " + decodeErr.Error()
		return detail
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		detail.Message = "request timed out"
		return detail
	case errors.Is(err, context.Canceled):
		detail.Message = "request canceled"
		return detail
	}

	// Fallback: best-effort scrub to avoid printing full request details.
	s := strings.TrimSpace(err.Error())
	if scrubbed := scrubRequestFromErrorString(s); scrubbed != "" {
		detail.Message = scrubbed
		return detail
	}
	if s == "" {
		s = "GitHub API request failed"
	}
	detail.Message = s
	return detail
}

func scrubRequestFromErrorString(s string) string {
	// Typical transport error format:
	//   GET /repos/acme/app/contents/package.json: dial tcp: ...
	// We want to drop the leading "GET <path>: " part.
	methods := []string{"GET ", "POST ", "PUT ", "PATCH ", "DELETE "}
	for _, m := range methods {
		if strings.HasPrefix(s, m) {
			if j := strings.Index(s, ": "); j >= 0 {
				return strings.TrimSpace(s[j+2:])
			}
			break
		}
	}
	return ""
}
