package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v81/github"
)

// APIError is the uniform failure shape for a non-2xx forge response.
type APIError struct {
	StatusCode int
	// Message is the effective error message: the body's "message" field,
	// after unwrapping one level of nested "error", or the status text.
	Message string
	Body    []byte
	Err     error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// parseAPIError turns a failed response body into an APIError. Forges that
// wrap the payload as {"error": {...}} or {"error": "..."} are unwrapped one
// level before the message is read.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil && payload != nil {
		effective := payload
		switch nested := payload["error"].(type) {
		case map[string]any:
			effective = nested
		case string:
			e.Message = strings.TrimSpace(nested)
		}
		if e.Message == "" {
			if msg, ok := effective["message"].(string); ok {
				e.Message = strings.TrimSpace(msg)
			}
		}
	}

	if e.Message == "" {
		e.Message = defaultMessage(status)
	}
	return e
}

func defaultMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// NormalizeError maps go-github error types onto APIError so callers see one
// failure shape regardless of which client path produced it. Other errors are
// returned unchanged, except *url.Error, whose URL may carry the token.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return &APIError{StatusCode: statusOf(rle.Response), Message: messageOr(rle.Message, rle.Response), Err: err}
	}
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return &APIError{StatusCode: statusOf(abuse.Response), Message: messageOr(abuse.Message, abuse.Response), Err: err}
	}
	var er *github.ErrorResponse
	if errors.As(err, &er) {
		return &APIError{StatusCode: statusOf(er.Response), Message: messageOr(er.Message, er.Response), Err: err}
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func messageOr(msg string, resp *http.Response) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	if resp != nil {
		return defaultMessage(resp.StatusCode)
	}
	return "GitHub API request failed"
}
