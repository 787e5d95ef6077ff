package github

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// TokenQueryParam is the query parameter carrying the access token in
// AuthQuery mode.
const TokenQueryParam = "access_token"

// queryTokenTransport appends the access token as a query parameter to every
// outgoing request.
type queryTokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *queryTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set(TokenQueryParam, t.token)
	r.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(r)
}

// loggingRoundTripper emits one debug line per request and response
// (including latency).
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *log.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug("github api request", "method", req.Method, "url", redactURL(req))
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		t.logger.Debug("github api error", "url", redactURL(req), "after", dur, "err", err)
		return resp, err
	}
	t.logger.Debug("github api response", "status", resp.StatusCode, "text", http.StatusText(resp.StatusCode), "after", dur)
	return resp, err
}

func redactURL(req *http.Request) string {
	u := *req.URL
	q := u.Query()
	if q.Has(TokenQueryParam) {
		q.Set(TokenQueryParam, "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
