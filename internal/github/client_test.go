package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestClient(t *testing.T, handler http.Handler, token string, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	c, err := NewClient(context.Background(), token, opts...)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient_NilContextReturnsError(t *testing.T) {
	var nilCtx context.Context
	_, err := NewClient(nilCtx, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "ctx is nil") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClient_UnsupportedAuthMode(t *testing.T) {
	_, err := NewClient(context.Background(), "tok", WithAuthMode("cookie"))
	if err == nil || !strings.Contains(err.Error(), "unsupported auth mode") {
		t.Fatalf("expected unsupported auth mode error, got %v", err)
	}
}

func TestRequest_AppendsTokenAsQueryParam(t *testing.T) {
	var gotQuery, gotAuth, gotUA, gotAccept string
	mux := http.NewServeMux()
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{}`)
	})

	c := newTestClient(t, mux, "s3cret", WithUserAgent("octocat"))
	if _, err := c.Request(context.Background(), http.MethodGet, "rate_limit?per_page=100"); err != nil {
		t.Fatalf("Request: %v", err)
	}

	if !strings.Contains(gotQuery, "access_token=s3cret") {
		t.Fatalf("expected access_token in query, got %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "per_page=100") {
		t.Fatalf("expected existing query to be preserved, got %q", gotQuery)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header in query mode, got %q", gotAuth)
	}
	if gotUA != "octocat" {
		t.Fatalf("User-Agent = %q, want octocat", gotUA)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestRequest_HeaderAuthMode(t *testing.T) {
	var gotQuery, gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{}`)
	})

	c := newTestClient(t, mux, "s3cret", WithAuthMode(AuthHeader))
	if _, err := c.Request(context.Background(), http.MethodGet, "rate_limit"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if strings.Contains(gotQuery, "access_token") {
		t.Fatalf("expected no access_token in header mode, got %q", gotQuery)
	}
	if !strings.Contains(gotAuth, "s3cret") {
		t.Fatalf("expected Authorization header to contain token, got %q", gotAuth)
	}
}

func TestRequest_NoContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, mux, "tok")
	resp, err := c.Request(context.Background(), "", "empty")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !resp.NoContent {
		t.Fatalf("expected NoContent response")
	}
	if resp.Body != nil {
		t.Fatalf("expected nil body, got %q", string(resp.Body))
	}
}

func TestRequest_BodyReturnedAsJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/thing", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"thing"}`)
	})

	c := newTestClient(t, mux, "tok")
	resp, err := c.Request(context.Background(), http.MethodGet, "thing")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if resp.NoContent {
		t.Fatalf("did not expect NoContent")
	}
	if string(resp.Body) != `{"name":"thing"}` {
		t.Fatalf("unexpected body %q", string(resp.Body))
	}
}

func TestRequest_InvalidJSONBodyIsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>oops</html>`)
	})

	c := newTestClient(t, mux, "tok")
	if _, err := c.Request(context.Background(), http.MethodGet, "html"); err == nil {
		t.Fatalf("expected error for non-JSON success body")
	}
}

func TestRequest_NormalizesErrorPayloads(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "flat message", status: 404, body: `{"message":"Not Found","documentation_url":"https://docs"}`, wantMessage: "Not Found"},
		{name: "nested error object", status: 401, body: `{"error":{"message":"Bad credentials"}}`, wantMessage: "Bad credentials"},
		{name: "nested error string", status: 500, body: `{"error":"boom"}`, wantMessage: "boom"},
		{name: "nested error without message", status: 403, body: `{"error":{"code":42}}`, wantMessage: "Forbidden"},
		{name: "non-JSON body", status: 502, body: `<html>bad gateway</html>`, wantMessage: "Bad Gateway"},
		{name: "empty body", status: 409, body: ``, wantMessage: "Conflict"},
		{name: "empty repository", status: 404, body: `{"message":"This repository is empty."}`, wantMessage: "This repository is empty."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			c := newTestClient(t, mux, "tok")
			_, err := c.Request(context.Background(), http.MethodGet, "fail")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T (%v)", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Fatalf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Fatalf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestRequest_NetworkFailureIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient(context.Background(), "tok", WithBaseURL(url))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = c.Request(context.Background(), http.MethodGet, "anything")
	if err == nil {
		t.Fatalf("expected network error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("network failure must not look like an API error: %v", err)
	}
}

func TestRequest_LoggerNeverPrintsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	c := newTestClient(t, mux, "s3cret", WithLogger(logger))

	if _, err := c.Request(context.Background(), http.MethodGet, "rate_limit"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "github api request") || !strings.Contains(out, "github api response") {
		t.Fatalf("expected request and response log lines, got: %q", out)
	}
	if strings.Contains(out, "s3cret") {
		t.Fatalf("token leaked into logs: %q", out)
	}
}

func TestRedactURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://api.github.com/users/x/repos?access_token=s3cret&per_page=100", nil)
	got := redactURL(req)
	if strings.Contains(got, "s3cret") {
		t.Fatalf("token not redacted: %s", got)
	}
	if !strings.Contains(got, "per_page=100") {
		t.Fatalf("expected other params kept: %s", got)
	}
}

func TestRequest_NetworkErrorDoesNotLeakToken(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient(context.Background(), "s3cret", WithBaseURL(url))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = c.Request(context.Background(), http.MethodGet, "anything")
	if err == nil {
		t.Fatalf("expected network error")
	}
	if strings.Contains(err.Error(), "s3cret") {
		t.Fatalf("token leaked into error: %v", err)
	}
}
