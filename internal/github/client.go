package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

const (
	AuthQuery  = "query"
	AuthHeader = "header"
)

type Client struct {
	Client *github.Client
	HTTP   *http.Client
}

type options struct {
	logger    *log.Logger
	userAgent string
	authMode  string
	baseURL   string
	base      http.RoundTripper
}

type Option func(*options)

// WithLogger installs a RoundTripper that logs every request and response at
// debug level. The token never appears in logged URLs.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithAuthMode selects how the token is attached: AuthQuery (default) appends
// access_token to the query string, AuthHeader sends an Authorization header.
func WithAuthMode(mode string) Option {
	return func(o *options) {
		o.authMode = mode
	}
}

// WithBaseURL points the client at a different REST API root, e.g. a GitHub
// Enterprise server or a test server.
func WithBaseURL(raw string) Option {
	return func(o *options) {
		o.baseURL = raw
	}
}

// WithTransport replaces http.DefaultTransport as the innermost RoundTripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.base = rt
	}
}

func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{authMode: AuthQuery}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	transport := o.base
	if transport == nil {
		transport = http.DefaultTransport
	}
	if token != "" {
		switch o.authMode {
		case AuthQuery, "":
			transport = &queryTokenTransport{base: transport, token: token}
		case AuthHeader:
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
			transport = &oauth2.Transport{Source: ts, Base: transport}
		default:
			return nil, fmt.Errorf("github client: unsupported auth mode %q", o.authMode)
		}
	}
	// Logging wraps the auth layer so logged URLs are the ones callers built,
	// before the token is attached.
	if o.logger != nil {
		transport = &loggingRoundTripper{base: transport, logger: o.logger}
	}
	tc := &http.Client{Transport: transport}

	client := github.NewClient(tc)
	if o.userAgent != "" {
		client.UserAgent = o.userAgent
	}
	if o.baseURL != "" {
		raw := o.baseURL
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("github client: invalid base URL %q: %w", o.baseURL, err)
		}
		client.BaseURL = u
	}

	return &Client{
		Client: client,
		HTTP:   tc,
	}, nil
}
