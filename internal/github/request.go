package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Response is a successful forge response. NoContent is set for 204 replies,
// in which case Body is nil.
type Response struct {
	StatusCode int
	NoContent  bool
	Body       json.RawMessage
	Header     http.Header
}

// Request performs exactly one HTTP call against the REST API. path is
// resolved against the client's BaseURL. Non-2xx replies are returned as
// *APIError; network failures are wrapped. There are no retries.
func (c *Client) Request(ctx context.Context, method, path string) (*Response, error) {
	if ctx == nil {
		return nil, fmt.Errorf("request: nil context")
	}
	if c == nil || c.Client == nil || c.HTTP == nil {
		return nil, fmt.Errorf("request: nil GitHub client (use NewClient)")
	}
	if method == "" {
		method = http.MethodGet
	}

	req, err := c.Client.NewRequest(method, path, nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// *url.Error quotes the full URL, which carries the token in query mode.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok && resp.StatusCode == http.StatusNoContent {
		return &Response{StatusCode: resp.StatusCode, NoContent: true, Header: resp.Header}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, req.URL.Path, err)
	}

	if !ok {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s %s: response is not valid JSON", method, req.URL.Path)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body, Header: resp.Header}, nil
}
