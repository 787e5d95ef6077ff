package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ManifestFile is the manifest every repository is probed for.
const ManifestFile = "package.json"

// Contents is the subset of the contents API payload the report needs.
// Content is base64 encoded and may be empty for empty files or 204 replies.
type Contents struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
}

// GetManifest fetches package.json from the root of owner/repo. A non-empty
// branch is passed as the ref to read.
func (c *Client) GetManifest(ctx context.Context, owner, repo, branch string) (*Contents, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("get manifest: owner/name is required")
	}
	path := fmt.Sprintf("repos/%s/%s/contents/%s", url.PathEscape(owner), url.PathEscape(repo), ManifestFile)
	if branch != "" {
		path += "?ref=" + url.QueryEscape(branch)
	}

	resp, err := c.Request(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if resp.NoContent {
		return &Contents{}, nil
	}

	var contents Contents
	if err := json.Unmarshal(resp.Body, &contents); err != nil {
		return nil, fmt.Errorf("decode %s contents: %w", ManifestFile, err)
	}
	return &contents, nil
}
