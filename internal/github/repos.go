package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"
)

const listPageSize = 100

// ListRepos returns every repository owned by account, following pagination.
// org selects the organization endpoint instead of the user endpoint.
func (c *Client) ListRepos(ctx context.Context, account string, org bool) ([]*github.Repository, error) {
	if ctx == nil {
		return nil, fmt.Errorf("list repos: nil context")
	}
	if c == nil || c.Client == nil {
		return nil, fmt.Errorf("list repos: nil GitHub client (use NewClient)")
	}
	if account == "" {
		return nil, fmt.Errorf("list repos: account is required")
	}
	if org {
		return c.listOrgRepos(ctx, account)
	}
	return c.listUserRepos(ctx, account)
}

func (c *Client) listOrgRepos(ctx context.Context, org string) ([]*github.Repository, error) {
	var all []*github.Repository

	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}
	for {
		repos, resp, err := c.Client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repos for org %s: %w", org, NormalizeError(err))
		}
		all = append(all, repos...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *Client) listUserRepos(ctx context.Context, user string) ([]*github.Repository, error) {
	var all []*github.Repository

	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}
	for {
		repos, resp, err := c.Client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repos for user %s: %w", user, NormalizeError(err))
		}
		all = append(all, repos...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}
