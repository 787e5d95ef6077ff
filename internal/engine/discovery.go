package engine

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"
)

type RepositoryRef struct {
	Owner string
	Name  string
	ID    int64
	Repo  *github.Repository // Keep the full object for filtering
}

func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// RepoLister is the listing half of the forge client.
type RepoLister interface {
	ListRepos(ctx context.Context, account string, org bool) ([]*github.Repository, error)
}

// ResolveRepos lists the account's repositories in forge order. The owner
// falls back to account when the payload omits it.
func ResolveRepos(ctx context.Context, lister RepoLister, account string, org bool) ([]RepositoryRef, error) {
	if lister == nil {
		return nil, fmt.Errorf("resolve repos: nil lister")
	}
	repos, err := lister.ListRepos(ctx, account, org)
	if err != nil {
		return nil, err
	}

	refs := make([]RepositoryRef, 0, len(repos))
	for _, repo := range repos {
		if repo == nil || repo.GetName() == "" {
			continue
		}
		owner := repo.GetOwner().GetLogin()
		if owner == "" {
			owner = account
		}
		refs = append(refs, RepositoryRef{
			Owner: owner,
			Name:  repo.GetName(),
			ID:    repo.GetID(),
			Repo:  repo,
		})
	}
	return refs, nil
}
