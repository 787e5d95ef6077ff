package engine

import (
	"path"
	"strings"

	"depversion/internal/config"
)

// FilterRepos applies the targeting policies to the listed repositories,
// preserving order. With default settings every repository is kept.
func FilterRepos(repos []RepositoryRef, t config.Targeting) []RepositoryRef {
	archivedPolicy := strings.TrimSpace(t.Archived)
	if archivedPolicy == "" {
		archivedPolicy = "include"
	}
	forksPolicy := strings.TrimSpace(t.Forks)
	if forksPolicy == "" {
		forksPolicy = "include"
	}

	filtered := make([]RepositoryRef, 0, len(repos))
	for _, r := range repos {
		archived := r.Repo.GetArchived()
		if archivedPolicy == "exclude" && archived {
			continue
		}
		if archivedPolicy == "only" && !archived {
			continue
		}

		fork := r.Repo.GetFork()
		if forksPolicy == "exclude" && fork {
			continue
		}
		if forksPolicy == "only" && !fork {
			continue
		}

		// If Include is set, must match at least one
		if len(t.Include) > 0 && !matchesAnyPattern(t.Include, r.FullName(), r.Name) {
			continue
		}
		// If Exclude is set, must not match any
		if len(t.Exclude) > 0 && matchesAnyPattern(t.Exclude, r.FullName(), r.Name) {
			continue
		}

		filtered = append(filtered, r)
	}

	if t.MaxRepos > 0 && len(filtered) > t.MaxRepos {
		filtered = filtered[:t.MaxRepos]
	}
	return filtered
}

func matchesAnyPattern(patterns []string, fullName, repoName string) bool {
	for _, p := range patterns {
		if matchPattern(p, fullName, repoName) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, fullName, repoName string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	// A pattern with an owner component matches OWNER/REPO; otherwise only the
	// repo name, so "*-service" works for any account.
	if strings.Contains(pattern, "/") {
		matched, _ := path.Match(pattern, fullName)
		return matched
	}
	matched, _ := path.Match(pattern, repoName)
	return matched
}
