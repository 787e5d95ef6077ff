package engine

import (
	"context"
	"fmt"
	"strings"

	gh "depversion/internal/github"
	"depversion/internal/report"
)

// ManifestFetcher is the per-repository half of the forge client.
type ManifestFetcher interface {
	GetManifest(ctx context.Context, owner, repo, branch string) (*gh.Contents, error)
}

// ManifestPayload is a fetched, still-encoded package.json.
type ManifestPayload struct {
	RepoName string
	Content  string
}

// HasContent reports whether there is anything to decode. Empty files and
// 204 replies carry no content.
func (p ManifestPayload) HasContent() bool {
	return strings.TrimSpace(p.Content) != ""
}

// Aggregation partitions fetch outcomes. Every input repository lands in
// exactly one of the two slices, in input order.
type Aggregation struct {
	Successes []ManifestPayload
	Failures  []report.ErrorDetail
}

// Aggregator fetches package.json for many repositories concurrently.
type Aggregator struct {
	fetcher     ManifestFetcher
	branch      string
	concurrency int
}

func NewAggregator(f ManifestFetcher, branch string, concurrency int) (*Aggregator, error) {
	if f == nil {
		return nil, fmt.Errorf("aggregator: nil fetcher")
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("aggregator: concurrency must be >= 1 (got %d)", concurrency)
	}
	return &Aggregator{fetcher: f, branch: branch, concurrency: concurrency}, nil
}

// Aggregate issues one manifest fetch per repository and waits for all of
// them. A failing fetch is recorded against its repository and never aborts
// the others.
func (a *Aggregator) Aggregate(ctx context.Context, repos []RepositoryRef) Aggregation {
	keys := make([]string, len(repos))
	for i, r := range repos {
		keys[i] = r.Name
	}

	outcomes := SettleAll(ctx, keys, a.concurrency, func(ctx context.Context, i int) (*gh.Contents, error) {
		r := repos[i]
		return a.fetcher.GetManifest(ctx, r.Owner, r.Name, a.branch)
	})

	var agg Aggregation
	for _, o := range outcomes {
		if !o.OK() {
			agg.Failures = append(agg.Failures, newErrorDetail(o.Key, o.Err))
			continue
		}
		payload := ManifestPayload{RepoName: o.Key}
		if o.Value != nil {
			payload.Content = o.Value.Content
		}
		agg.Successes = append(agg.Successes, payload)
	}
	return agg
}
