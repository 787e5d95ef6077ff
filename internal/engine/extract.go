package engine

import (
	"depversion/internal/manifest"
	"depversion/internal/report"
)

type ExtractOptions struct {
	// Peer also consults peerDependencies, which then wins over the others.
	Peer bool
}

// Extract builds the dependency report from fetched payloads using the
// default options.
func Extract(dep string, successes []ManifestPayload) (report.DependencyReport, []report.ErrorDetail) {
	return ExtractWith(dep, successes, ExtractOptions{})
}

// ExtractWith decodes every payload and records the version range of dep for
// each repository that declares it. Payloads without content are skipped.
// Payloads that fail to decode are returned as failures for their repository
// instead of aborting the run.
func ExtractWith(dep string, successes []ManifestPayload, opts ExtractOptions) (report.DependencyReport, []report.ErrorDetail) {
	out := report.DependencyReport{}
	var failures []report.ErrorDetail

	for _, p := range successes {
		if !p.HasContent() {
			continue
		}
		m, err := manifest.Decode(p.Content)
		if err != nil {
			failures = append(failures, newErrorDetail(p.RepoName, err))
			continue
		}
		if version, ok := m.Lookup(dep, opts.Peer); ok {
			out[p.RepoName] = version
		}
	}
	return out, failures
}
