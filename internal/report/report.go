package report

import "sort"

// DependencyReport maps a repository name to the version range it declares.
// Absence means the repository does not declare the dependency (or failed;
// see Result.Failures).
type DependencyReport map[string]string

// Repos returns the report keys sorted by name.
func (r DependencyReport) Repos() []string {
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ErrorDetail attributes one failure to the repository whose call produced it.
type ErrorDetail struct {
	RepoName   string `json:"repo"`
	Message    string `json:"error"`
	StatusCode int    `json:"status,omitempty"`
	// Err is the underlying error, kept for verbose diagnostics.
	Err error `json:"-"`
}

// Messages that mean "nothing to look at" rather than an operational failure.
const (
	MessageNotFound        = "Not Found"
	MessageEmptyRepository = "This repository is empty."
)

// IsBenign reports whether the failure is an expected absence (missing
// package.json, empty repository).
func (e ErrorDetail) IsBenign() bool {
	return e.Message == MessageNotFound || e.Message == MessageEmptyRepository
}

// Reportable drops benign failures, preserving order.
func Reportable(failures []ErrorDetail) []ErrorDetail {
	var out []ErrorDetail
	for _, f := range failures {
		if f.IsBenign() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Result is everything a run produced, handed to output sinks once.
type Result struct {
	Account    string
	Dependency string
	Report     DependencyReport
	// Failures holds every per-repository failure, benign ones included.
	Failures []ErrorDetail
	// Scanned is how many repositories were inspected.
	Scanned int
}
