package output

import (
	"encoding/json"
	"io"

	"depversion/internal/report"
)

// Document is the machine-readable form of a run.
type Document struct {
	Account    string               `json:"account"`
	Dependency string               `json:"dependency"`
	Scanned    int                  `json:"scanned"`
	Results    []DocumentResult     `json:"results"`
	Errors     []report.ErrorDetail `json:"errors"`
}

type DocumentResult struct {
	Repo    string `json:"repo"`
	Version string `json:"version"`
}

// NewDocument lays r out with results sorted by repository and benign
// failures dropped. Both slices are non-nil so they encode as [].
func NewDocument(r report.Result) Document {
	doc := Document{
		Account:    r.Account,
		Dependency: r.Dependency,
		Scanned:    r.Scanned,
		Results:    []DocumentResult{},
		Errors:     []report.ErrorDetail{},
	}
	for _, repo := range r.Report.Repos() {
		doc.Results = append(doc.Results, DocumentResult{Repo: repo, Version: r.Report[repo]})
	}
	doc.Errors = append(doc.Errors, report.Reportable(r.Failures)...)
	return doc
}

func writeDocument(w io.Writer, r report.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewDocument(r)); err != nil {
		return err
	}
	return flushIfPossible(w)
}

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}
