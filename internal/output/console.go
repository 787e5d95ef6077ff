package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"depversion/internal/report"

	"github.com/fatih/color"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	resultsHeading  = color.New(color.FgGreen, color.Bold)
	emptyHeading    = color.New(color.FgYellow, color.Bold)
	failuresHeading = color.New(color.FgRed, color.Bold)
)

// ConsoleSink renders the report for a terminal, or as one JSON document.
type ConsoleSink struct {
	writer io.Writer
	format string
	mu     sync.Mutex
}

func NewConsoleSink(w io.Writer, format string) (*ConsoleSink, error) {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("unsupported console format: %s", format)
	}
	return &ConsoleSink{writer: w, format: format}, nil
}

func (s *ConsoleSink) Write(r report.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == FormatJSON {
		return writeDocument(s.writer, r)
	}
	if err := writeText(s.writer, r); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

func (s *ConsoleSink) Close() error { return nil }

func writeText(w io.Writer, r report.Result) error {
	if len(r.Report) == 0 {
		if _, err := emptyHeading.Fprintf(w, "No %s repos found dependent on %s\n", r.Account, r.Dependency); err != nil {
			return err
		}
	} else {
		if _, err := resultsHeading.Fprintf(w, "Results for %s repos dependent on %s\n", r.Account, r.Dependency); err != nil {
			return err
		}
		rows := make([][]string, 0, len(r.Report))
		for _, repo := range r.Report.Repos() {
			rows = append(rows, []string{repo, r.Report[repo]})
		}
		if _, err := fmt.Fprintln(w, renderTable([]string{"repo", "dependency version"}, rows)); err != nil {
			return err
		}
	}

	failures := report.Reportable(r.Failures)
	if len(failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if _, err := failuresHeading.Fprintln(w, "Unable to retrieve information for following repos"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.RepoName, f.Message})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"repo", "error"}, rows))
	return err
}
