package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"depversion/internal/report"
)

// FileSink writes the JSON document to path when closed. The file is created
// up front so an unwritable path fails before any network work.
type FileSink struct {
	path   string
	file   *os.File
	mu     sync.Mutex
	result *report.Result
}

func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &FileSink{path: path, file: f}, nil
}

func (s *FileSink) Write(r report.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &r
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.result != nil {
		err = writeDocument(s.file, *s.result)
	}
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
