package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Output appends Stats rows to a CSV stream. The header is written with the
// first row only.
type Output struct {
	w             io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewOutput writes CSV rows to w.
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// CreateOutput creates (or truncates) the CSV file at path.
// It returns nil, nil when path is empty, which disables output.
func CreateOutput(path string) (*Output, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &Output{w: f, closer: f}, nil
}

// Write appends one stats row. A nil Output discards it.
func (o *Output) Write(s Stats) error {
	if o == nil {
		return nil
	}

	records := []Stats{s}
	if !o.headerWritten {
		if err := gocsv.Marshal(records, o.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, o.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close closes the underlying file, if Output owns one.
func (o *Output) Close() error {
	if o == nil || o.closer == nil {
		return nil
	}
	return o.closer.Close()
}
