package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"schoolcal-api/domain"
)

// FileSource serves events from a static events.json snapshot. It is the
// fallback when the event table is unreachable and doubles as the sole
// source in local development.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource reading from the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchEvents reads and decodes the snapshot. The file is re-read on every
// call so a pipeline rewriting it is picked up without a restart.
func (f *FileSource) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}
	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode events file %s: %w", f.path, err)
	}
	return events, nil
}
