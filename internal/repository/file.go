package repository

import (
	"context"
	"fmt"
	"os"

	"ordinance-map/internal/document"
	"ordinance-map/internal/models"
)

// FileSource reads the ordinance document from a JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a file source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the file. Any failure is a data fetch failure.
func (s *FileSource) Fetch(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repository: %w: %w", models.ErrDataFetch, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to read %s: %w", models.ErrDataFetch, s.path, err)
	}

	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("repository: %w: %w", models.ErrDataFetch, err)
	}
	return doc, nil
}

// Name identifies the source in logs.
func (s *FileSource) Name() string {
	return "file:" + s.path
}
