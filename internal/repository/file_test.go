package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ordinance-map/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name          string
		path          string
		expectError   bool
		expectedCount int
	}{
		{
			name:          "sample document",
			path:          "../../testdata/coordinates.json",
			expectedCount: 2,
		},
		{
			name:          "empty object",
			path:          writeFile("empty.json", `{}`),
			expectedCount: 0,
		},
		{
			name:        "missing file",
			path:        filepath.Join(dir, "missing.json"),
			expectError: true,
		},
		{
			name:        "not a JSON object",
			path:        writeFile("array.json", `[1, 2, 3]`),
			expectError: true,
		},
		{
			name:        "truncated JSON",
			path:        writeFile("truncated.json", `{"ordinance_1": {"zones": `),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(tt.path)

			doc, err := src.Fetch(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, models.ErrDataFetch)
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Len(t, doc.Ordinances, tt.expectedCount)
			}
		})
	}
}

func TestFileSource_FetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource("../../testdata/coordinates.json").Fetch(ctx)
	assert.ErrorIs(t, err, models.ErrDataFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource_Name(t *testing.T) {
	assert.Equal(t, "file:data/coordinates.json", NewFileSource("data/coordinates.json").Name())
}
