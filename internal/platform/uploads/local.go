package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore saves uploaded documents to a local directory and hands back
// opaque file ids. The assessment session only ever stores the id.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Store writes the payload under a generated file id. The original filename
// only contributes its extension; the id is what callers keep.
func (s *LocalStore) Store(ctx context.Context, filename string, data []byte) (string, error) {
	fileID := uuid.New().String()
	ext := filepath.Ext(filename)

	path := filepath.Join(s.dir, fileID+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return fileID, nil
}
