package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ScratchStore keeps a raw copy of each upload. Nothing in the service reads
// the copies back; they exist for manual follow-up.
type ScratchStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// LocalScratch writes uploads under a directory on disk.
type LocalScratch struct {
	dir string
}

// NewLocalScratch creates dir if needed.
func NewLocalScratch(dir string) (*LocalScratch, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	return &LocalScratch{dir: dir}, nil
}

// Save writes data to <dir>/<uuid>_<base name> and returns the path.
func (s *LocalScratch) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, uuid.New().String()+"_"+filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	return path, nil
}
