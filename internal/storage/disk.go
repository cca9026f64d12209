package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskUploader writes PDFs to a local directory served under /uploads/.
type DiskUploader struct {
	dir string
}

func NewDiskUploader(dir string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskUploader{dir: dir}, nil
}

func (u *DiskUploader) Store(_ context.Context, originalName string, data []byte) (string, error) {
	filename := fmt.Sprintf("pdf-%d%s", time.Now().UnixMilli(), filepath.Ext(originalName))

	if err := os.WriteFile(filepath.Join(u.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return "/uploads/" + filename, nil
}

func (u *DiskUploader) Mode() string {
	return ModeDisk
}

func (u *DiskUploader) Dir() string {
	return u.dir
}
