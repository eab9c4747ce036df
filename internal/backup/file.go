package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileDestination writes backups as files under Dir.
type FileDestination struct {
	Dir string
}

// Create creates Dir if needed and opens name inside it for writing. The
// returned location is the absolute file path.
func (d FileDestination) Create(ctx context.Context, name string) (io.WriteCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if name == "" || filepath.Base(name) != name {
		return nil, "", fmt.Errorf("invalid backup file name %q", name)
	}

	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve backup path: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create backup file: %w", err)
	}
	return f, path, nil
}
