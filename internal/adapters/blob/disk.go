package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore writes files below a single directory.
type DiskStore struct {
	dir string
}

// NewDisk returns a store rooted at dir. The directory is created lazily.
func NewDisk(dir string) *DiskStore {
	return &DiskStore{dir: filepath.Clean(dir)}
}

// Backend reports "disk".
func (d *DiskStore) Backend() string { return BackendDisk }

// Save writes data to dir/name and returns that path.
func (d *DiskStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", ErrInvalidName
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("blob: mkdir %s: %w", d.dir, err)
	}
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // certificates are served as public files
		return "", fmt.Errorf("blob: write %s: %w", path, err)
	}
	return filepath.ToSlash(path), nil
}

// Remove deletes a file previously returned by Save. Missing files are ignored.
func (d *DiskStore) Remove(_ context.Context, path string) error {
	p := filepath.Clean(filepath.FromSlash(path))
	if filepath.Dir(p) != d.dir {
		return ErrForeignPath
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob: remove %s: %w", p, err)
	}
	return nil
}
