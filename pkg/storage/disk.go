package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore saves uploads to a local directory and serves them via a public
// base URL (the HTTP layer mounts the directory under that prefix).
type DiskStore struct {
	basePath string
	baseURL  string
}

// NewDiskStore creates the base directory if missing.
func NewDiskStore(basePath, baseURL string) (*DiskStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStore{basePath: basePath, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// BasePath returns the directory uploads are written under.
func (d *DiskStore) BasePath() string {
	return d.basePath
}

// Put writes the object to disk and returns its public URL.
func (d *DiskStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	target, err := d.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return d.baseURL + "/" + key, nil
}

// Delete removes the object; reports false when it was not there.
func (d *DiskStore) Delete(_ context.Context, key string) (bool, error) {
	target, err := d.resolve(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete file: %w", err)
	}
	return true, nil
}

// resolve maps a key to a path under basePath, rejecting traversal.
func (d *DiskStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(d.basePath, filepath.FromSlash(clean)), nil
}
