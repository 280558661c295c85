package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const userAgent = "plugsync/1.0"

// FileStore manages loose plugin files under a single plugins directory.
type FileStore struct {
	dir    string
	client *http.Client
}

// NewFileStore creates a file store rooted at dir. A nil client falls back to
// http.DefaultClient.
func NewFileStore(dir string, client *http.Client) *FileStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &FileStore{
		dir:    dir,
		client: client,
	}
}

// Dir returns the plugins directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the on-disk path for a plugin file name.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Download fetches url and writes it to <dir>/<name>, creating the plugins
// directory if needed. It returns the path of the written file.
func (s *FileStore) Download(ctx context.Context, url, name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create plugins directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	target := s.Path(name)
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	return target, nil
}

// Remove deletes <dir>/<name>. A file that is already absent is not an error.
func (s *FileStore) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
