package imagestore

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Local stores images as files in a directory served by the API.
type Local struct {
	Dir     string
	BaseURL string
}

// NewLocal creates dir if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &Local{Dir: dir, BaseURL: baseURL}, nil
}

// Put writes data to Dir/key. Keys must be plain file names.
func (l *Local) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid image key %q", key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(l.Dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("storing image: %w", err)
	}
	return joinURL(l.BaseURL, key), nil
}

// Delete removes Dir/key.
func (l *Local) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return fmt.Errorf("invalid image key %q", key)
	}
	if err := os.Remove(filepath.Join(l.Dir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

func validKey(key string) bool {
	return key != "" && key != "." && key != ".." && filepath.Base(key) == key
}

// Handler serves the stored files. Mount it behind http.StripPrefix.
func (l *Local) Handler() http.Handler {
	return http.FileServer(http.Dir(l.Dir))
}
