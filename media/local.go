package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend keeps images in a directory served under a URL prefix.
type LocalBackend struct {
	dir     string
	baseURL string
}

// NewLocalBackend creates dir if needed. baseURL is the path the directory
// is served at, e.g. "/uploads/".
func NewLocalBackend(dir, baseURL string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalBackend{dir: dir, baseURL: baseURL}, nil
}

// Dir is the directory holding the images.
func (b *LocalBackend) Dir() string {
	return b.dir
}

func (b *LocalBackend) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid image key %q", key)
	}
	return filepath.Join(b.dir, key), nil
}

func (b *LocalBackend) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func (b *LocalBackend) Get(_ context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (b *LocalBackend) Exists(_ context.Context, key string) (bool, error) {
	p, err := b.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (b *LocalBackend) URL(key string) string {
	return b.baseURL + key
}

func (b *LocalBackend) Key(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, b.baseURL)
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}
