package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage persists uploaded media and hands back its public URL.
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Local keeps files under baseDir and serves them from baseURL.
type Local struct {
	baseDir string
	baseURL string
}

func NewLocal(baseDir, baseURL string) *Local {
	return &Local{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (l *Local) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	absPath := filepath.Join(l.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

func (l *Local) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, l.baseURL+"/")
	if !ok || key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(l.baseDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
